package identity_test

import (
	"context"
	"fmt"
	"testing"

	"vriksh/internal/identity"
	"vriksh/internal/models"
	"vriksh/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newLocalProvider(t *testing.T) (*identity.LocalProvider, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, repositories.AutoMigrate(db))
	return identity.NewLocalProvider(db).WithCost(bcrypt.MinCost), db
}

func TestLocalProvider_SignUpCreatesProfile(t *testing.T) {
	p, db := newLocalProvider(t)
	ctx := context.Background()

	id, err := p.SignUp(ctx, "asha@example.com", "secret123", "Asha")
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	var user models.User
	require.NoError(t, db.First(&user, "id = ?", id).Error)
	assert.Equal(t, "asha@example.com", user.Email)
	assert.Equal(t, "Asha", user.Name)

	var cred models.Credential
	require.NoError(t, db.First(&cred, "id = ?", id).Error)
	assert.NotEqual(t, "secret123", cred.PasswordHash)
}

func TestLocalProvider_DuplicateEmail(t *testing.T) {
	p, db := newLocalProvider(t)
	ctx := context.Background()

	_, err := p.SignUp(ctx, "asha@example.com", "secret123", "Asha")
	require.NoError(t, err)

	_, err = p.SignUp(ctx, "asha@example.com", "another1", "Asha Two")
	assert.ErrorIs(t, err, identity.ErrIdentityExists)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestLocalProvider_SignIn(t *testing.T) {
	p, _ := newLocalProvider(t)
	ctx := context.Background()

	id, err := p.SignUp(ctx, "asha@example.com", "secret123", "Asha")
	require.NoError(t, err)

	got, err := p.SignIn(ctx, "asha@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = p.SignIn(ctx, "asha@example.com", "wrong-password")
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)

	_, err = p.SignIn(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
}
