package identity

import (
	"context"
	"errors"
	"fmt"

	"vriksh/internal/apperrors"
	"vriksh/internal/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// LocalProvider stores credentials in the service's own database.
type LocalProvider struct {
	db   *gorm.DB
	cost int
}

// NewLocalProvider creates a LocalProvider using bcrypt.DefaultCost.
func NewLocalProvider(db *gorm.DB) *LocalProvider {
	return &LocalProvider{db: db, cost: bcrypt.DefaultCost}
}

// WithCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (p *LocalProvider) WithCost(cost int) *LocalProvider {
	p.cost = cost
	return p
}

// SignUp creates the credential and the profile in one transaction.
func (p *LocalProvider) SignUp(ctx context.Context, email, password, name string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	id := uuid.New().String()
	err = p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Credential{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrIdentityExists
		}
		if err := tx.Create(&models.Credential{ID: id, Email: email, PasswordHash: string(hash)}).Error; err != nil {
			return err
		}
		return tx.Create(&models.User{ID: id, Email: email, Name: name}).Error
	})
	switch {
	case err == nil:
		return id, nil
	case errors.Is(err, ErrIdentityExists), errors.Is(err, gorm.ErrDuplicatedKey):
		return "", ErrIdentityExists
	default:
		return "", apperrors.DataService("failed to create account", err)
	}
}

// SignIn checks the password against the stored hash.
func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (string, error) {
	var cred models.Credential
	if err := p.db.WithContext(ctx).First(&cred, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", apperrors.DataService("failed to load credentials", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return cred.ID, nil
}
