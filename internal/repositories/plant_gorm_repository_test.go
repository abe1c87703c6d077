package repositories_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"vriksh/internal/apperrors"
	"vriksh/internal/models"
	"vriksh/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, repositories.AutoMigrate(db))
	return db
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return db, mock
}

func TestGORMPlantRepository_CreateAndList(t *testing.T) {
	db := newSQLiteDB(t)
	repo := repositories.NewGORMPlantRepository(db)
	ctx := context.Background()

	older := &models.Plant{UserID: "u1", Name: "Tulsi", Species: "Ocimum", AddedDate: time.Now().UTC().Add(-time.Hour)}
	newer := &models.Plant{UserID: "u1", Name: "Neem", Species: "Azadirachta"}
	other := &models.Plant{UserID: "u2", Name: "Aloe", Species: "Aloe vera"}
	for _, p := range []*models.Plant{older, newer, other} {
		require.NoError(t, repo.Create(ctx, p))
		assert.NotEmpty(t, p.ID)
	}

	plants, err := repo.GetAllByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, plants, 2)
	assert.Equal(t, newer.ID, plants[0].ID)
	assert.Equal(t, older.ID, plants[1].ID)
	assert.Equal(t, models.HealthHealthy, plants[0].HealthStatus)

	none, err := repo.GetAllByUser(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestGORMPlantRepository_GetByIDForUser(t *testing.T) {
	db := newSQLiteDB(t)
	repo := repositories.NewGORMPlantRepository(db)
	ctx := context.Background()

	plant := &models.Plant{UserID: "owner", Name: "Tulsi", Species: "Ocimum"}
	require.NoError(t, repo.Create(ctx, plant))

	got, err := repo.GetByIDForUser(ctx, plant.ID, "owner")
	require.NoError(t, err)
	assert.Equal(t, "Tulsi", got.Name)

	_, err = repo.GetByIDForUser(ctx, plant.ID, "intruder")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	_, err = repo.GetByIDForUser(ctx, "missing", "owner")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestGORMPlantRepository_Update(t *testing.T) {
	db := newSQLiteDB(t)
	repo := repositories.NewGORMPlantRepository(db)
	ctx := context.Background()

	plant := &models.Plant{UserID: "owner", Name: "Tulsi", Species: "Ocimum"}
	require.NoError(t, repo.Create(ctx, plant))

	require.NoError(t, repo.Update(ctx, plant.ID, map[string]any{"name": "Holy Basil", "health_status": models.HealthWarning}))

	got, err := repo.GetByIDForUser(ctx, plant.ID, "owner")
	require.NoError(t, err)
	assert.Equal(t, "Holy Basil", got.Name)
	assert.Equal(t, "Ocimum", got.Species)
	assert.Equal(t, models.HealthWarning, got.HealthStatus)

	err = repo.Update(ctx, "missing", map[string]any{"name": "x"})
	assert.True(t, apperrors.Is(err, apperrors.KindDataService))
}

func TestGORMPlantRepository_DeleteRemovesHealthChecks(t *testing.T) {
	db := newSQLiteDB(t)
	plants := repositories.NewGORMPlantRepository(db)
	checks := repositories.NewGORMHealthCheckRepository(db)
	ctx := context.Background()

	plant := &models.Plant{UserID: "owner", Name: "Tulsi", Species: "Ocimum"}
	require.NoError(t, plants.Create(ctx, plant))
	require.NoError(t, checks.Record(ctx, &models.HealthCheck{PlantID: plant.ID, Diagnosis: "Root rot", Severity: models.HealthCritical}, models.HealthCritical))
	require.NoError(t, checks.Record(ctx, &models.HealthCheck{PlantID: plant.ID, Diagnosis: "Recovering", Severity: models.HealthWarning}, models.HealthWarning))

	history, err := checks.ListByPlant(ctx, plant.ID, 10)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	require.NoError(t, plants.Delete(ctx, plant.ID))

	_, err = plants.GetByIDForUser(ctx, plant.ID, "owner")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	var remaining int64
	require.NoError(t, db.Model(&models.HealthCheck{}).Where("plant_id = ?", plant.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)

	err = plants.Delete(ctx, plant.ID)
	assert.True(t, apperrors.Is(err, apperrors.KindDataService))
}

func TestGORMHealthCheckRepository_RecordSetsStatus(t *testing.T) {
	db := newSQLiteDB(t)
	plants := repositories.NewGORMPlantRepository(db)
	checks := repositories.NewGORMHealthCheckRepository(db)
	ctx := context.Background()

	plant := &models.Plant{UserID: "owner", Name: "Tulsi", Species: "Ocimum"}
	require.NoError(t, plants.Create(ctx, plant))

	check := &models.HealthCheck{PlantID: plant.ID, Diagnosis: "Leaf spot", Severity: models.HealthCritical}
	require.NoError(t, checks.Record(ctx, check, models.HealthCritical))
	assert.NotEmpty(t, check.ID)

	got, err := plants.GetByIDForUser(ctx, plant.ID, "owner")
	require.NoError(t, err)
	assert.Equal(t, models.HealthCritical, got.HealthStatus)
}

func TestGORMHealthCheckRepository_RecordRollsBack(t *testing.T) {
	db := newSQLiteDB(t)
	checks := repositories.NewGORMHealthCheckRepository(db)
	ctx := context.Background()

	// No plant row: the status update touches nothing and the insert must not survive.
	err := checks.Record(ctx, &models.HealthCheck{PlantID: "gone", Diagnosis: "Leaf spot", Severity: models.HealthWarning}, models.HealthWarning)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindDataService))

	history, err := checks.ListByPlant(ctx, "gone", 10)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestGORMPlantRepository_StoreUnavailable(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repositories.NewGORMPlantRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT").WillReturnError(errors.New("connection refused"))
	_, err := repo.GetByIDForUser(ctx, "p1", "u1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, repositories.ErrNotFound)
	assert.True(t, apperrors.Is(err, apperrors.KindDataService))

	mock.ExpectQuery("SELECT").WillReturnError(errors.New("connection refused"))
	_, err = repo.GetAllByUser(ctx, "u1")
	assert.True(t, apperrors.Is(err, apperrors.KindDataService))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGORMPlantRepository_NoRowsIsNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repositories.NewGORMPlantRepository(db)

	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name"}))
	_, err := repo.GetByIDForUser(context.Background(), "p1", "u1")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
