package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vriksh/internal/apperrors"
	"vriksh/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNoRowsAffected is returned when a write finds its plant row gone, usually
// deleted between the caller's ownership check and the write.
var ErrNoRowsAffected = errors.New("no rows affected")

// GORMPlantRepository is a GORM implementation of PlantRepository.
type GORMPlantRepository struct {
	db *gorm.DB
}

// NewGORMPlantRepository creates a new instance of GORMPlantRepository.
func NewGORMPlantRepository(db *gorm.DB) *GORMPlantRepository {
	return &GORMPlantRepository{
		db: db,
	}
}

// GetAllByUser retrieves a user's plants, most recently added first.
func (r *GORMPlantRepository) GetAllByUser(ctx context.Context, userID string) ([]models.Plant, error) {
	plants := make([]models.Plant, 0)
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("added_date DESC").
		Find(&plants).Error
	if err != nil {
		return nil, apperrors.DataService("failed to get plants", err)
	}
	return plants, nil
}

// GetByIDForUser retrieves a plant only if it belongs to userID.
func (r *GORMPlantRepository) GetByIDForUser(ctx context.Context, id, userID string) (*models.Plant, error) {
	var plant models.Plant
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&plant).Error
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, apperrors.DataService(fmt.Sprintf("failed to get plant by ID %s", id), err)
	}
	return &plant, nil
}

// Create inserts a new plant, assigning an ID when none is set.
func (r *GORMPlantRepository) Create(ctx context.Context, plant *models.Plant) error {
	if plant.ID == "" {
		plant.ID = uuid.New().String()
	}
	if plant.AddedDate.IsZero() {
		plant.AddedDate = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(plant).Error; err != nil {
		return apperrors.DataService("failed to create plant", err)
	}
	return nil
}

// Update writes only the given columns.
func (r *GORMPlantRepository) Update(ctx context.Context, id string, columns map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&models.Plant{}).
		Where("id = ?", id).
		Updates(columns)
	if res.Error != nil {
		return apperrors.DataService("failed to update plant", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.DataService(fmt.Sprintf("plant with ID %s vanished before update", id), ErrNoRowsAffected)
	}
	return nil
}

// Delete removes a plant and its health checks in one transaction.
func (r *GORMPlantRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("plant_id = ?", id).Delete(&models.HealthCheck{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Plant{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNoRowsAffected
		}
		return nil
	})
	if err != nil {
		return apperrors.DataService(fmt.Sprintf("failed to delete plant %s", id), err)
	}
	return nil
}

// GORMHealthCheckRepository is a GORM implementation of HealthCheckRepository.
type GORMHealthCheckRepository struct {
	db *gorm.DB
}

// NewGORMHealthCheckRepository creates a new instance of GORMHealthCheckRepository.
func NewGORMHealthCheckRepository(db *gorm.DB) *GORMHealthCheckRepository {
	return &GORMHealthCheckRepository{db: db}
}

// Record stores a diagnosis and sets the plant's health status to match, in
// one transaction. A missing plant rolls the check back.
func (r *GORMHealthCheckRepository) Record(ctx context.Context, check *models.HealthCheck, status models.HealthStatus) error {
	if check.ID == "" {
		check.ID = uuid.New().String()
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(check).Error; err != nil {
			return err
		}
		res := tx.Model(&models.Plant{}).
			Where("id = ?", check.PlantID).
			Update("health_status", status)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNoRowsAffected
		}
		return nil
	})
	if err != nil {
		return apperrors.DataService("failed to save health check", err)
	}
	return nil
}

// ListByPlant returns the newest checks for a plant.
func (r *GORMHealthCheckRepository) ListByPlant(ctx context.Context, plantID string, limit int) ([]models.HealthCheck, error) {
	checks := make([]models.HealthCheck, 0)
	err := r.db.WithContext(ctx).
		Where("plant_id = ?", plantID).
		Order("created_at DESC").
		Limit(limit).
		Find(&checks).Error
	if err != nil {
		return nil, apperrors.DataService("failed to fetch health history", err)
	}
	return checks, nil
}
