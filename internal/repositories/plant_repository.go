package repositories

import (
	"context"

	"vriksh/internal/models"
)

// PlantRepository defines the interface for plant data access. It performs no
// ownership checks of its own; PlantService does.
type PlantRepository interface {
	GetAllByUser(ctx context.Context, userID string) ([]models.Plant, error)
	GetByIDForUser(ctx context.Context, id, userID string) (*models.Plant, error)
	Create(ctx context.Context, plant *models.Plant) error
	Update(ctx context.Context, id string, columns map[string]any) error
	Delete(ctx context.Context, id string) error
}

// HealthCheckRepository defines the interface for diagnosis history access.
type HealthCheckRepository interface {
	Record(ctx context.Context, check *models.HealthCheck, status models.HealthStatus) error
	ListByPlant(ctx context.Context, plantID string, limit int) ([]models.HealthCheck, error)
}
