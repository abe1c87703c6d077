package repositories

import (
	"context"

	"vriksh/internal/models"
)

// UserRepository defines the interface for user profile access.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}
