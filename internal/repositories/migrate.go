package repositories

import (
	"vriksh/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the tables this service owns.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Credential{}, &models.Plant{}, &models.HealthCheck{})
}
