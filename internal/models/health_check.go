package models

import (
	"time"

	"gorm.io/datatypes"
)

// HealthCheck is one stored diagnosis (Chikitsa) for a plant. Rows go away
// with their plant.
type HealthCheck struct {
	ID         string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	PlantID    string         `json:"plant_id" gorm:"type:varchar(36);not null;index"`
	Diagnosis  string         `json:"diagnosis"`
	Severity   HealthStatus   `json:"severity" gorm:"type:varchar(16)"`
	Confidence float64        `json:"confidence"`
	Symptoms   datatypes.JSON `json:"symptoms"`
	Treatment  datatypes.JSON `json:"treatment"`
	Prevention datatypes.JSON `json:"prevention"`
	ImageURL   *string        `json:"image_url"`
	CreatedAt  time.Time      `json:"created_at" gorm:"index"`
}
