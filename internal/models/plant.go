package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// HealthStatus is the coarse health of a plant.
type HealthStatus string

const (
	HealthHealthy  HealthStatus = "healthy"
	HealthWarning  HealthStatus = "warning"
	HealthCritical HealthStatus = "critical"
)

// DefaultWateringFrequencyDays applies when a watering date is known but no
// frequency was ever given.
const DefaultWateringFrequencyDays = 7

// Valid reports whether s is one of the known statuses.
func (s HealthStatus) Valid() bool {
	switch s {
	case HealthHealthy, HealthWarning, HealthCritical:
		return true
	}
	return false
}

// Plant is a plant in a user's collection (Mera Vana).
type Plant struct {
	ID                    string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID                string         `json:"user_id" gorm:"type:varchar(36);not null;index"`
	Name                  string         `json:"name" gorm:"type:varchar(255);not null"`
	Species               string         `json:"species" gorm:"type:varchar(255);not null"`
	ScientificName        string         `json:"scientific_name" gorm:"type:varchar(255)"`
	SanskritName          *string        `json:"sanskrit_name"`
	Family                *string        `json:"family"`
	ImageURL              *string        `json:"image_url"`
	AddedDate             time.Time      `json:"added_date" gorm:"not null;index"`
	LastWatered           *time.Time     `json:"last_watered"`
	WateringFrequencyDays *int           `json:"watering_frequency_days"`
	NextWateringDue       *time.Time     `json:"next_watering_due"`
	CareSchedule          datatypes.JSON `json:"care_schedule"`
	HealthStatus          HealthStatus   `json:"health_status" gorm:"type:varchar(16);not null;default:healthy"`
	Notes                 *string        `json:"notes"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
	HealthChecks          []HealthCheck  `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
}

// NextWateringDue returns the UTC date frequencyDays after lastWatered.
func NextWateringDue(lastWatered time.Time, frequencyDays int) time.Time {
	due := lastWatered.UTC().AddDate(0, 0, frequencyDays)
	return time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
}

// PlantInput is the body of a create request. It has no owner fields;
// the owner always comes from the verified token.
type PlantInput struct {
	Name                  string         `json:"name" validate:"required,max=255"`
	Species               string         `json:"species" validate:"required,max=255"`
	ScientificName        string         `json:"scientific_name" validate:"omitempty,max=255"`
	SanskritName          *string        `json:"sanskrit_name"`
	Family                *string        `json:"family"`
	ImageURL              *string        `json:"image_url"`
	CareSchedule          datatypes.JSON `json:"care_schedule"`
	HealthStatus          HealthStatus   `json:"health_status" validate:"omitempty,oneof=healthy warning critical"`
	Notes                 *string        `json:"notes"`
	LastWatered           *time.Time     `json:"last_watered"`
	WateringFrequencyDays *int           `json:"watering_frequency_days" validate:"omitempty,min=1"`
}

// Normalize trims the required text fields.
func (in *PlantInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Species = strings.TrimSpace(in.Species)
	in.ScientificName = strings.TrimSpace(in.ScientificName)
}

// PlantUpdate is a partial update. Nil fields are left untouched.
type PlantUpdate struct {
	Name                  *string        `json:"name" validate:"omitnil,max=255"`
	Species               *string        `json:"species" validate:"omitnil,max=255"`
	ScientificName        *string        `json:"scientific_name" validate:"omitempty,max=255"`
	SanskritName          *string        `json:"sanskrit_name"`
	Family                *string        `json:"family"`
	ImageURL              *string        `json:"image_url"`
	CareSchedule          datatypes.JSON `json:"care_schedule"`
	HealthStatus          *HealthStatus  `json:"health_status" validate:"omitempty,oneof=healthy warning critical"`
	Notes                 *string        `json:"notes"`
	LastWatered           *time.Time     `json:"last_watered"`
	WateringFrequencyDays *int           `json:"watering_frequency_days" validate:"omitempty,min=1"`
}

func (u *PlantUpdate) hasCareSchedule() bool {
	return len(u.CareSchedule) > 0 && string(u.CareSchedule) != "null"
}

// IsEmpty reports whether no updatable field was supplied.
func (u *PlantUpdate) IsEmpty() bool {
	return len(u.Columns()) == 0
}

// Columns returns the supplied fields keyed by column name.
func (u *PlantUpdate) Columns() map[string]any {
	cols := make(map[string]any)
	if u.Name != nil {
		cols["name"] = strings.TrimSpace(*u.Name)
	}
	if u.Species != nil {
		cols["species"] = strings.TrimSpace(*u.Species)
	}
	if u.ScientificName != nil {
		cols["scientific_name"] = strings.TrimSpace(*u.ScientificName)
	}
	if u.SanskritName != nil {
		cols["sanskrit_name"] = *u.SanskritName
	}
	if u.Family != nil {
		cols["family"] = *u.Family
	}
	if u.ImageURL != nil {
		cols["image_url"] = *u.ImageURL
	}
	if u.hasCareSchedule() {
		cols["care_schedule"] = u.CareSchedule
	}
	if u.HealthStatus != nil {
		cols["health_status"] = *u.HealthStatus
	}
	if u.Notes != nil {
		cols["notes"] = *u.Notes
	}
	if u.LastWatered != nil {
		cols["last_watered"] = u.LastWatered.UTC()
	}
	if u.WateringFrequencyDays != nil {
		cols["watering_frequency_days"] = *u.WateringFrequencyDays
	}
	return cols
}
