package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"vriksh/internal/apperrors"
	"vriksh/internal/models"
	"vriksh/internal/repositories"

	"github.com/rs/zerolog"
)

// ErrPlantNotFound covers both absent plants and plants owned by someone else.
var ErrPlantNotFound = apperrors.NotFound("Plant not found")

var plantMessages = fieldMessages{
	"Name":                  "Plant name is required",
	"Species":               "Plant species is required",
	"ScientificName":        "Scientific name is too long",
	"HealthStatus":          "health_status must be one of healthy, warning, critical",
	"WateringFrequencyDays": "watering_frequency_days must be at least 1",
}

// PlantService implements the caller-scoped plant collection (Mera Vana).
type PlantService struct {
	plants    repositories.PlantRepository
	publisher EventPublisher
	now       func() time.Time
	log       zerolog.Logger
}

// NewPlantService creates a new PlantService. publisher may be nil.
func NewPlantService(plants repositories.PlantRepository, publisher EventPublisher, log zerolog.Logger) *PlantService {
	return &PlantService{
		plants:    plants,
		publisher: publisher,
		now:       time.Now,
		log:       log.With().Str("component", "vana").Logger(),
	}
}

// Create adds a plant owned by callerID and returns its id.
func (s *PlantService) Create(ctx context.Context, callerID string, in models.PlantInput) (string, error) {
	in.Normalize()
	if err := validateStruct(in, plantMessages, "Invalid plant"); err != nil {
		return "", err
	}

	plant := &models.Plant{
		UserID:         callerID,
		Name:           in.Name,
		Species:        in.Species,
		ScientificName: in.ScientificName,
		SanskritName:   in.SanskritName,
		Family:         in.Family,
		ImageURL:       in.ImageURL,
		CareSchedule:   in.CareSchedule,
		HealthStatus:   in.HealthStatus,
		Notes:          in.Notes,
		AddedDate:      s.now().UTC(),
	}
	if plant.HealthStatus == "" {
		plant.HealthStatus = models.HealthHealthy
	}
	if in.LastWatered != nil {
		lw := in.LastWatered.UTC()
		plant.LastWatered = &lw
	}
	plant.WateringFrequencyDays = in.WateringFrequencyDays
	deriveNextWatering(plant)

	if err := s.plants.Create(ctx, plant); err != nil {
		s.log.Error().Err(err).Str("user_id", callerID).Msg("failed to add plant")
		return "", err
	}

	s.log.Info().Str("user_id", callerID).Str("plant_id", plant.ID).Msg("plant added")
	publish(ctx, s.publisher, s.log, EventPlantCreated, PlantEvent{PlantID: plant.ID, UserID: callerID})
	return plant.ID, nil
}

// ListForUser returns the caller's plants, newest first.
func (s *PlantService) ListForUser(ctx context.Context, callerID string) ([]models.Plant, error) {
	plants, err := s.plants.GetAllByUser(ctx, callerID)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", callerID).Msg("failed to list plants")
		return nil, err
	}
	return plants, nil
}

// Get returns one of the caller's plants.
func (s *PlantService) Get(ctx context.Context, callerID, plantID string) (*models.Plant, error) {
	return s.ownedPlant(ctx, callerID, plantID)
}

// Update applies a partial update to one of the caller's plants.
func (s *PlantService) Update(ctx context.Context, callerID, plantID string, in models.PlantUpdate) error {
	if in.IsEmpty() {
		return apperrors.Validation("No fields to update")
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return apperrors.Validation("Plant name is required")
	}
	if in.Species != nil && strings.TrimSpace(*in.Species) == "" {
		return apperrors.Validation("Plant species is required")
	}
	if err := validateStruct(in, plantMessages, "Invalid plant update"); err != nil {
		return err
	}

	plant, err := s.ownedPlant(ctx, callerID, plantID)
	if err != nil {
		return err
	}

	columns := in.Columns()
	if in.LastWatered != nil || in.WateringFrequencyDays != nil {
		if in.LastWatered != nil {
			lw := in.LastWatered.UTC()
			plant.LastWatered = &lw
		}
		if in.WateringFrequencyDays != nil {
			plant.WateringFrequencyDays = in.WateringFrequencyDays
		}
		deriveNextWatering(plant)
		if plant.NextWateringDue != nil {
			columns["next_watering_due"] = *plant.NextWateringDue
		}
		if in.WateringFrequencyDays == nil && plant.WateringFrequencyDays != nil {
			columns["watering_frequency_days"] = *plant.WateringFrequencyDays
		}
	}

	if err := s.plants.Update(ctx, plant.ID, columns); err != nil {
		s.log.Error().Err(err).Str("user_id", callerID).Str("plant_id", plantID).Msg("failed to update plant")
		return err
	}

	s.log.Info().Str("user_id", callerID).Str("plant_id", plantID).Msg("plant updated")
	publish(ctx, s.publisher, s.log, EventPlantUpdated, PlantEvent{PlantID: plantID, UserID: callerID})
	return nil
}

// Delete removes one of the caller's plants with its health checks.
func (s *PlantService) Delete(ctx context.Context, callerID, plantID string) error {
	plant, err := s.ownedPlant(ctx, callerID, plantID)
	if err != nil {
		return err
	}
	if err := s.plants.Delete(ctx, plant.ID); err != nil {
		s.log.Error().Err(err).Str("user_id", callerID).Str("plant_id", plantID).Msg("failed to delete plant")
		return err
	}

	s.log.Info().Str("user_id", callerID).Str("plant_id", plantID).Msg("plant removed")
	publish(ctx, s.publisher, s.log, EventPlantDeleted, PlantEvent{PlantID: plantID, UserID: callerID})
	return nil
}

// ownedPlant loads a plant with a single id+owner query. A foreign plant is
// reported as not found.
func (s *PlantService) ownedPlant(ctx context.Context, callerID, plantID string) (*models.Plant, error) {
	plant, err := s.plants.GetByIDForUser(ctx, plantID, callerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPlantNotFound
		}
		return nil, err
	}
	return plant, nil
}

// deriveNextWatering sets next_watering_due when last_watered is known,
// storing the default frequency when none was ever given.
func deriveNextWatering(p *models.Plant) {
	if p.LastWatered == nil {
		return
	}
	if p.WateringFrequencyDays == nil {
		days := models.DefaultWateringFrequencyDays
		p.WateringFrequencyDays = &days
	}
	due := models.NextWateringDue(*p.LastWatered, *p.WateringFrequencyDays)
	p.NextWateringDue = &due
}
