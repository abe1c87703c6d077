package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"vriksh/internal/metrics"
	"vriksh/internal/models"
	"vriksh/internal/repositories"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
)

// HistoryLimit is how many health checks History returns.
const HistoryLimit = 10

var diagnosisMessages = fieldMessages{
	"PlantName": "plant_name and symptoms are required",
	"Symptoms":  "plant_name and symptoms are required",
}

// DiagnosisResult is a validated diagnosis plus whether it was stored.
type DiagnosisResult struct {
	Chikitsa *models.ChikitsaResult
	Saved    bool
}

// DiagnosisService diagnoses plant health (Chikitsa) and keeps the history
// of diagnoses for plants in a collection.
type DiagnosisService struct {
	gateway   Gateway
	plants    repositories.PlantRepository
	checks    repositories.HealthCheckRepository
	publisher EventPublisher
	log       zerolog.Logger
}

// NewDiagnosisService creates a new DiagnosisService. publisher may be nil.
func NewDiagnosisService(gateway Gateway, plants repositories.PlantRepository, checks repositories.HealthCheckRepository, publisher EventPublisher, log zerolog.Logger) *DiagnosisService {
	return &DiagnosisService{
		gateway:   gateway,
		plants:    plants,
		checks:    checks,
		publisher: publisher,
		log:       log.With().Str("component", "chikitsa").Logger(),
	}
}

// Diagnose asks the model for a diagnosis. When in.PlantID names one of the
// caller's plants the result is stored and the plant's health status set to
// the severity. A failed save does not fail the diagnosis.
func (s *DiagnosisService) Diagnose(ctx context.Context, callerID string, in models.DiagnosisInput) (*DiagnosisResult, error) {
	in.PlantName = strings.TrimSpace(in.PlantName)
	in.Symptoms = strings.TrimSpace(in.Symptoms)
	if err := validateStruct(in, diagnosisMessages, "plant_name and symptoms are required"); err != nil {
		return nil, err
	}

	var image string
	if in.ImageURL != nil {
		image = strings.TrimSpace(*in.ImageURL)
	}

	raw, err := callGateway(ctx, s.gateway, "chikitsa", chikitsaSystemPrompt, chikitsaPrompt(in.PlantName, in.Symptoms), image)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", callerID).Msg("diagnosis call failed")
		return nil, err
	}

	result, err := ParseDiagnosis(raw)
	if err != nil {
		metrics.RecordAICall("chikitsa", "invalid_output")
		s.log.Error().Err(err).Str("user_id", callerID).Msg("diagnosis output rejected")
		return nil, err
	}
	metrics.RecordAICall("chikitsa", "ok")

	out := &DiagnosisResult{Chikitsa: result}
	if in.PlantID != nil && strings.TrimSpace(*in.PlantID) != "" {
		plantID := strings.TrimSpace(*in.PlantID)
		if err := s.save(ctx, callerID, plantID, image, result); err != nil {
			s.log.Warn().Err(err).Str("user_id", callerID).Str("plant_id", plantID).Msg("failed to save diagnosis")
		} else {
			out.Saved = true
			publish(ctx, s.publisher, s.log, EventPlantDiagnosed, PlantEvent{PlantID: plantID, UserID: callerID, Severity: string(result.Severity)})
		}
	}

	s.log.Info().Str("user_id", callerID).Str("severity", string(result.Severity)).Bool("saved", out.Saved).Msg("plant diagnosed")
	return out, nil
}

func (s *DiagnosisService) save(ctx context.Context, callerID, plantID, image string, r *models.ChikitsaResult) error {
	if _, err := s.ownedPlant(ctx, callerID, plantID); err != nil {
		return err
	}

	check := &models.HealthCheck{
		PlantID:    plantID,
		Diagnosis:  r.Diagnosis,
		Severity:   r.Severity,
		Confidence: r.Confidence,
		Symptoms:   jsonColumn(r.Causes),
		Treatment:  jsonColumn(r.Treatment),
		Prevention: jsonColumn(r.Prevention),
	}
	if image != "" {
		check.ImageURL = &image
	}
	return s.checks.Record(ctx, check, r.Severity)
}

// History returns the most recent diagnoses for one of the caller's plants.
func (s *DiagnosisService) History(ctx context.Context, callerID, plantID string) ([]models.HealthCheck, error) {
	if _, err := s.ownedPlant(ctx, callerID, plantID); err != nil {
		return nil, err
	}
	return s.checks.ListByPlant(ctx, plantID, HistoryLimit)
}

func (s *DiagnosisService) ownedPlant(ctx context.Context, callerID, plantID string) (*models.Plant, error) {
	plant, err := s.plants.GetByIDForUser(ctx, plantID, callerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPlantNotFound
		}
		return nil, err
	}
	return plant, nil
}

func jsonColumn(v any) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("null")
	}
	return datatypes.JSON(b)
}
