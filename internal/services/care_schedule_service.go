package services

import (
	"context"
	"strings"

	"vriksh/internal/metrics"
	"vriksh/internal/models"

	"github.com/rs/zerolog"
)

const (
	DefaultLocation = "General"
	DefaultSeason   = "Spring"
)

var careScheduleMessages = fieldMessages{
	"PlantName": "plant_name is required",
	"Location":  "location is too long",
	"Season":    "season must be one of Spring, Summer, Fall, Autumn, Winter, Monsoon",
}

// CareScheduleService builds care schedules (Seva).
type CareScheduleService struct {
	gateway Gateway
	log     zerolog.Logger
}

// NewCareScheduleService creates a new CareScheduleService.
func NewCareScheduleService(gateway Gateway, log zerolog.Logger) *CareScheduleService {
	return &CareScheduleService{
		gateway: gateway,
		log:     log.With().Str("component", "seva").Logger(),
	}
}

// Schedule returns a validated care schedule. Location defaults to
// "General", season to "Spring" and indoor to true.
func (s *CareScheduleService) Schedule(ctx context.Context, in models.CareScheduleInput) (*models.SevaSchedule, error) {
	in.PlantName = strings.TrimSpace(in.PlantName)
	in.Location = strings.TrimSpace(in.Location)
	in.Season = strings.TrimSpace(in.Season)
	if in.Location == "" {
		in.Location = DefaultLocation
	}
	if in.Season == "" {
		in.Season = DefaultSeason
	}
	indoor := true
	if in.Indoor != nil {
		indoor = *in.Indoor
	}
	if err := validateStruct(in, careScheduleMessages, "plant_name is required"); err != nil {
		return nil, err
	}

	raw, err := callGateway(ctx, s.gateway, "seva", sevaSystemPrompt, sevaPrompt(in.PlantName, in.Location, in.Season, indoor), "")
	if err != nil {
		s.log.Error().Err(err).Str("plant_name", in.PlantName).Msg("care schedule call failed")
		return nil, err
	}

	schedule, err := ParseCareSchedule(raw)
	if err != nil {
		metrics.RecordAICall("seva", "invalid_output")
		s.log.Error().Err(err).Str("plant_name", in.PlantName).Msg("care schedule output rejected")
		return nil, err
	}

	metrics.RecordAICall("seva", "ok")
	s.log.Info().Str("plant_name", in.PlantName).Msg("care schedule generated")
	return schedule, nil
}
