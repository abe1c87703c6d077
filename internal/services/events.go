package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Routing keys for plant lifecycle events.
const (
	EventPlantCreated   = "plant.created"
	EventPlantUpdated   = "plant.updated"
	EventPlantDeleted   = "plant.deleted"
	EventPlantDiagnosed = "plant.diagnosed"
)

// EventPublisher publishes domain events. *rabbitmq.Client satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// PlantEvent is the payload of every plant lifecycle event.
type PlantEvent struct {
	PlantID    string    `json:"plant_id"`
	UserID     string    `json:"user_id"`
	Severity   string    `json:"severity,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// publish sends an event if a publisher is configured. Failures are logged only.
func publish(ctx context.Context, pub EventPublisher, log zerolog.Logger, key string, ev PlantEvent) {
	if pub == nil {
		return
	}
	ev.OccurredAt = time.Now().UTC()
	if err := pub.Publish(ctx, key, ev); err != nil {
		log.Warn().Err(err).Str("event", key).Str("plant_id", ev.PlantID).Msg("failed to publish event")
	}
}
