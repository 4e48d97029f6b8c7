package events

//go:generate go run go.uber.org/mock/mockgen -source=./events.go -destination=./mocks/events_mock.go -package=mocks

import (
	"context"
	"fmt"
	"motorpool/config"
	"motorpool/infras/kafka"
	"motorpool/infras/otel"
	"motorpool/shared/constant"

	"github.com/rs/zerolog/log"
)

const (
	EntityReservation    = "reservation"
	EntityCar            = "car"
	EntityWeekendRequest = "weekend_request"

	OpCreated = "created"
	OpUpdated = "updated"
	OpDeleted = "deleted"
)

// ChangeEvent describes a row-level change to one of the reservation tables.
// Consumers use it to drop stale caches and refresh their views.
type ChangeEvent struct {
	Entity string `json:"entity"`
	Op     string `json:"op"`
	ID     string `json:"id"`
	CarID  string `json:"car_id,omitempty"`
}

type Publisher interface {
	PublishChange(ctx context.Context, event ChangeEvent) error
}

type publisherImpl struct {
	client kafka.Client
	cfg    *config.Config
	otel   otel.Otel
}

func NewPublisher(client kafka.Client, cfg *config.Config, otel otel.Otel) Publisher {
	return &publisherImpl{
		client: client,
		cfg:    cfg,
		otel:   otel,
	}
}

func (p *publisherImpl) PublishChange(ctx context.Context, event ChangeEvent) (err error) {
	ctx, scope := p.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".PublishChange")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttributes(map[string]any{
		"event.entity": event.Entity,
		"event.op":     event.Op,
		"event.id":     event.ID,
	})

	message := kafka.Message{
		Key:   event.Entity + ":" + event.ID,
		Value: event,
	}

	err = p.client.SendMessages(ctx, p.cfg.Kafka.Topics.ReservationEvents, message)
	if err != nil {
		log.Error().Err(err).Str("entity", event.Entity).Str("op", event.Op).Msg("failed to publish change event")

		return fmt.Errorf("failed to publish change event: %w", err)
	}

	return nil
}
