package events

import (
	"context"
	"motorpool/config"
	"motorpool/infras/kafka"
	"motorpool/shared"
	"motorpool/shared/cache"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

const cacheTimeline = "timeline"

// Consumer drains the change feed and drops caches made stale by each event.
type Consumer struct {
	client kafka.Client
	cfg    *config.Config
	cache  cache.RedisCache
}

func NewConsumer(client kafka.Client, cfg *config.Config, redisCache cache.RedisCache) *Consumer {
	return &Consumer{
		client: client,
		cfg:    cfg,
		cache:  redisCache,
	}
}

func (c *Consumer) Run(ctx context.Context) {
	c.client.Consume(ctx, c.cfg.Kafka.ConsumerGroup, c.cfg.Kafka.Topics.ReservationEvents, func(msg kafkaGo.Message) {
		c.handle(ctx, msg)
	})
}

func (c *Consumer) handle(ctx context.Context, msg kafkaGo.Message) {
	decoded, err := kafka.DecodeKafkaMessage[ChangeEvent](msg)
	if err != nil {
		log.Error().Err(err).Msg("failed to decode change event")

		return
	}

	event, ok := decoded.Value.(ChangeEvent)
	if !ok {
		log.Error().Str("key", decoded.Key).Msg("unexpected change event payload")

		return
	}

	log.Info().
		Str("entity", event.Entity).
		Str("op", event.Op).
		Str("id", event.ID).
		Msg("processing change event")

	shared.InvalidateCaches(ctx, c.cache, event.Entity)

	// Reservation and fleet changes reshape the timeline view.
	if event.Entity == EntityReservation || event.Entity == EntityCar {
		shared.InvalidateCaches(ctx, c.cache, cacheTimeline)
	}
}
