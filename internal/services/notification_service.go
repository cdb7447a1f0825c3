package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Notifier publishes domain events after the owning transaction has
// committed. It only reads state and never mutates it; a failed publish is
// logged and swallowed so notification trouble cannot fail a posting.
type Notifier interface {
	SupplyPosted(ctx context.Context, supplyID uuid.UUID)
	SupplyDelivered(ctx context.Context, supplyID uuid.UUID)
	InboundReceived(ctx context.Context, docID uuid.UUID)
}

type redisNotifier struct {
	client  *redis.Client
	channel string
	logger  zerolog.Logger
}

func NewRedisNotifier(client *redis.Client, channel string, logger zerolog.Logger) Notifier {
	return &redisNotifier{client: client, channel: channel, logger: logger}
}

type event struct {
	Type string    `json:"type"`
	ID   uuid.UUID `json:"id"`
	At   time.Time `json:"at"`
}

func (n *redisNotifier) publish(ctx context.Context, eventType string, id uuid.UUID) {
	payload, err := json.Marshal(event{Type: eventType, ID: id, At: time.Now()})
	if err != nil {
		n.logger.Error().Err(err).Str("event", eventType).Msg("marshal notification")
		return
	}
	if err := n.client.Publish(ctx, n.channel, payload).Err(); err != nil {
		n.logger.Error().Err(err).Str("event", eventType).Str("id", id.String()).Msg("publish notification")
	}
}

func (n *redisNotifier) SupplyPosted(ctx context.Context, supplyID uuid.UUID) {
	n.publish(ctx, "supply.posted", supplyID)
}

func (n *redisNotifier) SupplyDelivered(ctx context.Context, supplyID uuid.UUID) {
	n.publish(ctx, "supply.delivered", supplyID)
}

func (n *redisNotifier) InboundReceived(ctx context.Context, docID uuid.UUID) {
	n.publish(ctx, "inbound.received", docID)
}

// NopNotifier discards every event. Used when Redis is not configured.
type NopNotifier struct{}

func (NopNotifier) SupplyPosted(context.Context, uuid.UUID)    {}
func (NopNotifier) SupplyDelivered(context.Context, uuid.UUID) {}
func (NopNotifier) InboundReceived(context.Context, uuid.UUID) {}
