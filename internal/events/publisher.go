package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Publisher fans events out over Redis pub/sub, one channel per user.
// Pub/sub (not streams) on purpose: these are live notifications for
// connected clients; the durable state lives in Postgres and a client
// that reconnects just re-reads it. A missed event costs nothing.
type Publisher struct {
	rdb    *redis.Client
	logger *zap.Logger
}

func NewPublisher(rdb *redis.Client, logger *zap.Logger) *Publisher {
	return &Publisher{rdb: rdb, logger: logger}
}

// Notify publishes the event to every listed user's channel. Failures
// are logged and swallowed: event delivery is best-effort and must never
// fail the domain operation that triggered it.
func (p *Publisher) Notify(ctx context.Context, typ Type, payload any, users ...uuid.UUID) {
	ev := Event{
		Type:       typ,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
	body, err := json.Marshal(ev)
	if err != nil {
		p.logger.Error("marshal event", zap.String("type", string(typ)), zap.Error(err))
		return
	}
	for _, u := range users {
		if err := p.rdb.Publish(ctx, ChannelFor(u), body).Err(); err != nil {
			p.logger.Warn("publish event",
				zap.String("type", string(typ)),
				zap.String("user", u.String()),
				zap.Error(err),
			)
		}
	}
}

// Subscribe opens a pub/sub subscription for one user's channel. The
// caller owns the returned PubSub and must Close it.
func (p *Publisher) Subscribe(ctx context.Context, userID uuid.UUID) *redis.PubSub {
	return p.rdb.Subscribe(ctx, ChannelFor(userID))
}
