// Package pubsub relays admission state changes between instances.
package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"karnex/internal/shared/biztime"
	"karnex/internal/shared/goroutine"
	"karnex/internal/shared/logger"
)

const rateLimitResetChannel = "karnex:ratelimit:reset"

// ResetEvent asks every instance to clear one client's window.
type ResetEvent struct {
	ClientKey  string `json:"client_key"`
	Timestamp  int64  `json:"timestamp"`
	InstanceID string `json:"instance_id"` // Source instance, skipped on delivery
}

// RedisResetBus broadcasts window resets so per-instance memory stores stay
// consistent with an admin reset made on any instance.
type RedisResetBus struct {
	client     *redis.Client
	logger     logger.Interface
	instanceID string
}

func NewRedisResetBus(client *redis.Client, logger logger.Interface) *RedisResetBus {
	return &RedisResetBus{
		client:     client,
		logger:     logger,
		instanceID: uuid.NewString(),
	}
}

func (b *RedisResetBus) InstanceID() string {
	return b.instanceID
}

func (b *RedisResetBus) PublishReset(ctx context.Context, clientKey string) error {
	data, err := json.Marshal(ResetEvent{
		ClientKey:  clientKey,
		Timestamp:  biztime.NowUTC().Unix(),
		InstanceID: b.instanceID,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal reset event: %w", err)
	}

	if err := b.client.Publish(ctx, rateLimitResetChannel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish reset event: %w", err)
	}

	b.logger.Debugw("rate limit reset published", "client_key", clientKey)
	return nil
}

// SubscribeResets blocks until ctx is done, reconnecting with backoff.
// Events published by this instance are not delivered to handler.
func (b *RedisResetBus) SubscribeResets(ctx context.Context, handler func(clientKey string)) error {
	backoff := time.Second
	maxBackoff := 30 * time.Second

	for {
		err := b.subscribe(ctx, func(payload string) {
			var event ResetEvent
			if err := json.Unmarshal([]byte(payload), &event); err != nil {
				b.logger.Warnw("invalid reset event payload", "error", err)
				return
			}
			if event.InstanceID == b.instanceID || event.ClientKey == "" {
				return
			}
			handler(event.ClientKey)
		})
		if ctx.Err() != nil {
			return ctx.Err()
		}

		b.logger.Warnw("reset subscription disconnected, reconnecting",
			"channel", rateLimitResetChannel,
			"error", err,
			"backoff", backoff,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff = min(backoff*2, maxBackoff)
	}
}

func (b *RedisResetBus) subscribe(ctx context.Context, handler func(payload string)) error {
	sub := b.client.Subscribe(ctx, rateLimitResetChannel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to channel %s: %w", rateLimitResetChannel, err)
	}

	b.logger.Infow("subscribed to rate limit reset channel")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			goroutine.SafeGo(b.logger, "ratelimit-reset-handler", func() {
				handler(msg.Payload)
			})
		}
	}
}
