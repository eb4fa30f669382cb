package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Romer4ig/image-moderation/internal/config"
	"github.com/Romer4ig/image-moderation/internal/domain/events"
	"github.com/Romer4ig/image-moderation/internal/infrastructure/metrics"
)

const publishTimeout = 2 * time.Second

// RedisBus relays events through a Redis channel so every console instance
// delivers them to its own SSE clients.
type RedisBus struct {
	rdb     *goredis.Client
	channel string
	hub     *Hub
	log     zerolog.Logger
}

// NewRedisBus connects to Redis and verifies the connection.
func NewRedisBus(ctx context.Context, cfg *config.Config, hub *Hub, log zerolog.Logger) (*RedisBus, error) {
	if !cfg.RedisEnabled() {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	if hub == nil {
		return nil, fmt.Errorf("hub required")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.RedisAddr,
		Password:    cfg.RedisPassword,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisBusWithClient(rdb, cfg.RedisChannel, hub, log), nil
}

// NewRedisBusWithClient wraps an existing client.
func NewRedisBusWithClient(rdb *goredis.Client, channel string, hub *Hub, log zerolog.Logger) *RedisBus {
	if channel == "" {
		channel = "cover-console-events"
	}
	return &RedisBus{
		rdb:     rdb,
		channel: channel,
		hub:     hub,
		log:     log.With().Str("component", "redis-bus").Str("channel", channel).Logger(),
	}
}

// Publish implements events.Publisher. When Redis rejects the message the event
// still reaches local clients.
func (b *RedisBus) Publish(ctx context.Context, evt events.Event) {
	raw, err := json.Marshal(evt)
	if err != nil {
		b.log.Warn().Err(err).Str("event", string(evt.Name)).Msg("marshal event")
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := b.rdb.Publish(pubCtx, b.channel, raw).Err(); err != nil {
		b.log.Warn().Err(err).Str("event", string(evt.Name)).Msg("redis publish failed; delivering locally")
		b.hub.Publish(ctx, evt)
		return
	}
	metrics.EventsPublishedTotal.WithLabelValues(string(evt.Name), "redis").Inc()
}

// StartForwarder subscribes to the channel and broadcasts every message to the
// hub until ctx is cancelled.
func (b *RedisBus) StartForwarder(ctx context.Context) error {
	sub := b.rdb.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					return
				}
				var evt events.Event
				if err := json.Unmarshal([]byte(m.Payload), &evt); err != nil {
					b.log.Warn().Err(err).Msg("bad redis event payload")
					continue
				}
				b.hub.Broadcast(evt)
			}
		}
	}()
	b.log.Info().Msg("redis forwarder started")
	return nil
}

// Ping checks the Redis connection.
func (b *RedisBus) Ping(ctx context.Context) error {
	return b.rdb.Ping(ctx).Err()
}

// Close releases the Redis client.
func (b *RedisBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}
