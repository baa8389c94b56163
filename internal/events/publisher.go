package events

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

type PublisherConfig struct {
	StreamPrefix string
	// MaxLen trims each tenant stream approximately; 0 keeps everything.
	MaxLen int64
}

type redisPublisher struct {
	client *redis.Client
	cfg    PublisherConfig
	logger *slog.Logger
}

func NewRedisPublisher(client *redis.Client, cfg PublisherConfig, logger *slog.Logger) Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &redisPublisher{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

func (p *redisPublisher) Publish(ctx context.Context, event Event) error {
	stream := StreamName(p.cfg.StreamPrefix, event.TenantID)

	args := &redis.XAddArgs{
		Stream: stream,
		Values: eventValues(event),
	}
	if p.cfg.MaxLen > 0 {
		args.MaxLen = p.cfg.MaxLen
		args.Approx = true
	}

	if err := p.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("publish event (stream=%s): %w", stream, err)
	}

	p.logger.DebugContext(ctx, "published event", "type", event.Type, "stream", stream)
	return nil
}

func (p *redisPublisher) Close() error {
	return p.client.Close()
}

type noopPublisher struct{}

// NewNoopPublisher drops every event. Used when REDIS_URL is not set.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, Event) error { return nil }

func (noopPublisher) Close() error { return nil }
