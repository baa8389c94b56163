package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Reader tails a tenant's event stream. lastID "$" means only new entries.
type Reader interface {
	Read(ctx context.Context, tenantID int64, lastID string) ([]Event, error)
}

type ReaderConfig struct {
	StreamPrefix string
	Block        time.Duration
	Count        int64
}

type redisReader struct {
	client *redis.Client
	cfg    ReaderConfig
}

func NewRedisReader(client *redis.Client, cfg ReaderConfig) Reader {
	if cfg.Block <= 0 {
		cfg.Block = 25 * time.Second
	}
	if cfg.Count <= 0 {
		cfg.Count = 100
	}
	return &redisReader{client: client, cfg: cfg}
}

// Read blocks up to the configured duration. A timeout with no entries
// returns an empty slice and no error.
func (r *redisReader) Read(ctx context.Context, tenantID int64, lastID string) ([]Event, error) {
	if lastID == "" {
		lastID = "$"
	}
	stream := StreamName(r.cfg.StreamPrefix, tenantID)

	res, err := r.client.XRead(ctx, &redis.XReadArgs{
		Streams: []string{stream, lastID},
		Block:   r.cfg.Block,
		Count:   r.cfg.Count,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []Event{}, nil
		}
		return nil, fmt.Errorf("reading stream %s: %w", stream, err)
	}

	var out []Event
	for _, streamRes := range res {
		for _, msg := range streamRes.Messages {
			event, parseErr := ParseMessage(msg)
			if parseErr != nil {
				slog.WarnContext(ctx, "skipping malformed event", "error", parseErr, "message_id", msg.ID, "stream", stream)
				continue
			}
			out = append(out, event)
		}
	}
	return out, nil
}
