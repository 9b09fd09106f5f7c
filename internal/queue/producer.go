package queue

import (
	"context"
	"fmt"
	"log/slog"

	"code2pitch.app/relay/common/id"
	"github.com/redis/go-redis/v9"
)

// Producer publishes pitch events. Publishing is best effort for callers;
// a failure never changes the HTTP response.
type Producer interface {
	Publish(ctx context.Context, event PitchEvent) error
	Close() error
}

type redisProducer struct {
	client *redis.Client
	stream string
	logger *slog.Logger
}

func NewRedisProducer(client *redis.Client, stream string, logger *slog.Logger) Producer {
	if logger == nil {
		logger = slog.Default()
	}
	return &redisProducer{
		client: client,
		stream: stream,
		logger: logger,
	}
}

func (p *redisProducer) Publish(ctx context.Context, event PitchEvent) error {
	if event.EventID == 0 {
		event.EventID = id.New()
	}

	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: event.values(),
	}).Err(); err != nil {
		return fmt.Errorf("publish pitch event: %w", err)
	}

	p.logger.DebugContext(ctx, "published pitch event",
		"event_id", event.EventID,
		"status", event.Status,
		"attempts", event.Attempts)
	return nil
}

func (p *redisProducer) Close() error {
	return p.client.Close()
}

type noopProducer struct{}

// NewNoopProducer is used when no Redis stream is configured.
func NewNoopProducer() Producer {
	return noopProducer{}
}

func (noopProducer) Publish(context.Context, PitchEvent) error { return nil }
func (noopProducer) Close() error                              { return nil }
