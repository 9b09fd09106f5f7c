package queue

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Reader reads pitch events back from the stream, newest first.
type Reader struct {
	client *redis.Client
	stream string
}

func NewReader(client *redis.Client, stream string) *Reader {
	return &Reader{client: client, stream: stream}
}

func (r *Reader) Recent(ctx context.Context, count int64) ([]PitchEvent, error) {
	msgs, err := r.client.XRevRangeN(ctx, r.stream, "+", "-", count).Result()
	if err != nil {
		return nil, fmt.Errorf("reading pitch events: %w", err)
	}

	events := make([]PitchEvent, 0, len(msgs))
	for _, m := range msgs {
		events = append(events, parseEvent(m.ID, m.Values))
	}
	return events, nil
}
