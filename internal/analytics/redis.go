package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStreamSink appends events to a capped Redis stream.
type RedisStreamSink struct {
	rdb    redis.Cmdable
	stream string
	maxLen int64
}

// NewRedisStreamSink trims the stream to roughly maxLen entries; 0 disables
// trimming.
func NewRedisStreamSink(rdb redis.Cmdable, stream string, maxLen int64) *RedisStreamSink {
	return &RedisStreamSink{rdb: rdb, stream: stream, maxLen: maxLen}
}

func (s *RedisStreamSink) Track(ctx context.Context, ev Event) error {
	props, err := json.Marshal(ev.Properties)
	if err != nil {
		return fmt.Errorf("encode event properties: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]interface{}{
			"id":          ev.ID,
			"name":        ev.Name,
			"properties":  string(props),
			"occurred_at": ev.OccurredAt.Format(time.RFC3339Nano),
		},
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}

	if err := s.rdb.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("xadd %s: %w", s.stream, err)
	}
	return nil
}

// Recent returns up to n events, newest first.
func (s *RedisStreamSink) Recent(ctx context.Context, n int64) ([]Event, error) {
	msgs, err := s.rdb.XRevRangeN(ctx, s.stream, "+", "-", n).Result()
	if err != nil {
		return nil, fmt.Errorf("xrevrange %s: %w", s.stream, err)
	}

	events := make([]Event, 0, len(msgs))
	for _, m := range msgs {
		ev := Event{Properties: map[string]interface{}{}}
		ev.ID, _ = m.Values["id"].(string)
		ev.Name, _ = m.Values["name"].(string)
		if raw, ok := m.Values["properties"].(string); ok {
			_ = json.Unmarshal([]byte(raw), &ev.Properties)
		}
		if ts, ok := m.Values["occurred_at"].(string); ok {
			ev.OccurredAt, _ = time.Parse(time.RFC3339Nano, ts)
		}
		events = append(events, ev)
	}
	return events, nil
}
