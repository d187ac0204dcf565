package event

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisSourceConfig holds consumer-group settings for the Redis Streams
// transport.
type RedisSourceConfig struct {
	Group     string        `env:"EVENT_CONSUMER_GROUP" envDefault:"notification-service"`
	BatchSize int64         `env:"EVENT_BATCH_SIZE" envDefault:"16"`
	Block     time.Duration `env:"EVENT_BLOCK_TIMEOUT" envDefault:"5s"`
}

// RedisSource reads events from Redis Streams through a consumer group.
// Unacked messages stay in the group's pending list and are redelivered to
// the next consumer after a crash.
type RedisSource struct {
	client   redis.UniversalClient
	cfg      RedisSourceConfig
	streams  []string
	consumer string
}

// NewRedisSource creates a stream source and its consumer group on the
// notification and bulk-notification streams.
func NewRedisSource(ctx context.Context, client redis.UniversalClient, cfg RedisSourceConfig) (*RedisSource, error) {
	s := &RedisSource{
		client:   client,
		cfg:      cfg,
		streams:  []string{StreamNotifications, StreamBulkNotifications},
		consumer: consumerName(),
	}

	for _, stream := range s.streams {
		err := client.XGroupCreateMkStream(ctx, stream, cfg.Group, "$").Err()
		if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
			return nil, fmt.Errorf("failed to create consumer group on %s: %w", stream, err)
		}
	}
	return s, nil
}

func consumerName() string {
	host, err := os.Hostname()
	if err != nil {
		host = "notify"
	}
	return host + "-" + uuid.NewString()[:8]
}

func (s *RedisSource) Fetch(ctx context.Context) ([]Message, error) {
	args := &redis.XReadGroupArgs{
		Group:    s.cfg.Group,
		Consumer: s.consumer,
		Streams:  readStreams(s.streams),
		Count:    s.cfg.BatchSize,
		Block:    s.cfg.Block,
	}

	res, err := s.client.XReadGroup(ctx, args).Result()
	if err != nil {
		// A block timeout with no messages is normal.
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read event streams: %w", err)
	}

	var out []Message
	for _, stream := range res {
		for _, msg := range stream.Messages {
			payload, _ := msg.Values["payload"].(string)
			out = append(out, Message{
				ID:      msg.ID,
				Stream:  stream.Stream,
				Payload: []byte(payload),
			})
		}
	}
	return out, nil
}

func (s *RedisSource) Ack(ctx context.Context, msg Message) error {
	if err := s.client.XAck(ctx, msg.Stream, s.cfg.Group, msg.ID).Err(); err != nil {
		return fmt.Errorf("failed to ack message %s on %s: %w", msg.ID, msg.Stream, err)
	}
	return nil
}

// readStreams builds the XREADGROUP streams argument: names first, then one
// ">" cursor per stream.
func readStreams(streams []string) []string {
	out := make([]string, 0, len(streams)*2)
	out = append(out, streams...)
	for range streams {
		out = append(out, ">")
	}
	return out
}
