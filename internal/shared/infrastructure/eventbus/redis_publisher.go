package eventbus

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisChannelPrefix is prepended to routing keys to form channel names.
const DefaultRedisChannelPrefix = "perfboard:"

// redisClient is the subset of go-redis used for publishing.
type redisClient interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// RedisPublisher publishes events on Redis pub/sub, one channel per routing key.
type RedisPublisher struct {
	client redisClient
	prefix string
	logger *slog.Logger
}

// NewRedisPublisher connects to Redis at url and verifies the connection.
func NewRedisPublisher(ctx context.Context, url, prefix string, logger *slog.Logger) (*RedisPublisher, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return newRedisPublisher(client, prefix, logger), nil
}

func newRedisPublisher(client redisClient, prefix string, logger *slog.Logger) *RedisPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	if prefix == "" {
		prefix = DefaultRedisChannelPrefix
	}
	return &RedisPublisher{client: client, prefix: prefix, logger: logger}
}

// Channel returns the pub/sub channel used for a routing key.
func (p *RedisPublisher) Channel(routingKey string) string {
	return p.prefix + routingKey
}

// Publish sends payload to the routing key's channel.
func (p *RedisPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	channel := p.Channel(routingKey)
	receivers, err := p.client.Publish(ctx, channel, payload).Result()
	if err != nil {
		p.logger.Error("failed to publish message",
			"channel", channel,
			"error", err,
		)
		return err
	}

	p.logger.Debug("message published",
		"channel", channel,
		"receivers", receivers,
		"size", len(payload),
	)
	return nil
}

// Ping checks the Redis connection.
func (p *RedisPublisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
