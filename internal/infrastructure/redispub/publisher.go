package redispub

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nerrad567/camwatch/internal/infrastructure/config"
)

// publishTimeout bounds each PUBLISH round trip.
const publishTimeout = 5 * time.Second

// Channel names for the two notification kinds.
const (
	ChannelDeviceInsert = "camwatch.device.insert"
	ChannelDeviceUpdate = "camwatch.device.update"
)

// Publisher sends camwatch notifications over Redis pub/sub.
//
// It is the alternative notification transport to MQTT, kept wire-compatible
// with consumers that subscribe to the camwatch.device.* channels.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Publisher struct {
	rdb *redis.Client
}

// Connect creates a Redis publisher and verifies connectivity with a ping.
func Connect(cfg config.RedisConfig) (*Publisher, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	return &Publisher{rdb: rdb}, nil
}

// PublishEvent publishes a payload on the given channel.
// Delivery is fire-and-forget; subscribers that are not listening miss the message.
func (p *Publisher) PublishEvent(channel string, payload []byte) error {
	if channel == "" {
		return ErrInvalidChannel
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := p.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	return nil
}

// HealthCheck verifies the Redis connection is alive.
func (p *Publisher) HealthCheck(ctx context.Context) error {
	if err := p.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrNotConnected, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (p *Publisher) Close() error {
	return p.rdb.Close()
}
