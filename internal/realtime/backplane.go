package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/tutorlink/platform/internal/pkg/logger"
)

// Message is one realtime event addressed to a room, as carried across the
// backplane between instances.
type Message struct {
	Room  string          `json:"room"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Backplane carries pushes between server instances. A push originating on
// instance A must reach a client connected to instance B, so any deployment
// with more than one instance needs the redis backplane; the local one is
// only correct for a single process.
type Backplane interface {
	// Publish sends a message to every instance, including this one.
	Publish(ctx context.Context, msg Message) error
	// Start begins delivering received messages through deliver. It returns
	// once the subscription is established.
	Start(ctx context.Context, deliver func(Message)) error
}

// redisChannel is the pub/sub channel all instances share.
const redisChannel = "realtime:events"

// RedisBackplane fans messages out across instances via redis pub/sub.
type RedisBackplane struct {
	client *redis.Client
}

// NewRedisBackplane creates a redis-backed backplane.
func NewRedisBackplane(client *redis.Client) *RedisBackplane {
	return &RedisBackplane{client: client}
}

// Publish sends the message through redis; it comes back to every
// subscribed instance, this one included.
func (b *RedisBackplane) Publish(ctx context.Context, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode realtime message: %w", err)
	}
	if err := b.client.Publish(ctx, redisChannel, data).Err(); err != nil {
		return fmt.Errorf("publish realtime message: %w", err)
	}
	return nil
}

// Start subscribes to the shared channel and delivers messages until ctx is
// cancelled.
func (b *RedisBackplane) Start(ctx context.Context, deliver func(Message)) error {
	sub := b.client.Subscribe(ctx, redisChannel)
	// Force the subscription to be established before returning.
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", redisChannel, err)
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok {
					return
				}
				var msg Message
				if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
					logger.Warn("backplane: dropping undecodable message", "err", err)
					continue
				}
				deliver(msg)
			}
		}
	}()
	return nil
}

// LocalBackplane loops messages straight back to this process. Single
// instance deployments only.
type LocalBackplane struct {
	deliver func(Message)
}

// NewLocalBackplane creates the in-process backplane.
func NewLocalBackplane() *LocalBackplane { return &LocalBackplane{} }

// Publish delivers the message directly.
func (b *LocalBackplane) Publish(_ context.Context, msg Message) error {
	if b.deliver != nil {
		b.deliver(msg)
	}
	return nil
}

// Start records the delivery callback.
func (b *LocalBackplane) Start(_ context.Context, deliver func(Message)) error {
	b.deliver = deliver
	return nil
}
