package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher forwards events to a Redis pub/sub channel so other services
// can follow candidate status changes.
type RedisPublisher struct {
	client  *redis.Client
	channel string
	timeout time.Duration
}

// NewRedisPublisher builds a publisher for channel. Each publish is cut off
// after timeout; zero leaves it to the caller's context.
func NewRedisPublisher(client *redis.Client, channel string, timeout time.Duration) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel, timeout: timeout}
}

// Channel returns the channel an event type is published on.
func (p *RedisPublisher) Channel(eventType EventType) string {
	return p.channel + "." + string(eventType)
}

// Handle publishes the event as JSON. It is meant to be subscribed on a Dispatcher.
func (p *RedisPublisher) Handle(ctx context.Context, event Event) error {
	if p == nil || p.client == nil {
		return nil
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.ID, err)
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	if err := p.client.Publish(ctx, p.Channel(event.Type), body).Err(); err != nil {
		return fmt.Errorf("publish event %s: %w", event.ID, err)
	}
	return nil
}

// Register subscribes the publisher to every status event.
func (p *RedisPublisher) Register(dispatcher Dispatcher) {
	dispatcher.Subscribe(EventCandidateStatusChanged, p.Handle)
	dispatcher.Subscribe(EventCandidateBgvStatusChanged, p.Handle)
}
