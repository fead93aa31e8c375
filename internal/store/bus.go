package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	sharedredis "life-server/internal/shared/redis"
)

// EventUpdateRequest asks peer nodes to re-read the shared collections.
// It is the only event on the sync channel.
const EventUpdateRequest = "update_request"

// Notification is the payload exchanged on the sync bus. Origin is the
// publishing node's ID so a node can ignore its own notifications.
type Notification struct {
	Origin string `json:"origin"`
	Event  string `json:"event"`
}

// Bus propagates change notifications between nodes sharing a backend.
// Delivery is fire-and-forget with no ordering, versioning, or merge:
// a receiver reloads wholesale and the last writer wins.
type Bus interface {
	Publish(ctx context.Context, n Notification) error
	Subscribe(ctx context.Context, handler func(Notification)) error
}

// MemoryBus is an in-process Bus for tests and single-node runs.
// Handlers are invoked synchronously on Publish.
type MemoryBus struct {
	mu       sync.RWMutex
	handlers []func(Notification)
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{}
}

func (b *MemoryBus) Publish(_ context.Context, n Notification) error {
	b.mu.RLock()
	handlers := make([]func(Notification), len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(n)
	}
	return nil
}

func (b *MemoryBus) Subscribe(_ context.Context, handler func(Notification)) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers = append(b.handlers, handler)
	return nil
}

// RedisBus carries notifications over a Redis pub/sub channel with a
// fixed name, shared by every node of the deployment.
type RedisBus struct {
	client  *sharedredis.Client
	channel string
	logger  *slog.Logger
}

func NewRedisBus(client *sharedredis.Client, channel string, logger *slog.Logger) *RedisBus {
	return &RedisBus{
		client:  client,
		channel: channel,
		logger:  logger.With("component", "sync_bus", "channel", channel),
	}
}

func (b *RedisBus) Publish(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	b.logger.Debug("Notification published", "event", n.Event, "origin", n.Origin)
	return nil
}

func (b *RedisBus) Subscribe(ctx context.Context, handler func(Notification)) error {
	pubsub := b.client.Subscribe(ctx, b.channel)

	// Confirm the subscription before returning so no notification is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return fmt.Errorf("failed to subscribe to channel %q: %w", b.channel, err)
	}

	go func() {
		defer func() {
			if err := pubsub.Close(); err != nil {
				b.logger.Error("Failed to close pub/sub subscription", "error", err)
			}
		}()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				b.logger.Debug("Subscription stopped", "reason", ctx.Err())
				return
			case msg, ok := <-ch:
				if !ok {
					b.logger.Warn("Pub/sub channel closed")
					return
				}

				var n Notification
				if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
					b.logger.Warn("Ignoring malformed notification", "error", err, "payload", msg.Payload)
					continue
				}
				handler(n)
			}
		}
	}()

	b.logger.Info("Subscribed to sync channel")
	return nil
}
