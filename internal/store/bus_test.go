package store

import (
	"context"
	"testing"
)

func TestMemoryBusFanout(t *testing.T) {
	ctx := context.Background()
	bus := NewMemoryBus()

	var first, second []Notification
	if err := bus.Subscribe(ctx, func(n Notification) { first = append(first, n) }); err != nil {
		t.Fatal(err)
	}
	if err := bus.Subscribe(ctx, func(n Notification) { second = append(second, n) }); err != nil {
		t.Fatal(err)
	}

	n := Notification{Origin: "node-1", Event: EventUpdateRequest}
	if err := bus.Publish(ctx, n); err != nil {
		t.Fatal(err)
	}

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("fanout delivered %d/%d notifications, want 1/1", len(first), len(second))
	}
	if first[0] != n || second[0] != n {
		t.Errorf("delivered notification does not match published one")
	}
}

func TestMemoryBusPublishWithoutSubscribers(t *testing.T) {
	bus := NewMemoryBus()

	if err := bus.Publish(context.Background(), Notification{Origin: "node-1", Event: EventUpdateRequest}); err != nil {
		t.Fatalf("publish without subscribers should not fail: %v", err)
	}
}
