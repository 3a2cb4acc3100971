package pubsub

import (
	"context"
	"testing"
	"time"

	"preorder-shopify-layer/internal/domain"

	"github.com/rs/zerolog"
)

func TestSubscriberReceivesMatchingEvent(t *testing.T) {
	bus := NewEventBus(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := bus.Subscribe(ctx, &EventFilter{Topics: []string{"orders/create"}})
	event := &domain.WebhookEvent{Topic: "orders/create", Shop: "s.myshopify.com", Verified: true}
	bus.Publish(event)

	select {
	case got := <-sub.Events:
		if got.Topic != "orders/create" {
			t.Errorf("unexpected event %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber never received the event")
	}
}

func TestFilterExcludesOtherTopicsAndShops(t *testing.T) {
	bus := NewEventBus(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := bus.Subscribe(ctx, &EventFilter{
		Topics: []string{"inventory_levels/update"},
		Shop:   "a.myshopify.com",
	})

	bus.Publish(&domain.WebhookEvent{Topic: "orders/create", Shop: "a.myshopify.com"})
	bus.Publish(&domain.WebhookEvent{Topic: "inventory_levels/update", Shop: "b.myshopify.com"})
	bus.Publish(&domain.WebhookEvent{Topic: "inventory_levels/update", Shop: "a.myshopify.com"})

	select {
	case got := <-sub.Events:
		if got.Shop != "a.myshopify.com" || got.Topic != "inventory_levels/update" {
			t.Errorf("filter leaked event %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("matching event never arrived")
	}

	select {
	case got := <-sub.Events:
		t.Errorf("unexpected second event %+v", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCancelledContextUnsubscribes(t *testing.T) {
	bus := NewEventBus(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())

	sub := bus.Subscribe(ctx, nil)
	cancel()

	// The events channel closes once the subscription is reaped.
	deadline := time.After(time.Second)
	for {
		select {
		case _, open := <-sub.Events:
			if !open {
				return
			}
		case <-deadline:
			t.Fatal("subscription was never removed after cancel")
		}
	}
}
