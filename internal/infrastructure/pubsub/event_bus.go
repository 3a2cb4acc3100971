package pubsub

import (
	"context"
	"fmt"
	"sync"

	"preorder-shopify-layer/internal/domain"

	"github.com/rs/zerolog"
)

// EventFilter narrows a subscription to particular topics or one shop.
type EventFilter struct {
	Topics []string
	Shop   string
}

// Subscription is one consumer of verified webhook events.
type Subscription struct {
	ID     string
	Filter *EventFilter
	Events chan *domain.WebhookEvent
	ctx    context.Context
	cancel context.CancelFunc
}

// EventBus fans verified webhook events out to in-process subscribers.
// Publishing never blocks: a subscriber with a full buffer misses the event.
type EventBus struct {
	mu     sync.RWMutex
	subs   map[string]*Subscription
	nextID int64
	logger zerolog.Logger
}

// NewEventBus creates a new in-process event bus.
func NewEventBus(logger zerolog.Logger) *EventBus {
	return &EventBus{
		subs:   make(map[string]*Subscription),
		logger: logger,
	}
}

// Subscribe registers a consumer; it is removed when ctx is cancelled.
func (b *EventBus) Subscribe(ctx context.Context, filter *EventFilter) *Subscription {
	subCtx, cancel := context.WithCancel(ctx)

	b.mu.Lock()
	b.nextID++
	sub := &Subscription{
		ID:     fmt.Sprintf("sub-%d", b.nextID),
		Filter: filter,
		Events: make(chan *domain.WebhookEvent, 16),
		ctx:    subCtx,
		cancel: cancel,
	}
	b.subs[sub.ID] = sub
	b.mu.Unlock()

	go func() {
		<-subCtx.Done()
		b.Unsubscribe(sub.ID)
	}()

	return sub
}

// Unsubscribe removes a consumer and closes its channel.
func (b *EventBus) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub, ok := b.subs[id]
	if !ok {
		return
	}
	close(sub.Events)
	sub.cancel()
	delete(b.subs, id)
}

// Publish broadcasts an event to all matching subscribers.
func (b *EventBus) Publish(event *domain.WebhookEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subs {
		if !matches(event, sub.Filter) {
			continue
		}
		select {
		case sub.Events <- event:
		case <-sub.ctx.Done():
		default:
			b.logger.Warn().
				Str("subscription", sub.ID).
				Str("topic", event.Topic).
				Msg("Subscriber buffer full, dropping event")
		}
	}
}

func matches(event *domain.WebhookEvent, filter *EventFilter) bool {
	if filter == nil {
		return true
	}
	if len(filter.Topics) > 0 {
		found := false
		for _, t := range filter.Topics {
			if event.Topic == t {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.Shop != "" && event.Shop != filter.Shop {
		return false
	}
	return true
}
