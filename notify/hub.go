package notify

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"restro-qr/models"
)

const (
	newOrderPrefix    = "newOrder:"
	orderStatusPrefix = "orderStatus:"

	defaultBuffer = 16
)

// NewOrderEvent is the channel name staff displays listen on for new orders.
func NewOrderEvent(slug string) string {
	return newOrderPrefix + slug
}

// OrderStatusEvent signals that an order of the restaurant changed status.
func OrderStatusEvent(slug string) string {
	return orderStatusPrefix + slug
}

// Hub is an in-process publish/subscribe bus with one topic per restaurant
// slug. Delivery is best effort: nothing is stored, late subscribers miss
// earlier events, and a subscriber whose buffer is full loses the event.
type Hub struct {
	mu     sync.RWMutex
	topics map[string]map[*Subscription]struct{}
	buffer int
	log    *zap.SugaredLogger
}

func NewHub(buffer int, log *zap.SugaredLogger) *Hub {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Hub{
		topics: make(map[string]map[*Subscription]struct{}),
		buffer: buffer,
		log:    log,
	}
}

// Subscription receives the events of one restaurant until Close.
type Subscription struct {
	C <-chan models.Notification

	ch    chan models.Notification
	slug  string
	hub   *Hub
	close sync.Once
}

func (h *Hub) Subscribe(slug string) *Subscription {
	ch := make(chan models.Notification, h.buffer)
	sub := &Subscription{C: ch, ch: ch, slug: slug, hub: h}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.topics[slug] == nil {
		h.topics[slug] = make(map[*Subscription]struct{})
	}
	h.topics[slug][sub] = struct{}{}
	return sub
}

// Close unsubscribes and closes C. It is safe to call more than once.
func (s *Subscription) Close() {
	s.close.Do(func() {
		s.hub.mu.Lock()
		defer s.hub.mu.Unlock()
		subs := s.hub.topics[s.slug]
		delete(subs, s)
		if len(subs) == 0 {
			delete(s.hub.topics, s.slug)
		}
		close(s.ch)
	})
}

// Publish fans event out to the subscribers of slug. It never blocks and
// never fails.
func (h *Hub) Publish(_ context.Context, slug, event string) error {
	h.Deliver(models.Notification{Event: event, Restaurant: slug})
	return nil
}

// Deliver routes an already built notification by its Restaurant.
func (h *Hub) Deliver(n models.Notification) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.topics[n.Restaurant] {
		select {
		case sub.ch <- n:
		default:
			if h.log != nil {
				h.log.Warnw("dropping notification for slow subscriber", "event", n.Event, "restaurant", n.Restaurant)
			}
		}
	}
}

// Subscribers reports how many subscriptions slug currently has.
func (h *Hub) Subscribers(slug string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[slug])
}
