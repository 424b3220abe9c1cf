package events

import (
	"fmt"
	"sync"

	"qr-restaurant/models"
)

const (
	KindNewOrder     = "new_order"
	KindStatusUpdate = "status_update"
)

// TopicKitchen receives every order event; kitchen displays subscribe
// here. Per-table customer views subscribe to TableTopic(number).
const TopicKitchen = "kitchen"

func TableTopic(tableNumber int) string {
	return fmt.Sprintf("table:%d", tableNumber)
}

// OrderEvent is the payload broadcast when an order is created or its
// status changes. It is transient; nothing is persisted or replayed.
type OrderEvent struct {
	Kind      string             `json:"kind"`
	Order     *models.Order      `json:"order"`
	OldStatus models.OrderStatus `json:"old_status,omitempty"`
}

// subscriberBuffer bounds how far a slow subscriber may fall behind
// before it is disconnected.
const subscriberBuffer = 16

// Bus is an in-process publish/subscribe fan-out. Delivery is
// best-effort and at-most-once per live subscriber: publishing to a
// topic with no subscribers is a no-op, and a subscriber whose buffer
// is full is dropped rather than allowed to stall publication.
type Bus struct {
	mu     sync.Mutex
	topics map[string]map[*Subscription]struct{}
}

func NewBus() *Bus {
	return &Bus{
		topics: make(map[string]map[*Subscription]struct{}),
	}
}

// Subscription is a live attachment to a single topic. Events arrive
// on Events() until Close is called or the bus drops the subscriber,
// at which point the channel is closed.
type Subscription struct {
	bus   *Bus
	topic string
	ch    chan OrderEvent
	once  sync.Once
}

func (s *Subscription) Events() <-chan OrderEvent {
	return s.ch
}

func (s *Subscription) Topic() string {
	return s.topic
}

// Close detaches the subscription from its topic and closes the event
// channel. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.bus.remove(s)
		close(s.ch)
	})
}

// Subscribe attaches a new subscriber to topic. Events published
// before the subscription existed are never delivered.
func (b *Bus) Subscribe(topic string) *Subscription {
	sub := &Subscription{
		bus:   b,
		topic: topic,
		ch:    make(chan OrderEvent, subscriberBuffer),
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	subs, ok := b.topics[topic]
	if !ok {
		subs = make(map[*Subscription]struct{})
		b.topics[topic] = subs
	}
	subs[sub] = struct{}{}
	return sub
}

// Publish delivers ev to every current subscriber of topic without
// blocking. Subscribers that cannot keep up are disconnected. The
// returned count is the number of subscribers that received the event.
func (b *Bus) Publish(topic string, ev OrderEvent) int {
	b.mu.Lock()
	subs := b.topics[topic]
	delivered := 0
	var overflowed []*Subscription
	for sub := range subs {
		select {
		case sub.ch <- ev:
			delivered++
		default:
			overflowed = append(overflowed, sub)
		}
	}
	for _, sub := range overflowed {
		delete(subs, sub)
	}
	if len(subs) == 0 {
		delete(b.topics, topic)
	}
	b.mu.Unlock()

	// Close outside the lock; Close re-enters remove which locks.
	for _, sub := range overflowed {
		sub.Close()
	}
	return delivered
}

// SubscriberCount reports how many subscribers a topic currently has.
func (b *Bus) SubscriberCount(topic string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.topics[topic])
}

func (b *Bus) remove(s *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if subs, ok := b.topics[s.topic]; ok {
		delete(subs, s)
		if len(subs) == 0 {
			delete(b.topics, s.topic)
		}
	}
}
