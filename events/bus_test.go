package events

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qr-restaurant/models"
)

func TestPublishReachesTopicSubscribersOnly(t *testing.T) {
	bus := NewBus()

	kitchen := bus.Subscribe(TopicKitchen)
	defer kitchen.Close()
	table5 := bus.Subscribe(TableTopic(5))
	defer table5.Close()
	table7 := bus.Subscribe(TableTopic(7))
	defer table7.Close()

	order := &models.Order{OrderNumber: "2501150001", TableNumber: 5}
	bus.Publish(TopicKitchen, OrderEvent{Kind: KindNewOrder, Order: order})
	bus.Publish(TableTopic(5), OrderEvent{Kind: KindNewOrder, Order: order})

	select {
	case ev := <-kitchen.Events():
		assert.Equal(t, KindNewOrder, ev.Kind)
		assert.Equal(t, "2501150001", ev.Order.OrderNumber)
		assert.Equal(t, 5, ev.Order.TableNumber)
	case <-time.After(time.Second):
		t.Fatal("kitchen subscriber did not receive the event")
	}

	select {
	case ev := <-table5.Events():
		assert.Equal(t, KindNewOrder, ev.Kind)
	case <-time.After(time.Second):
		t.Fatal("table:5 subscriber did not receive the event")
	}

	select {
	case ev := <-table7.Events():
		t.Fatalf("table:7 should not receive events for table 5, got %v", ev)
	default:
	}
}

func TestPublishWithNoSubscribersIsNoop(t *testing.T) {
	bus := NewBus()
	delivered := bus.Publish(TopicKitchen, OrderEvent{Kind: KindNewOrder})
	assert.Equal(t, 0, delivered)
}

func TestLateSubscriberMissesEarlierEvents(t *testing.T) {
	bus := NewBus()
	bus.Publish(TopicKitchen, OrderEvent{Kind: KindNewOrder})

	sub := bus.Subscribe(TopicKitchen)
	defer sub.Close()

	select {
	case ev := <-sub.Events():
		t.Fatalf("expected no replay, got %v", ev)
	default:
	}
}

func TestSlowSubscriberIsDisconnected(t *testing.T) {
	bus := NewBus()
	slow := bus.Subscribe(TopicKitchen)
	fast := bus.Subscribe(TopicKitchen)
	defer fast.Close()

	// Fill both buffers, then drain only the fast subscriber.
	for i := 0; i < subscriberBuffer; i++ {
		bus.Publish(TopicKitchen, OrderEvent{Kind: KindStatusUpdate})
	}
	for i := 0; i < subscriberBuffer; i++ {
		<-fast.Events()
	}

	// One more event overflows the slow subscriber and drops it.
	delivered := bus.Publish(TopicKitchen, OrderEvent{Kind: KindNewOrder})
	assert.Equal(t, 1, delivered)
	assert.Equal(t, 1, bus.SubscriberCount(TopicKitchen))

	ev := <-fast.Events()
	assert.Equal(t, KindNewOrder, ev.Kind)

	// The dropped subscriber sees its channel closed after draining.
	drained := 0
	for range slow.Events() {
		drained++
	}
	assert.Equal(t, subscriberBuffer, drained)
}

func TestCloseRemovesSubscriber(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe(TableTopic(3))
	require.Equal(t, 1, bus.SubscriberCount(TableTopic(3)))

	sub.Close()
	assert.Equal(t, 0, bus.SubscriberCount(TableTopic(3)))

	// Double close must not panic.
	sub.Close()
}

func TestConcurrentPublishAndSubscribe(t *testing.T) {
	bus := NewBus()

	subs := make([]*Subscription, 10)
	var wg sync.WaitGroup
	for i := range subs {
		subs[i] = bus.Subscribe(TopicKitchen)
		wg.Add(1)
		go func(s *Subscription) {
			defer wg.Done()
			for range s.Events() {
			}
		}(subs[i])
	}

	var pubs sync.WaitGroup
	for i := 0; i < 10; i++ {
		pubs.Add(1)
		go func() {
			defer pubs.Done()
			for j := 0; j < 100; j++ {
				bus.Publish(TopicKitchen, OrderEvent{Kind: KindStatusUpdate})
			}
		}()
	}
	pubs.Wait()

	for _, s := range subs {
		s.Close()
	}
	wg.Wait()
	assert.Equal(t, 0, bus.SubscriberCount(TopicKitchen))
}
