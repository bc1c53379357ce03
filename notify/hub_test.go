package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"restro-qr/models"
)

func receive(t *testing.T, sub *Subscription) models.Notification {
	t.Helper()
	select {
	case n, ok := <-sub.C:
		require.True(t, ok, "subscription closed")
		return n
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for notification")
	}
	return models.Notification{}
}

func assertNothing(t *testing.T, sub *Subscription) {
	t.Helper()
	select {
	case n := <-sub.C:
		t.Fatalf("unexpected notification %+v", n)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEventNames(t *testing.T) {
	assert.Equal(t, "newOrder:alpha", NewOrderEvent("alpha"))
	assert.Equal(t, "orderStatus:alpha", OrderStatusEvent("alpha"))
}

func TestHubRoutesByRestaurant(t *testing.T) {
	hub := NewHub(4, zap.NewNop().Sugar())
	alpha := hub.Subscribe("alpha")
	defer alpha.Close()
	beta := hub.Subscribe("beta")
	defer beta.Close()

	require.NoError(t, hub.Publish(context.Background(), "alpha", NewOrderEvent("alpha")))

	n := receive(t, alpha)
	assert.Equal(t, "newOrder:alpha", n.Event)
	assert.Equal(t, "alpha", n.Restaurant)
	assertNothing(t, beta)
}

func TestHubFansOutToEverySubscriber(t *testing.T) {
	hub := NewHub(4, zap.NewNop().Sugar())
	first := hub.Subscribe("alpha")
	defer first.Close()
	second := hub.Subscribe("alpha")
	defer second.Close()

	require.NoError(t, hub.Publish(context.Background(), "alpha", NewOrderEvent("alpha")))

	assert.Equal(t, "newOrder:alpha", receive(t, first).Event)
	assert.Equal(t, "newOrder:alpha", receive(t, second).Event)
}

func TestHubLateSubscriberMissesEarlierEvents(t *testing.T) {
	hub := NewHub(4, zap.NewNop().Sugar())

	require.NoError(t, hub.Publish(context.Background(), "alpha", NewOrderEvent("alpha")))

	late := hub.Subscribe("alpha")
	defer late.Close()
	assertNothing(t, late)
}

func TestHubPublishNeverBlocks(t *testing.T) {
	hub := NewHub(1, zap.NewNop().Sugar())
	slow := hub.Subscribe("alpha")
	defer slow.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			_ = hub.Publish(context.Background(), "alpha", NewOrderEvent("alpha"))
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
	assert.Equal(t, "newOrder:alpha", receive(t, slow).Event)
	assertNothing(t, slow)
}

func TestSubscriptionClose(t *testing.T) {
	hub := NewHub(1, zap.NewNop().Sugar())
	sub := hub.Subscribe("alpha")
	assert.Equal(t, 1, hub.Subscribers("alpha"))

	sub.Close()
	sub.Close()

	assert.Equal(t, 0, hub.Subscribers("alpha"))
	_, ok := <-sub.C
	assert.False(t, ok)
	assert.NoError(t, hub.Publish(context.Background(), "alpha", NewOrderEvent("alpha")))
}
