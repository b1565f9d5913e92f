package watch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeDeliversAndCoalesces(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe(Orders)
	defer sub.Cancel()

	h.Publish(Orders)
	h.Publish(Orders)
	h.Publish(Services) // not subscribed

	select {
	case <-sub.Wait():
	case <-time.After(time.Second):
		t.Fatal("no wake-up after publish")
	}

	cols := sub.Drain()
	require.Len(t, cols, 1)
	assert.Equal(t, Orders, cols[0])

	// drained, no pending left
	assert.Empty(t, sub.Drain())
}

func TestSubscribeAllCollections(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe()
	defer sub.Cancel()

	h.Publish(Orders)
	h.Publish(Clients)

	<-sub.Wait()
	cols := sub.Drain()
	assert.Len(t, cols, 2)
}

func TestCancelIsIdempotent(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe(Orders)

	sub.Cancel()
	sub.Cancel()

	select {
	case <-sub.Done():
	default:
		t.Fatal("done channel not closed")
	}

	// publish after cancel must not wake the subscription
	h.Publish(Orders)
	assert.Empty(t, sub.Drain())
}

func TestSlowConsumerDoesNotBlockPublish(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe()
	defer sub.Cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			h.Publish(Orders)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a consumer that never drains")
	}
}
