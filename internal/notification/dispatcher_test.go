package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSender struct {
	mu     sync.Mutex
	events []Event
	err    error
	block  chan struct{}
}

func (s *captureSender) Send(ctx context.Context, ev Event) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return s.err
}

func (s *captureSender) sent() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

func TestDispatcherDelivers(t *testing.T) {
	sender := &captureSender{}
	d := NewDispatcher(sender, 8)

	ev := Event{
		Type:       EventItemDelivered,
		Recipient:  7,
		OrderID:    1,
		ItemID:     5,
		ItemName:   "Rice 5kg",
		Pipeline:   "retail",
		OccurredAt: time.Now(),
	}

	d.Publish(context.Background(), ev)
	d.Close()

	events := sender.sent()
	require.Len(t, events, 1)
	assert.Equal(t, EventItemDelivered, events[0].Type)
	assert.Equal(t, uint(7), events[0].Recipient)
	assert.Equal(t, "Rice 5kg", events[0].ItemName)
}

func TestDispatcherSwallowsSenderErrors(t *testing.T) {
	sender := &captureSender{err: errors.New("smtp down")}
	d := NewDispatcher(sender, 8)

	// Publish never observes the failure
	d.Publish(context.Background(), Event{Type: EventItemDelivered, ItemID: 1})
	d.Publish(context.Background(), Event{Type: EventItemDelivered, ItemID: 2})
	d.Close()

	assert.Len(t, sender.sent(), 2)
}

func TestDispatcherDropsWhenSaturated(t *testing.T) {
	block := make(chan struct{})
	sender := &captureSender{block: block}
	d := NewDispatcher(sender, 1)

	ctx := context.Background()

	// First event occupies the consumer, second fills the buffer, the rest
	// must drop without blocking this goroutine.
	for i := 0; i < 5; i++ {
		done := make(chan struct{})
		go func(id uint) {
			d.Publish(ctx, Event{Type: EventItemDelivered, ItemID: id})
			close(done)
		}(uint(i))

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("Publish blocked")
		}
	}

	close(block)
	d.Close()

	assert.LessOrEqual(t, len(sender.sent()), 3)
}

func TestDispatcherCloseIsIdempotent(t *testing.T) {
	d := NewDispatcher(&captureSender{}, 1)
	d.Close()
	assert.NotPanics(t, func() { d.Close() })
}
