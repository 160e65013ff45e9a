package notification

import (
	"context"
	"sync"

	"livemart-be/internal/logger"

	"go.uber.org/zap"
)

// Publisher is what producing code depends on; *Dispatcher satisfies it.
type Publisher interface {
	Publish(ctx context.Context, ev Event)
}

// Dispatcher decouples order fulfillment from notification delivery. Events
// flow through a buffered channel into a single consumer goroutine; a slow
// or failing sender can never block or fail the operation that published.
type Dispatcher struct {
	sender Sender
	events chan Event

	closeOnce sync.Once
	done      chan struct{}
}

func NewDispatcher(sender Sender, buffer int) *Dispatcher {
	if buffer <= 0 {
		buffer = 64
	}

	d := &Dispatcher{
		sender: sender,
		events: make(chan Event, buffer),
		done:   make(chan struct{}),
	}

	go d.run()
	return d
}

func (d *Dispatcher) run() {
	defer close(d.done)

	for ev := range d.events {
		// Sender failures are logged and swallowed: delivery status of a
		// notice never feeds back into order state.
		if err := d.sender.Send(context.Background(), ev); err != nil {
			logger.L().Warn("notification send failed",
				zap.String("type", string(ev.Type)),
				zap.Uint("recipient", ev.Recipient),
				zap.Uint("item_id", ev.ItemID),
				zap.Error(err),
			)
		}
	}
}

// Publish enqueues without blocking. When the buffer is saturated the event
// is dropped with a warning rather than stalling the caller.
func (d *Dispatcher) Publish(ctx context.Context, ev Event) {
	select {
	case d.events <- ev:
	default:
		logger.FromCtx(ctx).Warn("notification buffer full, event dropped",
			zap.String("type", string(ev.Type)),
			zap.Uint("recipient", ev.Recipient),
			zap.Uint("item_id", ev.ItemID),
		)
	}
}

// Close drains outstanding events and stops the consumer.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.events)
	})
	<-d.done
}
