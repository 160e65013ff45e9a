package notification

import (
	"context"
	"time"

	"livemart-be/internal/logger"

	"go.uber.org/zap"
)

type EventType string

const (
	EventItemDelivered EventType = "ITEM_DELIVERED"
)

// Event is the payload handed to the delivery channel. Recipient is the
// buyer's user id.
type Event struct {
	Type       EventType `json:"type"`
	Recipient  uint      `json:"recipient"`
	OrderID    uint      `json:"order_id"`
	ItemID     uint      `json:"item_id"`
	ItemName   string    `json:"item_name"`
	Pipeline   string    `json:"pipeline"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Sender pushes one event to the external notification collaborator.
type Sender interface {
	Send(ctx context.Context, ev Event) error
}

// LogSender writes events to the structured log. It stands in until a real
// provider is wired.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, ev Event) error {
	logger.FromCtx(ctx).Info("notification sent",
		zap.String("type", string(ev.Type)),
		zap.Uint("recipient", ev.Recipient),
		zap.Uint("order_id", ev.OrderID),
		zap.Uint("item_id", ev.ItemID),
		zap.String("item_name", ev.ItemName),
		zap.String("pipeline", ev.Pipeline),
	)
	return nil
}
