package port

import (
	"context"

	"obazaar/pkg/payment"
)

// PayoutGateway is the external payment rail that disburses vendor payouts.
type PayoutGateway interface {
	SendPayout(ctx context.Context, recipientEmail string, amountCents int64, note string) (*payment.PayoutDispatch, error)
}

// EventPublisher pushes wallet lifecycle events to whoever is listening
// (the admin websocket feed in production, a no-op in tests).
type EventPublisher interface {
	Publish(eventType string, data interface{})
}

// TaskQueue persists deferred side effects for the outbox worker.
type TaskQueue interface {
	Enqueue(ctx context.Context, taskType string, payload interface{}) error
}
