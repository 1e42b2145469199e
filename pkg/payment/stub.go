package payment

import (
	"context"
	"fmt"
	"time"
)

// StubGateway is a no-op provider for development; replace with the real
// PayPal client (or a Stripe provider) in production wiring.
type StubGateway struct{}

func (s *StubGateway) CreateOrder(ctx context.Context, items []CheckoutItem, totalCents int64) (*CheckoutOrder, error) {
	return &CheckoutOrder{
		OrderID:   fmt.Sprintf("stub-order-%d", time.Now().UnixNano()),
		Status:    "CREATED",
		CreatedAt: time.Now(),
	}, nil
}

func (s *StubGateway) CaptureOrder(ctx context.Context, orderID string) (*CaptureResult, error) {
	return &CaptureResult{
		OrderID:   orderID,
		CaptureID: fmt.Sprintf("stub-capture-%d", time.Now().UnixNano()),
		Status:    "COMPLETED",
	}, nil
}

func (s *StubGateway) SendPayout(ctx context.Context, recipientEmail string, amountCents int64, note string) (*PayoutDispatch, error) {
	return &PayoutDispatch{
		BatchID:     fmt.Sprintf("stub-batch-%d", time.Now().UnixNano()),
		ItemID:      fmt.Sprintf("stub-item-%d", time.Now().UnixNano()),
		BatchStatus: "PENDING",
	}, nil
}
