package payment

import (
	"context"
	"fmt"
	"time"
)

// CheckoutItem is one purchasable line in a checkout order.
type CheckoutItem struct {
	Name       string
	PriceCents int64
	Quantity   int
}

// CheckoutOrder is the gateway-side order created for buyer approval.
type CheckoutOrder struct {
	OrderID     string
	Status      string
	ApprovalURL string
	CreatedAt   time.Time
}

// CaptureResult reports the outcome of capturing an approved checkout order.
type CaptureResult struct {
	OrderID   string
	CaptureID string
	Status    string // COMPLETED when funds were captured
}

// PayoutDispatch identifies a dispatched payout batch on the gateway side.
type PayoutDispatch struct {
	BatchID     string
	ItemID      string
	BatchStatus string
}

// CheckoutProvider creates and captures buyer-facing checkout orders.
type CheckoutProvider interface {
	CreateOrder(ctx context.Context, items []CheckoutItem, totalCents int64) (*CheckoutOrder, error)
	CaptureOrder(ctx context.Context, orderID string) (*CaptureResult, error)
}

// PayoutProvider sends money out to a recipient (vendor payouts).
type PayoutProvider interface {
	SendPayout(ctx context.Context, recipientEmail string, amountCents int64, note string) (*PayoutDispatch, error)
}

// Dollars renders integer cents as a decimal string ("1234" -> "12.34"),
// the format the gateway APIs expect.
func Dollars(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
