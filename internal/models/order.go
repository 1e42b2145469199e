package models

import (
	"time"

	"gorm.io/gorm"
)

// Order is one product purchase. A single PayPal checkout may span several
// orders (one per item), all sharing the same PayPalOrderID.
type Order struct {
	ID                         uint           `gorm:"primaryKey" json:"id"`
	UserID                     uint           `gorm:"not null;index" json:"user_id"`
	TenantID                   uint           `gorm:"not null;index" json:"tenant_id"`
	ProductID                  uint           `gorm:"not null;index" json:"product_id"`
	Name                       string         `gorm:"size:255;not null" json:"name"`
	Quantity                   int            `gorm:"not null;default:1" json:"quantity"`
	AmountPaidCents            int64          `gorm:"not null" json:"amount_paid_cents"`
	PaymentStatus              string         `gorm:"size:20;not null;index" json:"payment_status"` // pending | completed | failed | refunded
	PayPalOrderID              string         `gorm:"column:paypal_order_id;size:64;index" json:"paypal_order_id"`
	PayPalCaptureID            string         `gorm:"column:paypal_capture_id;size:64" json:"paypal_capture_id"`
	RecipientName              string         `gorm:"size:120" json:"recipient_name"`
	ShippingAddress            string         `gorm:"size:512" json:"shipping_address"`
	PlatformCommissionCents    int64          `json:"platform_commission_cents"`
	VendorEarningCents         int64          `json:"vendor_earning_cents"`
	WalletTransactionProcessed bool           `gorm:"not null;default:false;index" json:"wallet_transaction_processed"`
	CreatedAt                  time.Time      `json:"created_at"`
	UpdatedAt                  time.Time      `json:"updated_at"`
	DeletedAt                  gorm.DeletedAt `gorm:"index" json:"-"`

	Tenant  Tenant  `gorm:"foreignKey:TenantID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

func (Order) TableName() string {
	return "orders"
}
