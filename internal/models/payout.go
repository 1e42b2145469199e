package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Payout is a withdrawal of available balance to a vendor. Funds are reserved
// (deducted from the wallet) when the row is created in pending state.
// Status moves pending -> processing -> completed|failed, or pending ->
// cancelled by an operator; transitions are never reversed.
type Payout struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	WalletID       uint           `gorm:"not null;index" json:"wallet_id"`
	AmountCents    int64          `gorm:"not null" json:"amount_cents"`
	Method         string         `gorm:"size:20;not null" json:"method"`       // paypal | bank_transfer | manual
	Status         string         `gorm:"size:20;not null;index" json:"status"` // pending, processing, completed, failed, cancelled
	RequestedAt    time.Time      `gorm:"not null" json:"requested_at"`
	ProcessedAt    *time.Time     `json:"processed_at"`
	RecipientEmail string         `gorm:"size:255" json:"recipient_email"`
	BankDetails    datatypes.JSON `json:"bank_details"`
	PayPalBatchID  string         `gorm:"column:paypal_batch_id;size:128" json:"paypal_batch_id"`
	PayPalItemID   string         `gorm:"column:paypal_item_id;size:128" json:"paypal_item_id"`
	FailureReason  string         `gorm:"size:512" json:"failure_reason"`
	FeeAmountCents int64          `json:"fee_amount_cents"`
	Notes          string         `gorm:"type:text" json:"notes"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Wallet Wallet `gorm:"foreignKey:WalletID" json:"-"`
}

func (Payout) TableName() string {
	return "payouts"
}
