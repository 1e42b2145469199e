package models

import (
	"time"

	"gorm.io/datatypes"
)

// WalletTransaction is an append-only ledger entry. Rows are created once per
// balance-affecting event and never edited afterwards; the single exception
// is ReleasedAt on earning rows, stamped exactly once when the hold period
// release moves the funds to the available balance.
type WalletTransaction struct {
	ID                    uint           `gorm:"primaryKey" json:"id"`
	WalletID              uint           `gorm:"not null;index" json:"wallet_id"`
	Type                  string         `gorm:"size:30;not null;index" json:"type"` // earning, payout, refund, commission_adjustment, manual_adjustment, hold_release
	AmountCents           int64          `gorm:"not null" json:"amount_cents"`       // positive = credit, negative = debit
	GrossAmountCents      int64          `json:"gross_amount_cents"`
	CommissionAmountCents int64          `json:"commission_amount_cents"`
	Description           string         `gorm:"size:512" json:"description"`
	Status                string         `gorm:"size:20;not null;index" json:"status"` // pending, completed, failed, cancelled
	RelatedOrderID        *uint          `gorm:"index" json:"related_order_id"`
	RelatedPayoutID       *uint          `gorm:"index" json:"related_payout_id"`
	AvailableAt           *time.Time     `gorm:"index" json:"available_at"` // earning rows only: end of hold period
	ReleasedAt            *time.Time     `gorm:"index" json:"released_at"`  // earning rows only: set once on release
	Metadata              datatypes.JSON `json:"metadata"`
	CreatedAt             time.Time      `json:"created_at"`

	Wallet Wallet `gorm:"foreignKey:WalletID" json:"-"`
}

func (WalletTransaction) TableName() string {
	return "wallet_transactions"
}
