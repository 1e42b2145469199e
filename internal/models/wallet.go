package models

import (
	"time"

	"gorm.io/datatypes"
)

// Wallet holds a tenant's running balances. One wallet per tenant, created
// lazily on the first earning event and never deleted (soft-disabled via
// IsActive). Balance columns are only mutated through guarded atomic updates
// so they cannot be persisted negative.
type Wallet struct {
	ID                    uint           `gorm:"primaryKey" json:"id"`
	TenantID              uint           `gorm:"uniqueIndex;not null" json:"tenant_id"`
	AvailableBalanceCents int64          `gorm:"not null;default:0" json:"available_balance_cents"`
	PendingBalanceCents   int64          `gorm:"not null;default:0" json:"pending_balance_cents"`
	TotalEarningsCents    int64          `gorm:"not null;default:0" json:"total_earnings_cents"`
	TotalWithdrawnCents   int64          `gorm:"not null;default:0" json:"total_withdrawn_cents"`
	CommissionRate        float64        `gorm:"not null;default:0.1" json:"commission_rate"`
	HoldPeriodDays        int            `gorm:"not null;default:7" json:"hold_period_days"`
	PayoutMethod          string         `gorm:"size:20" json:"payout_method"`
	PayoutEmail           string         `gorm:"size:255" json:"payout_email"`
	BankDetails           datatypes.JSON `json:"bank_details"`
	IsActive              bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`

	Tenant Tenant `gorm:"foreignKey:TenantID" json:"-"`
}

func (Wallet) TableName() string {
	return "wallets"
}
