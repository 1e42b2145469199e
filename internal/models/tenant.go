package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Tenant is a vendor storefront, the unit of wallet ownership.
type Tenant struct {
	ID                    uint           `gorm:"primaryKey" json:"id"`
	Name                  string         `gorm:"size:255;not null" json:"name"`
	Slug                  string         `gorm:"uniqueIndex;size:64;not null" json:"slug"`
	PayPalEmail           string         `gorm:"size:255" json:"paypal_email"`
	PreferredPayoutMethod string         `gorm:"size:20;default:'manual'" json:"preferred_payout_method"` // paypal | bank_transfer | manual
	BankDetails           datatypes.JSON `json:"bank_details"`
	IsActive              bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Tenant) TableName() string {
	return "tenants"
}
