package models

import (
	"time"

	"obazaar/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Email        string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	Name         string         `gorm:"size:120" json:"name"`
	Role         string         `gorm:"size:20;not null;index" json:"role"` // CUSTOMER | VENDOR | SUPER_ADMIN
	TenantID     *uint          `gorm:"index" json:"tenant_id"`             // set for vendor accounts
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Tenant *Tenant `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
}

func (u *User) IsVendor() bool     { return u.Role == domain.RoleVendor }
func (u *User) IsSuperAdmin() bool { return u.Role == domain.RoleSuperAdmin }

func (User) TableName() string {
	return "users"
}
