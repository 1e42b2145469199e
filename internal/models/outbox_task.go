package models

import (
	"time"

	"gorm.io/datatypes"
)

// OutboxTask is a persisted deferred side effect (e.g. shipment creation
// after payment capture), retried with bounded exponential backoff.
type OutboxTask struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Type        string         `gorm:"size:64;not null;index" json:"type"`
	Payload     datatypes.JSON `gorm:"not null" json:"payload"`
	Status      string         `gorm:"size:20;not null;index;default:'pending'" json:"status"` // pending, done, dead
	Attempts    int            `gorm:"not null;default:0" json:"attempts"`
	MaxAttempts int            `gorm:"not null;default:8" json:"max_attempts"`
	NextRunAt   time.Time      `gorm:"not null;index" json:"next_run_at"`
	LastError   string         `gorm:"size:512" json:"last_error"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (OutboxTask) TableName() string {
	return "outbox_tasks"
}
