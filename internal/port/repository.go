// Package port defines the narrow interfaces the wallet core is built
// against, so services can be wired with gorm-backed repositories in
// production and in-memory doubles in tests.
package port

import (
	"context"
	"time"

	"obazaar/internal/models"
)

// TxManager runs fn inside a single database transaction. Store calls made
// with the context passed to fn join that transaction.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type WalletStore interface {
	GetByID(ctx context.Context, id uint) (*models.Wallet, error)
	GetByTenantID(ctx context.Context, tenantID uint) (*models.Wallet, error)
	Create(ctx context.Context, w *models.Wallet) error
	// CreditPending atomically adds amountCents to the pending balance and
	// lifetime earnings.
	CreditPending(ctx context.Context, walletID uint, amountCents int64) error
	// ReleasePending atomically moves amountCents from pending (clamped at
	// zero) to available.
	ReleasePending(ctx context.Context, walletID uint, amountCents int64) error
	// ReserveAvailable atomically deducts amountCents from available and adds
	// it to lifetime withdrawn, guarded so the balance cannot go negative;
	// returns domain.ErrInsufficientBalance when the guard fails.
	ReserveAvailable(ctx context.Context, walletID uint, amountCents int64) error
	// AdjustAvailable applies a signed manual correction to the available
	// balance; debits are guarded like ReserveAvailable.
	AdjustAvailable(ctx context.Context, walletID uint, deltaCents int64) error
	ListAll(ctx context.Context) ([]models.Wallet, error)
}

type TransactionStore interface {
	Create(ctx context.Context, t *models.WalletTransaction) error
	// FindReleasable returns completed earning rows whose hold period has
	// elapsed and that have not been released yet.
	FindReleasable(ctx context.Context, now time.Time, limit int) ([]models.WalletTransaction, error)
	// MarkReleased stamps ReleasedAt on an earning row; returns false when
	// the row was already released (the stamp is guarded).
	MarkReleased(ctx context.Context, id uint, at time.Time) (bool, error)
	ListByWallet(ctx context.Context, walletID uint, limit int) ([]models.WalletTransaction, error)
}

type PayoutStore interface {
	Create(ctx context.Context, p *models.Payout) error
	GetByID(ctx context.Context, id uint) (*models.Payout, error)
	FindPending(ctx context.Context, method string) ([]models.Payout, error)
	FindByStatus(ctx context.Context, status string) ([]models.Payout, error)
	MarkProcessing(ctx context.Context, id uint, batchID, itemID string, at time.Time) error
	MarkFailed(ctx context.Context, id uint, reason string, at time.Time) error
	ListOpenByWallet(ctx context.Context, walletID uint) ([]models.Payout, error)
}

type OrderStore interface {
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	Create(ctx context.Context, o *models.Order) error
	FindByPayPalOrderID(ctx context.Context, paypalOrderID string) ([]models.Order, error)
	// MarkPaid flips the order to completed; returns false when the order
	// was already completed (the flip is guarded).
	MarkPaid(ctx context.Context, id uint, captureID string) (bool, error)
	// MarkEarningProcessed flips the idempotency flag and records the
	// commission split; returns false when another call already won.
	MarkEarningProcessed(ctx context.Context, id uint, commissionCents, earningCents int64) (bool, error)
}

type TenantStore interface {
	GetByID(ctx context.Context, id uint) (*models.Tenant, error)
}

type ProductStore interface {
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	ListByTenant(ctx context.Context, tenantID uint) ([]models.Product, error)
	// DecrementStock reduces tracked stock by qty, floored at zero.
	DecrementStock(ctx context.Context, id uint, qty int) error
}
