package repository

import (
	"context"
	"time"

	"obazaar/internal/domain"
	"obazaar/internal/models"

	"gorm.io/gorm"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, t *models.WalletTransaction) error {
	return dbFrom(ctx, r.db).Create(t).Error
}

func (r *TransactionRepository) FindReleasable(ctx context.Context, now time.Time, limit int) ([]models.WalletTransaction, error) {
	var txs []models.WalletTransaction
	q := dbFrom(ctx, r.db).
		Where("type = ? AND status = ? AND available_at <= ? AND released_at IS NULL",
			domain.TxTypeEarning, domain.TxStatusCompleted, now).
		Order("available_at asc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&txs).Error
	return txs, err
}

// MarkReleased stamps ReleasedAt exactly once; the released_at IS NULL guard
// makes the release idempotent under scheduler re-runs.
func (r *TransactionRepository) MarkReleased(ctx context.Context, id uint, at time.Time) (bool, error) {
	res := dbFrom(ctx, r.db).Model(&models.WalletTransaction{}).
		Where("id = ? AND released_at IS NULL", id).
		Update("released_at", at)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *TransactionRepository) ListByWallet(ctx context.Context, walletID uint, limit int) ([]models.WalletTransaction, error) {
	var txs []models.WalletTransaction
	q := dbFrom(ctx, r.db).Where("wallet_id = ?", walletID).Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&txs).Error
	return txs, err
}
