package repository

import (
	"context"
	"errors"

	"obazaar/internal/domain"
	"obazaar/internal/models"

	"gorm.io/gorm"
)

type WalletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

func (r *WalletRepository) GetByID(ctx context.Context, id uint) (*models.Wallet, error) {
	var w models.Wallet
	err := dbFrom(ctx, r.db).First(&w, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrWalletNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WalletRepository) GetByTenantID(ctx context.Context, tenantID uint) (*models.Wallet, error) {
	var w models.Wallet
	err := dbFrom(ctx, r.db).Where("tenant_id = ?", tenantID).First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrWalletNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WalletRepository) Create(ctx context.Context, w *models.Wallet) error {
	err := dbFrom(ctx, r.db).Create(w).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrAlreadyExists
	}
	return err
}

func (r *WalletRepository) CreditPending(ctx context.Context, walletID uint, amountCents int64) error {
	res := dbFrom(ctx, r.db).Model(&models.Wallet{}).
		Where("id = ?", walletID).
		Updates(map[string]interface{}{
			"pending_balance_cents": gorm.Expr("pending_balance_cents + ?", amountCents),
			"total_earnings_cents":  gorm.Expr("total_earnings_cents + ?", amountCents),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrWalletNotFound
	}
	return nil
}

func (r *WalletRepository) ReleasePending(ctx context.Context, walletID uint, amountCents int64) error {
	// Pending is clamped at zero rather than guarded: a release must never
	// strand matured funds even if pending drifted low.
	res := dbFrom(ctx, r.db).Model(&models.Wallet{}).
		Where("id = ?", walletID).
		Updates(map[string]interface{}{
			"pending_balance_cents":   gorm.Expr("GREATEST(pending_balance_cents - ?, 0)", amountCents),
			"available_balance_cents": gorm.Expr("available_balance_cents + ?", amountCents),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrWalletNotFound
	}
	return nil
}

func (r *WalletRepository) ReserveAvailable(ctx context.Context, walletID uint, amountCents int64) error {
	res := dbFrom(ctx, r.db).Model(&models.Wallet{}).
		Where("id = ? AND available_balance_cents >= ?", walletID, amountCents).
		Updates(map[string]interface{}{
			"available_balance_cents": gorm.Expr("available_balance_cents - ?", amountCents),
			"total_withdrawn_cents":   gorm.Expr("total_withdrawn_cents + ?", amountCents),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrInsufficientBalance
	}
	return nil
}

func (r *WalletRepository) AdjustAvailable(ctx context.Context, walletID uint, deltaCents int64) error {
	q := dbFrom(ctx, r.db).Model(&models.Wallet{})
	if deltaCents < 0 {
		q = q.Where("id = ? AND available_balance_cents >= ?", walletID, -deltaCents)
	} else {
		q = q.Where("id = ?", walletID)
	}
	res := q.Update("available_balance_cents", gorm.Expr("available_balance_cents + ?", deltaCents))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if deltaCents < 0 {
			return domain.ErrInsufficientBalance
		}
		return domain.ErrWalletNotFound
	}
	return nil
}

func (r *WalletRepository) ListAll(ctx context.Context) ([]models.Wallet, error) {
	var wallets []models.Wallet
	err := dbFrom(ctx, r.db).Order("id asc").Find(&wallets).Error
	return wallets, err
}
