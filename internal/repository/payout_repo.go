package repository

import (
	"context"
	"errors"
	"time"

	"obazaar/internal/domain"
	"obazaar/internal/models"

	"gorm.io/gorm"
)

type PayoutRepository struct {
	db *gorm.DB
}

func NewPayoutRepository(db *gorm.DB) *PayoutRepository {
	return &PayoutRepository{db: db}
}

func (r *PayoutRepository) Create(ctx context.Context, p *models.Payout) error {
	return dbFrom(ctx, r.db).Create(p).Error
}

func (r *PayoutRepository) GetByID(ctx context.Context, id uint) (*models.Payout, error) {
	var p models.Payout
	err := dbFrom(ctx, r.db).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrPayoutNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PayoutRepository) FindPending(ctx context.Context, method string) ([]models.Payout, error) {
	var payouts []models.Payout
	err := dbFrom(ctx, r.db).
		Where("method = ? AND status = ?", method, domain.PayoutStatusPending).
		Order("requested_at asc").
		Find(&payouts).Error
	return payouts, err
}

func (r *PayoutRepository) FindByStatus(ctx context.Context, status string) ([]models.Payout, error) {
	var payouts []models.Payout
	err := dbFrom(ctx, r.db).
		Where("status = ?", status).
		Order("requested_at asc").
		Find(&payouts).Error
	return payouts, err
}

func (r *PayoutRepository) MarkProcessing(ctx context.Context, id uint, batchID, itemID string, at time.Time) error {
	return dbFrom(ctx, r.db).Model(&models.Payout{}).
		Where("id = ? AND status = ?", id, domain.PayoutStatusPending).
		Updates(map[string]interface{}{
			"status":          domain.PayoutStatusProcessing,
			"processed_at":    at,
			"paypal_batch_id": batchID,
			"paypal_item_id":  itemID,
		}).Error
}

func (r *PayoutRepository) MarkFailed(ctx context.Context, id uint, reason string, at time.Time) error {
	return dbFrom(ctx, r.db).Model(&models.Payout{}).
		Where("id = ? AND status = ?", id, domain.PayoutStatusPending).
		Updates(map[string]interface{}{
			"status":         domain.PayoutStatusFailed,
			"processed_at":   at,
			"failure_reason": reason,
		}).Error
}

// ListOpenByWallet returns payouts that are not yet in a terminal state.
func (r *PayoutRepository) ListOpenByWallet(ctx context.Context, walletID uint) ([]models.Payout, error) {
	var payouts []models.Payout
	err := dbFrom(ctx, r.db).
		Where("wallet_id = ? AND status IN ?", walletID,
			[]string{domain.PayoutStatusPending, domain.PayoutStatusProcessing}).
		Order("requested_at desc").
		Find(&payouts).Error
	return payouts, err
}
