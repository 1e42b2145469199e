package repository

import (
	"context"
	"errors"

	"obazaar/internal/domain"
	"obazaar/internal/models"

	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, o *models.Order) error {
	return dbFrom(ctx, r.db).Create(o).Error
}

func (r *OrderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	err := dbFrom(ctx, r.db).First(&o, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) FindByPayPalOrderID(ctx context.Context, paypalOrderID string) ([]models.Order, error) {
	var orders []models.Order
	err := dbFrom(ctx, r.db).Where("paypal_order_id = ?", paypalOrderID).Find(&orders).Error
	return orders, err
}

// MarkPaid flips the order to completed. Guarded so a retried or concurrent
// capture observes false and skips the one-shot side effects (stock,
// shipment) that hang off the first flip.
func (r *OrderRepository) MarkPaid(ctx context.Context, id uint, captureID string) (bool, error) {
	res := dbFrom(ctx, r.db).Model(&models.Order{}).
		Where("id = ? AND payment_status <> ?", id, domain.PaymentStatusCompleted).
		Updates(map[string]interface{}{
			"payment_status":    domain.PaymentStatusCompleted,
			"paypal_capture_id": captureID,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// MarkEarningProcessed flips the one-shot idempotency flag. The guarded
// update means that of two concurrent earning runs for the same order,
// exactly one observes RowsAffected == 1 and proceeds to the ledger writes.
func (r *OrderRepository) MarkEarningProcessed(ctx context.Context, id uint, commissionCents, earningCents int64) (bool, error) {
	res := dbFrom(ctx, r.db).Model(&models.Order{}).
		Where("id = ? AND wallet_transaction_processed = ?", id, false).
		Updates(map[string]interface{}{
			"wallet_transaction_processed": true,
			"platform_commission_cents":    commissionCents,
			"vendor_earning_cents":         earningCents,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
