package repository

import (
	"context"

	"obazaar/internal/models"

	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	return dbFrom(ctx, r.db).Create(p).Error
}

func (r *ProductRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	err := dbFrom(ctx, r.db).First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) ListByTenant(ctx context.Context, tenantID uint) ([]models.Product, error) {
	var products []models.Product
	err := dbFrom(ctx, r.db).Where("tenant_id = ?", tenantID).Order("id desc").Find(&products).Error
	return products, err
}

func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	return dbFrom(ctx, r.db).Save(p).Error
}

// DecrementStock floors stock at zero; only meaningful for products with
// inventory tracking enabled.
func (r *ProductRepository) DecrementStock(ctx context.Context, id uint, qty int) error {
	return dbFrom(ctx, r.db).Model(&models.Product{}).
		Where("id = ? AND track_inventory = ?", id, true).
		Update("stock", gorm.Expr("GREATEST(stock - ?, 0)", qty)).Error
}
