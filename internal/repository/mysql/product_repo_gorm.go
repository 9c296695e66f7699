package mysql

import (
	"context"
	"errors"

	"storefront/internal/domain"

	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) FindByID(ctx context.Context, id uint64) (*domain.Product, error) {
	return findProduct(r.db.WithContext(ctx), id)
}

func (r *ProductRepository) GetStock(ctx context.Context, productID uint64) (int64, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).Select("id", "stock").First(&p, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, domain.ErrProductNotFound
		}
		return 0, wrapErr("get stock", err)
	}
	return p.Stock, nil
}

func findProduct(db *gorm.DB, id uint64) (*domain.Product, error) {
	var p domain.Product
	if err := db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, wrapErr("find product", err)
	}
	return &p, nil
}
