package mysql

import (
	"context"
	"errors"
	"log/slog"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"gorm.io/gorm"
)

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) repository.OrderLedger {
	return &orderRepo{db: db}
}

func (r *orderRepo) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		slog.Error("find order failed", "order_id", id, "error", err)
		return nil, wrapErr("find order", err)
	}
	return &o, nil
}

func (r *orderRepo) OrdersByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id").
		Find(&out).Error
	if err != nil {
		slog.Error("orders by user failed", "user_id", userID, "error", err)
		return nil, wrapErr("orders by user", err)
	}
	return out, nil
}

func (r *orderRepo) AllOrders(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id").Find(&out).Error; err != nil {
		slog.Error("all orders failed", "error", err)
		return nil, wrapErr("all orders", err)
	}
	return out, nil
}

func (r *orderRepo) ItemsByOrder(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	var out []domain.OrderItem
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id").Find(&out).Error; err != nil {
		slog.Error("items by order failed", "order_id", orderID, "error", err)
		return nil, wrapErr("items by order", err)
	}
	return out, nil
}

func (r *orderRepo) ProductByID(ctx context.Context, id uint64) (*domain.Product, error) {
	return findProduct(r.db.WithContext(ctx), id)
}

// DeleteOrder removes an order and its items together.
func (r *orderRepo) DeleteOrder(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&domain.OrderItem{}).Error; err != nil {
			return wrapErr("delete order items", err)
		}
		res := tx.Where("id = ?", id).Delete(&domain.Order{})
		if res.Error != nil {
			return wrapErr("delete order", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrOrderNotFound
		}
		slog.Info("order deleted", "order_id", id)
		return nil
	})
}
