package mysql

import (
	"context"
	"fmt"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type checkoutStore struct {
	db *gorm.DB
}

func NewCheckoutStore(db *gorm.DB) repository.CheckoutStore {
	return &checkoutStore{db: db}
}

func (s *checkoutStore) RunInTx(ctx context.Context, fn func(tx repository.CheckoutTx) error) error {
	var fnErr error
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fnErr = fn(&checkoutTx{db: tx})
		return fnErr
	})
	if err != nil && fnErr == nil {
		// begin or commit failed
		return fmt.Errorf("checkout tx: %w: %w", domain.ErrStorageUnavailable, err)
	}
	return err
}

type checkoutTx struct {
	db *gorm.DB
}

func (t *checkoutTx) InsertOrder(ctx context.Context, order *domain.Order) (int64, error) {
	res := t.db.WithContext(ctx).Omit(clause.Associations).Create(order)
	if res.Error != nil {
		return 0, wrapErr("insert order", res.Error)
	}
	return res.RowsAffected, nil
}

func (t *checkoutTx) InsertOrderItem(ctx context.Context, item *domain.OrderItem) (int64, error) {
	res := t.db.WithContext(ctx).Create(item)
	if res.Error != nil {
		return 0, wrapErr("insert order item", res.Error)
	}
	return res.RowsAffected, nil
}

// ConditionalDecrement puts the stock check in the UPDATE predicate so that
// of two racing checkouts on the last unit only one matches a row.
func (t *checkoutTx) ConditionalDecrement(ctx context.Context, productID uint64, amount int64) (bool, error) {
	res := t.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id = ? AND stock >= ?", productID, amount).
		UpdateColumn("stock", gorm.Expr("stock - ?", amount))
	if res.Error != nil {
		return false, wrapErr("decrement stock", res.Error)
	}
	return res.RowsAffected == 1, nil
}
