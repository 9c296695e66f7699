package repository

import (
	"context"

	"storefront/internal/domain"
)

// OrderLedger is the read side of the durable order record.
type OrderLedger interface {
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	OrdersByUser(ctx context.Context, userID string) ([]domain.Order, error)
	AllOrders(ctx context.Context) ([]domain.Order, error)
	ItemsByOrder(ctx context.Context, orderID string) ([]domain.OrderItem, error)
	ProductByID(ctx context.Context, id uint64) (*domain.Product, error)
	DeleteOrder(ctx context.Context, id string) error
}

type Inventory interface {
	GetStock(ctx context.Context, productID uint64) (int64, error)
}

// ProductReader resolves products for display. FindByID returns (nil, nil)
// when the product does not exist.
type ProductReader interface {
	FindByID(ctx context.Context, id uint64) (*domain.Product, error)
}

type UserDirectory interface {
	UsersByIDs(ctx context.Context, ids []string) (map[string]domain.User, error)
}

// CheckoutTx is the set of writes checkout performs inside one transaction.
type CheckoutTx interface {
	InsertOrder(ctx context.Context, order *domain.Order) (int64, error)
	InsertOrderItem(ctx context.Context, item *domain.OrderItem) (int64, error)
	// ConditionalDecrement lowers stock by amount only if stock >= amount.
	ConditionalDecrement(ctx context.Context, productID uint64, amount int64) (bool, error)
}

// CheckoutStore runs fn in a single transaction, committing when fn returns
// nil and rolling back otherwise.
type CheckoutStore interface {
	RunInTx(ctx context.Context, fn func(tx CheckoutTx) error) error
}

// CartStore persists one cart blob per user.
type CartStore interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	// Update applies fn to the current cart and writes the result only if
	// nobody else wrote the cart in between.
	Update(ctx context.Context, userID string, fn func(*domain.Cart) error) (*domain.Cart, error)
	Delete(ctx context.Context, userID string) error
}
