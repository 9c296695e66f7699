package mocks

import (
	"context"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockOrderLedger struct {
	mock.Mock
}

type MockProductReader struct {
	mock.Mock
}

type MockInventory struct {
	mock.Mock
}

type MockUserDirectory struct {
	mock.Mock
}

type MockCheckoutStore struct {
	mock.Mock
	Tx *MockCheckoutTx
}

type MockCheckoutTx struct {
	mock.Mock
}

type MockCartStore struct {
	mock.Mock
	Cart *domain.Cart
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, message interface{}) error {
	args := m.Called(ctx, topic, message)
	return args.Error(0)
}

func (m *MockProductReader) FindByID(ctx context.Context, id uint64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockInventory) GetStock(ctx context.Context, productID uint64) (int64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserDirectory) UsersByIDs(ctx context.Context, ids []string) (map[string]domain.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.User), args.Error(1)
}

func (m *MockOrderLedger) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderLedger) OrdersByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderLedger) AllOrders(ctx context.Context) ([]domain.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderLedger) ItemsByOrder(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OrderItem), args.Error(1)
}

func (m *MockOrderLedger) ProductByID(ctx context.Context, id uint64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockOrderLedger) DeleteOrder(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// RunInTx hands the embedded MockCheckoutTx to fn. The returned error is
// whatever fn returned unless an error was configured on the expectation.
func (m *MockCheckoutStore) RunInTx(ctx context.Context, fn func(tx repository.CheckoutTx) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(m.Tx)
}

func (m *MockCheckoutTx) InsertOrder(ctx context.Context, order *domain.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCheckoutTx) InsertOrderItem(ctx context.Context, item *domain.OrderItem) (int64, error) {
	args := m.Called(ctx, item)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCheckoutTx) ConditionalDecrement(ctx context.Context, productID uint64, amount int64) (bool, error) {
	args := m.Called(ctx, productID, amount)
	return args.Bool(0), args.Error(1)
}

func (m *MockCartStore) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

// Update applies fn to the in-memory Cart, creating it on first use.
func (m *MockCartStore) Update(ctx context.Context, userID string, fn func(*domain.Cart) error) (*domain.Cart, error) {
	args := m.Called(ctx, userID)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	if m.Cart == nil {
		m.Cart = domain.NewCart(userID)
	}
	if err := fn(m.Cart); err != nil {
		return nil, err
	}
	return m.Cart, nil
}

func (m *MockCartStore) Delete(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
