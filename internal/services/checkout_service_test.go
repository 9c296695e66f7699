package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/domain"
	"storefront/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestCheckoutService(store *mocks.MockCheckoutStore, pub *mocks.MockPublisher) *CheckoutService {
	s := NewCheckoutService(store, pub, nil)
	s.newID = func() string { return TestOrderID }
	return s
}

func TestCheckoutService_Checkout(t *testing.T) {
	twoLines := []domain.CartLine{
		CreateMockLine(TestProductA, 2, TestPriceA),
		CreateMockLine(TestProductB, 1, TestPriceB),
	}
	anyOrder := mock.AnythingOfType("*domain.Order")
	anyItem := mock.AnythingOfType("*domain.OrderItem")

	tests := []struct {
		name          string
		lines         []domain.CartLine
		setupMocks    func(*mocks.MockCheckoutStore, *mocks.MockCheckoutTx, *mocks.MockPublisher)
		expectedKind  error
		expectedErr   error
		expectedProd  uint64
		expectedOrder string
	}{
		{
			name:  "successful checkout",
			lines: twoLines,
			setupMocks: func(store *mocks.MockCheckoutStore, tx *mocks.MockCheckoutTx, pub *mocks.MockPublisher) {
				store.On("RunInTx", mock.Anything).Return(nil)
				tx.On("InsertOrder", mock.Anything, anyOrder).Return(int64(1), nil)
				tx.On("InsertOrderItem", mock.Anything, anyItem).Return(int64(1), nil).Twice()
				tx.On("ConditionalDecrement", mock.Anything, TestProductA, int64(2)).Return(true, nil)
				tx.On("ConditionalDecrement", mock.Anything, TestProductB, int64(1)).Return(true, nil)
				pub.On("Publish", mock.Anything, OrderPlacedPattern, mock.AnythingOfType("domain.OrderPlacedEvent")).Return(nil)
			},
			expectedOrder: TestOrderID,
		},
		{
			name:  "publish failure does not fail committed checkout",
			lines: twoLines[:1],
			setupMocks: func(store *mocks.MockCheckoutStore, tx *mocks.MockCheckoutTx, pub *mocks.MockPublisher) {
				store.On("RunInTx", mock.Anything).Return(nil)
				tx.On("InsertOrder", mock.Anything, anyOrder).Return(int64(1), nil)
				tx.On("InsertOrderItem", mock.Anything, anyItem).Return(int64(1), nil)
				tx.On("ConditionalDecrement", mock.Anything, TestProductA, int64(2)).Return(true, nil)
				pub.On("Publish", mock.Anything, OrderPlacedPattern, mock.Anything).Return(errors.New("broker down"))
			},
			expectedOrder: TestOrderID,
		},
		{
			name:  "insufficient stock on second line",
			lines: twoLines,
			setupMocks: func(store *mocks.MockCheckoutStore, tx *mocks.MockCheckoutTx, pub *mocks.MockPublisher) {
				store.On("RunInTx", mock.Anything).Return(nil)
				tx.On("InsertOrder", mock.Anything, anyOrder).Return(int64(1), nil)
				tx.On("InsertOrderItem", mock.Anything, anyItem).Return(int64(1), nil).Twice()
				tx.On("ConditionalDecrement", mock.Anything, TestProductA, int64(2)).Return(true, nil)
				tx.On("ConditionalDecrement", mock.Anything, TestProductB, int64(1)).Return(false, nil)
			},
			expectedKind: domain.ErrInsufficientStock,
			expectedProd: TestProductB,
		},
		{
			name:  "order insert affects no rows",
			lines: twoLines,
			setupMocks: func(store *mocks.MockCheckoutStore, tx *mocks.MockCheckoutTx, pub *mocks.MockPublisher) {
				store.On("RunInTx", mock.Anything).Return(nil)
				tx.On("InsertOrder", mock.Anything, anyOrder).Return(int64(0), nil)
			},
			expectedKind: domain.ErrOrderCreationFailed,
		},
		{
			name:  "order insert rejected",
			lines: twoLines,
			setupMocks: func(store *mocks.MockCheckoutStore, tx *mocks.MockCheckoutTx, pub *mocks.MockPublisher) {
				store.On("RunInTx", mock.Anything).Return(nil)
				tx.On("InsertOrder", mock.Anything, anyOrder).Return(int64(0), errors.New("duplicate entry"))
			},
			expectedKind: domain.ErrOrderCreationFailed,
		},
		{
			name:  "item insert affects no rows",
			lines: twoLines,
			setupMocks: func(store *mocks.MockCheckoutStore, tx *mocks.MockCheckoutTx, pub *mocks.MockPublisher) {
				store.On("RunInTx", mock.Anything).Return(nil)
				tx.On("InsertOrder", mock.Anything, anyOrder).Return(int64(1), nil)
				tx.On("InsertOrderItem", mock.Anything, anyItem).Return(int64(0), nil)
			},
			expectedKind: domain.ErrItemInsertFailed,
			expectedProd: TestProductA,
		},
		{
			name:  "connection lost during decrement",
			lines: twoLines,
			setupMocks: func(store *mocks.MockCheckoutStore, tx *mocks.MockCheckoutTx, pub *mocks.MockPublisher) {
				store.On("RunInTx", mock.Anything).Return(nil)
				tx.On("InsertOrder", mock.Anything, anyOrder).Return(int64(1), nil)
				tx.On("InsertOrderItem", mock.Anything, anyItem).Return(int64(1), nil)
				tx.On("ConditionalDecrement", mock.Anything, TestProductA, int64(2)).
					Return(false, errors.Join(domain.ErrStorageUnavailable, errors.New("broken pipe")))
			},
			expectedKind: domain.ErrStorageUnavailable,
			expectedProd: TestProductA,
		},
		{
			name:  "item insert over a dead connection",
			lines: twoLines,
			setupMocks: func(store *mocks.MockCheckoutStore, tx *mocks.MockCheckoutTx, pub *mocks.MockPublisher) {
				store.On("RunInTx", mock.Anything).Return(nil)
				tx.On("InsertOrder", mock.Anything, anyOrder).Return(int64(1), nil)
				tx.On("InsertOrderItem", mock.Anything, anyItem).
					Return(int64(0), errors.Join(domain.ErrStorageUnavailable, errors.New("bad connection")))
			},
			expectedKind: domain.ErrStorageUnavailable,
			expectedProd: TestProductA,
		},
		{
			name:  "transaction cannot start",
			lines: twoLines,
			setupMocks: func(store *mocks.MockCheckoutStore, tx *mocks.MockCheckoutTx, pub *mocks.MockPublisher) {
				store.On("RunInTx", mock.Anything).Return(errors.New("dial tcp: connection refused"))
			},
			expectedKind: domain.ErrStorageUnavailable,
		},
		{
			name:        "empty cart",
			lines:       nil,
			setupMocks:  func(*mocks.MockCheckoutStore, *mocks.MockCheckoutTx, *mocks.MockPublisher) {},
			expectedErr: domain.ErrEmptyCart,
		},
		{
			name:        "non-positive quantity",
			lines:       []domain.CartLine{CreateMockLine(TestProductA, 0, TestPriceA)},
			setupMocks:  func(*mocks.MockCheckoutStore, *mocks.MockCheckoutTx, *mocks.MockPublisher) {},
			expectedErr: domain.ErrInvalidCart,
		},
		{
			name: "duplicate product",
			lines: []domain.CartLine{
				CreateMockLine(TestProductA, 1, TestPriceA),
				CreateMockLine(TestProductA, 1, TestPriceA),
			},
			setupMocks:  func(*mocks.MockCheckoutStore, *mocks.MockCheckoutTx, *mocks.MockPublisher) {},
			expectedErr: domain.ErrInvalidCart,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := new(mocks.MockCheckoutTx)
			store := &mocks.MockCheckoutStore{Tx: tx}
			pub := new(mocks.MockPublisher)

			tt.setupMocks(store, tx, pub)

			service := newTestCheckoutService(store, pub)
			orderID, err := service.Checkout(context.Background(), TestUserID, tt.lines)

			switch {
			case tt.expectedKind != nil:
				var ce *domain.CheckoutError
				assert.ErrorAs(t, err, &ce)
				assert.ErrorIs(t, err, tt.expectedKind)
				assert.Equal(t, tt.expectedProd, ce.ProductID)
				assert.Empty(t, orderID)
			case tt.expectedErr != nil:
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Empty(t, orderID)
			default:
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedOrder, orderID)
			}

			store.AssertExpectations(t)
			tx.AssertExpectations(t)
			pub.AssertExpectations(t)
		})
	}
}

func TestCheckoutService_OrderRowContents(t *testing.T) {
	tx := new(mocks.MockCheckoutTx)
	store := &mocks.MockCheckoutStore{Tx: tx}
	pub := new(mocks.MockPublisher)

	var inserted *domain.Order
	var items []*domain.OrderItem
	store.On("RunInTx", mock.Anything).Return(nil)
	tx.On("InsertOrder", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(int64(1), nil).Run(func(args mock.Arguments) {
		inserted = args.Get(1).(*domain.Order)
	})
	tx.On("InsertOrderItem", mock.Anything, mock.AnythingOfType("*domain.OrderItem")).Return(int64(1), nil).Run(func(args mock.Arguments) {
		items = append(items, args.Get(1).(*domain.OrderItem))
	})
	tx.On("ConditionalDecrement", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	pub.On("Publish", mock.Anything, OrderPlacedPattern, mock.Anything).Return(nil)

	service := newTestCheckoutService(store, pub)
	lines := []domain.CartLine{CreateMockLine(TestProductB, 3, TestPriceB), CreateMockLine(TestProductA, 1, TestPriceA)}

	_, err := service.Checkout(context.Background(), TestUserID, lines)
	assert.NoError(t, err)

	assert.Equal(t, TestOrderID, inserted.ID)
	assert.Equal(t, TestUserID, inserted.UserID)
	assert.False(t, inserted.CreatedAt.IsZero())
	if assert.Len(t, items, 2) {
		assert.Equal(t, TestProductB, items[0].ProductID)
		assert.Equal(t, int64(3), items[0].Quantity)
		assert.Equal(t, TestOrderID, items[1].OrderID)
	}
}

func TestCheckoutService_IgnoresCallerCancellation(t *testing.T) {
	tx := new(mocks.MockCheckoutTx)
	store := &mocks.MockCheckoutStore{Tx: tx}
	pub := new(mocks.MockPublisher)

	ctx, cancel := context.WithCancel(context.Background())
	store.On("RunInTx", mock.Anything).Return(nil)
	tx.On("InsertOrder", mock.Anything, mock.Anything).Return(int64(1), nil).Run(func(args mock.Arguments) {
		cancel()
	})
	tx.On("InsertOrderItem", mock.Anything, mock.Anything).Return(int64(1), nil).Run(func(args mock.Arguments) {
		assert.NoError(t, args.Get(0).(context.Context).Err())
	})
	tx.On("ConditionalDecrement", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	pub.On("Publish", mock.Anything, OrderPlacedPattern, mock.Anything).Return(nil)

	service := newTestCheckoutService(store, pub)
	orderID, err := service.Checkout(ctx, TestUserID, []domain.CartLine{CreateMockLine(TestProductA, 1, TestPriceA)})

	assert.NoError(t, err)
	assert.Equal(t, TestOrderID, orderID)
}

func TestCheckoutService_TimestampTakenInsideTransaction(t *testing.T) {
	tx := new(mocks.MockCheckoutTx)
	store := &mocks.MockCheckoutStore{Tx: tx}
	pub := new(mocks.MockPublisher)

	var txOpen bool
	stamp := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var inserted *domain.Order

	store.On("RunInTx", mock.Anything).Return(nil).Run(func(mock.Arguments) { txOpen = true })
	tx.On("InsertOrder", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(int64(1), nil).Run(func(args mock.Arguments) {
		inserted = args.Get(1).(*domain.Order)
	})
	tx.On("InsertOrderItem", mock.Anything, mock.Anything).Return(int64(1), nil)
	tx.On("ConditionalDecrement", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	pub.On("Publish", mock.Anything, OrderPlacedPattern, mock.Anything).Return(nil)

	service := newTestCheckoutService(store, pub)
	service.now = func() time.Time {
		assert.True(t, txOpen, "order time read before the transaction opened")
		return stamp
	}

	_, err := service.Checkout(context.Background(), TestUserID, []domain.CartLine{CreateMockLine(TestProductA, 1, TestPriceA)})

	require.NoError(t, err)
	require.NotNil(t, inserted)
	assert.True(t, stamp.Equal(inserted.CreatedAt))
}

func TestCheckoutService_NoTimestampWhenTransactionFailsToOpen(t *testing.T) {
	store := &mocks.MockCheckoutStore{Tx: new(mocks.MockCheckoutTx)}
	store.On("RunInTx", mock.Anything).Return(errors.New("connection refused"))

	service := newTestCheckoutService(store, new(mocks.MockPublisher))
	service.now = func() time.Time {
		t.Fatal("order time read without an open transaction")
		return time.Time{}
	}

	_, err := service.Checkout(context.Background(), TestUserID, []domain.CartLine{CreateMockLine(TestProductA, 1, TestPriceA)})

	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}
