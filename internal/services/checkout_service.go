package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"storefront/internal/domain"
	"storefront/internal/metrics"
	rabbit "storefront/internal/infra/rabbitmq"
	"storefront/internal/repository"

	"github.com/google/uuid"
)

const (
	OrderPlacedPattern = "order.placed"
	publishTimeout     = 2 * time.Second
)

type CheckoutService struct {
	store     repository.CheckoutStore
	publisher rabbit.PublisherInterface
	metrics   *metrics.CheckoutMetrics

	now   func() time.Time
	newID func() string
}

func NewCheckoutService(store repository.CheckoutStore, pub rabbit.PublisherInterface, m *metrics.CheckoutMetrics) *CheckoutService {
	return &CheckoutService{
		store:     store,
		publisher: pub,
		metrics:   m,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Checkout turns a cart snapshot into an order in one transaction: the order
// row, one item per line and a guarded stock decrement per line. Any failure
// rolls all of it back and comes back as a *domain.CheckoutError. The cart
// itself is not touched; clearing it on success is the caller's job.
func (s *CheckoutService) Checkout(ctx context.Context, userID string, lines []domain.CartLine) (string, error) {
	started := time.Now()
	if err := validateLines(lines); err != nil {
		s.metrics.ObserveCheckout(metrics.ResultInvalid, started)
		return "", err
	}

	// once the order row is written we must reach commit or rollback
	ctx = context.WithoutCancel(ctx)

	order := &domain.Order{
		ID:     s.newID(),
		UserID: userID,
	}

	err := s.store.RunInTx(ctx, func(tx repository.CheckoutTx) error {
		// stamped server-side once the transaction is open
		order.CreatedAt = s.now().UTC().Truncate(time.Millisecond)
		n, err := tx.InsertOrder(ctx, order)
		if err != nil {
			return classify(domain.ErrOrderCreationFailed, 0, err)
		}
		if n == 0 {
			return &domain.CheckoutError{Kind: domain.ErrOrderCreationFailed}
		}

		for _, line := range lines {
			item := &domain.OrderItem{
				OrderID:   order.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
			}
			n, err := tx.InsertOrderItem(ctx, item)
			if err != nil {
				return classify(domain.ErrItemInsertFailed, line.ProductID, err)
			}
			if n == 0 {
				return &domain.CheckoutError{Kind: domain.ErrItemInsertFailed, ProductID: line.ProductID}
			}

			ok, err := tx.ConditionalDecrement(ctx, line.ProductID, line.Quantity)
			if err != nil {
				return classify(domain.ErrStorageUnavailable, line.ProductID, err)
			}
			if !ok {
				return domain.NewInsufficientStock(line.ProductID)
			}
		}
		return nil
	})
	if err != nil {
		var ce *domain.CheckoutError
		if !errors.As(err, &ce) {
			ce = &domain.CheckoutError{Kind: domain.ErrStorageUnavailable, Cause: err}
		}
		result := metrics.ResultFailed
		if errors.Is(ce, domain.ErrInsufficientStock) {
			result = metrics.ResultInsufficientStock
		}
		s.metrics.ObserveCheckout(result, started)
		slog.Warn("checkout rolled back", "user_id", userID, "order_id", order.ID,
			"kind", ce.Kind.Error(), "product_id", ce.ProductID, "error", err)
		return "", ce
	}

	s.metrics.ObserveCheckout(metrics.ResultSuccess, started)
	slog.Info("checkout committed", "user_id", userID, "order_id", order.ID, "lines", len(lines))

	s.publishOrderPlaced(ctx, order, lines)
	return order.ID, nil
}

// publishOrderPlaced never fails the checkout; the order is already committed.
func (s *CheckoutService) publishOrderPlaced(ctx context.Context, order *domain.Order, lines []domain.CartLine) {
	if s.publisher == nil {
		return
	}
	evt := domain.OrderPlacedEvent{
		OrderID:   order.ID,
		UserID:    order.UserID,
		Items:     make([]domain.OrderEventItem, 0, len(lines)),
		CreatedAt: order.CreatedAt,
	}
	for _, l := range lines {
		evt.Items = append(evt.Items, domain.OrderEventItem{ProductID: l.ProductID, Quantity: l.Quantity})
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := s.publisher.Publish(ctx, OrderPlacedPattern, evt); err != nil {
		slog.Error("failed to publish order event", "order_id", order.ID, "error", err)
	}
}

func classify(kind error, productID uint64, err error) *domain.CheckoutError {
	if errors.Is(err, domain.ErrStorageUnavailable) {
		kind = domain.ErrStorageUnavailable
	}
	return &domain.CheckoutError{Kind: kind, ProductID: productID, Cause: err}
}

func validateLines(lines []domain.CartLine) error {
	if len(lines) == 0 {
		return domain.ErrEmptyCart
	}
	seen := make(map[uint64]struct{}, len(lines))
	for _, l := range lines {
		if l.Quantity <= 0 {
			return fmt.Errorf("%w: product %d has quantity %d", domain.ErrInvalidCart, l.ProductID, l.Quantity)
		}
		if _, dup := seen[l.ProductID]; dup {
			return fmt.Errorf("%w: product %d appears twice", domain.ErrInvalidCart, l.ProductID)
		}
		seen[l.ProductID] = struct{}{}
	}
	return nil
}
