package services

import (
	"context"
	"fmt"

	"storefront/internal/domain"
	"storefront/internal/metrics"
	"storefront/internal/repository"
)

// CartService mutates the per-user session cart. No stock check happens
// here; availability is decided at checkout.
type CartService struct {
	store    repository.CartStore
	products repository.ProductReader
	metrics  *metrics.CheckoutMetrics
}

func NewCartService(store repository.CartStore, products repository.ProductReader, m *metrics.CheckoutMetrics) *CartService {
	return &CartService{store: store, products: products, metrics: m}
}

func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	return s.store.Get(ctx, userID)
}

// AddLine increments the line for productID, creating it from the current
// product data when absent. Returns the resulting quantity.
func (s *CartService) AddLine(ctx context.Context, userID string, productID uint64, quantity int64) (int64, error) {
	if quantity <= 0 || quantity > domain.MaxLineQuantity {
		return 0, domain.ErrInvalidQuantity
	}
	var result int64
	_, err := s.store.Update(ctx, userID, func(c *domain.Cart) (err error) {
		if c.Has(productID) {
			result, err = c.Add(domain.CartLine{ProductID: productID, Quantity: quantity})
			return err
		}
		p, err := s.products.FindByID(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrProductNotFound
		}
		result, err = c.Add(domain.CartLine{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			ImageURL:  p.ImageURL,
			Quantity:  quantity,
		})
		return err
	})
	s.metrics.ObserveCartOp("add", err)
	if err != nil {
		return 0, err
	}
	return result, nil
}

// RemoveLine decrements the line and deletes it once it reaches zero.
// Removing a product that is not in the cart is not an error.
func (s *CartService) RemoveLine(ctx context.Context, userID string, productID uint64, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, domain.ErrInvalidQuantity
	}
	var result int64
	_, err := s.store.Update(ctx, userID, func(c *domain.Cart) error {
		result = c.Remove(productID, amount)
		return nil
	})
	s.metrics.ObserveCartOp("remove", err)
	if err != nil {
		return 0, err
	}
	return result, nil
}

// UpdateQuantity applies a single-unit add or remove and returns the new
// quantity, 0 when the line is gone.
func (s *CartService) UpdateQuantity(ctx context.Context, userID string, productID uint64, action domain.QuantityAction) (int64, error) {
	switch action {
	case domain.QuantityAdd:
		return s.AddLine(ctx, userID, productID, 1)
	case domain.QuantityRemove:
		return s.RemoveLine(ctx, userID, productID, 1)
	default:
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidAction, action)
	}
}

func (s *CartService) Clear(ctx context.Context, userID string) error {
	err := s.store.Delete(ctx, userID)
	s.metrics.ObserveCartOp("clear", err)
	return err
}

// RemoveCheckedOut takes the checked-out lines back out of the cart after a
// successful checkout. It goes through the versioned update, so a line added
// or topped up since the snapshot keeps whatever was not checked out.
func (s *CartService) RemoveCheckedOut(ctx context.Context, userID string, lines []domain.CartLine) error {
	_, err := s.store.Update(ctx, userID, func(c *domain.Cart) error {
		for _, l := range lines {
			c.Remove(l.ProductID, l.Quantity)
		}
		return nil
	})
	s.metrics.ObserveCartOp("checkout_clear", err)
	return err
}

func (s *CartService) Snapshot(ctx context.Context, userID string) ([]domain.CartLine, error) {
	cart, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return cart.Snapshot(), nil
}
