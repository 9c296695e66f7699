package domain

import (
	"errors"
	"fmt"
)

var (
	ErrOrderCreationFailed = errors.New("order creation failed")
	ErrItemInsertFailed    = errors.New("order item insert failed")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrStorageUnavailable  = errors.New("storage unavailable")

	ErrEmptyCart       = errors.New("cart is empty, nothing to checkout")
	ErrInvalidCart     = errors.New("invalid cart")
	ErrInvalidQuantity = errors.New("quantity must be between 1 and the per-line limit")
	ErrInvalidAction   = errors.New("unknown quantity action")
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrCartConflict    = errors.New("cart was modified concurrently")
)

// CheckoutError is returned by checkout after its unit of work was rolled back.
// Kind is one of ErrOrderCreationFailed, ErrItemInsertFailed,
// ErrInsufficientStock or ErrStorageUnavailable.
type CheckoutError struct {
	Kind      error
	ProductID uint64
	Cause     error
}

func (e *CheckoutError) Error() string {
	msg := e.Kind.Error()
	if errors.Is(e.Kind, ErrInsufficientStock) {
		msg = fmt.Sprintf("%s for product %d", msg, e.ProductID)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *CheckoutError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// Retryable reports whether the failure is infrastructural, i.e. the user
// may try the same cart again.
func (e *CheckoutError) Retryable() bool {
	return !errors.Is(e.Kind, ErrInsufficientStock)
}

func NewInsufficientStock(productID uint64) *CheckoutError {
	return &CheckoutError{Kind: ErrInsufficientStock, ProductID: productID}
}
