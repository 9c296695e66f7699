package http

import (
	"storefront/internal/domain"

	"github.com/shopspring/decimal"
)

type AddItemRequest struct {
	ProductID uint64 `json:"productId" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"omitempty,min=1,max=9999"`
}

type UpdateQuantityRequest struct {
	Action domain.QuantityAction `json:"action" binding:"required,oneof=add remove"`
}

type QuantityResponse struct {
	ProductID uint64 `json:"productId"`
	Quantity  int64  `json:"quantity"`
}

type CartResponse struct {
	Lines []domain.CartLine `json:"lines"`
	Total decimal.Decimal   `json:"total"`
}

type CheckoutResponse struct {
	OrderID string `json:"orderId"`
}

type ProductResponse struct {
	domain.Product
	InStock bool `json:"inStock"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	ProductID uint64 `json:"productId,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
}
