package services

import (
	"storefront/internal/domain"

	"github.com/shopspring/decimal"
)

func CreateMockProduct(id uint64, name string, price string, stock int64) *domain.Product {
	return &domain.Product{
		ID:    id,
		Name:  name,
		Price: decimal.RequireFromString(price),
		Stock: stock,
	}
}

func CreateMockLine(productID uint64, quantity int64, price string) domain.CartLine {
	return domain.CartLine{
		ProductID: productID,
		Quantity:  quantity,
		Price:     decimal.RequireFromString(price),
	}
}

const (
	TestUserID    = "user-1"
	TestOrderID   = "order-1"
	TestProductA  = uint64(1)
	TestProductB  = uint64(2)
	TestPriceA    = "10.00"
	TestPriceB    = "5.00"
	TestUserName  = "Test User"
	TestUserEmail = "test@example.com"
)
