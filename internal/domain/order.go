package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID        string      `json:"id" gorm:"primaryKey;type:char(36)"`
	UserID    string      `json:"userId" gorm:"type:varchar(64);not null;index"`
	CreatedAt time.Time   `json:"createdAt" gorm:"not null;index"`
	Items     []OrderItem `json:"-" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem does not carry a price; totals are computed from the product's current price.
type OrderItem struct {
	ID        uint64 `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID   string `json:"orderId" gorm:"type:char(36);not null;index;uniqueIndex:idx_order_product"`
	ProductID uint64 `json:"productId" gorm:"not null;index;uniqueIndex:idx_order_product"`
	Quantity  int64  `json:"quantity" gorm:"not null"`
}

type OrderLine struct {
	Item     OrderItem       `json:"item"`
	Product  Product         `json:"product"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type OrderDetail struct {
	Order Order           `json:"order"`
	Lines []OrderLine     `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

type AdminOrderDetail struct {
	OrderDetail
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`
}

type AdminOrderReport struct {
	Orders     []AdminOrderDetail `json:"orders"`
	GrandTotal decimal.Decimal    `json:"grandTotal"`
}

// NewOrderDetail prices every item at the product's current unit price.
func NewOrderDetail(order Order, items []OrderItem, products map[uint64]Product) OrderDetail {
	detail := OrderDetail{
		Order: order,
		Lines: make([]OrderLine, 0, len(items)),
		Total: decimal.Zero,
	}
	for _, item := range items {
		p, ok := products[item.ProductID]
		if !ok {
			p = PlaceholderProduct(item.ProductID)
		}
		sub := p.Price.Mul(decimal.NewFromInt(item.Quantity))
		detail.Lines = append(detail.Lines, OrderLine{Item: item, Product: p, Subtotal: sub})
		detail.Total = detail.Total.Add(sub)
	}
	return detail
}
