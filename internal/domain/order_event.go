package domain

import "time"

type OrderPlacedEvent struct {
	OrderID   string           `json:"orderId"`
	UserID    string           `json:"userId"`
	Items     []OrderEventItem `json:"items"`
	CreatedAt time.Time        `json:"createdAt"`
}

type OrderEventItem struct {
	ProductID uint64 `json:"productId"`
	Quantity  int64  `json:"quantity"`
}
