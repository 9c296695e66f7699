package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const UnknownProductName = "Unknown Product"

type Product struct {
	ID           uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	Name         string          `json:"name" gorm:"type:varchar(255);not null"`
	Manufacturer string          `json:"manufacturer" gorm:"type:varchar(255)"`
	Description  string          `json:"description" gorm:"type:text"`
	Price        decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	Stock        int64           `json:"stock" gorm:"not null;default:0"`
	ImageURL     string          `json:"imageUrl" gorm:"type:varchar(512)"`
	CreatedAt    time.Time       `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt    time.Time       `json:"updatedAt" gorm:"autoUpdateTime"`
}

// PlaceholderProduct stands in for a product that was deleted after it was ordered.
func PlaceholderProduct(id uint64) Product {
	return Product{
		ID:    id,
		Name:  UnknownProductName,
		Price: decimal.Zero,
	}
}
