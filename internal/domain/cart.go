package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CartLine struct {
	ProductID uint64          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"imageUrl,omitempty"`
	Quantity  int64           `json:"quantity"`
}

// Cart keeps lines in first-add order. A product appears at most once and
// a line never holds a quantity below 1.
type Cart struct {
	UserID    string     `json:"userId"`
	Lines     []CartLine `json:"lines"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// MaxLineQuantity caps a single cart line.
const MaxLineQuantity int64 = 9999

type QuantityAction string

const (
	QuantityAdd    QuantityAction = "add"
	QuantityRemove QuantityAction = "remove"
)

func NewCart(userID string) *Cart {
	return &Cart{UserID: userID, Lines: []CartLine{}}
}

func (c *Cart) find(productID uint64) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) Has(productID uint64) bool {
	return c.find(productID) >= 0
}

func (c *Cart) Quantity(productID uint64) int64 {
	if i := c.find(productID); i >= 0 {
		return c.Lines[i].Quantity
	}
	return 0
}

// Add increments an existing line or appends line as a new one. The display
// fields of an existing line are left as they were. A non-positive amount or
// a resulting quantity above MaxLineQuantity returns ErrInvalidQuantity and
// leaves the cart unchanged.
func (c *Cart) Add(line CartLine) (int64, error) {
	if line.Quantity <= 0 || line.Quantity > MaxLineQuantity {
		return 0, ErrInvalidQuantity
	}
	if i := c.find(line.ProductID); i >= 0 {
		if c.Lines[i].Quantity > MaxLineQuantity-line.Quantity {
			return c.Lines[i].Quantity, ErrInvalidQuantity
		}
		c.Lines[i].Quantity += line.Quantity
		return c.Lines[i].Quantity, nil
	}
	c.Lines = append(c.Lines, line)
	return line.Quantity, nil
}

// Remove decrements a line and drops it once it reaches zero. Removing a
// product that is not in the cart is a no-op. Returns the remaining quantity.
func (c *Cart) Remove(productID uint64, amount int64) int64 {
	i := c.find(productID)
	if i < 0 {
		return 0
	}
	c.Lines[i].Quantity -= amount
	if c.Lines[i].Quantity <= 0 {
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		return 0
	}
	return c.Lines[i].Quantity
}

func (c *Cart) Clear() {
	c.Lines = []CartLine{}
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Snapshot returns a copy of the lines safe to hand to checkout.
func (c *Cart) Snapshot() []CartLine {
	out := make([]CartLine, len(c.Lines))
	copy(out, c.Lines)
	return out
}

func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Price.Mul(decimal.NewFromInt(l.Quantity)))
	}
	return total
}
