package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLine is one purchased book with the price charged at order time.
type OrderLine struct {
	Title     string          `json:"title"`
	Category  string          `json:"category"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// LineTotal is quantity times unit price.
func (l OrderLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Order is an immutable record of a placed order.
type Order struct {
	ID           string          `json:"order_id"`
	UserEmail    string          `json:"user_email"`
	Lines        []OrderLine     `json:"items"`
	Shipping     ShippingInfo    `json:"shipping"`
	Payment      PaymentInfo     `json:"payment"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	DiscountCode string          `json:"discount_code,omitempty"`
	Total        decimal.Decimal `json:"total_amount"`
	CreatedAt    time.Time       `json:"created_at"`
}

// TotalItems is the number of copies across all lines.
func (o Order) TotalItems() int {
	n := 0
	for _, l := range o.Lines {
		n += l.Quantity
	}
	return n
}

// Clone returns a copy that shares no slices with o.
func (o Order) Clone() Order {
	c := o
	c.Lines = append([]OrderLine(nil), o.Lines...)
	return c
}
