package models

import "github.com/shopspring/decimal"

// Book is a purchasable catalog item. Title is the identifier.
type Book struct {
	Title    string          `json:"title"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
}

// ID returns the catalog identifier of the book.
func (b Book) ID() string {
	return b.Title
}
