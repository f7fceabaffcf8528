// Package catalog serves the read-only list of books for sale.
package catalog

import (
	"fmt"
	"strings"

	"go-bookstore/models"

	"github.com/shopspring/decimal"
)

// Catalog is an immutable, ordered set of books indexed by title.
type Catalog struct {
	books   []models.Book
	byTitle map[string]int
}

// New builds a catalog. Titles must be unique and prices non-negative.
func New(books []models.Book) (*Catalog, error) {
	c := &Catalog{
		books:   make([]models.Book, 0, len(books)),
		byTitle: make(map[string]int, len(books)),
	}
	for _, b := range books {
		key := normalize(b.Title)
		if key == "" {
			return nil, fmt.Errorf("catalog: book with empty title")
		}
		if _, dup := c.byTitle[key]; dup {
			return nil, fmt.Errorf("catalog: duplicate title %q", b.Title)
		}
		if b.Price.IsNegative() {
			return nil, fmt.Errorf("catalog: negative price for %q", b.Title)
		}
		c.byTitle[key] = len(c.books)
		c.books = append(c.books, b)
	}
	return c, nil
}

// Default is the storefront's featured list.
func Default() *Catalog {
	c, err := New([]models.Book{
		{Title: "The Great Gatsby", Category: "Fiction", Price: decimal.RequireFromString("10.99"), Image: "images/the_great_gatsby.jpg"},
		{Title: "1984", Category: "Dystopia", Price: decimal.RequireFromString("8.99"), Image: "images/1984.jpg"},
		{Title: "I Ching", Category: "Traditional", Price: decimal.RequireFromString("18.99"), Image: "images/i_ching.jpg"},
		{Title: "Moby Dick", Category: "Adventure", Price: decimal.RequireFromString("12.49"), Image: "images/moby_dick.jpg"},
	})
	if err != nil {
		panic(err)
	}
	return c
}

// Books returns a copy of the catalog in load order.
func (c *Catalog) Books() []models.Book {
	return append([]models.Book(nil), c.books...)
}

// Find looks a book up by title, ignoring case and surrounding spaces.
func (c *Catalog) Find(title string) (models.Book, bool) {
	i, ok := c.byTitle[normalize(title)]
	if !ok {
		return models.Book{}, false
	}
	return c.books[i], true
}

func (c *Catalog) Len() int {
	return len(c.books)
}

func normalize(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
