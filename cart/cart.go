// Package cart implements the per-session shopping cart.
package cart

import (
	"iter"
	"strconv"
	"strings"

	"go-bookstore/apperr"
	"go-bookstore/models"

	"github.com/shopspring/decimal"
)

// MaxQuantity is the largest quantity a single line may hold.
const MaxQuantity = 99

// Line is one book and how many copies of it are in the cart.
type Line struct {
	Book     models.Book `json:"book"`
	Quantity int         `json:"quantity"`
}

// Total is quantity times unit price.
func (l Line) Total() decimal.Decimal {
	return l.Book.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart keeps lines in insertion order with at most one line per title.
// It is not safe for concurrent use; callers serialize access per session.
type Cart struct {
	lines []Line
	index map[string]int
}

func New() *Cart {
	return &Cart{index: make(map[string]int)}
}

// Add puts quantity copies of book into the cart, merging with an existing
// line. A non-positive quantity is ignored.
func (c *Cart) Add(book models.Book, quantity int) error {
	if quantity <= 0 {
		return nil
	}
	id := book.ID()
	if i, ok := c.index[id]; ok {
		next := c.lines[i].Quantity + quantity
		if next > MaxQuantity {
			return apperr.ErrQuantityLimitExceeded
		}
		c.lines[i].Quantity = next
		return nil
	}
	if quantity > MaxQuantity {
		return apperr.ErrQuantityLimitExceeded
	}
	c.index[id] = len(c.lines)
	c.lines = append(c.lines, Line{Book: book, Quantity: quantity})
	return nil
}

// Update sets the quantity of an existing line. Zero or negative removes it.
func (c *Cart) Update(id string, quantity int) error {
	if quantity <= 0 {
		c.Remove(id)
		return nil
	}
	if quantity > MaxQuantity {
		return apperr.ErrQuantityLimitExceeded
	}
	i, ok := c.index[id]
	if !ok {
		return apperr.ErrItemNotInCart
	}
	c.lines[i].Quantity = quantity
	return nil
}

// UpdateFromInput is Update for raw form input. Blank or non-numeric input
// leaves the cart untouched.
func (c *Cart) UpdateFromInput(id, raw string) error {
	q, err := ParseQuantity(raw)
	if err != nil {
		return err
	}
	return c.Update(id, q)
}

// ParseQuantity converts a form value to an integer quantity.
func ParseQuantity(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, apperr.ErrInvalidQuantity
	}
	q, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.ErrInvalidQuantity
	}
	return q, nil
}

func (c *Cart) Remove(id string) {
	i, ok := c.index[id]
	if !ok {
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	delete(c.index, id)
	for j := i; j < len(c.lines); j++ {
		c.index[c.lines[j].Book.ID()] = j
	}
}

func (c *Cart) Clear() {
	c.lines = nil
	c.index = make(map[string]int)
}

// Items yields line snapshots in insertion order. The sequence can be
// ranged over any number of times.
func (c *Cart) Items() iter.Seq[Line] {
	return func(yield func(Line) bool) {
		for _, l := range c.lines {
			if !yield(l) {
				return
			}
		}
	}
}

// Lines returns a copy of the current lines.
func (c *Cart) Lines() []Line {
	return append([]Line(nil), c.lines...)
}

// Quantity returns the quantity held for id, or zero.
func (c *Cart) Quantity(id string) int {
	if i, ok := c.index[id]; ok {
		return c.lines[i].Quantity
	}
	return 0
}

func (c *Cart) TotalItems() int {
	n := 0
	for _, l := range c.lines {
		if l.Quantity > 0 {
			n += l.Quantity
		}
	}
	return n
}

func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		if l.Quantity > 0 {
			total = total.Add(l.Total())
		}
	}
	return total
}

// IsEmpty reports whether no line has a positive quantity.
func (c *Cart) IsEmpty() bool {
	return c.TotalItems() == 0
}
