// Package discount maps discount codes to price multipliers.
package discount

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DisplayPlaces is the number of fraction digits shown to customers.
const DisplayPlaces = 2

// DefaultCodes are the codes every storefront accepts.
var DefaultCodes = map[string]decimal.Decimal{
	"SAVE10": decimal.RequireFromString("0.9"),
}

// Quote is a cart price breakdown.
type Quote struct {
	Code     string          `json:"discount_code,omitempty"`
	Applied  bool            `json:"discount_applied"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// Engine is safe for concurrent use once built.
type Engine struct {
	multipliers map[string]decimal.Decimal
}

// NewEngine copies codes into a new engine. Keys are matched case-insensitively.
func NewEngine(codes map[string]decimal.Decimal) (*Engine, error) {
	e := &Engine{multipliers: make(map[string]decimal.Decimal, len(codes))}
	for code, m := range codes {
		key := Normalize(code)
		if key == "" {
			return nil, fmt.Errorf("discount: empty code")
		}
		if m.IsNegative() || m.GreaterThan(decimal.NewFromInt(1)) {
			return nil, fmt.Errorf("discount: multiplier for %s must be within [0, 1], got %s", key, m)
		}
		e.multipliers[key] = m
	}
	return e, nil
}

// Default returns an engine holding DefaultCodes.
func Default() *Engine {
	e, err := NewEngine(DefaultCodes)
	if err != nil {
		panic(err)
	}
	return e
}

// Normalize upper-cases and trims a code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Multiplier returns the factor for code, 1 for unknown or empty codes.
func (e *Engine) Multiplier(code string) decimal.Decimal {
	if m, ok := e.multipliers[Normalize(code)]; ok {
		return m
	}
	return decimal.NewFromInt(1)
}

func (e *Engine) Known(code string) bool {
	_, ok := e.multipliers[Normalize(code)]
	return ok
}

// Apply returns subtotal adjusted by code at full precision.
func (e *Engine) Apply(code string, subtotal decimal.Decimal) decimal.Decimal {
	if !e.Known(code) {
		return subtotal
	}
	return subtotal.Mul(e.Multiplier(code))
}

// Quote breaks subtotal down for display. Amounts keep full precision; use
// Display to render them.
func (e *Engine) Quote(code string, subtotal decimal.Decimal) Quote {
	total := e.Apply(code, subtotal)
	q := Quote{
		Subtotal: subtotal,
		Discount: subtotal.Sub(total),
		Total:    total,
		Applied:  e.Known(code),
	}
	if q.Applied {
		q.Code = Normalize(code)
	}
	return q
}

// Display rounds an amount to cents, half away from zero (44.055 -> 44.06).
func Display(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(DisplayPlaces)
}

// Format renders an amount as a price string, e.g. "$44.06".
func Format(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(DisplayPlaces)
}

// ParseCodes reads "CODE:multiplier" pairs separated by commas, as found in
// configuration.
func ParseCodes(raw string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		code, raw, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("discount: malformed entry %q", part)
		}
		m, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("discount: multiplier for %q: %w", code, err)
		}
		out[Normalize(code)] = m
	}
	return out, nil
}
