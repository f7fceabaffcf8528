package payment

import (
	"context"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"go-bookstore/apperr"
)

const (
	minCardDigits = 13
	maxCardDigits = 16
	declineSuffix = "1111"
)

// MockGateway simulates card authorization from the shape of the input.
// Card numbers ending in 1111 are declined.
type MockGateway struct {
	base uint64
	seq  atomic.Uint64
}

// NewMockGateway seeds transaction ids from the current time so ids stay
// distinct across restarts.
func NewMockGateway() *MockGateway {
	return &MockGateway{base: uint64(time.Now().Unix()) * 1_000_000}
}

func (g *MockGateway) Authorize(_ context.Context, info Info) (Result, error) {
	number, ok := NormalizeCardNumber(info.Card.Number)
	if !ok || len(number) < minCardDigits || len(number) > maxCardDigits {
		return Failed(apperr.ErrInvalidCardNumber), nil
	}
	if strings.HasSuffix(number, declineSuffix) {
		return Failed(apperr.ErrPaymentDeclined), nil
	}
	if strings.TrimSpace(info.Card.Expiry) == "" {
		return Failed(apperr.MissingPaymentField("expiry_date", "expiry date")), nil
	}
	if strings.TrimSpace(info.Card.CVV) == "" {
		return Failed(apperr.MissingPaymentField("cvv", "CVV")), nil
	}

	return Result{
		Success:       true,
		TransactionID: g.nextTransactionID(),
		Message:       MessageSuccess,
	}, nil
}

func (g *MockGateway) nextTransactionID() string {
	return "TXN" + strconv.FormatUint(g.base+g.seq.Add(1), 10)
}

// NormalizeCardNumber strips spaces and dashes. ok is false when anything
// other than digits remains.
func NormalizeCardNumber(raw string) (string, bool) {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case r == ' ' || r == '-':
			continue
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			return "", false
		}
	}
	return b.String(), true
}

// MaskCardNumber keeps only the last four digits, for logs.
func MaskCardNumber(raw string) string {
	n, _ := NormalizeCardNumber(raw)
	if len(n) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(n)-4) + n[len(n)-4:]
}
