// Package payment authorizes checkout payments.
package payment

import (
	"context"

	"go-bookstore/apperr"
	"go-bookstore/models"

	"github.com/shopspring/decimal"
)

const MessageSuccess = "Payment processed successfully"

// Info is everything an authorizer sees. It carries no cart or user data.
type Info struct {
	Method models.PaymentMethod
	Card   models.CardDetails
	Amount decimal.Decimal
}

// Result is a business outcome. TransactionID is set iff Success; Err is set
// iff not.
type Result struct {
	Success       bool
	TransactionID string
	Message       string
	Err           *apperr.Error
}

// Failed builds an unsuccessful result from a typed error.
func Failed(err *apperr.Error) Result {
	return Result{Message: err.Message, Err: err}
}

// Authorizer charges a payment. The returned error is reserved for
// infrastructure failures; declines and invalid input come back as a
// Result with Success false.
type Authorizer interface {
	Authorize(ctx context.Context, info Info) (Result, error)
}

// AuthorizerFunc adapts a plain function to Authorizer.
type AuthorizerFunc func(ctx context.Context, info Info) (Result, error)

func (f AuthorizerFunc) Authorize(ctx context.Context, info Info) (Result, error) {
	return f(ctx, info)
}
