package checkout

import (
	"context"
	"fmt"

	"go-bookstore/apperr"
	"go-bookstore/cart"
	"go-bookstore/discount"
	"go-bookstore/models"
	"go-bookstore/orders"
	"go-bookstore/payment"

	"github.com/rs/zerolog"
)

// Notifier is told about every placed order exactly once. Its error is
// logged and otherwise ignored.
type Notifier interface {
	SendOrderConfirmation(ctx context.Context, email string, order models.Order) error
}

// Outcome is what a successful Process call produced. Exactly one of Order
// and Redirect is set.
type Outcome struct {
	Order    *models.Order
	Redirect string
	Quote    discount.Quote
	Payment  payment.Result
	Warnings []string
}

type Options struct {
	EmailPolicy EmailPolicy
	// PayPalURL is where redirect payment methods send the customer.
	PayPalURL string
}

type Service struct {
	validator *Validator
	discounts *discount.Engine
	gateway   payment.Authorizer
	orders    *orders.Factory
	notifier  Notifier
	paypalURL string
	logger    zerolog.Logger
}

func NewService(discounts *discount.Engine, gateway payment.Authorizer, factory *orders.Factory, notifier Notifier, opts Options, logger zerolog.Logger) *Service {
	if opts.PayPalURL == "" {
		opts.PayPalURL = "/paypal"
	}
	return &Service{
		validator: NewValidator(opts.EmailPolicy),
		discounts: discounts,
		gateway:   gateway,
		orders:    factory,
		notifier:  notifier,
		paypalURL: opts.PayPalURL,
		logger:    logger,
	}
}

// Quote prices the cart with an optional discount code.
func (s *Service) Quote(c *cart.Cart, code string) discount.Quote {
	return s.discounts.Quote(code, c.Subtotal())
}

// Process validates the form, charges the discounted total and places the
// order under owner (the checkout email when owner is empty). Validation and
// payment failures come back as *apperr.Error with the cart untouched.
func (s *Service) Process(ctx context.Context, c *cart.Cart, owner string, f Form) (*Outcome, error) {
	req, warnings, err := s.validator.Validate(c, f)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		s.logger.Warn().Str("email", req.Email).Msg(w)
	}

	quote := s.discounts.Quote(req.DiscountCode, c.Subtotal())
	out := &Outcome{Quote: quote, Warnings: warnings}

	if req.PaymentMethod.IsRedirect() {
		out.Redirect = s.paypalURL
		return out, nil
	}

	result, err := s.gateway.Authorize(ctx, payment.Info{
		Method: req.PaymentMethod,
		Card:   req.Card,
		Amount: discount.Display(quote.Total),
	})
	if err != nil {
		return nil, fmt.Errorf("authorize payment: %w", err)
	}
	out.Payment = result
	if !result.Success {
		if result.Err == nil {
			result.Err = apperr.ErrPaymentDeclined
		}
		s.logger.Info().
			Str("card", payment.MaskCardNumber(req.Card.Number)).
			Str("reason", result.Err.Kind.String()).
			Msg("payment rejected")
		return nil, result.Err
	}

	if owner == "" {
		owner = req.Email
	}
	order, err := s.orders.Place(ctx, owner, c, req, quote.Total, result)
	if err != nil {
		s.logger.Error().Err(err).Str("transaction_id", result.TransactionID).Msg("order not recorded after payment")
		return nil, err
	}
	out.Order = &order

	if s.notifier != nil {
		if err := s.notifier.SendOrderConfirmation(ctx, req.Email, order); err != nil {
			s.logger.Error().Err(err).Str("order_id", order.ID).Msg("order confirmation failed")
		}
	}
	return out, nil
}
