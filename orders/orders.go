// Package orders turns a paid cart into an immutable order record and reads
// order history back.
package orders

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"go-bookstore/apperr"
	"go-bookstore/cart"
	"go-bookstore/discount"
	"go-bookstore/models"
	"go-bookstore/payment"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var ErrPaymentNotAuthorized = errors.New("order requires a successful payment")

// Store is the part of the account store orders need.
type Store interface {
	AppendOrder(ctx context.Context, email string, order models.Order) error
	OrderHistory(ctx context.Context, email string) ([]models.Order, error)
}

// IDGenerator hands out ORD-<boot>-<seq> ids. boot is fixed per process so
// ids stay unique across restarts; seq is monotonic within one.
type IDGenerator struct {
	prefix string
	seq    atomic.Uint64
}

func NewIDGenerator() *IDGenerator {
	return &IDGenerator{prefix: "ORD-" + strconv.FormatInt(time.Now().Unix(), 36) + "-"}
}

func (g *IDGenerator) Next() string {
	return g.prefix + strconv.FormatUint(g.seq.Add(1), 10)
}

type Factory struct {
	store  Store
	ids    *IDGenerator
	now    func() time.Time
	logger zerolog.Logger
}

func NewFactory(store Store, logger zerolog.Logger) *Factory {
	return &Factory{
		store:  store,
		ids:    NewIDGenerator(),
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger,
	}
}

// Place records a paid order under owner and then clears the cart. If the
// store rejects the order the cart is left as it was.
func (f *Factory) Place(ctx context.Context, owner string, c *cart.Cart, req models.CheckoutRequest, total decimal.Decimal, result payment.Result) (models.Order, error) {
	if !result.Success || result.TransactionID == "" {
		return models.Order{}, ErrPaymentNotAuthorized
	}
	if c.IsEmpty() {
		return models.Order{}, apperr.ErrEmptyCart
	}

	order := models.Order{
		ID:        f.ids.Next(),
		UserEmail: models.NormalizeEmail(owner),
		Shipping:  req.Shipping,
		Payment: models.PaymentInfo{
			Method:        req.PaymentMethod,
			TransactionID: result.TransactionID,
		},
		Subtotal:     c.Subtotal(),
		DiscountCode: req.DiscountCode,
		Total:        discount.Display(total),
		CreatedAt:    f.now(),
	}
	for l := range c.Items() {
		if l.Quantity <= 0 {
			continue
		}
		order.Lines = append(order.Lines, models.OrderLine{
			Title:     l.Book.Title,
			Category:  l.Book.Category,
			Quantity:  l.Quantity,
			UnitPrice: l.Book.Price,
		})
	}

	if err := f.store.AppendOrder(ctx, order.UserEmail, order); err != nil {
		return models.Order{}, fmt.Errorf("append order %s: %w", order.ID, err)
	}
	c.Clear()

	f.logger.Info().
		Str("order_id", order.ID).
		Str("email", order.UserEmail).
		Int("items", order.TotalItems()).
		Str("total", order.Total.StringFixed(discount.DisplayPlaces)).
		Msg("order placed")
	return order.Clone(), nil
}

// History returns orders for email, newest first.
func (f *Factory) History(ctx context.Context, email string) ([]models.Order, error) {
	history, err := f.store.OrderHistory(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("order history: %w", err)
	}
	if history == nil {
		history = []models.Order{}
	}
	return history, nil
}
