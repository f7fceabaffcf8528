package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"go-bookstore/models"

	"github.com/rs/zerolog"
)

// Notifier matches checkout.Notifier.
type Notifier interface {
	SendOrderConfirmation(ctx context.Context, email string, order models.Order) error
}

// Fanout calls every notifier and joins their errors.
type Fanout []Notifier

func (f Fanout) SendOrderConfirmation(ctx context.Context, email string, order models.Order) error {
	var errs []error
	for _, n := range f {
		if err := n.SendOrderConfirmation(ctx, email, order); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Async delivers in the background. Failures are logged.
type Async struct {
	next    Notifier
	timeout time.Duration
	logger  zerolog.Logger
	wg      sync.WaitGroup
}

func NewAsync(next Notifier, timeout time.Duration, logger zerolog.Logger) *Async {
	return &Async{next: next, timeout: timeout, logger: logger}
}

func (a *Async) SendOrderConfirmation(ctx context.Context, email string, order models.Order) error {
	ctx = context.WithoutCancel(ctx)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if a.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, a.timeout)
			defer cancel()
		}
		if err := a.next.SendOrderConfirmation(ctx, email, order); err != nil {
			a.logger.Error().Err(err).Str("order_id", order.ID).Msg("order notification failed")
		}
	}()
	return nil
}

// Wait blocks until in-flight deliveries finish.
func (a *Async) Wait() {
	a.wg.Wait()
}
