package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

// BreakerSettings tunes NewBreaker.
type BreakerSettings struct {
	Name string
	// Timeout bounds a single Authorize call.
	Timeout time.Duration
	// ConsecutiveFailures trips the breaker.
	ConsecutiveFailures uint32
	// OpenFor is how long the breaker stays open before probing again.
	OpenFor time.Duration
	Logger  zerolog.Logger
}

// Breaker guards an Authorizer with a per-call timeout and a circuit breaker.
// Only infrastructure errors count as failures; declines do not.
type Breaker struct {
	next    Authorizer
	timeout time.Duration
	cb      *gobreaker.CircuitBreaker[Result]
}

func NewBreaker(next Authorizer, s BreakerSettings) *Breaker {
	if s.Name == "" {
		s.Name = "payment"
	}
	if s.ConsecutiveFailures == 0 {
		s.ConsecutiveFailures = 5
	}
	if s.OpenFor == 0 {
		s.OpenFor = 30 * time.Second
	}
	logger := s.Logger
	threshold := s.ConsecutiveFailures
	cb := gobreaker.NewCircuitBreaker[Result](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: 1,
		Timeout:     s.OpenFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("payment breaker state changed")
		},
	})
	return &Breaker{next: next, timeout: s.Timeout, cb: cb}
}

func (b *Breaker) Authorize(ctx context.Context, info Info) (Result, error) {
	res, err := b.cb.Execute(func() (Result, error) {
		callCtx := ctx
		if b.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, b.timeout)
			defer cancel()
		}
		return b.next.Authorize(callCtx, info)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return Result{}, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	return res, err
}

// State exposes the breaker state for health reporting.
func (b *Breaker) State() string {
	return b.cb.State().String()
}
