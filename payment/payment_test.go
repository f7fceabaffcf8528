package payment

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go-bookstore/apperr"
	"go-bookstore/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cardInfo(number, expiry, cvv string) Info {
	return Info{
		Method: models.PaymentCreditCard,
		Card:   models.CardDetails{Number: number, Expiry: expiry, CVV: cvv},
	}
}

func TestMockGateway_Success(t *testing.T) {
	g := NewMockGateway()

	res, err := g.Authorize(context.Background(), cardInfo("1234567812345678", "12/30", "123"))

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Nil(t, res.Err)
	assert.Regexp(t, `^TXN\d+$`, res.TransactionID)
	assert.Equal(t, "Payment processed successfully", res.Message)
}

func TestMockGateway_Declines1111(t *testing.T) {
	g := NewMockGateway()
	for _, n := range []string{"1234567812341111", "1234 5678 9012 1111", "4111111111111111", "4111-1111-1111-1"} {
		res, err := g.Authorize(context.Background(), cardInfo(n, "12/30", "123"))

		require.NoError(t, err)
		assert.False(t, res.Success, n)
		assert.Empty(t, res.TransactionID, n)
		assert.Equal(t, "Payment failed: Invalid card number", res.Message, n)
		assert.ErrorIs(t, res.Err, apperr.ErrPaymentDeclined)
	}
}

func TestMockGateway_CardLength(t *testing.T) {
	g := NewMockGateway()
	cases := map[string]bool{
		"1234 5678 9012":       false, // 12 digits
		"1234 5678 9012 12345": false, // 17 digits
		"1234567890123":        true,  // 13 digits
		"1234 5678 9012 3456":  true,
		"":                     false,
		"1234-5678-abcd-3456":  false,
	}
	for number, ok := range cases {
		res, err := g.Authorize(context.Background(), cardInfo(number, "12/30", "123"))
		require.NoError(t, err)
		assert.Equal(t, ok, res.Success, number)
		if !ok {
			assert.Empty(t, res.TransactionID)
			assert.Equal(t, apperr.KindInvalidCardNumber, apperr.KindOf(res.Err), number)
		}
	}
}

func TestMockGateway_MissingExpiryAndCVV(t *testing.T) {
	g := NewMockGateway()

	res, err := g.Authorize(context.Background(), cardInfo("1234 5678 9012 3456", "", "123"))
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "expiry_date", res.Err.Field)
	assert.Equal(t, apperr.KindMissingPaymentField, res.Err.Kind)

	res, err = g.Authorize(context.Background(), cardInfo("1234 5678 9012 3456", "123", " "))
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "cvv", res.Err.Field)
	assert.Contains(t, res.Message, "CVV")
}

func TestMockGateway_UniqueTransactionIDs(t *testing.T) {
	g := NewMockGateway()
	const workers, perWorker = 8, 250

	var mu sync.Mutex
	seen := make(map[string]struct{}, workers*perWorker)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				res, err := g.Authorize(context.Background(), cardInfo("4242424242424242", "12/30", "123"))
				if err != nil || !res.Success {
					t.Errorf("unexpected failure: %v %+v", err, res)
					return
				}
				mu.Lock()
				seen[res.TransactionID] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
}

func TestMaskCardNumber(t *testing.T) {
	assert.Equal(t, "************3456", MaskCardNumber("1234 5678 9012 3456"))
	assert.Equal(t, "****", MaskCardNumber("12"))
	assert.False(t, strings.Contains(MaskCardNumber("4242424242424242"), "42424242"))
}

func TestBreaker_PassesThroughResults(t *testing.T) {
	b := NewBreaker(NewMockGateway(), BreakerSettings{Timeout: time.Second, Logger: zerolog.Nop()})

	res, err := b.Authorize(context.Background(), cardInfo("1234567812341111", "12/30", "123"))
	require.NoError(t, err)
	assert.False(t, res.Success)

	res, err = b.Authorize(context.Background(), cardInfo("1234567812345678", "12/30", "123"))
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "closed", b.State())
}

func TestBreaker_OpensAfterInfrastructureFailures(t *testing.T) {
	calls := 0
	failing := AuthorizerFunc(func(ctx context.Context, info Info) (Result, error) {
		calls++
		return Result{}, errors.New("connection refused")
	})
	b := NewBreaker(failing, BreakerSettings{ConsecutiveFailures: 2, OpenFor: time.Minute, Logger: zerolog.Nop()})

	for i := 0; i < 2; i++ {
		_, err := b.Authorize(context.Background(), Info{})
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrGatewayUnavailable)
	}

	_, err := b.Authorize(context.Background(), Info{})
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "open", b.State())
}

func TestBreaker_AppliesTimeout(t *testing.T) {
	slow := AuthorizerFunc(func(ctx context.Context, info Info) (Result, error) {
		<-ctx.Done()
		return Result{}, ctx.Err()
	})
	b := NewBreaker(slow, BreakerSettings{Timeout: 10 * time.Millisecond, Logger: zerolog.Nop()})

	_, err := b.Authorize(context.Background(), Info{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
