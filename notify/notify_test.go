package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"go-bookstore/models"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrder() models.Order {
	return models.Order{
		ID:        "ORD-abc-1",
		UserEmail: "john@example.com",
		Lines: []models.OrderLine{
			{Title: "The Great Gatsby", Category: "Fiction", Quantity: 2, UnitPrice: decimal.RequireFromString("10.99")},
			{Title: "Moby Dick", Category: "Adventure", Quantity: 99, UnitPrice: decimal.RequireFromString("12.49")},
		},
		Payment:   models.PaymentInfo{Method: models.PaymentCreditCard, TransactionID: "TXN123"},
		Subtotal:  decimal.RequireFromString("1258.49"),
		Total:     decimal.RequireFromString("1258.49"),
		CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

type recordingSender struct {
	mu   sync.Mutex
	msgs []Message
	err  error
}

func (s *recordingSender) Send(_ context.Context, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
	return s.err
}

type fakeChannel struct {
	exchange, key string
	msg           amqp.Publishing
	err           error
}

func (c *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	c.exchange, c.key, c.msg = exchange, key, msg
	return c.err
}

type countingNotifier struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (n *countingNotifier) SendOrderConfirmation(context.Context, string, models.Order) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
	return n.err
}

func TestOrderConfirmation_Content(t *testing.T) {
	msg := OrderConfirmation("john@example.com", testOrder())

	assert.Equal(t, "john@example.com", msg.To)
	assert.Contains(t, msg.Subject, "ORD-abc-1")
	for _, want := range []string{"Order Number: ORD-abc-1", "The Great Gatsby", "Total: $1,258.49", "Credit Card", "TXN123", "What's Next"} {
		assert.Contains(t, msg.Text, want)
	}
	assert.Contains(t, msg.Text, "99 x Moby Dick ($1,236.51)")
	assert.Contains(t, msg.HTML, "Order Confirmed!")
	assert.Contains(t, msg.HTML, "What&#39;s Next")
}

func TestEmailService_SendsOnce(t *testing.T) {
	sender := &recordingSender{}
	es := NewEmailService(sender, zerolog.Nop())

	require.NoError(t, es.SendOrderConfirmation(context.Background(), "john@example.com", testOrder()))
	require.Len(t, sender.msgs, 1)
	assert.Equal(t, "john@example.com", sender.msgs[0].To)
}

func TestEmailService_WrapsSenderError(t *testing.T) {
	sender := &recordingSender{err: errors.New("quota exceeded")}
	es := NewEmailService(sender, zerolog.Nop())

	err := es.SendOrderConfirmation(context.Background(), "john@example.com", testOrder())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ORD-abc-1")
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestEventPublisher_PublishesOrderCreated(t *testing.T) {
	ch := &fakeChannel{}
	p := &EventPublisher{ch: ch, exchange: "domain_events"}

	require.NoError(t, p.SendOrderConfirmation(context.Background(), "john@example.com", testOrder()))

	assert.Equal(t, "domain_events", ch.exchange)
	assert.Equal(t, RoutingKeyOrderCreated, ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Equal(t, "ORD-abc-1", ch.msg.MessageId)

	var ev OrderCreated
	require.NoError(t, json.Unmarshal(ch.msg.Body, &ev))
	assert.Equal(t, "ORD-abc-1", ev.OrderID)
	assert.Equal(t, 101, ev.Items)
	assert.Equal(t, "1258.49", ev.Total)
	assert.Equal(t, "credit_card", ev.PaymentMethod)
}

func TestEventPublisher_Error(t *testing.T) {
	p := &EventPublisher{ch: &fakeChannel{err: amqp.ErrClosed}, exchange: "x"}

	err := p.SendOrderConfirmation(context.Background(), "a@b.com", testOrder())
	assert.ErrorIs(t, err, amqp.ErrClosed)
}

func TestFanout_CallsAllAndJoinsErrors(t *testing.T) {
	a := &countingNotifier{}
	b := &countingNotifier{err: errors.New("b failed")}
	c := &countingNotifier{}

	err := Fanout{a, b, c}.SendOrderConfirmation(context.Background(), "a@b.com", testOrder())

	assert.EqualError(t, err, "b failed")
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)
	assert.Equal(t, 1, c.calls)
}

func TestAsync_DeliversInBackground(t *testing.T) {
	n := &countingNotifier{err: errors.New("ignored")}
	a := NewAsync(n, time.Second, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	assert.NoError(t, a.SendOrderConfirmation(ctx, "a@b.com", testOrder()))
	cancel()
	a.Wait()

	assert.Equal(t, 1, n.calls)
}

func TestProviders_RequireKeys(t *testing.T) {
	_, err := NewPostmarkSender("", "shop@example.com")
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = NewSendGridSender("", "shop@example.com")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}
