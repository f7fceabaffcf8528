package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go-bookstore/models"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RoutingKeyOrderCreated is published once per placed order.
const RoutingKeyOrderCreated = "order.created"

// OrderCreated is the event body.
type OrderCreated struct {
	OrderID       string    `json:"order_id"`
	Email         string    `json:"email"`
	Items         int       `json:"items"`
	Subtotal      string    `json:"subtotal"`
	DiscountCode  string    `json:"discount_code,omitempty"`
	Total         string    `json:"total_amount"`
	PaymentMethod string    `json:"payment_method"`
	TransactionID string    `json:"transaction_id"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewOrderCreated(email string, o models.Order) OrderCreated {
	return OrderCreated{
		OrderID:       o.ID,
		Email:         email,
		Items:         o.TotalItems(),
		Subtotal:      o.Subtotal.StringFixed(2),
		DiscountCode:  o.DiscountCode,
		Total:         o.Total.StringFixed(2),
		PaymentMethod: string(o.Payment.Method),
		TransactionID: o.Payment.TransactionID,
		CreatedAt:     o.CreatedAt,
	}
}

// publisher is the slice of *amqp.Channel used here.
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// EventPublisher sends order events to a RabbitMQ topic exchange.
type EventPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       publisher
	closer   func() error
	exchange string
}

func NewEventPublisher(url, exchange string) (*EventPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbit: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &EventPublisher{conn: conn, ch: ch, closer: ch.Close, exchange: exchange}, nil
}

func (p *EventPublisher) Close() {
	if p.closer != nil {
		_ = p.closer()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// SendOrderConfirmation publishes an order.created event.
func (p *EventPublisher) SendOrderConfirmation(ctx context.Context, email string, order models.Order) error {
	body, err := json.Marshal(NewOrderCreated(email, order))
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.PublishWithContext(ctx, p.exchange, RoutingKeyOrderCreated, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    order.ID,
		Timestamp:    order.CreatedAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", RoutingKeyOrderCreated, err)
	}
	return nil
}
