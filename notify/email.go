// Package notify delivers order confirmations by email and publishes order
// events.
package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"go-bookstore/discount"
	"go-bookstore/models"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Message is a rendered email.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers one email.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// EmailService renders order confirmations and hands them to a Sender.
type EmailService struct {
	sender Sender
	logger zerolog.Logger
}

func NewEmailService(sender Sender, logger zerolog.Logger) *EmailService {
	return &EmailService{sender: sender, logger: logger}
}

func (es *EmailService) SendOrderConfirmation(ctx context.Context, email string, order models.Order) error {
	msg := OrderConfirmation(email, order)
	if err := es.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("send confirmation for %s: %w", order.ID, err)
	}
	es.logger.Info().Str("order_id", order.ID).Str("to", email).Msg("order confirmation sent")
	return nil
}

func money(d decimal.Decimal) string {
	return "$" + humanize.FormatFloat("#,###.##", discount.Display(d).InexactFloat64())
}

// OrderConfirmation renders the confirmation email for order.
func OrderConfirmation(to string, order models.Order) Message {
	var text, body strings.Builder

	fmt.Fprintf(&text, "Order Confirmation\n\nOrder Number: %s\n\n", order.ID)
	body.WriteString("<h2>Order Confirmed!</h2>")
	fmt.Fprintf(&body, "<p>Order Number: <strong>%s</strong></p><ul>", html.EscapeString(order.ID))
	for _, l := range order.Lines {
		line := fmt.Sprintf("%s x %s (%s)", humanize.Comma(int64(l.Quantity)), l.Title, money(l.LineTotal()))
		text.WriteString("  " + line + "\n")
		body.WriteString("<li>" + html.EscapeString(line) + "</li>")
	}
	body.WriteString("</ul>")

	summary := fmt.Sprintf("Total: %s\nPayment Method: %s\nTransaction ID: %s\n",
		money(order.Total), order.Payment.Method.Label(), order.Payment.TransactionID)
	if order.DiscountCode != "" {
		summary = fmt.Sprintf("Discount code: %s\n", order.DiscountCode) + summary
	}
	text.WriteString("\n" + summary)
	body.WriteString("<p>" + strings.ReplaceAll(html.EscapeString(strings.TrimSpace(summary)), "\n", "<br>") + "</p>")

	next := "What's Next: we will email you again when your books ship."
	text.WriteString("\n" + next + "\n")
	body.WriteString("<p>" + html.EscapeString(next) + "</p>")

	return Message{
		To:      to,
		Subject: "Order Confirmation " + order.ID,
		HTML:    body.String(),
		Text:    text.String(),
	}
}

// LogSender writes emails to the log instead of sending them.
type LogSender struct {
	Logger zerolog.Logger
}

func (s LogSender) Send(_ context.Context, msg Message) error {
	s.Logger.Info().Str("to", msg.To).Str("subject", msg.Subject).Msg(msg.Text)
	return nil
}
