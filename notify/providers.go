package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/keighl/postmark"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

var ErrMissingAPIKey = errors.New("email provider api key is not set")

// PostmarkSender sends through the Postmark API.
type PostmarkSender struct {
	client *postmark.Client
	from   string
}

func NewPostmarkSender(apiToken, from string) (*PostmarkSender, error) {
	if apiToken == "" {
		return nil, fmt.Errorf("postmark: %w", ErrMissingAPIKey)
	}
	return &PostmarkSender{client: postmark.NewClient(apiToken, ""), from: from}, nil
}

func (s *PostmarkSender) Send(_ context.Context, msg Message) error {
	_, err := s.client.SendEmail(postmark.Email{
		From:     s.from,
		To:       msg.To,
		Subject:  msg.Subject,
		HtmlBody: msg.HTML,
		TextBody: msg.Text,
		Tag:      "order-confirmation",
	})
	if err != nil {
		return fmt.Errorf("postmark send: %w", err)
	}
	return nil
}

// SendGridSender sends through the SendGrid v3 API.
type SendGridSender struct {
	client *sendgrid.Client
	from   *mail.Email
}

func NewSendGridSender(apiKey, from string) (*SendGridSender, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("sendgrid: %w", ErrMissingAPIKey)
	}
	return &SendGridSender{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail("Bookstore", from),
	}, nil
}

func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	m := mail.NewSingleEmail(s.from, msg.Subject, mail.NewEmail("", msg.To), msg.Text, msg.HTML)
	resp, err := s.client.SendWithContext(ctx, m)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid send: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
