package models

import "strings"

// PaymentMethod is the payment option picked at checkout.
type PaymentMethod string

const (
	PaymentCreditCard PaymentMethod = "credit_card"
	PaymentPayPal     PaymentMethod = "paypal"
)

// ParsePaymentMethod normalizes raw form input. ok is false for values the
// store does not offer.
func ParsePaymentMethod(raw string) (PaymentMethod, bool) {
	switch m := PaymentMethod(strings.ToLower(strings.TrimSpace(raw))); m {
	case PaymentCreditCard, PaymentPayPal:
		return m, true
	default:
		return m, false
	}
}

// IsRedirect reports whether the method hands the customer off to an
// external site instead of authorizing a card here.
func (m PaymentMethod) IsRedirect() bool {
	return m == PaymentPayPal
}

// Label is the customer-facing name of the method.
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentCreditCard:
		return "Credit Card"
	case PaymentPayPal:
		return "PayPal"
	default:
		return string(m)
	}
}

// PaymentInfo is the payment part of an order snapshot. Card data never
// reaches it.
type PaymentInfo struct {
	Method        PaymentMethod `bson:"method" json:"method"`
	TransactionID string        `bson:"transaction_id" json:"transaction_id"`
}
