// Package apperr holds the user-facing failure kinds shared by the cart,
// checkout, payment and account flows.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a recoverable, user-facing failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindEmptyCart
	KindMissingField
	KindInvalidEmail
	KindInvalidQuantity
	KindQuantityLimitExceeded
	KindInvalidCardNumber
	KindMissingPaymentField
	KindPaymentDeclined
	KindItemNotInCart
	KindUnknownItem
	KindInvalidPaymentMethod
	KindUserExists
	KindInvalidCredentials
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindEmptyCart:
		return "EMPTY_CART"
	case KindMissingField:
		return "MISSING_FIELD"
	case KindInvalidEmail:
		return "INVALID_EMAIL"
	case KindInvalidQuantity:
		return "INVALID_QUANTITY"
	case KindQuantityLimitExceeded:
		return "QUANTITY_LIMIT_EXCEEDED"
	case KindInvalidCardNumber:
		return "INVALID_CARD_NUMBER"
	case KindMissingPaymentField:
		return "MISSING_PAYMENT_FIELD"
	case KindPaymentDeclined:
		return "PAYMENT_DECLINED"
	case KindItemNotInCart:
		return "ITEM_NOT_IN_CART"
	case KindUnknownItem:
		return "UNKNOWN_ITEM"
	case KindInvalidPaymentMethod:
		return "INVALID_PAYMENT_METHOD"
	case KindUserExists:
		return "USER_EXISTS"
	case KindInvalidCredentials:
		return "INVALID_CREDENTIALS"
	case KindUnauthorized:
		return "UNAUTHORIZED"
	default:
		return "UNKNOWN"
	}
}

// Error is a typed validation or business outcome. Field names the offending
// input when there is one.
type Error struct {
	Kind    Kind
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches any *Error of the same kind, so sentinels work with errors.Is
// regardless of field or message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

var (
	ErrEmptyCart             = New(KindEmptyCart, "Your cart is empty!")
	ErrMissingField          = New(KindMissingField, "Please fill in all required fields")
	ErrInvalidEmail          = New(KindInvalidEmail, "Invalid email address")
	ErrInvalidQuantity       = New(KindInvalidQuantity, "Please enter a valid quantity")
	ErrQuantityLimitExceeded = New(KindQuantityLimitExceeded, "Quantity cannot exceed 99")
	ErrInvalidCardNumber     = New(KindInvalidCardNumber, "Payment failed: Card number must be 13 to 16 digits")
	ErrMissingPaymentField   = New(KindMissingPaymentField, "Please fill in all payment fields")
	ErrPaymentDeclined       = New(KindPaymentDeclined, "Payment failed: Invalid card number")
	ErrItemNotInCart         = New(KindItemNotInCart, "Item is not in your cart")
	ErrUnknownItem           = New(KindUnknownItem, "Book not found")
	ErrInvalidPaymentMethod  = New(KindInvalidPaymentMethod, "Invalid payment method")
	ErrUserExists            = New(KindUserExists, "An account with this email already exists")
	ErrInvalidCredentials    = New(KindInvalidCredentials, "Invalid email or password")
	ErrUnauthorized          = New(KindUnauthorized, "Please log in to continue")
)

// MissingField reports the first required checkout field left blank.
func MissingField(field string) *Error {
	return &Error{
		Kind:    KindMissingField,
		Field:   field,
		Message: fmt.Sprintf("Please fill in the %s field", field),
	}
}

// MissingPaymentField reports a blank card field.
func MissingPaymentField(field, label string) *Error {
	return &Error{
		Kind:    KindMissingPaymentField,
		Field:   field,
		Message: fmt.Sprintf("Please enter the card %s", label),
	}
}

// KindOf extracts the kind from err, or KindUnknown when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
