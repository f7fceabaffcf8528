// Package checkout validates checkout submissions and runs the payment and
// order pipeline.
package checkout

import (
	"net/url"
	"strings"

	"go-bookstore/apperr"
	"go-bookstore/cart"
	"go-bookstore/discount"
	"go-bookstore/models"
	"go-bookstore/utils"
)

// Form field names.
const (
	FieldName          = "name"
	FieldEmail         = "email"
	FieldAddress       = "address"
	FieldCity          = "city"
	FieldZip           = "zip_code"
	FieldPaymentMethod = "payment_method"
	FieldCardNumber    = "card_number"
	FieldExpiry        = "expiry_date"
	FieldCVV           = "cvv"
	FieldDiscountCode  = "discount_code"
)

// Form is a flat checkout submission.
type Form map[string]string

// FormFromValues takes the first value of each key. "zip" is accepted for
// zip_code.
func FormFromValues(values url.Values) Form {
	f := make(Form, len(values))
	for k := range values {
		f[k] = values.Get(k)
	}
	if f.Get(FieldZip) == "" {
		if zip := f.Get("zip"); zip != "" {
			f[FieldZip] = zip
		}
	}
	return f
}

// Get returns the trimmed value of key.
func (f Form) Get(key string) string {
	return strings.TrimSpace(f[key])
}

// EmailPolicy decides what a malformed checkout email does.
type EmailPolicy int

const (
	// EmailStrict rejects the submission.
	EmailStrict EmailPolicy = iota
	// EmailLenient lets checkout continue with a warning.
	EmailLenient
)

// requiredFields are checked in this order; the first blank one is reported.
var requiredFields = []struct {
	key, label string
}{
	{FieldName, "name"},
	{FieldEmail, "email"},
	{FieldAddress, "address"},
	{FieldCity, "city"},
	{FieldZip, "zip"},
}

type Validator struct {
	policy EmailPolicy
}

func NewValidator(policy EmailPolicy) *Validator {
	return &Validator{policy: policy}
}

// Validate checks a submission against the cart and stops at the first
// failure. The returned error is always an *apperr.Error. Warnings are only
// produced under EmailLenient.
func (v *Validator) Validate(c *cart.Cart, f Form) (models.CheckoutRequest, []string, error) {
	var warnings []string

	if c == nil || c.IsEmpty() {
		return models.CheckoutRequest{}, nil, apperr.ErrEmptyCart
	}

	for _, rf := range requiredFields {
		if f.Get(rf.key) == "" {
			return models.CheckoutRequest{}, nil, apperr.MissingField(rf.label)
		}
	}

	email := f.Get(FieldEmail)
	if !utils.IsValidEmail(email) {
		if v.policy != EmailLenient {
			return models.CheckoutRequest{}, nil, apperr.ErrInvalidEmail
		}
		warnings = append(warnings, apperr.ErrInvalidEmail.Message)
	}

	rawMethod := f.Get(FieldPaymentMethod)
	if rawMethod == "" {
		return models.CheckoutRequest{}, nil, apperr.MissingField("payment_method")
	}
	method, ok := models.ParsePaymentMethod(rawMethod)
	if !ok {
		return models.CheckoutRequest{}, nil, apperr.ErrInvalidPaymentMethod
	}

	req := models.CheckoutRequest{
		Name:  f.Get(FieldName),
		Email: email,
		Shipping: models.ShippingInfo{
			Name:    f.Get(FieldName),
			Address: f.Get(FieldAddress),
			City:    f.Get(FieldCity),
			Zip:     f.Get(FieldZip),
		},
		PaymentMethod: method,
		DiscountCode:  discount.Normalize(f.Get(FieldDiscountCode)),
	}
	if method == models.PaymentCreditCard {
		req.Card = models.CardDetails{
			Number: f.Get(FieldCardNumber),
			Expiry: f.Get(FieldExpiry),
			CVV:    f.Get(FieldCVV),
		}
	}
	return req, warnings, nil
}
