package controllers

import (
	"errors"
	"net/http"

	"go-bookstore/apperr"
	"go-bookstore/discount"
	"go-bookstore/middleware"
	"go-bookstore/models"
	"go-bookstore/payment"
	"go-bookstore/session"
	"go-bookstore/utils"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindPaymentDeclined:
		return http.StatusPaymentRequired
	case apperr.KindItemNotInCart, apperr.KindUnknownItem:
		return http.StatusNotFound
	case apperr.KindUserExists:
		return http.StatusConflict
	case apperr.KindInvalidCredentials, apperr.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusBadRequest
	}
}

// respondError renders user-facing errors with their message and hides
// everything else behind a 500.
func respondError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		body := utils.M{"error": appErr.Message, "code": appErr.Kind.String()}
		if appErr.Field != "" {
			body["field"] = appErr.Field
		}
		utils.RespondWithJSON(w, statusFor(appErr.Kind), body)
		return
	}
	if errors.Is(err, payment.ErrGatewayUnavailable) {
		logger.Warn().Err(err).Msg("payment gateway unavailable")
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Payment service is temporarily unavailable")
		return
	}
	logger.Error().Err(err).Msg("request failed")
	utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
}

// lockSession returns the request's session locked for the rest of the
// request. The caller must Unlock it.
func lockSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, ok := middleware.SessionFrom(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusInternalServerError, "Session unavailable")
		return nil, false
	}
	sess.Lock()
	return sess, true
}

func price(d decimal.Decimal) string {
	return discount.Format(discount.Display(d))
}

type orderLineView struct {
	Title     string `json:"title"`
	Category  string `json:"category"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
}

type orderView struct {
	OrderID       string              `json:"order_id"`
	Items         []orderLineView     `json:"items"`
	TotalItems    int                 `json:"total_items"`
	Subtotal      string              `json:"subtotal"`
	DiscountCode  string              `json:"discount_code,omitempty"`
	Total         string              `json:"total_amount"`
	PaymentMethod string              `json:"payment_method"`
	TransactionID string              `json:"transaction_id"`
	Shipping      models.ShippingInfo `json:"shipping"`
	CreatedAt     string              `json:"created_at"`
}

func newOrderView(o models.Order) orderView {
	v := orderView{
		OrderID:       o.ID,
		Items:         make([]orderLineView, 0, len(o.Lines)),
		TotalItems:    o.TotalItems(),
		Subtotal:      price(o.Subtotal),
		DiscountCode:  o.DiscountCode,
		Total:         price(o.Total),
		PaymentMethod: o.Payment.Method.Label(),
		TransactionID: o.Payment.TransactionID,
		Shipping:      o.Shipping,
		CreatedAt:     o.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	for _, l := range o.Lines {
		v.Items = append(v.Items, orderLineView{
			Title:     l.Title,
			Category:  l.Category,
			Quantity:  l.Quantity,
			UnitPrice: price(l.UnitPrice),
			LineTotal: price(l.LineTotal()),
		})
	}
	return v
}
