package controllers

import (
	"net/http"

	"go-bookstore/apperr"
	"go-bookstore/checkout"
	"go-bookstore/middleware"
	"go-bookstore/utils"

	"github.com/rs/zerolog"
)

const nextSteps = "What's Next: you will receive a confirmation email shortly, and another one when your books ship."

// CheckoutController handles checkout requests
type CheckoutController struct {
	Checkout *checkout.Service
	Carts    *CartController
	Logger   zerolog.Logger
}

// NewCheckoutController creates a new CheckoutController
func NewCheckoutController(svc *checkout.Service, carts *CartController, logger zerolog.Logger) *CheckoutController {
	return &CheckoutController{Checkout: svc, Carts: carts, Logger: logger}
}

// GetCheckout reports what would be charged, or that the cart is empty
func (ch *CheckoutController) GetCheckout(w http.ResponseWriter, r *http.Request) {
	sess, ok := lockSession(w, r)
	if !ok {
		return
	}
	defer sess.Unlock()

	if sess.Cart().IsEmpty() {
		respondError(w, ch.Logger, apperr.ErrEmptyCart)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, ch.Carts.view(sess.Cart(), r.URL.Query().Get("discount_code")))
}

// ProcessCheckout validates the form, takes payment and places the order.
// PayPal submissions are redirected instead.
func (ch *CheckoutController) ProcessCheckout(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	form := checkout.FormFromValues(r.PostForm)

	var owner string
	if claims, ok := middleware.ClaimsFrom(r.Context()); ok {
		owner = claims.Email
	}

	sess, ok := lockSession(w, r)
	if !ok {
		return
	}
	defer sess.Unlock()

	out, err := ch.Checkout.Process(r.Context(), sess.Cart(), owner, form)
	if err != nil {
		respondError(w, ch.Logger, err)
		return
	}
	if out.Redirect != "" {
		http.Redirect(w, r, out.Redirect, http.StatusFound)
		return
	}

	body := utils.M{
		"message":        "Order Confirmed!",
		"order":          newOrderView(*out.Order),
		"payment_status": out.Payment.Message,
		"next_steps":     nextSteps,
	}
	if len(out.Warnings) > 0 {
		body["warnings"] = out.Warnings
	}
	utils.RespondWithJSON(w, http.StatusCreated, body)
}

// PayPal is the landing page for PayPal redirects
func (ch *CheckoutController) PayPal(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"message": "PayPal checkout is not available yet. Please pay by credit card.",
	})
}
