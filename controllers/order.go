package controllers

import (
	"net/http"

	"go-bookstore/apperr"
	"go-bookstore/middleware"
	"go-bookstore/orders"
	"go-bookstore/utils"

	"github.com/rs/zerolog"
)

// OrderController handles order-related requests
type OrderController struct {
	Orders *orders.Factory
	Logger zerolog.Logger
}

// NewOrderController creates a new OrderController
func NewOrderController(factory *orders.Factory, logger zerolog.Logger) *OrderController {
	return &OrderController{Orders: factory, Logger: logger}
}

// GetOrders lists the logged-in user's orders, newest first
func (oc *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		respondError(w, oc.Logger, apperr.ErrUnauthorized)
		return
	}

	history, err := oc.Orders.History(r.Context(), claims.Email)
	if err != nil {
		respondError(w, oc.Logger, err)
		return
	}

	out := make([]orderView, 0, len(history))
	for _, o := range history {
		out = append(out, newOrderView(o))
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}
