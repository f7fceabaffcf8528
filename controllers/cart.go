package controllers

import (
	"net/http"
	"strings"

	"go-bookstore/apperr"
	"go-bookstore/cart"
	"go-bookstore/catalog"
	"go-bookstore/checkout"
	"go-bookstore/utils"

	"github.com/rs/zerolog"
)

// CartController handles cart-related requests
type CartController struct {
	Catalog  *catalog.Catalog
	Checkout *checkout.Service
	Logger   zerolog.Logger
}

// NewCartController creates a new CartController
func NewCartController(c *catalog.Catalog, svc *checkout.Service, logger zerolog.Logger) *CartController {
	return &CartController{Catalog: c, Checkout: svc, Logger: logger}
}

type cartLineView struct {
	Title     string `json:"title"`
	Category  string `json:"category"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
}

type cartView struct {
	Items        []cartLineView `json:"items"`
	TotalItems   int            `json:"total_items"`
	Subtotal     string         `json:"subtotal"`
	DiscountCode string         `json:"discount_code,omitempty"`
	Discount     string         `json:"discount"`
	Total        string         `json:"total"`
}

func (cc *CartController) view(c *cart.Cart, code string) cartView {
	q := cc.Checkout.Quote(c, code)
	v := cartView{
		Items:        []cartLineView{},
		TotalItems:   c.TotalItems(),
		Subtotal:     price(q.Subtotal),
		DiscountCode: q.Code,
		Discount:     price(q.Discount),
		Total:        price(q.Total),
	}
	for l := range c.Items() {
		v.Items = append(v.Items, cartLineView{
			Title:     l.Book.Title,
			Category:  l.Book.Category,
			Price:     price(l.Book.Price),
			Quantity:  l.Quantity,
			LineTotal: price(l.Total()),
		})
	}
	return v
}

// resolveTitle maps form input onto the catalog's spelling of a title.
func (cc *CartController) resolveTitle(raw string) string {
	if b, ok := cc.Catalog.Find(raw); ok {
		return b.ID()
	}
	return strings.TrimSpace(raw)
}

// GetCart shows the cart, priced with an optional discount_code query
// parameter
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	sess, ok := lockSession(w, r)
	if !ok {
		return
	}
	defer sess.Unlock()

	utils.RespondWithJSON(w, http.StatusOK, cc.view(sess.Cart(), r.URL.Query().Get("discount_code")))
}

// AddToCart adds quantity copies of a book; quantity defaults to 1
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	book, ok := cc.Catalog.Find(r.PostForm.Get("title"))
	if !ok {
		respondError(w, cc.Logger, apperr.ErrUnknownItem)
		return
	}
	quantity := 1
	if raw := strings.TrimSpace(r.PostForm.Get("quantity")); raw != "" {
		q, err := cart.ParseQuantity(raw)
		if err != nil {
			respondError(w, cc.Logger, err)
			return
		}
		quantity = q
	}

	sess, ok := lockSession(w, r)
	if !ok {
		return
	}
	defer sess.Unlock()

	if err := sess.Cart().Add(book, quantity); err != nil {
		respondError(w, cc.Logger, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, cc.view(sess.Cart(), ""))
}

// UpdateCart sets a line's quantity; zero or less removes it
func (cc *CartController) UpdateCart(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	title := cc.resolveTitle(r.PostForm.Get("title"))

	sess, ok := lockSession(w, r)
	if !ok {
		return
	}
	defer sess.Unlock()

	if err := sess.Cart().UpdateFromInput(title, r.PostForm.Get("quantity")); err != nil {
		respondError(w, cc.Logger, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, cc.view(sess.Cart(), ""))
}

// RemoveFromCart drops a line from the cart
func (cc *CartController) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	title := cc.resolveTitle(r.PostForm.Get("title"))

	sess, ok := lockSession(w, r)
	if !ok {
		return
	}
	defer sess.Unlock()

	sess.Cart().Remove(title)
	utils.RespondWithJSON(w, http.StatusOK, cc.view(sess.Cart(), ""))
}

// ClearCart empties the cart
func (cc *CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	sess, ok := lockSession(w, r)
	if !ok {
		return
	}
	defer sess.Unlock()

	sess.Cart().Clear()
	utils.RespondWithJSON(w, http.StatusOK, cc.view(sess.Cart(), ""))
}
