// routes/routes.go
package routes

import (
	"net/http"

	"go-bookstore/controllers"
	"go-bookstore/middleware"
	"go-bookstore/session"

	"github.com/gorilla/mux"
)

// Controllers groups everything RegisterRoutes wires up.
type Controllers struct {
	Books    *controllers.BookController
	Carts    *controllers.CartController
	Checkout *controllers.CheckoutController
	Orders   *controllers.OrderController
	Users    *controllers.UserController
}

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, c Controllers, auth *middleware.Auth, sessions *session.Store, limiter *middleware.RateLimiter) {
	router.Use(middleware.Sessions(sessions))
	router.Use(auth.Optional)

	limited := func(h http.HandlerFunc) http.Handler { return limiter.Limit(h) }
	protected := func(h http.HandlerFunc) http.Handler { return auth.Required(h) }

	// Catalog
	router.HandleFunc("/books", c.Books.GetBooks).Methods("GET")
	router.HandleFunc("/books/{title}", c.Books.GetBook).Methods("GET")

	// Cart
	router.HandleFunc("/cart", c.Carts.GetCart).Methods("GET")
	router.HandleFunc("/cart/add", c.Carts.AddToCart).Methods("POST")
	router.HandleFunc("/cart/update", c.Carts.UpdateCart).Methods("POST")
	router.HandleFunc("/cart/remove", c.Carts.RemoveFromCart).Methods("POST")
	router.HandleFunc("/cart/clear", c.Carts.ClearCart).Methods("POST")

	// Checkout
	router.HandleFunc("/checkout", c.Checkout.GetCheckout).Methods("GET")
	router.Handle("/checkout", limited(c.Checkout.ProcessCheckout)).Methods("POST")
	router.HandleFunc("/paypal", c.Checkout.PayPal).Methods("GET")

	// Accounts
	router.Handle("/register", limited(c.Users.Register)).Methods("POST")
	router.Handle("/login", limited(c.Users.Login)).Methods("POST")
	router.HandleFunc("/logout", c.Users.Logout).Methods("POST", "GET")
	router.Handle("/profile", protected(c.Users.GetProfile)).Methods("GET")
	router.Handle("/profile", protected(c.Users.UpdateProfile)).Methods("PUT", "POST")

	// Orders
	router.Handle("/orders", protected(c.Orders.GetOrders)).Methods("GET")

	// Form-post paths used by the storefront pages
	router.HandleFunc("/add-to-cart", c.Carts.AddToCart).Methods("POST")
	router.HandleFunc("/update-cart", c.Carts.UpdateCart).Methods("POST")
	router.HandleFunc("/remove-from-cart", c.Carts.RemoveFromCart).Methods("POST")
	router.Handle("/process-checkout", limited(c.Checkout.ProcessCheckout)).Methods("POST")
	router.Handle("/update-profile", protected(c.Users.UpdateProfile)).Methods("POST")
	router.Handle("/account", protected(c.Users.GetProfile)).Methods("GET")
}
