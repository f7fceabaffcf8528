// main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-bookstore/accounts"
	"go-bookstore/catalog"
	"go-bookstore/checkout"
	"go-bookstore/config"
	"go-bookstore/controllers"
	"go-bookstore/discount"
	"go-bookstore/middleware"
	"go-bookstore/notify"
	"go-bookstore/orders"
	"go-bookstore/payment"
	"go-bookstore/routes"
	"go-bookstore/session"
	"go-bookstore/store"
	"go-bookstore/utils"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const notifyTimeout = 30 * time.Second

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	logger = logger.Level(cfg.LogLevel)

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	discounts, err := newDiscountEngine(cfg.DiscountCodes)
	if err != nil {
		return err
	}

	// Connect to the account store
	accountStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := accountStore.Close(closeCtx); err != nil {
			logger.Error().Err(err).Msg("close store")
		}
	}()
	logger.Info().Str("driver", cfg.StoreDriver).Msg("store ready")

	// Initialize notifications
	notifiers, closeNotifiers, err := buildNotifiers(cfg, logger)
	if err != nil {
		return err
	}
	defer closeNotifiers()
	async := notify.NewAsync(notifiers, notifyTimeout, logger)

	gateway := payment.NewBreaker(payment.NewMockGateway(), payment.BreakerSettings{
		Timeout: cfg.PaymentTimeout,
		Logger:  logger,
	})

	emailPolicy := checkout.EmailStrict
	if cfg.CheckoutEmailLenient {
		emailPolicy = checkout.EmailLenient
	}
	factory := orders.NewFactory(accountStore, logger)
	checkoutService := checkout.NewService(discounts, gateway, factory, async, checkout.Options{
		EmailPolicy: emailPolicy,
		PayPalURL:   cfg.PayPalRedirectURL,
	}, logger)

	sessions, err := session.NewStore(cfg.SessionCapacity)
	if err != nil {
		return err
	}
	tokens := utils.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	books := catalog.Default()

	// Initialize controllers
	cartController := controllers.NewCartController(books, checkoutService, logger)
	ctrls := routes.Controllers{
		Books:    controllers.NewBookController(books, logger),
		Carts:    cartController,
		Checkout: controllers.NewCheckoutController(checkoutService, cartController, logger),
		Orders:   controllers.NewOrderController(factory, logger),
		Users: controllers.NewUserController(accounts.NewService(accountStore, logger),
			tokens, sessions, cfg.TokenTTL, logger),
	}

	// Set up the router
	router := mux.NewRouter()
	routes.RegisterRoutes(router, ctrls, middleware.NewAuth(tokens), sessions,
		middleware.NewRateLimiter(cfg.RateLimitPerMinute))

	handler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.SessionHeader},
		ExposedHeaders:   []string{middleware.SessionHeader},
		AllowCredentials: true,
	}).Handler(router)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server is running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	async.Wait()
	return nil
}

func newDiscountEngine(extra string) (*discount.Engine, error) {
	codes := make(map[string]decimal.Decimal, len(discount.DefaultCodes))
	for code, m := range discount.DefaultCodes {
		codes[code] = m
	}
	parsed, err := discount.ParseCodes(extra)
	if err != nil {
		return nil, fmt.Errorf("DISCOUNT_CODES: %w", err)
	}
	for code, m := range parsed {
		codes[code] = m
	}
	return discount.NewEngine(codes)
}

func openStore(ctx context.Context, cfg *config.Config) (store.AccountStore, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return store.NewMongoStore(connectCtx, cfg.MongoURI, cfg.MongoDatabase)
	case config.StoreSQLite:
		return store.NewSQLiteStore(ctx, cfg.SQLitePath)
	default:
		return store.NewMemoryStore(), nil
	}
}

// buildNotifiers returns every configured confirmation channel as one
// notifier, plus a func releasing their connections.
func buildNotifiers(cfg *config.Config, logger zerolog.Logger) (notify.Notifier, func(), error) {
	var sender notify.Sender
	switch cfg.EmailProvider {
	case config.EmailPostmark:
		s, err := notify.NewPostmarkSender(cfg.PostmarkAPIToken, cfg.EmailSender)
		if err != nil {
			return nil, nil, err
		}
		sender = s
	case config.EmailSendGrid:
		s, err := notify.NewSendGridSender(cfg.SendGridAPIKey, cfg.EmailSender)
		if err != nil {
			return nil, nil, err
		}
		sender = s
	default:
		sender = notify.LogSender{Logger: logger}
	}

	fanout := notify.Fanout{notify.NewEmailService(sender, logger)}
	closeAll := func() {}

	if cfg.RabbitURL != "" {
		publisher, err := notify.NewEventPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			return nil, nil, err
		}
		fanout = append(fanout, publisher)
		closeAll = publisher.Close
		logger.Info().Str("exchange", cfg.RabbitExchange).Msg("publishing order events")
	}
	return fanout, closeAll, nil
}
