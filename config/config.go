// Package config loads runtime settings from .env and the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Store drivers.
const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
	StoreSQLite = "sqlite"
)

// Email providers.
const (
	EmailLog      = "log"
	EmailPostmark = "postmark"
	EmailSendGrid = "sendgrid"
)

type Config struct {
	Port      string
	JWTSecret string
	TokenTTL  time.Duration

	StoreDriver   string
	MongoURI      string
	MongoDatabase string
	SQLitePath    string

	EmailProvider    string
	PostmarkAPIToken string
	SendGridAPIKey   string
	EmailSender      string

	RabbitURL      string
	RabbitExchange string

	DiscountCodes        string
	CheckoutEmailLenient bool
	SessionCapacity      int
	PayPalRedirectURL    string
	RateLimitPerMinute   int
	AllowedOrigins       []string
	PaymentTimeout       time.Duration
	LogLevel             zerolog.Level
}

// Load reads .env when present, then the environment. A missing .env file is
// not an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "8000"),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		StoreDriver:       strings.ToLower(getEnv("STORE_DRIVER", StoreMemory)),
		MongoURI:          getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:     getEnv("MONGO_DATABASE", "bookstore"),
		SQLitePath:        getEnv("SQLITE_PATH", "./bookstore.db"),
		EmailProvider:     strings.ToLower(getEnv("EMAIL_PROVIDER", EmailLog)),
		PostmarkAPIToken:  getEnv("POSTMARK_API_TOKEN", ""),
		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		EmailSender:       getEnv("EMAIL_SENDER", "orders@bookstore.local"),
		RabbitURL:         getEnv("RABBIT_URL", ""),
		RabbitExchange:    getEnv("RABBIT_EXCHANGE", "domain_events"),
		DiscountCodes:     getEnv("DISCOUNT_CODES", ""),
		PayPalRedirectURL: getEnv("PAYPAL_REDIRECT_URL", "/paypal"),
	}

	var err error
	if cfg.TokenTTL, err = getDuration("TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.PaymentTimeout, err = getDuration("PAYMENT_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.CheckoutEmailLenient, err = getBool("CHECKOUT_EMAIL_LENIENT", false); err != nil {
		return nil, err
	}
	if cfg.SessionCapacity, err = getInt("SESSION_CAPACITY", 10000); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerMinute, err = getInt("RATE_LIMIT_PER_MINUTE", 30); err != nil {
		return nil, err
	}
	if cfg.LogLevel, err = zerolog.ParseLevel(strings.ToLower(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	for _, o := range strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case StoreMemory, StoreMongo, StoreSQLite:
	default:
		return fmt.Errorf("STORE_DRIVER: unknown driver %q", c.StoreDriver)
	}
	switch c.EmailProvider {
	case EmailLog, EmailPostmark, EmailSendGrid:
	default:
		return fmt.Errorf("EMAIL_PROVIDER: unknown provider %q", c.EmailProvider)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is not set")
	}
	if c.SessionCapacity <= 0 {
		return fmt.Errorf("SESSION_CAPACITY must be positive")
	}
	return nil
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return n, nil
}

func getBool(k string, def bool) (bool, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", k, err)
	}
	return b, nil
}

func getDuration(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return d, nil
}
