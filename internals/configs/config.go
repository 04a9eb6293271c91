package configs

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// MinAmountCents is the lowest charge both gateways accept.
const MinAmountCents = 50

type AppConfig struct {
	Port           string `validate:"required,numeric"`
	SiteURL        string `validate:"required,url"`
	Env            string
	Debug          bool
	AllowedOrigins []string
}

type DatabaseConfig struct {
	User               string `validate:"required"`
	Password           string
	Host               string `validate:"required"`
	Port               string `validate:"required,numeric"`
	Name               string `validate:"required"`
	SSLMode            string `validate:"required,oneof=disable allow prefer require verify-ca verify-full"`
	StatementTimeoutMS int    `validate:"gte=0"`
}

// DSN builds a postgres URL. Credentials are escaped so passwords may
// contain reserved characters such as @, / or #.
func (d DatabaseConfig) DSN() string {
	q := url.Values{}
	q.Set("sslmode", d.SSLMode)
	q.Set("application_name", "sprout")
	q.Set("options", fmt.Sprintf("-c statement_timeout=%d", d.StatementTimeoutMS))

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}

type AuthConfig struct {
	JWTSecret string `validate:"required"`
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	Currency      string `validate:"required,len=3"`
}

func (s StripeConfig) Enabled() bool { return s.SecretKey != "" }

type RazorpayConfig struct {
	KeyID         string `validate:"required_with=KeySecret"`
	KeySecret     string `validate:"required_with=KeyID"`
	WebhookSecret string
	Currency      string `validate:"required,len=3"`
}

func (r RazorpayConfig) Enabled() bool { return r.KeyID != "" && r.KeySecret != "" }

type PaymentConfig struct {
	MinAmountCents       int64 `validate:"gt=0"`
	RecentDonationsLimit int   `validate:"gt=0,lte=100"`
}

// Config is built once at startup and handed to each component.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Stripe   StripeConfig
	Razorpay RazorpayConfig
	Payment  PaymentConfig
}

var ErrNoGateway = errors.New("no payment gateway configured: set STRIPE_SECRET_KEY or RAZORPAY_KEY_ID/RAZORPAY_KEY_SECRET")

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			slog.Info("no .env file found, using process environment")
		} else {
			slog.Info(".env file loaded")
		}
	} else {
		slog.Info("running on Railway, using process environment")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || value == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func getEnvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvBool(key string) bool {
	b, _ := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	return b
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Load reads the process environment into a Config and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Port:           GetEnv("PORT", "3000"),
			SiteURL:        strings.TrimRight(GetEnv("SITE_URL", "http://localhost:3000"), "/"),
			Env:            GetEnv("APP_ENV", "development"),
			Debug:          getEnvBool("DEBUG"),
			AllowedOrigins: splitList(GetEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Database: DatabaseConfig{
			User:               GetEnv("DB_USER"),
			Password:           GetEnv("DB_PASSWORD"),
			Host:               GetEnv("DB_HOST"),
			Port:               GetEnv("DB_PORT", "5432"),
			Name:               GetEnv("DB_NAME"),
			SSLMode:            GetEnv("DB_SSLMODE", "require"),
			StatementTimeoutMS: getEnvInt("DB_STATEMENT_TIMEOUT_MS", 3000),
		},
		Auth: AuthConfig{
			JWTSecret: GetEnv("SUPABASE_JWT_SECRET", GetEnv("JWT_SECRET")),
		},
		Stripe: StripeConfig{
			SecretKey:     GetEnv("STRIPE_SECRET_KEY"),
			WebhookSecret: GetEnv("STRIPE_WEBHOOK_SECRET"),
			Currency:      strings.ToLower(GetEnv("STRIPE_CURRENCY", "usd")),
		},
		Razorpay: RazorpayConfig{
			KeyID:         GetEnv("RAZORPAY_KEY_ID"),
			KeySecret:     GetEnv("RAZORPAY_KEY_SECRET"),
			WebhookSecret: GetEnv("RAZORPAY_WEBHOOK_SECRET"),
			Currency:      strings.ToUpper(GetEnv("RAZORPAY_CURRENCY", "INR")),
		},
		Payment: PaymentConfig{
			MinAmountCents:       MinAmountCents,
			RecentDonationsLimit: getEnvInt("RECENT_DONATIONS_LIMIT", 10),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.warnMissingWebhookSecrets()
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if !c.Stripe.Enabled() && !c.Razorpay.Enabled() {
		return ErrNoGateway
	}
	return nil
}

// Webhook secrets are not fatal at startup: the matching webhook endpoint
// answers 500 until the secret is set, which makes the gateway retry.
func (c *Config) warnMissingWebhookSecrets() {
	if c.Stripe.Enabled() && c.Stripe.WebhookSecret == "" {
		slog.Warn("STRIPE_WEBHOOK_SECRET is not set; stripe webhooks will be rejected")
	}
	if c.Razorpay.Enabled() && c.Razorpay.WebhookSecret == "" {
		slog.Warn("RAZORPAY_WEBHOOK_SECRET is not set; razorpay webhooks will be rejected")
	}
}
