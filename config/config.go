package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	PayPal     PayPalConfig
	Cloudinary CloudinaryConfig
	Shipping   ShippingConfig
	Wallet     WalletConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

// PayPalConfig covers both checkout (Orders API) and vendor disbursement
// (Payouts API). Mode is "sandbox" or "live".
type PayPalConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Mode         string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

type ShippingConfig struct {
	BaseURL string
	APIKey  string
}

// WalletConfig holds the platform-wide defaults applied when a tenant wallet
// is first created; per-wallet overrides live on the wallet row.
type WalletConfig struct {
	DefaultCommissionRate float64
	HoldPeriodDays        int
	ReleaseInterval       time.Duration
	PayoutInterval        time.Duration
	PayoutsEnabled        bool
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         envOr("PORT", "8080"),
			Env:          envOr("APP_ENV", "development"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             envOr("DATABASE_DSN", "obazaar:obazaar@tcp(localhost:3306)/obazaar?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret:  envOr("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: envOr("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "obazaar",
		},
		PayPal: func() PayPalConfig {
			mode := envOr("PAYPAL_MODE", "sandbox")
			base := "https://api-m.sandbox.paypal.com"
			if mode == "live" {
				base = "https://api-m.paypal.com"
			}
			return PayPalConfig{
				BaseURL:      envOr("PAYPAL_BASE_URL", base),
				ClientID:     os.Getenv("PAYPAL_CLIENT_ID"),
				ClientSecret: os.Getenv("PAYPAL_CLIENT_SECRET"),
				Mode:         mode,
			}
		}(),
		Cloudinary: CloudinaryConfig{
			CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		},
		Shipping: ShippingConfig{
			BaseURL: envOr("SHIPPING_BASE_URL", "https://api.shipengine.dev"),
			APIKey:  os.Getenv("SHIPPING_API_KEY"),
		},
		Wallet: WalletConfig{
			DefaultCommissionRate: envFloatOr("WALLET_COMMISSION_RATE", 0.10),
			HoldPeriodDays:        envIntOr("WALLET_HOLD_PERIOD_DAYS", 7),
			ReleaseInterval:       envDurationOr("WALLET_RELEASE_INTERVAL", 10*time.Minute),
			PayoutInterval:        envDurationOr("WALLET_PAYOUT_INTERVAL", time.Hour),
			PayoutsEnabled:        envOr("WALLET_PAYOUTS_ENABLED", "true") == "true",
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
