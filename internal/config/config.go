package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAppName        = "TransOps"
	defaultAppEnv         = "development"
	defaultPort           = "8080"
	defaultLogLevel       = "info"
	defaultShutdownDelay  = 10 * time.Second
	defaultIdempotencyTTL = 24 * time.Hour
	defaultTokenTTL       = 168 * time.Hour // 7 days
	defaultDashboardTTL   = 30 * time.Second
	defaultLoginPerMinute = 5
)

// SpendLimits holds the per-category ceilings applied to freshly provisioned
// driver wallets. All amounts are in paise. Zero means the category is locked
// until a fleet owner raises it.
type SpendLimits struct {
	Fuel    int64
	Toll    int64
	Food    int64
	Lodging int64
	Repair  int64
}

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName        string
	AppEnv         string
	Port           string
	LogLevel       string
	DatabaseURL    string
	RedisURL       string
	JWTSecret      string
	TokenTTL       time.Duration
	WebhookSecret  string
	ShutdownPeriod time.Duration
	IdempotencyTTL time.Duration
	DashboardTTL   time.Duration
	LoginPerMinute int

	// TopupPackages maps a package name to its price in paise. Checkout only
	// accepts packages present here.
	TopupPackages map[string]int64

	// DefaultLimits seeds category limits on new driver wallets.
	DefaultLimits SpendLimits
}

// Load reads configuration values from the environment (and an optional .env
// file) and populates a Config instance.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		AppName:        getEnv("APP_NAME", defaultAppName),
		AppEnv:         getEnv("APP_ENV", defaultAppEnv),
		Port:           getEnv("PORT", defaultPort),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		WebhookSecret:  os.Getenv("PAYMENT_WEBHOOK_SECRET"),
		TokenTTL:       defaultTokenTTL,
		ShutdownPeriod: defaultShutdownDelay,
		IdempotencyTTL: defaultIdempotencyTTL,
		DashboardTTL:   defaultDashboardTTL,
		LoginPerMinute: defaultLoginPerMinute,
		TopupPackages:  DefaultPackages(),
	}

	for _, entry := range []struct {
		env string
		dst *time.Duration
	}{
		{"TOKEN_TTL", &cfg.TokenTTL},
		{"SHUTDOWN_TIMEOUT", &cfg.ShutdownPeriod},
		{"IDEMPOTENCY_TTL", &cfg.IdempotencyTTL},
		{"DASHBOARD_CACHE_TTL", &cfg.DashboardTTL},
	} {
		if v := os.Getenv(entry.env); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return Config{}, fmt.Errorf("invalid %s: %w", entry.env, err)
			}
			*entry.dst = d
		}
	}

	if v := os.Getenv("LOGIN_RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid LOGIN_RATE_LIMIT: %w", err)
		}
		cfg.LoginPerMinute = n
	}

	if v := os.Getenv("TOPUP_PACKAGES"); v != "" {
		packages, err := parsePackages(v)
		if err != nil {
			return Config{}, err
		}
		cfg.TopupPackages = packages
	}

	limits, err := loadLimits()
	if err != nil {
		return Config{}, err
	}
	cfg.DefaultLimits = limits

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL must be set")
	}
	if cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("REDIS_URL must be set")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET must be set")
	}

	return cfg, nil
}

// DefaultPackages returns the built-in wallet top-up price table in paise.
func DefaultPackages() map[string]int64 {
	return map[string]int64{
		"small":  50_000,  // ₹500
		"medium": 100_000, // ₹1000
		"large":  200_000, // ₹2000
	}
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

// parsePackages accepts "name:paise,name:paise" pairs.
func parsePackages(raw string) (map[string]int64, error) {
	packages := make(map[string]int64)
	for _, pair := range strings.Split(raw, ",") {
		name, price, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok {
			return nil, fmt.Errorf("invalid TOPUP_PACKAGES entry %q", pair)
		}
		amount, err := strconv.ParseInt(price, 10, 64)
		if err != nil || amount <= 0 {
			return nil, fmt.Errorf("invalid TOPUP_PACKAGES price %q", pair)
		}
		packages[name] = amount
	}
	return packages, nil
}

func loadLimits() (SpendLimits, error) {
	var limits SpendLimits
	for _, entry := range []struct {
		env string
		dst *int64
	}{
		{"DEFAULT_FUEL_LIMIT", &limits.Fuel},
		{"DEFAULT_TOLL_LIMIT", &limits.Toll},
		{"DEFAULT_FOOD_LIMIT", &limits.Food},
		{"DEFAULT_LODGING_LIMIT", &limits.Lodging},
		{"DEFAULT_REPAIR_LIMIT", &limits.Repair},
	} {
		v := os.Getenv(entry.env)
		if v == "" {
			continue
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			return SpendLimits{}, fmt.Errorf("invalid %s: %q", entry.env, v)
		}
		*entry.dst = n
	}
	return limits, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
