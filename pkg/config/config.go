package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App        AppConfig
	API        APIConfig
	GuestStore GuestStoreConfig
	Redis      RedisConfig
	Checkout   CheckoutConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.API.ensureBaseURL(); err != nil {
		return nil, err
	}
	if err := cfg.GuestStore.validate(cfg.Redis); err != nil {
		return nil, err
	}
	if _, err := cfg.Checkout.Rate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BLISS_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"BLISS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BLISS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type APIConfig struct {
	BaseURL   string        `envconfig:"BLISS_API_BASE_URL" required:"true"`
	Timeout   time.Duration `envconfig:"BLISS_API_TIMEOUT" default:"15s"`
	UserAgent string        `envconfig:"BLISS_API_USER_AGENT" default:"blissbyuddy-storefront/1.0"`
	Token     string        `envconfig:"BLISS_API_TOKEN"`
}

func (a *APIConfig) ensureBaseURL() error {
	parsed, err := url.Parse(a.BaseURL)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", EnvAPIBaseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) url", EnvAPIBaseURL)
	}
	a.BaseURL = strings.TrimRight(parsed.String(), "/")
	return nil
}

type GuestStoreConfig struct {
	Backend string `envconfig:"BLISS_GUEST_STORE_BACKEND" default:"file"`
	Path    string `envconfig:"BLISS_GUEST_STORE_PATH" default:".blissbyuddy/guest_cart.json"`
	// ClientID scopes redis-backed guest carts to one browsing client.
	ClientID string `envconfig:"BLISS_GUEST_STORE_CLIENT_ID" default:"default"`
}

func (g GuestStoreConfig) IsRedis() bool {
	return strings.EqualFold(g.Backend, GuestStoreRedis)
}

func (g GuestStoreConfig) validate(redis RedisConfig) error {
	switch strings.ToLower(g.Backend) {
	case GuestStoreFile:
		if g.Path == "" {
			return fmt.Errorf("%s is required for the file guest store", EnvGuestStorePath)
		}
	case GuestStoreRedis:
		if redis.URL == "" && redis.Address == "" {
			return fmt.Errorf("either %s or %s is required for the redis guest store", EnvRedisURL, EnvRedisAddr)
		}
	case GuestStoreMemory:
	default:
		return fmt.Errorf("unknown guest store backend %q", g.Backend)
	}
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"BLISS_REDIS_URL"`
	Address      string        `envconfig:"BLISS_REDIS_ADDR"`
	Password     string        `envconfig:"BLISS_REDIS_PASSWORD"`
	DB           int           `envconfig:"BLISS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BLISS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BLISS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BLISS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BLISS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BLISS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type CheckoutConfig struct {
	TaxRate string `envconfig:"BLISS_CHECKOUT_TAX_RATE" default:"0.10"`
}

// Rate returns the configured tax rate as a decimal fraction.
func (c CheckoutConfig) Rate() (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(strings.TrimSpace(c.TaxRate))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing %s: %w", EnvCheckoutTaxRate, err)
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.Zero, fmt.Errorf("%s must be between 0 and 1", EnvCheckoutTaxRate)
	}
	return rate, nil
}
