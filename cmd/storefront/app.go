package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/blissbyuddy/storefront-client/internal/auth"
	"github.com/blissbyuddy/storefront-client/internal/cart"
	"github.com/blissbyuddy/storefront-client/internal/catalog"
	"github.com/blissbyuddy/storefront-client/internal/checkout"
	"github.com/blissbyuddy/storefront-client/internal/commerce"
	"github.com/blissbyuddy/storefront-client/pkg/config"
	"github.com/blissbyuddy/storefront-client/pkg/logger"
	"github.com/blissbyuddy/storefront-client/pkg/metrics"
	"github.com/blissbyuddy/storefront-client/pkg/redis"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

// app holds the wired storefront services for the lifetime of one command.
type app struct {
	cfg      *config.Config
	logg     *logger.Logger
	holder   *auth.CredentialHolder
	session  *auth.Session
	cart     *cart.Service
	catalog  *catalog.Service
	checkout *checkout.Service

	redis *redis.Client
}

func newApp(ctx context.Context) (*app, error) {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	a := &app{cfg: cfg, logg: logg}

	guestStore, err := a.buildGuestStore(ctx)
	if err != nil {
		return nil, err
	}

	a.holder = auth.NewCredentialHolder()
	if cfg.API.Token != "" {
		a.holder.Set(credentialFromToken(cfg.API.Token))
	}

	client, err := commerce.New(commerce.Options{
		BaseURL:    cfg.API.BaseURL,
		HTTPClient: &http.Client{Timeout: cfg.API.Timeout},
		Credential: a.holder,
		Logger:     logg,
		Metrics:    metrics.NewClientMetrics(prometheus.DefaultRegisterer),
		UserAgent:  cfg.API.UserAgent,
	})
	if err != nil {
		return nil, fmt.Errorf("building commerce client: %w", err)
	}

	a.cart, err = cart.NewService(ctx, cart.ServiceParams{
		Backend: commerce.NewCartAPI(client),
		Guest:   guestStore,
		Logger:  logg,
	})
	if err != nil {
		return nil, fmt.Errorf("building cart service: %w", err)
	}

	a.session, err = auth.NewSession(auth.SessionParams{
		Client: client,
		Holder: a.holder,
		Logger: logg,
	})
	if err != nil {
		return nil, fmt.Errorf("building session: %w", err)
	}
	a.session.Subscribe(func(ctx context.Context, authenticated bool) {
		if err := a.cart.SetAuthenticated(ctx, authenticated); err != nil {
			logg.Error(ctx, "cart auth transition failed", err)
		}
	})

	a.catalog, err = catalog.NewService(catalog.ServiceParams{Client: client, Logger: logg})
	if err != nil {
		return nil, fmt.Errorf("building catalog service: %w", err)
	}

	taxRate, err := cfg.Checkout.Rate()
	if err != nil {
		return nil, err
	}
	a.checkout, err = checkout.NewService(checkout.ServiceParams{
		Client:  client,
		Cart:    a.cart,
		Auth:    a.holder,
		Logger:  logg,
		TaxRate: taxRate,
	})
	if err != nil {
		return nil, fmt.Errorf("building checkout service: %w", err)
	}

	// A token configured via the environment counts as an existing session.
	a.session.Resume(ctx)

	return a, nil
}

func (a *app) buildGuestStore(ctx context.Context) (cart.GuestStore, error) {
	switch {
	case a.cfg.GuestStore.IsRedis():
		client, err := redis.New(ctx, a.cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("bootstrapping redis: %w", err)
		}
		a.redis = client
		return cart.NewRedisStore(client, client.GuestCartKey(a.cfg.GuestStore.ClientID))
	case strings.EqualFold(a.cfg.GuestStore.Backend, config.GuestStoreMemory):
		return cart.NewMemoryStore(), nil
	default:
		return cart.NewFileStore(a.cfg.GuestStore.Path)
	}
}

func (a *app) close(ctx context.Context) {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logg.Error(ctx, "error closing redis", err)
		}
	}
}

// credentialFromToken accepts both JWT access tokens and opaque API tokens.
func credentialFromToken(token string) auth.Credential {
	if cred, err := auth.NewJWTCredential(token); err == nil {
		return cred
	}
	return auth.StaticCredential(token)
}
