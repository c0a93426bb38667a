package checkout

import (
	"context"
	"fmt"

	"github.com/blissbyuddy/storefront-client/internal/cart"
	"github.com/blissbyuddy/storefront-client/internal/commerce"
	pkgerrors "github.com/blissbyuddy/storefront-client/pkg/errors"
	"github.com/blissbyuddy/storefront-client/pkg/logger"
	"github.com/shopspring/decimal"
)

// AuthState reports whether the storefront holds a signed-in credential.
type AuthState interface {
	Authenticated() bool
}

// Quote is a priced summary of the cart before handoff to checkout.
type Quote struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
	TaxRate  decimal.Decimal
}

// BuildQuote prices the given lines with the configured tax rate. Tax rounds
// to two decimal places.
func BuildQuote(lines []cart.Line, taxRate decimal.Decimal) Quote {
	subtotal := cart.TotalOf(lines)
	tax := subtotal.Mul(taxRate).Round(2)
	return Quote{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
		TaxRate:  taxRate,
	}
}

// ServiceParams wires the checkout service dependencies.
type ServiceParams struct {
	Client  *commerce.Client
	Cart    *cart.Service
	Auth    AuthState
	Logger  *logger.Logger
	TaxRate decimal.Decimal
}

// Service hands the cart off to the commerce API's hosted checkout. Payment
// itself happens on the returned URL, never in the client.
type Service struct {
	client  *commerce.Client
	cart    *cart.Service
	auth    AuthState
	logg    *logger.Logger
	taxRate decimal.Decimal
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Client == nil {
		return nil, fmt.Errorf("commerce client required")
	}
	if params.Cart == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if params.Auth == nil {
		return nil, fmt.Errorf("auth state required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{
		client:  params.Client,
		cart:    params.Cart,
		auth:    params.Auth,
		logg:    params.Logger,
		taxRate: params.TaxRate,
	}, nil
}

// Quote prices the current cart.
func (s *Service) Quote() Quote {
	return BuildQuote(s.cart.Cart(), s.taxRate)
}

type beginResponse struct {
	CheckoutURL string `json:"checkout_url"`
}

// Begin starts a hosted checkout for the current cart and returns the URL to
// hand the shopper to. The cart must be non-empty and the shopper signed in.
func (s *Service) Begin(ctx context.Context) (string, error) {
	if !s.auth.Authenticated() {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to check out")
	}
	lines := s.cart.Cart()
	if len(lines) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	quote := BuildQuote(lines, s.taxRate)
	body := map[string]any{
		"subtotal": quote.Subtotal.String(),
		"tax":      quote.Tax.String(),
		"total":    quote.Total.String(),
	}

	var resp beginResponse
	if _, err := s.client.Post(ctx, "/checkout", body, &resp); err != nil {
		s.logg.Error(s.logg.WithOperation(ctx, "begin_checkout"), "checkout handoff failed", err)
		return "", err
	}
	if resp.CheckoutURL == "" {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "checkout url missing from response")
	}

	s.logg.Info(s.logg.WithOperation(ctx, "begin_checkout"), "checkout started")
	return resp.CheckoutURL, nil
}
