package catalog

import (
	"context"
	"fmt"
	"net/url"

	"github.com/blissbyuddy/storefront-client/internal/cart"
	"github.com/blissbyuddy/storefront-client/internal/commerce"
	pkgerrors "github.com/blissbyuddy/storefront-client/pkg/errors"
	"github.com/blissbyuddy/storefront-client/pkg/logger"
	"github.com/blissbyuddy/storefront-client/pkg/types"
)

// Product is a storefront catalog entry.
type Product struct {
	ID          types.StringOrNumber `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description,omitempty"`
	Price       types.StringOrNumber `json:"price"`
	ImageURL    string               `json:"image_url,omitempty"`
	Category    string               `json:"category,omitempty"`
	InStock     bool                 `json:"in_stock"`
}

// Ref converts the product into a cart reference carrying the full product
// so guest cart lines keep the title, price and image.
func (p Product) Ref() cart.ProductRef {
	return cart.ProductRef{
		Product: &cart.WireProduct{
			ID:       p.ID,
			Title:    p.Title,
			Price:    p.Price,
			ImageURL: p.ImageURL,
		},
	}
}

// Filter narrows a catalog listing.
type Filter struct {
	Category string
}

// ServiceParams wires the catalog service dependencies.
type ServiceParams struct {
	Client *commerce.Client
	Logger *logger.Logger
}

// Service reads the product catalog from the commerce API.
type Service struct {
	client *commerce.Client
	logg   *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Client == nil {
		return nil, fmt.Errorf("commerce client required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{client: params.Client, logg: params.Logger}, nil
}

type listEnvelope struct {
	Products []Product `json:"products"`
}

// List returns catalog products, optionally narrowed by category.
func (s *Service) List(ctx context.Context, filter Filter) ([]Product, error) {
	path := "/products"
	if filter.Category != "" {
		path += "?category=" + url.QueryEscape(filter.Category)
	}

	var envelope listEnvelope
	if err := s.client.Get(ctx, path, &envelope); err != nil {
		s.logg.Error(s.logg.WithOperation(ctx, "list_products"), "catalog listing failed", err)
		return nil, err
	}
	return envelope.Products, nil
}

// Get returns a single product by id.
func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	var product Product
	if err := s.client.Get(ctx, "/products/"+url.PathEscape(id), &product); err != nil {
		s.logg.Error(s.logg.WithProductID(ctx, id), "product lookup failed", err)
		return nil, err
	}
	return &product, nil
}
