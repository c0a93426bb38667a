package catalog

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/blissbyuddy/storefront-client/internal/commerce"
	pkgerrors "github.com/blissbyuddy/storefront-client/pkg/errors"
	"github.com/blissbyuddy/storefront-client/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

func newTestService(t *testing.T, handler http.Handler) *Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logg := logger.New(logger.Options{
		ServiceName: "catalog-test",
		Level:       zerolog.Disabled,
		Output:      io.Discard,
	})
	client, err := commerce.New(commerce.Options{
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
		Logger:     logg,
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	service, err := NewService(ServiceParams{Client: client, Logger: logg})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return service
}

func TestListFiltersByCategory(t *testing.T) {
	t.Parallel()

	var gotCategory string
	router := chi.NewRouter()
	router.Get("/products", func(w http.ResponseWriter, r *http.Request) {
		gotCategory = r.URL.Query().Get("category")
		w.Write([]byte(`{"products": [{"id": 7, "title": "Silk Scarf", "price": "3500", "category": "accessories", "in_stock": true}]}`))
	})

	service := newTestService(t, router)
	products, err := service.List(context.Background(), Filter{Category: "accessories"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if gotCategory != "accessories" {
		t.Fatalf("expected category query, got %q", gotCategory)
	}
	if len(products) != 1 || products[0].Title != "Silk Scarf" {
		t.Fatalf("unexpected products %+v", products)
	}
	if products[0].ID.String() != "7" {
		t.Fatalf("numeric ids should coerce to strings, got %q", products[0].ID)
	}
}

func TestListWithoutFilter(t *testing.T) {
	t.Parallel()

	router := chi.NewRouter()
	router.Get("/products", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		w.Write([]byte(`{"products": []}`))
	})

	service := newTestService(t, router)
	products, err := service.List(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(products) != 0 {
		t.Fatalf("expected empty catalog, got %+v", products)
	}
}

func TestGetProduct(t *testing.T) {
	t.Parallel()

	router := chi.NewRouter()
	router.Get("/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "id") != "p1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"id": "p1", "title": "Elegant Handbag", "price": 14000, "image_url": "https://img/handbag.jpg"}`))
	})

	service := newTestService(t, router)
	product, err := service.Get(context.Background(), "p1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if product.Title != "Elegant Handbag" || product.Price.String() != "14000" {
		t.Fatalf("unexpected product %+v", product)
	}

	ref := product.Ref()
	id, err := ref.Resolve()
	if err != nil || id != "p1" {
		t.Fatalf("expected resolvable cart reference, got %q err=%v", id, err)
	}

	if _, err := service.Get(context.Background(), "missing"); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetRequiresID(t *testing.T) {
	t.Parallel()

	service := newTestService(t, chi.NewRouter())
	if _, err := service.Get(context.Background(), ""); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
