package commerce

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestCartAPIFetchItems(t *testing.T) {
	t.Parallel()

	router := chi.NewRouter()
	router.Get("/cart", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items": [{"id": 1, "quantity": 2, "product": {"id": "p1", "title": "Handbag", "price": 5000}}]}`))
	})

	api := NewCartAPI(newTestClient(t, router, nil))
	items, err := api.FetchItems(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(items) != 1 || items[0].Quantity != 2 {
		t.Fatalf("unexpected items %+v", items)
	}
}

func TestCartAPIAddItemSendsProductAndQuantity(t *testing.T) {
	t.Parallel()

	var got map[string]any
	router := chi.NewRouter()
	router.Post("/cart", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"items": [{"id": "p1", "quantity": 3}]}`))
	})

	api := NewCartAPI(newTestClient(t, router, nil))
	items, err := api.AddItem(context.Background(), "p1", 3)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if got["product_id"] != "p1" || got["quantity"] != float64(3) {
		t.Fatalf("unexpected request body %v", got)
	}
	if len(items) != 1 {
		t.Fatalf("expected updated list, got %+v", items)
	}
}

func TestCartAPIUpdateItem(t *testing.T) {
	t.Parallel()

	var got map[string]any
	router := chi.NewRouter()
	router.Patch("/cart", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"items": [{"id": "p1", "quantity": 5}]}`))
	})

	api := NewCartAPI(newTestClient(t, router, nil))
	if _, err := api.UpdateItem(context.Background(), "p1", 5); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got["quantity"] != float64(5) {
		t.Fatalf("unexpected request body %v", got)
	}
}

func TestCartAPIRemoveItemWithBody(t *testing.T) {
	t.Parallel()

	router := chi.NewRouter()
	router.Delete("/cart", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items": []}`))
	})

	api := NewCartAPI(newTestClient(t, router, nil))
	items, ok, err := api.RemoveItem(context.Background(), "p1")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !ok {
		t.Fatal("a decoded item list should be trusted")
	}
	if len(items) != 0 {
		t.Fatalf("expected empty list, got %+v", items)
	}
}

func TestCartAPIRemoveItemNoContent(t *testing.T) {
	t.Parallel()

	router := chi.NewRouter()
	router.Delete("/cart", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	api := NewCartAPI(newTestClient(t, router, nil))
	_, ok, err := api.RemoveItem(context.Background(), "p1")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if ok {
		t.Fatal("204 responses must trigger a re-fetch")
	}
}

func TestCartAPIClear(t *testing.T) {
	t.Parallel()

	var called bool
	router := chi.NewRouter()
	router.Delete("/cart/clear", func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	})

	api := NewCartAPI(newTestClient(t, router, nil))
	if err := api.Clear(context.Background()); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if !called {
		t.Fatal("expected clear endpoint call")
	}
}
