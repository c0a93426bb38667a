package cart

import (
	"encoding/json"
	"strings"
	"testing"

	pkgerrors "github.com/blissbyuddy/storefront-client/pkg/errors"
	"github.com/blissbyuddy/storefront-client/pkg/types"
)

func TestNormalizeNestedProduct(t *testing.T) {
	t.Parallel()

	payload := `[{"id": 42, "quantity": 3, "product": {"id": "p1", "title": "Elegant Handbag", "price": 14000, "image_url": "https://img/handbag.jpg"}}]`
	var items []WireItem
	if err := json.Unmarshal([]byte(payload), &items); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	lines := Normalize(items)
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d", len(lines))
	}
	line := lines[0]
	if line.ID != "42" || line.ProductID != "p1" {
		t.Fatalf("unexpected ids: %+v", line)
	}
	if line.Name != "Elegant Handbag" {
		t.Fatalf("expected title to win, got %q", line.Name)
	}
	if line.Price != "14000" {
		t.Fatalf("expected numeric price coerced to string, got %q", line.Price)
	}
	if line.Image != "https://img/handbag.jpg" {
		t.Fatalf("unexpected image %q", line.Image)
	}
	if line.Quantity != 3 {
		t.Fatalf("unexpected quantity %d", line.Quantity)
	}
}

func TestNormalizeFlatProduct(t *testing.T) {
	t.Parallel()

	payload := `[{"id": "p2", "name": "Wrist Watch", "price": "8000", "image": "watch.jpg"}]`
	var items []WireItem
	if err := json.Unmarshal([]byte(payload), &items); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	lines := Normalize(items)
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d", len(lines))
	}
	line := lines[0]
	if line.ProductID != "p2" {
		t.Fatalf("flat entries should resolve their own id, got %q", line.ProductID)
	}
	if line.Name != "Wrist Watch" {
		t.Fatalf("expected name fallback, got %q", line.Name)
	}
	if line.Image != "watch.jpg" {
		t.Fatalf("expected image fallback, got %q", line.Image)
	}
	if line.Quantity != 1 {
		t.Fatalf("missing quantity should default to 1, got %d", line.Quantity)
	}
}

func TestNormalizeDefaults(t *testing.T) {
	t.Parallel()

	lines := Normalize([]WireItem{{Product: &WireProduct{ID: "p9"}}})
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d", len(lines))
	}
	line := lines[0]
	if line.Name != "Unknown" {
		t.Fatalf("expected Unknown name, got %q", line.Name)
	}
	if line.Price != "0" {
		t.Fatalf("expected zero price, got %q", line.Price)
	}
	if line.ID != "guest-p9" {
		t.Fatalf("expected synthesized guest id, got %q", line.ID)
	}
}

func TestNormalizeSynthesizesTimestampIDWithoutProduct(t *testing.T) {
	t.Parallel()

	lines := Normalize([]WireItem{{Quantity: 2}})
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0].ID, "guest-") {
		t.Fatalf("expected guest id fallback, got %q", lines[0].ID)
	}
}

func TestProductRefPriorityOrder(t *testing.T) {
	t.Parallel()

	ref := ProductRef{
		ProductID: "explicit",
		Product:   &WireProduct{ID: "nested"},
		ID:        "bare",
		LegacyID:  "legacy",
	}
	if id, err := ref.Resolve(); err != nil || id != "explicit" {
		t.Fatalf("expected explicit product id, got %q err=%v", id, err)
	}

	ref.ProductID = ""
	if id, _ := ref.Resolve(); id != "nested" {
		t.Fatalf("expected nested product id, got %q", id)
	}

	ref.Product = nil
	if id, _ := ref.Resolve(); id != "bare" {
		t.Fatalf("expected bare id, got %q", id)
	}

	ref.ID = ""
	if id, _ := ref.Resolve(); id != "legacy" {
		t.Fatalf("expected legacy product_id, got %q", id)
	}

	ref.LegacyID = "  "
	if _, err := ref.Resolve(); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTotalOfSkipsUnparseablePrices(t *testing.T) {
	t.Parallel()

	lines := []Line{
		{ProductID: "p1", Price: "5000", Quantity: 2},
		{ProductID: "p2", Price: "not-a-price", Quantity: 4},
		{ProductID: "p3", Price: "1250.50", Quantity: 1},
	}
	if got := TotalOf(lines); got.String() != "11250.5" {
		t.Fatalf("expected 11250.5, got %s", got)
	}
}

func TestWireProductAlternateKey(t *testing.T) {
	t.Parallel()

	items := []WireItem{{Product: &WireProduct{ProductID: types.StringOrNumber("alt-1"), Name: "Belt"}}}
	lines := Normalize(items)
	if lines[0].ProductID != "alt-1" {
		t.Fatalf("expected product_id fallback, got %q", lines[0].ProductID)
	}
}
