package cart

import (
	"strings"

	pkgerrors "github.com/blissbyuddy/storefront-client/pkg/errors"
	"github.com/shopspring/decimal"
)

// Line is one product-quantity pairing within a cart. Display attributes are
// copied from the product at the time the line was created; a later price
// change on the server does not update an existing line.
type Line struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Image     string `json:"image,omitempty"`
	Quantity  int    `json:"quantity"`
}

// ProductRef identifies a product for a cart operation. Callers may hold a
// bare identifier, a cart line, or a full product payload; Resolve consults
// the fields in a fixed priority order.
type ProductRef struct {
	ProductID string
	Product   *WireProduct
	ID        string
	// LegacyID carries the product_id key found on raw API payloads.
	LegacyID string
}

// RefID builds a reference from a bare product identifier.
func RefID(id string) ProductRef {
	return ProductRef{ID: id}
}

// RefLine builds a reference from an existing cart line.
func RefLine(line Line) ProductRef {
	return ProductRef{ProductID: line.ProductID}
}

// RefProduct builds a reference from a product payload.
func RefProduct(product WireProduct) ProductRef {
	return ProductRef{Product: &product}
}

// Resolve returns the canonical product id, trying ProductID, the nested
// product's id, the bare ID and finally the legacy product_id key. It fails
// locally when nothing resolves; no network call should follow.
func (r ProductRef) Resolve() (string, error) {
	candidates := []string{r.ProductID}
	if r.Product != nil {
		candidates = append(candidates, r.Product.ID.String(), r.Product.ProductID.String())
	}
	candidates = append(candidates, r.ID, r.LegacyID)

	for _, candidate := range candidates {
		if trimmed := strings.TrimSpace(candidate); trimmed != "" {
			return trimmed, nil
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid product: no resolvable id")
}

// TotalOf sums price x quantity over the given lines. Unparseable prices
// count as zero, mirroring the storefront's display math.
func TotalOf(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		price, err := decimal.NewFromString(strings.TrimSpace(line.Price))
		if err != nil {
			continue
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}
