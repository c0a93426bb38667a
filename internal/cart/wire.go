package cart

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/blissbyuddy/storefront-client/pkg/types"
)

// WireProduct is the product shape the API embeds in cart items. The same
// shape doubles as the flat form when an entry is a bare product.
type WireProduct struct {
	ID        types.StringOrNumber `json:"id"`
	ProductID types.StringOrNumber `json:"product_id"`
	Title     string               `json:"title"`
	Name      string               `json:"name"`
	Price     types.StringOrNumber `json:"price"`
	ImageURL  string               `json:"image_url"`
	Image     string               `json:"image"`
}

func (p WireProduct) empty() bool {
	return p.ID == "" && p.ProductID == "" && p.Title == "" && p.Name == "" && p.Price == ""
}

// WireItem is one server-returned cart entry. Entries either wrap a nested
// product object or are a flat product themselves; UnmarshalJSON captures
// both shapes so Normalize can treat them uniformly.
type WireItem struct {
	ID       types.StringOrNumber `json:"id"`
	Quantity int                  `json:"quantity"`
	Product  *WireProduct         `json:"product"`

	flat *WireProduct
}

func (w *WireItem) UnmarshalJSON(data []byte) error {
	type alias WireItem
	var decoded alias
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*w = WireItem(decoded)
	if w.Product == nil {
		var p WireProduct
		if err := json.Unmarshal(data, &p); err == nil && !p.empty() {
			w.flat = &p
		}
	}
	return nil
}

// product returns the nested product when present, the flat form otherwise.
func (w WireItem) product() WireProduct {
	if w.Product != nil {
		return *w.Product
	}
	if w.flat != nil {
		return *w.flat
	}
	return WireProduct{}
}

// Normalize maps server or guest entries onto cart lines with the field
// fallbacks the storefront relies on: title then name then "Unknown", price
// coerced to a string, quantity defaulting to 1, image_url then image, and a
// synthesized guest id when the entry carries none.
func Normalize(items []WireItem) []Line {
	lines := make([]Line, 0, len(items))
	for _, item := range items {
		product := item.product()

		productID := strings.TrimSpace(product.ID.String())
		if productID == "" {
			productID = strings.TrimSpace(product.ProductID.String())
		}

		name := product.Title
		if name == "" {
			name = product.Name
		}
		if name == "" {
			name = "Unknown"
		}

		price := product.Price.String()
		if price == "" {
			price = "0"
		}

		quantity := item.Quantity
		if quantity < 1 {
			quantity = 1
		}

		image := product.ImageURL
		if image == "" {
			image = product.Image
		}

		id := strings.TrimSpace(item.ID.String())
		if id == "" {
			id = guestLineID(productID)
		}

		lines = append(lines, Line{
			ID:        id,
			ProductID: productID,
			Name:      name,
			Price:     price,
			Image:     image,
			Quantity:  quantity,
		})
	}
	return lines
}

func guestLineID(productID string) string {
	if productID != "" {
		return "guest-" + productID
	}
	return fmt.Sprintf("guest-%d", time.Now().UnixMilli())
}
