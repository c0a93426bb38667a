package commerce

import (
	"context"
	"net/http"

	"github.com/blissbyuddy/storefront-client/internal/cart"
)

// CartAPI is the remote cart surface backed by the commerce API. It
// implements cart.Backend.
type CartAPI struct {
	client *Client
}

// NewCartAPI wraps the commerce client's cart endpoints.
func NewCartAPI(client *Client) *CartAPI {
	return &CartAPI{client: client}
}

type cartEnvelope struct {
	Items []cart.WireItem `json:"items"`
}

type cartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity,omitempty"`
}

// FetchItems returns the server's current line list.
func (a *CartAPI) FetchItems(ctx context.Context) ([]cart.WireItem, error) {
	var envelope cartEnvelope
	if err := a.client.Get(ctx, "/cart", &envelope); err != nil {
		return nil, err
	}
	return envelope.Items, nil
}

// AddItem adds quantity of the product and returns the updated line list.
func (a *CartAPI) AddItem(ctx context.Context, productID string, quantity int) ([]cart.WireItem, error) {
	var envelope cartEnvelope
	body := cartItemRequest{ProductID: productID, Quantity: quantity}
	if _, err := a.client.Post(ctx, "/cart", body, &envelope); err != nil {
		return nil, err
	}
	return envelope.Items, nil
}

// UpdateItem sets the product's quantity and returns the updated line list.
func (a *CartAPI) UpdateItem(ctx context.Context, productID string, quantity int) ([]cart.WireItem, error) {
	var envelope cartEnvelope
	body := cartItemRequest{ProductID: productID, Quantity: quantity}
	if _, err := a.client.Patch(ctx, "/cart", body, &envelope); err != nil {
		return nil, err
	}
	return envelope.Items, nil
}

// RemoveItem deletes the product's line. Some deployments answer 204 or an
// empty body here; ok=false tells the caller the returned list cannot be
// trusted and a re-fetch is needed.
func (a *CartAPI) RemoveItem(ctx context.Context, productID string) ([]cart.WireItem, bool, error) {
	envelope := cartEnvelope{Items: nil}
	body := cartItemRequest{ProductID: productID}
	status, err := a.client.Delete(ctx, "/cart", body, &envelope)
	if err != nil {
		return nil, false, err
	}
	if status == http.StatusNoContent || envelope.Items == nil {
		return nil, false, nil
	}
	return envelope.Items, true, nil
}

// Clear empties the remote cart.
func (a *CartAPI) Clear(ctx context.Context) error {
	_, err := a.client.Delete(ctx, "/cart/clear", nil, nil)
	return err
}
