package ledgerclient

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dairydirect/storefront/internal/domain"
)

// GetProducts fetches the full catalog. This is a plain query: the response
// is the product list itself, not an envelope.
func (c *Client) GetProducts(ctx context.Context) ([]domain.Product, error) {
	raw, err := c.call(ctx, "get_products", nil)
	if err != nil {
		return nil, err
	}
	var wire []wireProduct
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("failed to decode get_products response: %w", err)
	}
	products := make([]domain.Product, 0, len(wire))
	for _, w := range wire {
		product, err := productFromWire(w)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}

// AddProductAdmin creates a catalog product and returns its new id.
func (c *Client) AddProductAdmin(ctx context.Context, input domain.ProductInput) (int64, error) {
	ok, err := c.callResult(ctx, "add_product_admin", []interface{}{productPayloadToWire(input)}, decodeTextError)
	if err != nil {
		return 0, err
	}
	var id uint64
	if err := json.Unmarshal(ok, &id); err != nil {
		return 0, fmt.Errorf("failed to decode add_product_admin response: %w", err)
	}
	return narrowID(id)
}

// UpdateProductAdmin replaces the mutable fields of a product.
func (c *Client) UpdateProductAdmin(ctx context.Context, id int64, input domain.ProductInput) (domain.Product, error) {
	ok, err := c.callResult(ctx, "update_product_admin", []interface{}{widenID(id), productPayloadToWire(input)}, decodeTextError)
	if err != nil {
		return domain.Product{}, err
	}
	var wire wireProduct
	if err := json.Unmarshal(ok, &wire); err != nil {
		return domain.Product{}, fmt.Errorf("failed to decode update_product_admin response: %w", err)
	}
	return productFromWire(wire)
}

// InitializeProducts seeds the catalog once on a fresh deployment.
func (c *Client) InitializeProducts(ctx context.Context) (string, error) {
	ok, err := c.callResult(ctx, "initialize_products", nil, decodeTextError)
	if err != nil {
		return "", err
	}
	var msg string
	if err := json.Unmarshal(ok, &msg); err != nil {
		return "", fmt.Errorf("failed to decode initialize_products response: %w", err)
	}
	return msg, nil
}
