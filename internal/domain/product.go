/**
 * @description
 * This file defines the catalog-facing domain models: the Product record as the
 * UI consumes it, and the CartItem pairing a product with a quantity.
 * Quantities are float64 because products are sold by weight or volume
 * (0.5 litre milk, 1.5 kg paneer).
 */
package domain

// Product is an item from the remote catalog. Products are immutable once
// fetched; the catalog is a flat list in whatever order the ledger returns it.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Unit        string  `json:"unit"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// ProductInput carries the fields for creating or updating a product. The id
// is assigned by the remote service.
type ProductInput struct {
	Name        string  `json:"name"`
	Unit        string  `json:"unit"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// CartItem is one line of the cart: a product plus the quantity selected.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity float64 `json:"quantity"`
}
