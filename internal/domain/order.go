/**
 * @description
 * This file defines the order domain models. An order freezes unit prices at
 * creation time; the total is computed remotely and assumed to equal the sum
 * of quantity times frozen price over its items. Timestamps are milliseconds
 * since epoch (already narrowed from the wire's nanoseconds).
 */
package domain

// OrderStatus is the closed set of states an order moves through. Transitions
// are monotonic along the declared order, with Cancelled as an escape hatch
// from the early states; the ledger service enforces that, not this client.
type OrderStatus string

const (
	OrderPending        OrderStatus = "Pending"
	OrderConfirmed      OrderStatus = "Confirmed"
	OrderProcessing     OrderStatus = "Processing"
	OrderOutForDelivery OrderStatus = "OutForDelivery"
	OrderDelivered      OrderStatus = "Delivered"
	OrderCancelled      OrderStatus = "Cancelled"
)

// ValidOrderStatus reports whether s is one of the known states.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderProcessing, OrderOutForDelivery, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// OrderItem is one line of a placed order with its price frozen at order time.
type OrderItem struct {
	ProductID           int64   `json:"product_id"`
	Quantity            float64 `json:"quantity"`
	PricePerUnitAtOrder float64 `json:"price_per_unit_at_order"`
}

// OrderItemInput is what the caller supplies when placing an order; the
// current catalog price is attached remotely.
type OrderItemInput struct {
	ProductID int64   `json:"product_id"`
	Quantity  float64 `json:"quantity"`
}

// Order is a placed order as the UI consumes it. CustomerName is only
// populated on admin views.
type Order struct {
	ID              int64       `json:"id"`
	Status          OrderStatus `json:"status"`
	Items           []OrderItem `json:"items"`
	TotalAmount     float64     `json:"total_amount"`
	DeliveryAddress string      `json:"delivery_address"`
	UserPhoneNumber string      `json:"user_phone_number"`
	CustomerName    string      `json:"customer_name,omitempty"`
	CreatedAt       int64       `json:"created_at"`
	LastUpdated     int64       `json:"last_updated"`
}
