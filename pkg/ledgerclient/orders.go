package ledgerclient

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dairydirect/storefront/internal/domain"
)

func (c *Client) decodeOrder(raw json.RawMessage, method string) (domain.Order, error) {
	var wire wireOrder
	if err := json.Unmarshal(raw, &wire); err != nil {
		return domain.Order{}, fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	return orderFromWire(wire)
}

func (c *Client) decodeOrders(raw json.RawMessage, method string) ([]domain.Order, error) {
	var wire []wireOrder
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	orders := make([]domain.Order, 0, len(wire))
	for _, w := range wire {
		order, err := orderFromWire(w)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// CreateOrder places an order and returns the new order id. Unit prices are
// frozen remotely from the current catalog.
func (c *Client) CreateOrder(ctx context.Context, phoneNumber string, items []domain.OrderItemInput, deliveryAddress string) (int64, error) {
	args := []interface{}{phoneNumber, orderItemInputsToWire(items), deliveryAddress}
	ok, err := c.callResult(ctx, "create_order", args, decodeOrderError)
	if err != nil {
		return 0, err
	}
	var id uint64
	if err := json.Unmarshal(ok, &id); err != nil {
		return 0, fmt.Errorf("failed to decode create_order response: %w", err)
	}
	return narrowID(id)
}

// GetMyOrders lists the orders owned by a phone number.
func (c *Client) GetMyOrders(ctx context.Context, phoneNumber string) ([]domain.Order, error) {
	ok, err := c.callResult(ctx, "get_my_orders", []interface{}{phoneNumber}, decodeOrderError)
	if err != nil {
		return nil, err
	}
	return c.decodeOrders(ok, "get_my_orders")
}

// GetOrderDetails fetches one order; the service rejects requestors that do
// not own it with AccessDenied.
func (c *Client) GetOrderDetails(ctx context.Context, orderID int64, phoneNumber string) (domain.Order, error) {
	ok, err := c.callResult(ctx, "get_order_details", []interface{}{widenID(orderID), phoneNumber}, decodeOrderError)
	if err != nil {
		return domain.Order{}, err
	}
	return c.decodeOrder(ok, "get_order_details")
}

// CancelMyOrder cancels an order from its early states, recording a reason.
func (c *Client) CancelMyOrder(ctx context.Context, orderID int64, phoneNumber, reason string) (domain.Order, error) {
	ok, err := c.callResult(ctx, "cancel_my_order", []interface{}{widenID(orderID), phoneNumber, reason}, decodeOrderError)
	if err != nil {
		return domain.Order{}, err
	}
	return c.decodeOrder(ok, "cancel_my_order")
}

// GetAllOrders lists every order. Admin screens only.
func (c *Client) GetAllOrders(ctx context.Context) ([]domain.Order, error) {
	ok, err := c.callResult(ctx, "get_all_orders", nil, decodeOrderError)
	if err != nil {
		return nil, err
	}
	return c.decodeOrders(ok, "get_all_orders")
}

// GetOrderDetailsAdmin fetches any order without the ownership check.
func (c *Client) GetOrderDetailsAdmin(ctx context.Context, orderID int64) (domain.Order, error) {
	ok, err := c.callResult(ctx, "get_order_details_admin", []interface{}{widenID(orderID)}, decodeOrderError)
	if err != nil {
		return domain.Order{}, err
	}
	return c.decodeOrder(ok, "get_order_details_admin")
}

// UpdateOrderStatusAdmin moves an order to a new status.
func (c *Client) UpdateOrderStatusAdmin(ctx context.Context, orderID int64, status domain.OrderStatus) (domain.Order, error) {
	args := []interface{}{widenID(orderID), encodeVariant(string(status))}
	ok, err := c.callResult(ctx, "update_order_status_admin", args, decodeOrderError)
	if err != nil {
		return domain.Order{}, err
	}
	return c.decodeOrder(ok, "update_order_status_admin")
}
