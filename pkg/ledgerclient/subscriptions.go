/**
 * @description
 * Subscription operations. These exist only in the later schema variant of
 * the ledger service; a deployment still on the earlier schema answers them
 * with transport-level failures, which callers surface like any other
 * unexpected error.
 */
package ledgerclient

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dairydirect/storefront/internal/domain"
)

func (c *Client) decodeSubscription(raw json.RawMessage, method string) (domain.Subscription, error) {
	var wire wireSubscription
	if err := json.Unmarshal(raw, &wire); err != nil {
		return domain.Subscription{}, fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	return subscriptionFromWire(wire)
}

func (c *Client) decodeSubscriptions(raw json.RawMessage, method string) ([]domain.Subscription, error) {
	var wire []wireSubscription
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	subs := make([]domain.Subscription, 0, len(wire))
	for _, w := range wire {
		sub, err := subscriptionFromWire(w)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

// CreateSubscription registers a recurring delivery plan and returns it with
// its assigned id and timestamps.
func (c *Client) CreateSubscription(ctx context.Context, phoneNumber string, input domain.SubscriptionInput) (domain.Subscription, error) {
	args := []interface{}{phoneNumber, subscriptionInputToWire(input)}
	ok, err := c.callResult(ctx, "create_subscription", args, decodeSubscriptionError)
	if err != nil {
		return domain.Subscription{}, err
	}
	return c.decodeSubscription(ok, "create_subscription")
}

// GetMySubscriptions lists the subscriptions owned by a phone number.
func (c *Client) GetMySubscriptions(ctx context.Context, phoneNumber string) ([]domain.Subscription, error) {
	ok, err := c.callResult(ctx, "get_my_subscriptions", []interface{}{phoneNumber}, decodeSubscriptionError)
	if err != nil {
		return nil, err
	}
	return c.decodeSubscriptions(ok, "get_my_subscriptions")
}

// GetSubscriptionDetails fetches one subscription with the ownership check.
func (c *Client) GetSubscriptionDetails(ctx context.Context, subscriptionID int64, phoneNumber string) (domain.Subscription, error) {
	ok, err := c.callResult(ctx, "get_subscription_details", []interface{}{widenID(subscriptionID), phoneNumber}, decodeSubscriptionError)
	if err != nil {
		return domain.Subscription{}, err
	}
	return c.decodeSubscription(ok, "get_subscription_details")
}

// CancelSubscription moves a subscription to Cancelled. The service treats
// Cancelled as terminal.
func (c *Client) CancelSubscription(ctx context.Context, subscriptionID int64, phoneNumber string) (domain.Subscription, error) {
	ok, err := c.callResult(ctx, "cancel_subscription", []interface{}{widenID(subscriptionID), phoneNumber}, decodeSubscriptionError)
	if err != nil {
		return domain.Subscription{}, err
	}
	return c.decodeSubscription(ok, "cancel_subscription")
}

// PauseSubscription moves an Active subscription to Paused.
func (c *Client) PauseSubscription(ctx context.Context, subscriptionID int64, phoneNumber string) (domain.Subscription, error) {
	ok, err := c.callResult(ctx, "pause_subscription", []interface{}{widenID(subscriptionID), phoneNumber}, decodeSubscriptionError)
	if err != nil {
		return domain.Subscription{}, err
	}
	return c.decodeSubscription(ok, "pause_subscription")
}

// ResumeSubscription moves a Paused subscription back to Active.
func (c *Client) ResumeSubscription(ctx context.Context, subscriptionID int64, phoneNumber string) (domain.Subscription, error) {
	ok, err := c.callResult(ctx, "resume_subscription", []interface{}{widenID(subscriptionID), phoneNumber}, decodeSubscriptionError)
	if err != nil {
		return domain.Subscription{}, err
	}
	return c.decodeSubscription(ok, "resume_subscription")
}

// UpdateSubscriptionDetails applies a partial update; omitted fields keep
// their current values.
func (c *Client) UpdateSubscriptionDetails(ctx context.Context, subscriptionID int64, phoneNumber string, update domain.SubscriptionUpdate) (domain.Subscription, error) {
	args := []interface{}{widenID(subscriptionID), phoneNumber, subscriptionUpdateToWire(update)}
	ok, err := c.callResult(ctx, "update_subscription_details", args, decodeSubscriptionError)
	if err != nil {
		return domain.Subscription{}, err
	}
	return c.decodeSubscription(ok, "update_subscription_details")
}

// GetAllSubscriptionsAdmin lists every subscription. Admin screens only.
func (c *Client) GetAllSubscriptionsAdmin(ctx context.Context) ([]domain.Subscription, error) {
	ok, err := c.callResult(ctx, "get_all_subscriptions_admin", nil, decodeSubscriptionError)
	if err != nil {
		return nil, err
	}
	return c.decodeSubscriptions(ok, "get_all_subscriptions_admin")
}
