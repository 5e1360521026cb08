/**
 * @description
 * This file defines the subscription domain models and the denormalized
 * "active subscription" projection kept in local storage for fast display.
 * Subscription lines carry no frozen price: costs are recomputed from the
 * current catalog whenever they are shown.
 */
package domain

// SubscriptionStatus is the closed set of subscription states. The client
// treats Cancelled as terminal, though only the ledger service enforces it.
type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "Active"
	SubscriptionPaused    SubscriptionStatus = "Paused"
	SubscriptionCancelled SubscriptionStatus = "Cancelled"
)

// ValidSubscriptionStatus reports whether s is one of the known states.
func ValidSubscriptionStatus(s SubscriptionStatus) bool {
	switch s {
	case SubscriptionActive, SubscriptionPaused, SubscriptionCancelled:
		return true
	}
	return false
}

// SubscriptionItem is one recurring line: a product and how much of it each
// delivery should bring.
type SubscriptionItem struct {
	ProductID int64   `json:"product_id"`
	Quantity  float64 `json:"quantity"`
}

// Subscription is a recurring delivery plan. Timestamps are milliseconds
// since epoch.
type Subscription struct {
	ID               int64              `json:"id"`
	UserPhoneNumber  string             `json:"user_phone_number"`
	Items            []SubscriptionItem `json:"items"`
	DeliveryDays     []string           `json:"delivery_days"`
	DeliveryTimeSlot string             `json:"delivery_time_slot"`
	DeliveryAddress  string             `json:"delivery_address"`
	StartDate        int64              `json:"start_date"`
	NextOrderDate    int64              `json:"next_order_date"`
	Status           SubscriptionStatus `json:"status"`
	CreatedAt        int64              `json:"created_at"`
	UpdatedAt        int64              `json:"updated_at"`
}

// SubscriptionInput carries the fields for creating a subscription.
type SubscriptionInput struct {
	Items            []SubscriptionItem `json:"items"`
	DeliveryDays     []string           `json:"delivery_days"`
	DeliveryTimeSlot string             `json:"delivery_time_slot"`
	DeliveryAddress  string             `json:"delivery_address"`
	StartDate        int64              `json:"start_date"`
}

// SubscriptionUpdate is a partial update; nil fields are left untouched by
// the remote service.
type SubscriptionUpdate struct {
	Items            []SubscriptionItem `json:"items,omitempty"`
	DeliveryDays     []string           `json:"delivery_days,omitempty"`
	DeliveryTimeSlot *string            `json:"delivery_time_slot,omitempty"`
	DeliveryAddress  *string            `json:"delivery_address,omitempty"`
}

// SubscriptionCounts is the per-status tally derived from the store's list.
type SubscriptionCounts struct {
	Active    int `json:"active"`
	Paused    int `json:"paused"`
	Cancelled int `json:"cancelled"`
	Total     int `json:"total"`
}

// ProjectionItem is a subscription line resolved against the current catalog.
type ProjectionItem struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// ActiveSubscriptionProjection is the denormalized snapshot of the single
// active subscription kept under the userSubscription key. It is a cache for
// display: never authoritative, safe to drop and rebuild at any time, and its
// estimated cost must never be treated as billing.
type ActiveSubscriptionProjection struct {
	SubscriptionID      int64              `json:"subscription_id"`
	Status              SubscriptionStatus `json:"status"`
	TimeSlot            string             `json:"time_slot"`
	WindowStart         int64              `json:"window_start"`
	WindowEnd           int64              `json:"window_end"`
	Items               []ProjectionItem   `json:"items"`
	EstimatedDeliveries int                `json:"estimated_deliveries"`
	EstimatedTotalCost  float64            `json:"estimated_total_cost"`
}
