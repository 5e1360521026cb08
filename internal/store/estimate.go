/**
 * @description
 * The estimated-cost computation behind the local active-subscription
 * projection. The numbers are a display heuristic, never billing: the
 * subscription has no end date on the remote side, so a fixed 30-day window
 * is assumed, and line costs use current catalog prices because no price is
 * frozen at subscription time.
 */
package store

import (
	"math"
	"strings"

	"github.com/dairydirect/storefront/internal/domain"
)

const dayMillis = 24 * 60 * 60 * 1000

// totalSubscriptionDays is the inclusive day count of the assumed window:
// the end date is start+29d, so ceil(|end-start|/day)+1 yields 30 for any
// parseable start date. An unusable start date falls back to 31.
func totalSubscriptionDays(startMillis int64) int {
	if startMillis <= 0 {
		return 31
	}
	end := startMillis + 29*dayMillis
	diff := end - startMillis
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(float64(diff)/float64(dayMillis))) + 1
}

// estimatedDeliveries spreads the selected weekdays across the window:
// ceil(days/7 * weekdays).
func estimatedDeliveries(totalDays, weekdays int) int {
	if weekdays <= 0 {
		return 0
	}
	return int(math.Ceil(float64(totalDays) / 7.0 * float64(weekdays)))
}

// resolveItems joins subscription lines against the current catalog.
// Products missing from the catalog resolve with an empty name and zero
// price: the projection prefers partial information over failing outright.
func resolveItems(items []domain.SubscriptionItem, catalog []domain.Product) []domain.ProjectionItem {
	byID := make(map[int64]domain.Product, len(catalog))
	for _, product := range catalog {
		byID[product.ID] = product
	}
	out := make([]domain.ProjectionItem, 0, len(items))
	for _, item := range items {
		product := byID[item.ProductID]
		out = append(out, domain.ProjectionItem{
			ProductID: item.ProductID,
			Name:      product.Name,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
		})
	}
	return out
}

// normalizeTimeSlot reduces a delivery slot label to its bare form:
// "Morning (8AM-10AM)" becomes "morning". Labels without a parenthetical
// hour range pass through lowercased and trimmed.
func normalizeTimeSlot(slot string) string {
	if idx := strings.Index(slot, "("); idx >= 0 {
		slot = slot[:idx]
	}
	return strings.ToLower(strings.TrimSpace(slot))
}

// buildProjection derives the denormalized snapshot for one subscription.
func buildProjection(sub domain.Subscription, catalog []domain.Product) domain.ActiveSubscriptionProjection {
	totalDays := totalSubscriptionDays(sub.StartDate)
	deliveries := estimatedDeliveries(totalDays, len(sub.DeliveryDays))
	items := resolveItems(sub.Items, catalog)

	var costPerDelivery float64
	for _, item := range items {
		costPerDelivery += item.Quantity * item.UnitPrice
	}

	return domain.ActiveSubscriptionProjection{
		SubscriptionID:      sub.ID,
		Status:              sub.Status,
		TimeSlot:            normalizeTimeSlot(sub.DeliveryTimeSlot),
		WindowStart:         sub.StartDate,
		WindowEnd:           sub.StartDate + 29*dayMillis,
		Items:               items,
		EstimatedDeliveries: deliveries,
		EstimatedTotalCost:  costPerDelivery * float64(deliveries),
	}
}
