/**
 * @description
 * Wire representation of the ledger service's records and the conversions to
 * and from the UI-shaped domain types. Three impedance mismatches live here
 * and nowhere else:
 *   - ids are wide unsigned integers on the wire; the UI uses plain int64 and
 *     decoding rejects anything above the safe-integer range,
 *   - timestamps are integer nanoseconds since epoch; the UI uses
 *     milliseconds,
 *   - enumerations travel as single-key variant objects ({"Active":null}).
 */
package ledgerclient

import (
	"encoding/json"
	"fmt"

	"github.com/dairydirect/storefront/internal/domain"
)

// maxSafeID mirrors the 2^53-1 ceiling of the identifier space. Ids are small
// counters in practice; crossing this is a deployment problem, not a runtime
// one, so decoding fails loudly instead of losing precision.
const maxSafeID = 1<<53 - 1

func narrowID(v uint64) (int64, error) {
	if v > maxSafeID {
		return 0, fmt.Errorf("identifier %d exceeds the safe integer range", v)
	}
	return int64(v), nil
}

func widenID(v int64) uint64 {
	if v < 0 {
		return 0
	}
	return uint64(v)
}

func nsToMillis(v uint64) int64 {
	return int64(v / 1_000_000)
}

func millisToNs(v int64) uint64 {
	if v < 0 {
		return 0
	}
	return uint64(v) * 1_000_000
}

// decodeVariant unwraps an object with exactly one named key.
func decodeVariant(raw json.RawMessage) (string, json.RawMessage, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return "", nil, fmt.Errorf("failed to decode variant: %w", err)
	}
	if len(m) != 1 {
		return "", nil, fmt.Errorf("expected a single-key variant, got %d keys", len(m))
	}
	for key, payload := range m {
		return key, payload, nil
	}
	return "", nil, nil // unreachable
}

// encodeVariant builds the single-key wrapper for a payload-less case.
func encodeVariant(key string) map[string]interface{} {
	return map[string]interface{}{key: nil}
}

func decodeOrderStatus(raw json.RawMessage) (domain.OrderStatus, error) {
	key, _, err := decodeVariant(raw)
	if err != nil {
		return "", err
	}
	status := domain.OrderStatus(key)
	if !domain.ValidOrderStatus(status) {
		return "", fmt.Errorf("unknown order status %q", key)
	}
	return status, nil
}

func decodeSubscriptionStatus(raw json.RawMessage) (domain.SubscriptionStatus, error) {
	key, _, err := decodeVariant(raw)
	if err != nil {
		return "", err
	}
	status := domain.SubscriptionStatus(key)
	if !domain.ValidSubscriptionStatus(status) {
		return "", fmt.Errorf("unknown subscription status %q", key)
	}
	return status, nil
}

// --- Products ---

type wireProduct struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Unit        string  `json:"unit"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

type wireProductPayload struct {
	Name        string  `json:"name"`
	Unit        string  `json:"unit"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

func productFromWire(w wireProduct) (domain.Product, error) {
	id, err := narrowID(w.ID)
	if err != nil {
		return domain.Product{}, err
	}
	return domain.Product{
		ID:          id,
		Name:        w.Name,
		Unit:        w.Unit,
		Description: w.Description,
		Price:       w.Price,
	}, nil
}

func productPayloadToWire(in domain.ProductInput) wireProductPayload {
	return wireProductPayload{
		Name:        in.Name,
		Unit:        in.Unit,
		Description: in.Description,
		Price:       in.Price,
	}
}

// --- Profiles ---

// wireProfile covers both schema variants: order_ids is present in the later
// schema and omitted in the earlier one, so decoding tolerates its absence.
type wireProfile struct {
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	PhoneNumber string   `json:"phone_number"`
	OrderIDs    []uint64 `json:"order_ids,omitempty"`
}

func profileFromWire(w wireProfile) (domain.UserProfile, error) {
	orderIDs := make([]int64, 0, len(w.OrderIDs))
	for _, raw := range w.OrderIDs {
		id, err := narrowID(raw)
		if err != nil {
			return domain.UserProfile{}, err
		}
		orderIDs = append(orderIDs, id)
	}
	return domain.UserProfile{
		Name:        w.Name,
		Address:     w.Address,
		PhoneNumber: w.PhoneNumber,
		OrderIDs:    orderIDs,
	}, nil
}

func profileToWire(p domain.UserProfile) wireProfile {
	orderIDs := make([]uint64, 0, len(p.OrderIDs))
	for _, id := range p.OrderIDs {
		orderIDs = append(orderIDs, widenID(id))
	}
	return wireProfile{
		Name:        p.Name,
		Address:     p.Address,
		PhoneNumber: p.PhoneNumber,
		OrderIDs:    orderIDs,
	}
}

// --- Orders ---

type wireOrderItem struct {
	ProductID           uint64  `json:"product_id"`
	Quantity            float64 `json:"quantity"`
	PricePerUnitAtOrder float64 `json:"price_per_unit_at_order"`
}

type wireOrderItemInput struct {
	ProductID uint64  `json:"product_id"`
	Quantity  float64 `json:"quantity"`
}

type wireOrder struct {
	ID              uint64          `json:"id"`
	Status          json.RawMessage `json:"status"`
	Items           []wireOrderItem `json:"items"`
	TotalAmount     float64         `json:"total_amount"`
	DeliveryAddress string          `json:"delivery_address"`
	UserPhoneNumber string          `json:"user_phone_number"`
	CustomerName    string          `json:"customer_name,omitempty"`
	Timestamp       uint64          `json:"timestamp"`
	LastUpdated     uint64          `json:"last_updated"`
}

func orderFromWire(w wireOrder) (domain.Order, error) {
	id, err := narrowID(w.ID)
	if err != nil {
		return domain.Order{}, err
	}
	status, err := decodeOrderStatus(w.Status)
	if err != nil {
		return domain.Order{}, err
	}
	items := make([]domain.OrderItem, 0, len(w.Items))
	for _, item := range w.Items {
		productID, err := narrowID(item.ProductID)
		if err != nil {
			return domain.Order{}, err
		}
		items = append(items, domain.OrderItem{
			ProductID:           productID,
			Quantity:            item.Quantity,
			PricePerUnitAtOrder: item.PricePerUnitAtOrder,
		})
	}
	return domain.Order{
		ID:              id,
		Status:          status,
		Items:           items,
		TotalAmount:     w.TotalAmount,
		DeliveryAddress: w.DeliveryAddress,
		UserPhoneNumber: w.UserPhoneNumber,
		CustomerName:    w.CustomerName,
		CreatedAt:       nsToMillis(w.Timestamp),
		LastUpdated:     nsToMillis(w.LastUpdated),
	}, nil
}

func orderItemInputsToWire(items []domain.OrderItemInput) []wireOrderItemInput {
	out := make([]wireOrderItemInput, 0, len(items))
	for _, item := range items {
		out = append(out, wireOrderItemInput{
			ProductID: widenID(item.ProductID),
			Quantity:  item.Quantity,
		})
	}
	return out
}

// --- Subscriptions ---

type wireSubscriptionItem struct {
	ProductID uint64  `json:"product_id"`
	Quantity  float64 `json:"quantity"`
}

type wireSubscription struct {
	ID               uint64                 `json:"id"`
	UserPhoneNumber  string                 `json:"user_phone_number"`
	Items            []wireSubscriptionItem `json:"items"`
	DeliveryDays     []string               `json:"delivery_days"`
	DeliveryTimeSlot string                 `json:"delivery_time_slot"`
	DeliveryAddress  string                 `json:"delivery_address"`
	StartDate        uint64                 `json:"start_date"`
	NextOrderDate    uint64                 `json:"next_order_date"`
	Status           json.RawMessage        `json:"status"`
	CreatedAt        uint64                 `json:"created_at"`
	UpdatedAt        uint64                 `json:"updated_at"`
}

type wireSubscriptionInput struct {
	Items            []wireSubscriptionItem `json:"items"`
	DeliveryDays     []string               `json:"delivery_days"`
	DeliveryTimeSlot string                 `json:"delivery_time_slot"`
	DeliveryAddress  string                 `json:"delivery_address"`
	StartDate        uint64                 `json:"start_date"`
}

type wireSubscriptionUpdate struct {
	Items            []wireSubscriptionItem `json:"items,omitempty"`
	DeliveryDays     []string               `json:"delivery_days,omitempty"`
	DeliveryTimeSlot *string                `json:"delivery_time_slot,omitempty"`
	DeliveryAddress  *string                `json:"delivery_address,omitempty"`
}

func subscriptionFromWire(w wireSubscription) (domain.Subscription, error) {
	id, err := narrowID(w.ID)
	if err != nil {
		return domain.Subscription{}, err
	}
	status, err := decodeSubscriptionStatus(w.Status)
	if err != nil {
		return domain.Subscription{}, err
	}
	items := make([]domain.SubscriptionItem, 0, len(w.Items))
	for _, item := range w.Items {
		productID, err := narrowID(item.ProductID)
		if err != nil {
			return domain.Subscription{}, err
		}
		items = append(items, domain.SubscriptionItem{
			ProductID: productID,
			Quantity:  item.Quantity,
		})
	}
	return domain.Subscription{
		ID:               id,
		UserPhoneNumber:  w.UserPhoneNumber,
		Items:            items,
		DeliveryDays:     w.DeliveryDays,
		DeliveryTimeSlot: w.DeliveryTimeSlot,
		DeliveryAddress:  w.DeliveryAddress,
		StartDate:        nsToMillis(w.StartDate),
		NextOrderDate:    nsToMillis(w.NextOrderDate),
		Status:           status,
		CreatedAt:        nsToMillis(w.CreatedAt),
		UpdatedAt:        nsToMillis(w.UpdatedAt),
	}, nil
}

func subscriptionItemsToWire(items []domain.SubscriptionItem) []wireSubscriptionItem {
	out := make([]wireSubscriptionItem, 0, len(items))
	for _, item := range items {
		out = append(out, wireSubscriptionItem{
			ProductID: widenID(item.ProductID),
			Quantity:  item.Quantity,
		})
	}
	return out
}

func subscriptionInputToWire(in domain.SubscriptionInput) wireSubscriptionInput {
	return wireSubscriptionInput{
		Items:            subscriptionItemsToWire(in.Items),
		DeliveryDays:     in.DeliveryDays,
		DeliveryTimeSlot: in.DeliveryTimeSlot,
		DeliveryAddress:  in.DeliveryAddress,
		StartDate:        millisToNs(in.StartDate),
	}
}

func subscriptionUpdateToWire(in domain.SubscriptionUpdate) wireSubscriptionUpdate {
	out := wireSubscriptionUpdate{
		DeliveryDays:     in.DeliveryDays,
		DeliveryTimeSlot: in.DeliveryTimeSlot,
		DeliveryAddress:  in.DeliveryAddress,
	}
	if in.Items != nil {
		out.Items = subscriptionItemsToWire(in.Items)
	}
	return out
}
