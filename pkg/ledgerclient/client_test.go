package ledgerclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dairydirect/storefront/internal/domain"
)

// fakeLedger routes /api/v1/call/<method> to canned handlers.
func fakeLedger(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for method, handler := range handlers {
		mux.HandleFunc("/api/v1/call/"+method, handler)
	}
	return httptest.NewServer(mux)
}

func respond(t *testing.T, w http.ResponseWriter, payload interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		t.Fatalf("failed to encode response: %v", err)
	}
}

func TestGetProductsDecodesWireRecords(t *testing.T) {
	server := fakeLedger(t, map[string]http.HandlerFunc{
		"get_products": func(w http.ResponseWriter, r *http.Request) {
			respond(t, w, []map[string]interface{}{
				{"id": 0, "name": "Milk", "unit": "litre", "description": "Fresh Cow Milk", "price": 70.0},
				{"id": 4, "name": "Matha", "unit": "litre", "description": "Buttermilk", "price": 20.0},
			})
		},
	})
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	products, err := client.GetProducts(context.Background())
	if err != nil {
		t.Fatalf("GetProducts failed: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	if products[0].ID != 0 || products[0].Price != 70.0 {
		t.Fatalf("unexpected first product: %+v", products[0])
	}
}

func TestProductRoundTripKeepsIDAndPrice(t *testing.T) {
	// create -> fetch: the wide wire id and the decimal price must survive
	// both directions unchanged.
	server := fakeLedger(t, map[string]http.HandlerFunc{
		"add_product_admin": func(w http.ResponseWriter, r *http.Request) {
			respond(t, w, map[string]interface{}{"Ok": 7})
		},
		"get_products": func(w http.ResponseWriter, r *http.Request) {
			respond(t, w, []map[string]interface{}{
				{"id": 7, "name": "Shrikhand", "unit": "kg", "description": "Sweetened curd", "price": 12.5},
			})
		},
	})
	defer server.Close()

	client := NewClient(server.URL, "")
	id, err := client.AddProductAdmin(context.Background(), domain.ProductInput{
		Name: "Shrikhand", Unit: "kg", Description: "Sweetened curd", Price: 12.5,
	})
	if err != nil {
		t.Fatalf("AddProductAdmin failed: %v", err)
	}
	if id != 7 {
		t.Fatalf("expected id 7, got %d", id)
	}

	products, err := client.GetProducts(context.Background())
	if err != nil {
		t.Fatalf("GetProducts failed: %v", err)
	}
	if products[0].ID != id || products[0].Price != 12.5 {
		t.Fatalf("round-trip mismatch: %+v", products[0])
	}
}

func TestNarrowingRejectsUnsafeIDs(t *testing.T) {
	server := fakeLedger(t, map[string]http.HandlerFunc{
		"get_products": func(w http.ResponseWriter, r *http.Request) {
			// 2^53 is one past the last representable counter.
			respond(t, w, []map[string]interface{}{
				{"id": uint64(1) << 53, "name": "x", "unit": "kg", "description": "", "price": 1.0},
			})
		},
	})
	defer server.Close()

	client := NewClient(server.URL, "")
	if _, err := client.GetProducts(context.Background()); err == nil {
		t.Fatal("expected an error for an id beyond the safe integer range")
	}
}

func TestOrderDecodingNarrowsTimestampsAndStatus(t *testing.T) {
	server := fakeLedger(t, map[string]http.HandlerFunc{
		"get_my_orders": func(w http.ResponseWriter, r *http.Request) {
			respond(t, w, map[string]interface{}{
				"Ok": []map[string]interface{}{{
					"id":                3,
					"status":            map[string]interface{}{"OutForDelivery": nil},
					"total_amount":      145.0,
					"timestamp":         uint64(1_700_000_000_000_000_000),
					"last_updated":      uint64(1_700_000_100_000_000_000),
					"user_phone_number": "9876543210",
					"delivery_address":  "12 Dairy Lane",
					"items": []map[string]interface{}{
						{"product_id": 0, "quantity": 1.5, "price_per_unit_at_order": 70.0},
						{"product_id": 4, "quantity": 2.0, "price_per_unit_at_order": 20.0},
					},
				}},
			})
		},
	})
	defer server.Close()

	client := NewClient(server.URL, "")
	orders, err := client.GetMyOrders(context.Background(), "9876543210")
	if err != nil {
		t.Fatalf("GetMyOrders failed: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(orders))
	}
	order := orders[0]
	if order.Status != domain.OrderOutForDelivery {
		t.Fatalf("expected OutForDelivery, got %s", order.Status)
	}
	if order.CreatedAt != 1_700_000_000_000 {
		t.Fatalf("expected ns->ms narrowing, got %d", order.CreatedAt)
	}
	if order.LastUpdated != 1_700_000_100_000 {
		t.Fatalf("expected ns->ms narrowing, got %d", order.LastUpdated)
	}
}

func TestCancelMyOrderDecodesRejectionVariants(t *testing.T) {
	cases := []struct {
		name    string
		errBody interface{}
		kind    OrderErrorKind
		message string
	}{
		{"payloadless", map[string]interface{}{"AccessDenied": nil}, OrderErrAccessDenied, ""},
		{"text payload", map[string]interface{}{"CannotCancelOrder": "already out for delivery"}, OrderErrCannotCancelOrder, "already out for delivery"},
		{"unknown variant", map[string]interface{}{"SomethingNew": nil}, OrderErrUnknown, "SomethingNew"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := fakeLedger(t, map[string]http.HandlerFunc{
				"cancel_my_order": func(w http.ResponseWriter, r *http.Request) {
					respond(t, w, map[string]interface{}{"Err": tc.errBody})
				},
			})
			defer server.Close()

			client := NewClient(server.URL, "")
			_, err := client.CancelMyOrder(context.Background(), 1, "9876543210", "changed my mind")
			var oe *OrderError
			if !errors.As(err, &oe) {
				t.Fatalf("expected an OrderError, got %v", err)
			}
			if oe.Kind != tc.kind {
				t.Fatalf("expected kind %s, got %s", tc.kind, oe.Kind)
			}
			if oe.Message != tc.message {
				t.Fatalf("expected message %q, got %q", tc.message, oe.Message)
			}
		})
	}
}

func TestGetProfileByPhoneNotFound(t *testing.T) {
	server := fakeLedger(t, map[string]http.HandlerFunc{
		"get_profile_by_phone": func(w http.ResponseWriter, r *http.Request) {
			respond(t, w, map[string]interface{}{"Err": map[string]interface{}{"DidntFindUserData": nil}})
		},
	})
	defer server.Close()

	client := NewClient(server.URL, "")
	_, err := client.GetProfileByPhone(context.Background(), "0000000000")
	if !IsProfileNotFound(err) {
		t.Fatalf("expected a not-found profile rejection, got %v", err)
	}
}

func TestProfileDecodingToleratesMissingOrderIDs(t *testing.T) {
	// Earlier schema variant: profiles carry no order_ids field.
	server := fakeLedger(t, map[string]http.HandlerFunc{
		"get_profile_by_phone": func(w http.ResponseWriter, r *http.Request) {
			respond(t, w, map[string]interface{}{
				"Ok": map[string]interface{}{
					"name": "Asha Patel", "address": "4 Farm Road", "phone_number": "9876543210",
				},
			})
		},
	})
	defer server.Close()

	client := NewClient(server.URL, "")
	profile, err := client.GetProfileByPhone(context.Background(), "9876543210")
	if err != nil {
		t.Fatalf("GetProfileByPhone failed: %v", err)
	}
	if profile.Name != "Asha Patel" || len(profile.OrderIDs) != 0 {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}

func TestSubscriptionStatusVariantDecoding(t *testing.T) {
	server := fakeLedger(t, map[string]http.HandlerFunc{
		"get_my_subscriptions": func(w http.ResponseWriter, r *http.Request) {
			respond(t, w, map[string]interface{}{
				"Ok": []map[string]interface{}{{
					"id":                 2,
					"user_phone_number":  "9876543210",
					"items":              []map[string]interface{}{{"product_id": 0, "quantity": 1.0}},
					"delivery_days":      []string{"Mon", "Thu"},
					"delivery_time_slot": "Morning (8AM-10AM)",
					"delivery_address":   "12 Dairy Lane",
					"start_date":         uint64(1_700_000_000_000_000_000),
					"next_order_date":    uint64(1_700_300_000_000_000_000),
					"status":             map[string]interface{}{"Paused": nil},
					"created_at":         uint64(1_699_000_000_000_000_000),
					"updated_at":         uint64(1_699_500_000_000_000_000),
				}},
			})
		},
	})
	defer server.Close()

	client := NewClient(server.URL, "")
	subs, err := client.GetMySubscriptions(context.Background(), "9876543210")
	if err != nil {
		t.Fatalf("GetMySubscriptions failed: %v", err)
	}
	if subs[0].Status != domain.SubscriptionPaused {
		t.Fatalf("expected Paused, got %s", subs[0].Status)
	}
	if subs[0].StartDate != 1_700_000_000_000 {
		t.Fatalf("expected ms start date, got %d", subs[0].StartDate)
	}
}

func TestTransportFailureIsNotATaggedRejection(t *testing.T) {
	server := fakeLedger(t, map[string]http.HandlerFunc{
		"get_all_orders": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "upstream down", http.StatusBadGateway)
		},
	})
	defer server.Close()

	client := NewClient(server.URL, "")
	_, err := client.GetAllOrders(context.Background())
	if err == nil {
		t.Fatal("expected a transport error")
	}
	var oe *OrderError
	if errors.As(err, &oe) {
		t.Fatalf("transport failure must not decode as an OrderError: %v", err)
	}
}
