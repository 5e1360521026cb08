package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dairydirect/storefront/internal/adapter"
	"github.com/dairydirect/storefront/internal/domain"
	"github.com/dairydirect/storefront/internal/kv"
	"github.com/dairydirect/storefront/internal/notify"
	"github.com/dairydirect/storefront/internal/store"
	"github.com/dairydirect/storefront/pkg/ledgerclient"
)

type ledgerStub struct {
	adapter.LedgerService

	getProducts       func(ctx context.Context) ([]domain.Product, error)
	getProfileByPhone func(ctx context.Context, phoneNumber string) (domain.UserProfile, error)
	createOrder       func(ctx context.Context, phoneNumber string, items []domain.OrderItemInput, deliveryAddress string) (int64, error)
	mySubscriptions   func(ctx context.Context, phoneNumber string) ([]domain.Subscription, error)
}

func (s *ledgerStub) GetProducts(ctx context.Context) ([]domain.Product, error) {
	if s.getProducts != nil {
		return s.getProducts(ctx)
	}
	return nil, nil
}

func (s *ledgerStub) GetProfileByPhone(ctx context.Context, phoneNumber string) (domain.UserProfile, error) {
	if s.getProfileByPhone != nil {
		return s.getProfileByPhone(ctx, phoneNumber)
	}
	return domain.UserProfile{}, errors.New("unexpected profile fetch")
}

func (s *ledgerStub) CreateOrder(ctx context.Context, phoneNumber string, items []domain.OrderItemInput, deliveryAddress string) (int64, error) {
	if s.createOrder != nil {
		return s.createOrder(ctx, phoneNumber, items, deliveryAddress)
	}
	return 0, errors.New("unexpected order creation")
}

func (s *ledgerStub) GetMySubscriptions(ctx context.Context, phoneNumber string) ([]domain.Subscription, error) {
	if s.mySubscriptions != nil {
		return s.mySubscriptions(ctx, phoneNumber)
	}
	return nil, nil
}

type nopNotifier struct{}

func (nopNotifier) Notify(level notify.Level, text string) {}

func newTestServer(t *testing.T, stub *ledgerStub, mountAdmin bool) (*httptest.Server, *store.CartStore) {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	local := kv.NewMemory()

	a := adapter.New(stub, nopNotifier{}, local, logger)
	cart := store.NewCartStore(ctx, local, logger)
	users := store.NewUserStore(a, local, logger)
	users.Initialize(ctx)
	subscriptions := store.NewSubscriptionStore(a, local, logger)

	h := NewHandler(a, cart, users, subscriptions)
	srv := httptest.NewServer(NewRouter(h, NewAdminHandler(a), mountAdmin))
	t.Cleanup(srv.Close)
	return srv, cart
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestCheckoutFlow(t *testing.T) {
	catalog := []domain.Product{{ID: 1, Name: "Fresh Milk", Unit: "litre", Price: 2.5}}
	var orderedItems []domain.OrderItemInput
	stub := &ledgerStub{
		getProducts: func(ctx context.Context) ([]domain.Product, error) { return catalog, nil },
		getProfileByPhone: func(ctx context.Context, phoneNumber string) (domain.UserProfile, error) {
			return domain.UserProfile{Name: "Asha Patel", PhoneNumber: phoneNumber}, nil
		},
		createOrder: func(ctx context.Context, phoneNumber string, items []domain.OrderItemInput, deliveryAddress string) (int64, error) {
			orderedItems = items
			return 41, nil
		},
	}
	srv, cart := newTestServer(t, stub, false)

	if resp := postJSON(t, srv.URL+"/session", LoginRequest{PhoneNumber: "+15550007777"}); resp.StatusCode != http.StatusOK {
		t.Fatalf("login returned %d", resp.StatusCode)
	}
	if resp := postJSON(t, srv.URL+"/cart/items", AddCartItemRequest{ProductID: 1, Quantity: 2}); resp.StatusCode != http.StatusOK {
		t.Fatalf("add cart item returned %d", resp.StatusCode)
	}

	resp := postJSON(t, srv.URL+"/orders", CheckoutRequest{DeliveryAddress: "12 Dairy Lane"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("checkout returned %d", resp.StatusCode)
	}
	var created map[string]int64
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	if created["order_id"] != 41 {
		t.Errorf("expected order id 41, got %d", created["order_id"])
	}
	if len(orderedItems) != 1 || orderedItems[0].ProductID != 1 || orderedItems[0].Quantity != 2 {
		t.Errorf("unexpected order items %+v", orderedItems)
	}
	if len(cart.Items()) != 0 {
		t.Error("expected cart cleared after checkout")
	}
}

func TestCheckoutRequiresLogin(t *testing.T) {
	srv, _ := newTestServer(t, &ledgerStub{}, false)

	resp := postJSON(t, srv.URL+"/orders", CheckoutRequest{DeliveryAddress: "12 Dairy Lane"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestAddUnknownProductReturnsNotFound(t *testing.T) {
	stub := &ledgerStub{
		getProducts: func(ctx context.Context) ([]domain.Product, error) {
			return []domain.Product{{ID: 1}}, nil
		},
	}
	srv, _ := newTestServer(t, stub, false)

	resp := postJSON(t, srv.URL+"/cart/items", AddCartItemRequest{ProductID: 99, Quantity: 1})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestAdminRoutesAbsentWhenNotMounted(t *testing.T) {
	srv, _ := newTestServer(t, &ledgerStub{}, false)

	resp, err := http.Get(srv.URL + "/admin/orders")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unmounted admin routes, got %d", resp.StatusCode)
	}
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"order not found", &ledgerclient.OrderError{Kind: ledgerclient.OrderErrOrderNotFound}, http.StatusNotFound},
		{"order access denied", &ledgerclient.OrderError{Kind: ledgerclient.OrderErrAccessDenied}, http.StatusForbidden},
		{"cannot cancel", &ledgerclient.OrderError{Kind: ledgerclient.OrderErrCannotCancelOrder}, http.StatusConflict},
		{"order storage", &ledgerclient.OrderError{Kind: ledgerclient.OrderErrStorageError}, http.StatusInternalServerError},
		{"subscription invalid product", &ledgerclient.SubscriptionError{Kind: ledgerclient.SubscriptionErrInvalidProduct}, http.StatusBadRequest},
		{"subscription cannot update", &ledgerclient.SubscriptionError{Kind: ledgerclient.SubscriptionErrCannotUpdate}, http.StatusConflict},
		{"profile not found", &ledgerclient.ProfileError{Kind: ledgerclient.ProfileErrNotFound}, http.StatusNotFound},
		{"anonymous caller", &ledgerclient.ProfileError{Kind: ledgerclient.ProfileErrAnonymousCaller}, http.StatusUnauthorized},
		{"transport failure", errors.New("connection refused"), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusForError(tt.err); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}
