package adapter

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/dairydirect/storefront/internal/domain"
	"github.com/dairydirect/storefront/internal/kv"
	"github.com/dairydirect/storefront/internal/notify"
	"github.com/dairydirect/storefront/pkg/ledgerclient"
)

// ledgerStub satisfies LedgerService; tests override the funcs they need.
type ledgerStub struct {
	LedgerService

	products       func(ctx context.Context) ([]domain.Product, error)
	createOrder    func(ctx context.Context, phone string, items []domain.OrderItemInput, addr string) (int64, error)
	cancelOrder    func(ctx context.Context, id int64, phone, reason string) (domain.Order, error)
	cancelSub      func(ctx context.Context, id int64, phone string) (domain.Subscription, error)
	profileByPhone func(ctx context.Context, phone string) (domain.UserProfile, error)
}

func (s *ledgerStub) GetProducts(ctx context.Context) ([]domain.Product, error) {
	return s.products(ctx)
}

func (s *ledgerStub) CreateOrder(ctx context.Context, phone string, items []domain.OrderItemInput, addr string) (int64, error) {
	return s.createOrder(ctx, phone, items, addr)
}

func (s *ledgerStub) CancelMyOrder(ctx context.Context, id int64, phone, reason string) (domain.Order, error) {
	return s.cancelOrder(ctx, id, phone, reason)
}

func (s *ledgerStub) CancelSubscription(ctx context.Context, id int64, phone string) (domain.Subscription, error) {
	return s.cancelSub(ctx, id, phone)
}

func (s *ledgerStub) GetProfileByPhone(ctx context.Context, phone string) (domain.UserProfile, error) {
	return s.profileByPhone(ctx, phone)
}

// toastRecorder captures every toast for assertions.
type toastRecorder struct {
	levels []notify.Level
	texts  []string
}

func (r *toastRecorder) Notify(level notify.Level, text string) {
	r.levels = append(r.levels, level)
	r.texts = append(r.texts, text)
}

func newTestAdapter(ledger LedgerService) (*Adapter, *toastRecorder, *kv.Memory) {
	toasts := &toastRecorder{}
	local := kv.NewMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(ledger, toasts, local, logger), toasts, local
}

func TestEveryOutcomeProducesExactlyOneToast(t *testing.T) {
	stub := &ledgerStub{
		products: func(ctx context.Context) ([]domain.Product, error) {
			return []domain.Product{{ID: 1, Name: "Milk", Price: 70}}, nil
		},
	}
	a, toasts, _ := newTestAdapter(stub)

	if _, err := a.Products(context.Background()); err != nil {
		t.Fatalf("Products failed: %v", err)
	}
	if len(toasts.texts) != 1 {
		t.Fatalf("expected exactly one toast, got %d", len(toasts.texts))
	}

	stub.products = func(ctx context.Context) ([]domain.Product, error) {
		return nil, errors.New("dial tcp: connection refused")
	}
	products, err := a.Products(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}
	if products != nil {
		t.Fatalf("expected the nil fallback, got %v", products)
	}
	if len(toasts.texts) != 2 || toasts.levels[1] != notify.LevelError {
		t.Fatalf("expected an error toast, got %v", toasts.texts)
	}
	if toasts.texts[1] != "Failed to fetch products" {
		t.Fatalf("unexpected toast text: %q", toasts.texts[1])
	}
}

func TestCreateOrderDropsBreadcrumbsOnSuccess(t *testing.T) {
	stub := &ledgerStub{
		createOrder: func(ctx context.Context, phone string, items []domain.OrderItemInput, addr string) (int64, error) {
			return 42, nil
		},
	}
	a, toasts, local := newTestAdapter(stub)

	id, err := a.CreateOrder(context.Background(), "9876543210",
		[]domain.OrderItemInput{{ProductID: 0, Quantity: 2}}, "12 Dairy Lane")
	if err != nil || id != 42 {
		t.Fatalf("CreateOrder failed: id=%d err=%v", id, err)
	}
	if toasts.texts[0] != "Order created successfully!" {
		t.Fatalf("unexpected toast: %q", toasts.texts[0])
	}

	flag, err := local.Get(context.Background(), kv.KeyNewOrderCreated)
	if err != nil || string(flag) != "true" {
		t.Fatalf("expected new-order flag, got %s (%v)", flag, err)
	}
	lastID, err := local.Get(context.Background(), kv.KeyLastOrderID)
	if err != nil || string(lastID) != "42" {
		t.Fatalf("expected last order id 42, got %s (%v)", lastID, err)
	}
}

func TestCancelOrderDemuxesRejectionKinds(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"cannot cancel carries its own text",
			&ledgerclient.OrderError{Kind: ledgerclient.OrderErrCannotCancelOrder, Message: "Order is already out for delivery"},
			"Order is already out for delivery"},
		{"not found",
			&ledgerclient.OrderError{Kind: ledgerclient.OrderErrOrderNotFound},
			"Order not found."},
		{"access denied",
			&ledgerclient.OrderError{Kind: ledgerclient.OrderErrAccessDenied},
			"You do not have permission to cancel this order."},
		{"invalid input",
			&ledgerclient.OrderError{Kind: ledgerclient.OrderErrInvalidInput, Message: "empty phone"},
			"Invalid input: empty phone"},
		{"profile not found",
			&ledgerclient.OrderError{Kind: ledgerclient.OrderErrUserProfileNotFound},
			"User profile not found."},
		{"storage error",
			&ledgerclient.OrderError{Kind: ledgerclient.OrderErrStorageError, Message: "disk full"},
			"Storage error: disk full"},
		{"unknown kind",
			&ledgerclient.OrderError{Kind: ledgerclient.OrderErrUnknown, Message: "SomethingNew"},
			"Failed to cancel order."},
		{"transport failure",
			errors.New("connection reset"),
			"An unexpected error occurred while cancelling the order."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &ledgerStub{
				cancelOrder: func(ctx context.Context, id int64, phone, reason string) (domain.Order, error) {
					return domain.Order{}, tc.err
				},
			}
			a, toasts, _ := newTestAdapter(stub)
			if _, err := a.CancelOrder(context.Background(), 1, "9876543210", "test"); err == nil {
				t.Fatal("expected an error")
			}
			if toasts.texts[0] != tc.want {
				t.Fatalf("expected toast %q, got %q", tc.want, toasts.texts[0])
			}
		})
	}
}

func TestCancelSubscriptionDemuxesRejectionKinds(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"not found",
			&ledgerclient.SubscriptionError{Kind: ledgerclient.SubscriptionErrSubscriptionNotFound},
			"Subscription not found."},
		{"access denied",
			&ledgerclient.SubscriptionError{Kind: ledgerclient.SubscriptionErrAccessDenied},
			"You do not have permission to cancel this subscription."},
		{"cannot update carries its own text",
			&ledgerclient.SubscriptionError{Kind: ledgerclient.SubscriptionErrCannotUpdate, Message: "Subscription is already cancelled"},
			"Subscription is already cancelled"},
		{"transport failure",
			errors.New("timeout"),
			"An unexpected error occurred while cancelling the subscription."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &ledgerStub{
				cancelSub: func(ctx context.Context, id int64, phone string) (domain.Subscription, error) {
					return domain.Subscription{}, tc.err
				},
			}
			a, toasts, _ := newTestAdapter(stub)
			if _, err := a.CancelSubscription(context.Background(), 1, "9876543210"); err == nil {
				t.Fatal("expected an error")
			}
			if toasts.texts[0] != tc.want {
				t.Fatalf("expected toast %q, got %q", tc.want, toasts.texts[0])
			}
		})
	}
}

func TestProfileFallbackIsZeroValue(t *testing.T) {
	stub := &ledgerStub{
		profileByPhone: func(ctx context.Context, phone string) (domain.UserProfile, error) {
			return domain.UserProfile{}, &ledgerclient.ProfileError{Kind: ledgerclient.ProfileErrNotFound}
		},
	}
	a, toasts, _ := newTestAdapter(stub)

	profile, err := a.Profile(context.Background(), "0000000000")
	if err == nil {
		t.Fatal("expected an error")
	}
	if profile.PhoneNumber != "" || profile.Name != "" || len(profile.OrderIDs) != 0 {
		t.Fatalf("expected the zero-value fallback, got %+v", profile)
	}
	if len(toasts.texts) != 1 || toasts.levels[0] != notify.LevelError {
		t.Fatalf("expected one error toast, got %v", toasts.texts)
	}
}
