package store

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/dairydirect/storefront/internal/domain"
	"github.com/dairydirect/storefront/internal/kv"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var (
	milk   = domain.Product{ID: 1, Name: "Fresh Milk", Unit: "litre", Price: 2.5}
	paneer = domain.Product{ID: 2, Name: "Paneer", Unit: "kg", Price: 8.0}
)

func TestCartAddItemMergesByProduct(t *testing.T) {
	ctx := context.Background()
	cart := NewCartStore(ctx, kv.NewMemory(), testLogger())

	cart.AddItem(ctx, milk, 1.5)
	cart.AddItem(ctx, paneer, 0.5)
	cart.AddItem(ctx, milk, 2.0)

	items := cart.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(items))
	}
	if items[0].Product.ID != milk.ID || items[0].Quantity != 3.5 {
		t.Errorf("expected milk line with quantity 3.5, got %+v", items[0])
	}
	if got := cart.ItemCount(); got != 4.0 {
		t.Errorf("expected item count 4.0, got %v", got)
	}
	if got := cart.Total(); got != 3.5*2.5+0.5*8.0 {
		t.Errorf("unexpected total %v", got)
	}
}

func TestCartUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	cart := NewCartStore(ctx, kv.NewMemory(), testLogger())
	cart.AddItem(ctx, milk, 1.0)

	var notified int
	cart.Subscribe(func() { notified++ })

	cart.UpdateQuantity(ctx, milk.ID, 2.5)
	if items := cart.Items(); items[0].Quantity != 2.5 {
		t.Errorf("expected quantity 2.5, got %v", items[0].Quantity)
	}
	if notified != 1 {
		t.Errorf("expected 1 notification, got %d", notified)
	}

	// Unknown product: no change, no notification.
	cart.UpdateQuantity(ctx, 99, 5.0)
	if notified != 1 {
		t.Errorf("expected no notification for unknown product, got %d", notified)
	}
}

func TestCartPersistsAndReloads(t *testing.T) {
	ctx := context.Background()
	local := kv.NewMemory()

	cart := NewCartStore(ctx, local, testLogger())
	cart.AddItem(ctx, milk, 2.0)
	cart.RemoveItem(ctx, paneer.ID)

	reloaded := NewCartStore(ctx, local, testLogger())
	items := reloaded.Items()
	if len(items) != 1 || items[0].Product.ID != milk.ID || items[0].Quantity != 2.0 {
		t.Fatalf("unexpected reloaded cart %+v", items)
	}
}

func TestCartClearRemovesPersistedKey(t *testing.T) {
	ctx := context.Background()
	local := kv.NewMemory()

	cart := NewCartStore(ctx, local, testLogger())
	cart.AddItem(ctx, milk, 1.0)
	cart.ClearCart(ctx)

	if len(cart.Items()) != 0 {
		t.Error("expected empty cart after clear")
	}
	if _, err := local.Get(ctx, kv.KeyCart); !errors.Is(err, kv.ErrNotFound) {
		t.Errorf("expected persisted cart removed, got err %v", err)
	}
}

func TestCartIgnoresCorruptSnapshot(t *testing.T) {
	ctx := context.Background()
	local := kv.NewMemory()
	if err := local.Set(ctx, kv.KeyCart, []byte("{not json")); err != nil {
		t.Fatal(err)
	}

	cart := NewCartStore(ctx, local, testLogger())
	if len(cart.Items()) != 0 {
		t.Error("expected empty cart from corrupt snapshot")
	}

	// The store stays usable after discarding the snapshot.
	cart.AddItem(ctx, milk, 1.0)
	data, err := local.Get(ctx, kv.KeyCart)
	if err != nil {
		t.Fatal(err)
	}
	var items []domain.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		t.Fatalf("persisted cart not valid JSON: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("expected 1 persisted line, got %d", len(items))
	}
}
