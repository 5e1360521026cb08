/**
 * @description
 * This package holds the client-side observable state containers: cart, user
 * and subscriptions. Each store owns its state behind a mutex, persists
 * through the kv port on every mutation (best-effort: storage failures are
 * logged, never surfaced), and notifies subscribed observers after each
 * change. Derived views are pure functions recomputed on every read; there
 * is no hidden cache.
 */
package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/dairydirect/storefront/internal/domain"
	"github.com/dairydirect/storefront/internal/kv"
)

// CartStore is the ordered list of cart lines, unique by product id.
type CartStore struct {
	mu        sync.Mutex
	items     []domain.CartItem
	local     kv.Store
	logger    *slog.Logger
	observers []func()
}

// NewCartStore loads any persisted cart snapshot and returns the store. A
// corrupt snapshot is logged and ignored; the cart starts empty.
func NewCartStore(ctx context.Context, local kv.Store, logger *slog.Logger) *CartStore {
	s := &CartStore{local: local, logger: logger}

	data, err := local.Get(ctx, kv.KeyCart)
	if errors.Is(err, kv.ErrNotFound) {
		return s
	}
	if err != nil {
		logger.Warn("failed to read saved cart", "error", err)
		return s
	}
	if err := json.Unmarshal(data, &s.items); err != nil {
		logger.Warn("failed to parse saved cart", "error", err)
		s.items = nil
	}
	return s
}

// Subscribe registers an observer invoked after every mutation.
func (s *CartStore) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

func (s *CartStore) notify() {
	s.mu.Lock()
	observers := make([]func(), len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()
	for _, fn := range observers {
		fn()
	}
}

func (s *CartStore) persistLocked(ctx context.Context) {
	data, err := json.Marshal(s.items)
	if err != nil {
		s.logger.Warn("failed to marshal cart", "error", err)
		return
	}
	if err := s.local.Set(ctx, kv.KeyCart, data); err != nil {
		s.logger.Warn("failed to persist cart", "error", err)
	}
}

// AddItem appends a line, or merges quantities when the product is already
// in the cart.
func (s *CartStore) AddItem(ctx context.Context, product domain.Product, quantity float64) {
	s.mu.Lock()
	merged := false
	for i := range s.items {
		if s.items[i].Product.ID == product.ID {
			s.items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		s.items = append(s.items, domain.CartItem{Product: product, Quantity: quantity})
	}
	s.persistLocked(ctx)
	s.mu.Unlock()
	s.notify()
}

// UpdateQuantity sets the quantity of the matching line; it is a no-op when
// the product is absent. No validation happens here: quantity limits are a
// UI and remote-service concern.
func (s *CartStore) UpdateQuantity(ctx context.Context, productID int64, quantity float64) {
	s.mu.Lock()
	changed := false
	for i := range s.items {
		if s.items[i].Product.ID == productID {
			s.items[i].Quantity = quantity
			changed = true
			break
		}
	}
	if changed {
		s.persistLocked(ctx)
	}
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

// RemoveItem drops the matching line.
func (s *CartStore) RemoveItem(ctx context.Context, productID int64) {
	s.mu.Lock()
	kept := s.items[:0]
	for _, item := range s.items {
		if item.Product.ID != productID {
			kept = append(kept, item)
		}
	}
	s.items = kept
	s.persistLocked(ctx)
	s.mu.Unlock()
	s.notify()
}

// ClearCart empties the store and removes the persisted key.
func (s *CartStore) ClearCart(ctx context.Context) {
	s.mu.Lock()
	s.items = nil
	if err := s.local.Delete(ctx, kv.KeyCart); err != nil {
		s.logger.Warn("failed to delete persisted cart", "error", err)
	}
	s.mu.Unlock()
	s.notify()
}

// Items returns a copy of the current lines.
func (s *CartStore) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// ItemCount is the sum of quantities across all lines.
func (s *CartStore) ItemCount() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count float64
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

// Total is the sum of quantity times unit price across all lines.
func (s *CartStore) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, item := range s.items {
		total += item.Product.Price * item.Quantity
	}
	return total
}
