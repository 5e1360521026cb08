/**
 * @description
 * This file contains the subscription store: the user's subscription list
 * plus the denormalized active-subscription projection persisted under the
 * userSubscription key. The list is remote truth cached in memory; the
 * projection is a derived display snapshot rebuilt on every successful load.
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

// SubscriptionService is the slice of the adapter the subscription store
// consumes.
type SubscriptionService interface {
	MySubscriptions(ctx context.Context, phoneNumber string) ([]domain.Subscription, error)
	Products(ctx context.Context) ([]domain.Product, error)
}

// SubscriptionStore holds the subscription list for one phone number.
type SubscriptionStore struct {
	mu            sync.Mutex
	subscriptions []domain.Subscription
	loading       bool
	initialized   bool
	cachedPhone   string
	service       SubscriptionService
	local         kv.Store
	logger        *slog.Logger
	observers     []func()
}

// NewSubscriptionStore returns an empty, uninitialized store.
func NewSubscriptionStore(service SubscriptionService, local kv.Store, logger *slog.Logger) *SubscriptionStore {
	return &SubscriptionStore{service: service, local: local, logger: logger}
}

// Subscribe registers an observer invoked after every state change.
func (s *SubscriptionStore) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

func (s *SubscriptionStore) notify() {
	s.mu.Lock()
	observers := make([]func(), len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()
	for _, fn := range observers {
		fn()
	}
}

func (s *SubscriptionStore) clearProjection(ctx context.Context) {
	if err := s.local.Delete(ctx, kv.KeyUserSubscription); err != nil {
		s.logger.Warn("failed to clear subscription projection", "error", err)
	}
}

func (s *SubscriptionStore) writeProjection(ctx context.Context, projection domain.ActiveSubscriptionProjection) {
	data, err := json.Marshal(projection)
	if err == nil {
		err = s.local.Set(ctx, kv.KeyUserSubscription, data)
	}
	if err != nil {
		s.logger.Warn("failed to persist subscription projection", "error", err)
	}
}

// Load fetches the subscription list for the phone number, unless a load is
// already in flight or the same number was already loaded. Pass force to
// bypass the cache, e.g. after a remote mutation.
//
// The list is replaced atomically: a failure at any point leaves the
// previously loaded list untouched and only clears the persisted projection,
// so the snapshot never outlives the fetch that produced it.
func (s *SubscriptionStore) Load(ctx context.Context, phoneNumber string, force bool) error {
	s.mu.Lock()
	if s.loading || (s.initialized && s.cachedPhone == phoneNumber && !force) {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
		s.notify()
	}()

	subscriptions, err := s.service.MySubscriptions(ctx, phoneNumber)
	if err != nil {
		s.logger.Warn("subscription fetch failed", "phone_number", phoneNumber, "error", err)
		s.clearProjection(ctx)
		return err
	}

	var active *domain.Subscription
	for i := range subscriptions {
		if subscriptions[i].Status == domain.SubscriptionActive {
			active = &subscriptions[i]
			break
		}
	}

	var projection *domain.ActiveSubscriptionProjection
	if active != nil {
		catalog, err := s.service.Products(ctx)
		if err != nil {
			s.logger.Warn("catalog fetch failed during subscription load", "error", err)
			s.clearProjection(ctx)
			return err
		}
		p := buildProjection(*active, catalog)
		projection = &p
	}

	s.mu.Lock()
	s.subscriptions = subscriptions
	s.initialized = true
	s.cachedPhone = phoneNumber
	s.mu.Unlock()

	if projection != nil {
		s.writeProjection(ctx, *projection)
	} else {
		s.clearProjection(ctx)
	}
	return nil
}

// Add appends a subscription to the local list without touching the remote
// service. Callers use it to reflect a create that already succeeded.
func (s *SubscriptionStore) Add(sub domain.Subscription) {
	s.mu.Lock()
	s.subscriptions = append(s.subscriptions, sub)
	s.mu.Unlock()
	s.notify()
}

// Update replaces the matching subscription in the local list; it is a no-op
// when the id is absent.
func (s *SubscriptionStore) Update(sub domain.Subscription) {
	s.mu.Lock()
	changed := false
	for i := range s.subscriptions {
		if s.subscriptions[i].ID == sub.ID {
			s.subscriptions[i] = sub
			changed = true
			break
		}
	}
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

// Remove drops the matching subscription from the local list. When the
// persisted projection points at the removed id it is cleared as well.
func (s *SubscriptionStore) Remove(ctx context.Context, subscriptionID int64) {
	s.mu.Lock()
	kept := s.subscriptions[:0]
	for _, sub := range s.subscriptions {
		if sub.ID != subscriptionID {
			kept = append(kept, sub)
		}
	}
	s.subscriptions = kept
	s.mu.Unlock()

	if projection, ok := s.Projection(ctx); ok && projection.SubscriptionID == subscriptionID {
		s.clearProjection(ctx)
	}
	s.notify()
}

// Reset forgets everything loaded so far, including the persisted
// projection. Used on logout and before a forced re-sync.
func (s *SubscriptionStore) Reset(ctx context.Context) {
	s.mu.Lock()
	s.subscriptions = nil
	s.initialized = false
	s.cachedPhone = ""
	s.mu.Unlock()
	s.clearProjection(ctx)
	s.notify()
}

// Subscriptions returns a copy of the loaded list.
func (s *SubscriptionStore) Subscriptions() []domain.Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Subscription, len(s.subscriptions))
	copy(out, s.subscriptions)
	return out
}

// Loading reports whether a load is in flight.
func (s *SubscriptionStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// ActiveSubscriptions returns every subscription in Active state.
func (s *SubscriptionStore) ActiveSubscriptions() []domain.Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Subscription
	for _, sub := range s.subscriptions {
		if sub.Status == domain.SubscriptionActive {
			out = append(out, sub)
		}
	}
	return out
}

// Active returns the first subscription in Active state, mirroring the
// selection used for the persisted projection.
func (s *SubscriptionStore) Active() (domain.Subscription, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subscriptions {
		if sub.Status == domain.SubscriptionActive {
			return sub, true
		}
	}
	return domain.Subscription{}, false
}

// Counts tallies the loaded list by status. Unknown statuses count toward
// the total only.
func (s *SubscriptionStore) Counts() domain.SubscriptionCounts {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := domain.SubscriptionCounts{Total: len(s.subscriptions)}
	for _, sub := range s.subscriptions {
		switch sub.Status {
		case domain.SubscriptionActive:
			counts.Active++
		case domain.SubscriptionPaused:
			counts.Paused++
		case domain.SubscriptionCancelled:
			counts.Cancelled++
		}
	}
	return counts
}

// Projection reads the persisted active-subscription snapshot. The second
// return is false when no snapshot exists or it cannot be parsed.
func (s *SubscriptionStore) Projection(ctx context.Context) (domain.ActiveSubscriptionProjection, bool) {
	data, err := s.local.Get(ctx, kv.KeyUserSubscription)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.logger.Warn("failed to read subscription projection", "error", err)
		}
		return domain.ActiveSubscriptionProjection{}, false
	}
	var projection domain.ActiveSubscriptionProjection
	if err := json.Unmarshal(data, &projection); err != nil {
		s.logger.Warn("discarding corrupt subscription projection", "error", err)
		return domain.ActiveSubscriptionProjection{}, false
	}
	return projection, true
}
