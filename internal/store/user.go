/**
 * @description
 * This file contains the user store: login/identity state and the cached
 * active profile. The phone number persisted under the userPhoneNumber key
 * is what survives restarts; everything else is refetched.
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

// ProfileService is the slice of the adapter the user store consumes.
type ProfileService interface {
	Profile(ctx context.Context, phoneNumber string) (domain.UserProfile, error)
}

// UserState is a snapshot of the store for rendering. Loading stays true
// from construction until the first login attempt (or the discovery that no
// phone number is persisted) resolves, so dependent UI can block on it.
type UserState struct {
	LoggedIn  bool                `json:"logged_in"`
	FirstName string              `json:"first_name"`
	Profile   *domain.UserProfile `json:"profile,omitempty"`
	Loading   bool                `json:"loading"`
}

// UserStore tracks the logged-in user.
type UserStore struct {
	mu        sync.Mutex
	state     UserState
	profiles  ProfileService
	local     kv.Store
	logger    *slog.Logger
	observers []func()
}

// NewUserStore creates the store in the loading state. Call Initialize to
// resolve it from persisted storage.
func NewUserStore(profiles ProfileService, local kv.Store, logger *slog.Logger) *UserStore {
	return &UserStore{
		state:    UserState{Loading: true},
		profiles: profiles,
		local:    local,
		logger:   logger,
	}
}

// Subscribe registers an observer invoked after every state change.
func (s *UserStore) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

func (s *UserStore) notify() {
	s.mu.Lock()
	observers := make([]func(), len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()
	for _, fn := range observers {
		fn()
	}
}

// State returns a snapshot of the current state.
func (s *UserStore) State() UserState {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.state
	if s.state.Profile != nil {
		profile := *s.state.Profile
		state.Profile = &profile
	}
	return state
}

// Login resolves a profile for the phone number and moves the store to the
// logged-in state. When prefetched is nil the profile is fetched through the
// adapter; any fetch failure (including not-found) forces the logged-out
// state and clears the persisted phone number.
func (s *UserStore) Login(ctx context.Context, phoneNumber string, prefetched *domain.UserProfile) error {
	var profile domain.UserProfile
	if prefetched != nil {
		profile = *prefetched
	} else {
		fetched, err := s.profiles.Profile(ctx, phoneNumber)
		if err != nil {
			s.logger.Warn("profile fetch failed during login", "error", err)
			s.Logout(ctx)
			return err
		}
		profile = fetched
	}

	data, err := json.Marshal(profile.PhoneNumber)
	if err == nil {
		err = s.local.Set(ctx, kv.KeyUserPhoneNumber, data)
	}
	if err != nil {
		s.logger.Warn("failed to persist phone number", "error", err)
	}

	s.mu.Lock()
	s.state = UserState{
		LoggedIn:  true,
		FirstName: profile.FirstName(),
		Profile:   &profile,
		Loading:   false,
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

// Logout clears the persisted phone number and resets the state.
func (s *UserStore) Logout(ctx context.Context) {
	if err := s.local.Delete(ctx, kv.KeyUserPhoneNumber); err != nil {
		s.logger.Warn("failed to clear persisted phone number", "error", err)
	}
	s.mu.Lock()
	s.state = UserState{}
	s.mu.Unlock()
	s.notify()
}

// Initialize resolves the store from the persisted phone number: a stored
// number triggers a login attempt, otherwise the store settles logged-out.
// Loading is guaranteed false once this returns.
func (s *UserStore) Initialize(ctx context.Context) {
	data, err := s.local.Get(ctx, kv.KeyUserPhoneNumber)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.logger.Warn("failed to read persisted phone number", "error", err)
		}
		s.mu.Lock()
		s.state.Loading = false
		s.mu.Unlock()
		s.notify()
		return
	}

	var phoneNumber string
	if err := json.Unmarshal(data, &phoneNumber); err != nil || phoneNumber == "" {
		s.logger.Warn("discarding corrupt persisted phone number", "error", err)
		if err := s.local.Delete(ctx, kv.KeyUserPhoneNumber); err != nil {
			s.logger.Warn("failed to clear persisted phone number", "error", err)
		}
		s.mu.Lock()
		s.state.Loading = false
		s.mu.Unlock()
		s.notify()
		return
	}

	// Login resolves the loading flag on both outcomes.
	_ = s.Login(ctx, phoneNumber, nil)
}

// Reinitialize re-runs Initialize, e.g. after the persisted phone number was
// changed out of band.
func (s *UserStore) Reinitialize(ctx context.Context) {
	s.mu.Lock()
	s.state.Loading = true
	s.mu.Unlock()
	s.Initialize(ctx)
}
