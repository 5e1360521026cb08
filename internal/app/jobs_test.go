package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/dairydirect/storefront/internal/domain"
	"github.com/dairydirect/storefront/internal/store"
)

type sessionStub struct {
	state store.UserState
}

func (s *sessionStub) State() store.UserState { return s.state }

type syncerStub struct {
	loadCalled bool
	loadPhone  string
	loadForce  bool
	loadErr    error
}

func (s *syncerStub) Load(ctx context.Context, phoneNumber string, force bool) error {
	s.loadCalled = true
	s.loadPhone = phoneNumber
	s.loadForce = force
	return s.loadErr
}

type catalogStub struct {
	products []domain.Product
	err      error
	calls    int
}

func (s *catalogStub) Products(ctx context.Context) ([]domain.Product, error) {
	s.calls++
	return s.products, s.err
}

func newTestJobs(session SessionSource, syncer SubscriptionSyncer, catalog CatalogService) *Jobs {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewJobs(session, syncer, catalog, logger)
}

func TestSyncSubscriptions_SkipsWhenLoggedOut(t *testing.T) {
	syncer := &syncerStub{}
	jobs := newTestJobs(&sessionStub{}, syncer, &catalogStub{})

	jobs.SyncSubscriptions()

	if syncer.loadCalled {
		t.Fatal("expected sync to be skipped when no user is logged in")
	}
}

func TestSyncSubscriptions_ForcesReloadForLoggedInUser(t *testing.T) {
	session := &sessionStub{state: store.UserState{
		LoggedIn: true,
		Profile:  &domain.UserProfile{PhoneNumber: "+15550006666"},
	}}
	syncer := &syncerStub{}
	jobs := newTestJobs(session, syncer, &catalogStub{})

	jobs.SyncSubscriptions()

	if !syncer.loadCalled {
		t.Fatal("expected sync to load subscriptions")
	}
	if syncer.loadPhone != "+15550006666" {
		t.Fatalf("expected load for logged-in phone, got %q", syncer.loadPhone)
	}
	if !syncer.loadForce {
		t.Fatal("expected a forced load")
	}
}

func TestSyncSubscriptions_SurvivesLoadFailure(t *testing.T) {
	session := &sessionStub{state: store.UserState{
		LoggedIn: true,
		Profile:  &domain.UserProfile{PhoneNumber: "+15550006666"},
	}}
	syncer := &syncerStub{loadErr: errors.New("service unavailable")}
	jobs := newTestJobs(session, syncer, &catalogStub{})

	// Must not panic; the scheduler chain only recovers, it does not retry.
	jobs.SyncSubscriptions()
}

func TestWarmCatalog(t *testing.T) {
	catalog := &catalogStub{products: []domain.Product{{ID: 1, Name: "Milk"}}}
	jobs := newTestJobs(&sessionStub{}, &syncerStub{}, catalog)

	jobs.WarmCatalog()

	if catalog.calls != 1 {
		t.Fatalf("expected 1 catalog fetch, got %d", catalog.calls)
	}
}
