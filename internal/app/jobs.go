/**
 * @description
 * Scheduled job implementations for the storefront.
 */
package app

import (
	"context"
	"log/slog"

	"github.com/dairydirect/storefront/internal/domain"
	"github.com/dairydirect/storefront/internal/store"
)

// SessionSource exposes the current login state to the jobs.
type SessionSource interface {
	State() store.UserState
}

// SubscriptionSyncer defines the subscription store operations needed by the
// jobs.
type SubscriptionSyncer interface {
	Load(ctx context.Context, phoneNumber string, force bool) error
}

// CatalogService defines the catalog operations needed by the jobs.
type CatalogService interface {
	Products(ctx context.Context) ([]domain.Product, error)
}

// Jobs contains the logic for all scheduled tasks.
type Jobs struct {
	session       SessionSource
	subscriptions SubscriptionSyncer
	catalog       CatalogService
	logger        *slog.Logger
}

// NewJobs creates a new Jobs runner.
func NewJobs(session SessionSource, subscriptions SubscriptionSyncer, catalog CatalogService, logger *slog.Logger) *Jobs {
	return &Jobs{
		session:       session,
		subscriptions: subscriptions,
		catalog:       catalog,
		logger:        logger,
	}
}

// SyncSubscriptions forces a subscription reload for the logged-in user so
// the cached list and the persisted projection track remote changes.
func (j *Jobs) SyncSubscriptions() {
	j.logger.Info("starting subscription sync job")
	ctx := context.Background()

	state := j.session.State()
	if !state.LoggedIn || state.Profile == nil {
		j.logger.Info("no logged-in user, skipping subscription sync")
		return
	}

	if err := j.subscriptions.Load(ctx, state.Profile.PhoneNumber, true); err != nil {
		j.logger.Error("failed to sync subscriptions", "error", err)
		return
	}

	j.logger.Info("subscription sync job finished")
}

// WarmCatalog fetches the product catalog so the first user-facing request
// after a quiet period does not pay the cold-path latency.
func (j *Jobs) WarmCatalog() {
	j.logger.Info("starting catalog warm-up job")
	ctx := context.Background()

	products, err := j.catalog.Products(ctx)
	if err != nil {
		j.logger.Error("failed to warm catalog", "error", err)
		return
	}

	j.logger.Info("catalog warm-up job finished", "count", len(products))
}
