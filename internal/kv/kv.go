/**
 * @description
 * This package defines the narrow key-value port the stores persist through.
 * It is the stand-in for browser localStorage: three JSON-encoded keys (cart
 * snapshot, remembered phone number, active-subscription projection) plus a
 * couple of breadcrumbs, all best-effort. Call sites treat read/write
 * failures as non-fatal: log and move on, never fail the store operation.
 */
package kv

import (
	"context"
	"errors"
)

// Well-known keys. The names are part of the persisted format and must not
// change without a migration.
const (
	KeyCart             = "dairyCart"
	KeyUserPhoneNumber  = "userPhoneNumber"
	KeyUserSubscription = "userSubscription"
	KeyNewOrderCreated  = "newOrderCreated"
	KeyLastOrderID      = "lastOrderId"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("kv: key not found")

// Store is the persistence port. Values are opaque bytes; callers JSON-encode.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
