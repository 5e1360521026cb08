/**
 * @description
 * Typed error values for the ledger service's tagged failure variants. Each
 * closed set of rejection reasons becomes a Go error type with a Kind, so
 * callers demultiplex with a switch instead of probing map keys.
 */
package ledgerclient

import (
	"encoding/json"
	"errors"
	"fmt"
)

// OrderErrorKind enumerates the order rejection variants.
type OrderErrorKind string

const (
	OrderErrInvalidInput          OrderErrorKind = "InvalidInput"
	OrderErrUserProfileNotFound   OrderErrorKind = "UserProfileNotFound"
	OrderErrInvalidProductInOrder OrderErrorKind = "InvalidProductInOrder"
	OrderErrOrderNotFound         OrderErrorKind = "OrderNotFound"
	OrderErrAccessDenied          OrderErrorKind = "AccessDenied"
	OrderErrCannotCancelOrder     OrderErrorKind = "CannotCancelOrder"
	OrderErrStorageError          OrderErrorKind = "StorageError"
	OrderErrUnknown               OrderErrorKind = "Unknown"
)

// OrderError is an expected order rejection. Message carries the variant's
// text payload when it has one; ProductID is set for InvalidProductInOrder.
type OrderError struct {
	Kind      OrderErrorKind
	Message   string
	ProductID int64
}

func (e *OrderError) Error() string {
	switch e.Kind {
	case OrderErrInvalidProductInOrder:
		return fmt.Sprintf("order rejected: %s (product %d)", e.Kind, e.ProductID)
	case OrderErrInvalidInput, OrderErrCannotCancelOrder, OrderErrStorageError:
		return fmt.Sprintf("order rejected: %s: %s", e.Kind, e.Message)
	default:
		return fmt.Sprintf("order rejected: %s", e.Kind)
	}
}

func decodeOrderError(raw json.RawMessage) error {
	key, payload, err := decodeVariant(raw)
	if err != nil {
		return fmt.Errorf("failed to decode order error: %w", err)
	}
	oe := &OrderError{Kind: OrderErrorKind(key)}
	switch oe.Kind {
	case OrderErrInvalidInput, OrderErrCannotCancelOrder, OrderErrStorageError:
		if err := json.Unmarshal(payload, &oe.Message); err != nil {
			return fmt.Errorf("failed to decode %s payload: %w", key, err)
		}
	case OrderErrInvalidProductInOrder:
		var id uint64
		if err := json.Unmarshal(payload, &id); err != nil {
			return fmt.Errorf("failed to decode %s payload: %w", key, err)
		}
		narrowed, err := narrowID(id)
		if err != nil {
			return err
		}
		oe.ProductID = narrowed
	case OrderErrUserProfileNotFound, OrderErrOrderNotFound, OrderErrAccessDenied:
		// no payload
	default:
		oe.Kind = OrderErrUnknown
		oe.Message = key
	}
	return oe
}

// SubscriptionErrorKind enumerates the subscription rejection variants of the
// later schema.
type SubscriptionErrorKind string

const (
	SubscriptionErrInvalidInput         SubscriptionErrorKind = "InvalidInput"
	SubscriptionErrUserProfileNotFound  SubscriptionErrorKind = "UserProfileNotFound"
	SubscriptionErrInvalidProduct       SubscriptionErrorKind = "InvalidProductInSubscription"
	SubscriptionErrSubscriptionNotFound SubscriptionErrorKind = "SubscriptionNotFound"
	SubscriptionErrAccessDenied         SubscriptionErrorKind = "AccessDenied"
	SubscriptionErrCannotUpdate         SubscriptionErrorKind = "CannotUpdateSubscription"
	SubscriptionErrStorageError         SubscriptionErrorKind = "StorageError"
	SubscriptionErrUnknown              SubscriptionErrorKind = "Unknown"
)

// SubscriptionError is an expected subscription rejection.
type SubscriptionError struct {
	Kind      SubscriptionErrorKind
	Message   string
	ProductID int64
}

func (e *SubscriptionError) Error() string {
	switch e.Kind {
	case SubscriptionErrInvalidProduct:
		return fmt.Sprintf("subscription rejected: %s (product %d)", e.Kind, e.ProductID)
	case SubscriptionErrInvalidInput, SubscriptionErrCannotUpdate, SubscriptionErrStorageError:
		return fmt.Sprintf("subscription rejected: %s: %s", e.Kind, e.Message)
	default:
		return fmt.Sprintf("subscription rejected: %s", e.Kind)
	}
}

func decodeSubscriptionError(raw json.RawMessage) error {
	key, payload, err := decodeVariant(raw)
	if err != nil {
		return fmt.Errorf("failed to decode subscription error: %w", err)
	}
	se := &SubscriptionError{Kind: SubscriptionErrorKind(key)}
	switch se.Kind {
	case SubscriptionErrInvalidInput, SubscriptionErrCannotUpdate, SubscriptionErrStorageError:
		if err := json.Unmarshal(payload, &se.Message); err != nil {
			return fmt.Errorf("failed to decode %s payload: %w", key, err)
		}
	case SubscriptionErrInvalidProduct:
		var id uint64
		if err := json.Unmarshal(payload, &id); err != nil {
			return fmt.Errorf("failed to decode %s payload: %w", key, err)
		}
		narrowed, err := narrowID(id)
		if err != nil {
			return err
		}
		se.ProductID = narrowed
	case SubscriptionErrUserProfileNotFound, SubscriptionErrSubscriptionNotFound, SubscriptionErrAccessDenied:
		// no payload
	default:
		se.Kind = SubscriptionErrUnknown
		se.Message = key
	}
	return se
}

// ProfileErrorKind enumerates the user-data rejection variants.
type ProfileErrorKind string

const (
	ProfileErrAnonymousCaller   ProfileErrorKind = "AnonymousCaller"
	ProfileErrNotFound          ProfileErrorKind = "DidntFindUserData"
	ProfileErrFailedToAddToList ProfileErrorKind = "FailedToAddToList"
	ProfileErrUnknown           ProfileErrorKind = "Unknown"
)

// ProfileError is an expected profile rejection.
type ProfileError struct {
	Kind ProfileErrorKind
}

func (e *ProfileError) Error() string {
	return fmt.Sprintf("profile rejected: %s", e.Kind)
}

func decodeProfileError(raw json.RawMessage) error {
	key, _, err := decodeVariant(raw)
	if err != nil {
		return fmt.Errorf("failed to decode profile error: %w", err)
	}
	pe := &ProfileError{Kind: ProfileErrorKind(key)}
	switch pe.Kind {
	case ProfileErrAnonymousCaller, ProfileErrNotFound, ProfileErrFailedToAddToList:
	default:
		pe.Kind = ProfileErrUnknown
	}
	return pe
}

// TextError is a plain-string rejection used by the admin product and profile
// operations.
type TextError string

func (e TextError) Error() string { return string(e) }

func decodeTextError(raw json.RawMessage) error {
	var msg string
	if err := json.Unmarshal(raw, &msg); err != nil {
		return fmt.Errorf("failed to decode text error: %w", err)
	}
	return TextError(msg)
}

// IsProfileNotFound reports whether err is the not-found profile rejection,
// which login treats as a fall-through to logout rather than a failure.
func IsProfileNotFound(err error) bool {
	var pe *ProfileError
	return errors.As(err, &pe) && pe.Kind == ProfileErrNotFound
}
