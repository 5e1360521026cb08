/**
 * @description
 * Human-readable messages for remote rejections. Cancellation failures are
 * demultiplexed per rejection kind; unrecognized kinds and transport
 * failures fall back to a generic message.
 */
package adapter

import (
	"errors"
	"fmt"

	"github.com/dairydirect/storefront/pkg/ledgerclient"
)

func orderCancelMessage(err error) string {
	var oe *ledgerclient.OrderError
	if !errors.As(err, &oe) {
		return "An unexpected error occurred while cancelling the order."
	}
	switch oe.Kind {
	case ledgerclient.OrderErrCannotCancelOrder:
		return oe.Message
	case ledgerclient.OrderErrOrderNotFound:
		return "Order not found."
	case ledgerclient.OrderErrAccessDenied:
		return "You do not have permission to cancel this order."
	case ledgerclient.OrderErrInvalidInput:
		return fmt.Sprintf("Invalid input: %s", oe.Message)
	case ledgerclient.OrderErrUserProfileNotFound:
		return "User profile not found."
	case ledgerclient.OrderErrStorageError:
		return fmt.Sprintf("Storage error: %s", oe.Message)
	default:
		return "Failed to cancel order."
	}
}

func subscriptionCancelMessage(err error) string {
	var se *ledgerclient.SubscriptionError
	if !errors.As(err, &se) {
		return "An unexpected error occurred while cancelling the subscription."
	}
	switch se.Kind {
	case ledgerclient.SubscriptionErrCannotUpdate:
		return se.Message
	case ledgerclient.SubscriptionErrSubscriptionNotFound:
		return "Subscription not found."
	case ledgerclient.SubscriptionErrAccessDenied:
		return "You do not have permission to cancel this subscription."
	case ledgerclient.SubscriptionErrInvalidInput:
		return fmt.Sprintf("Invalid input: %s", se.Message)
	case ledgerclient.SubscriptionErrUserProfileNotFound:
		return "User profile not found."
	case ledgerclient.SubscriptionErrStorageError:
		return fmt.Sprintf("Storage error: %s", se.Message)
	default:
		return "Failed to cancel subscription."
	}
}

// remoteMessage renders any remote rejection for embedding in a toast.
// Typed rejections print their own message; transport failures print a
// generic description so internals stay out of user-facing text.
func remoteMessage(err error) string {
	var oe *ledgerclient.OrderError
	if errors.As(err, &oe) {
		return oe.Error()
	}
	var se *ledgerclient.SubscriptionError
	if errors.As(err, &se) {
		return se.Error()
	}
	var pe *ledgerclient.ProfileError
	if errors.As(err, &pe) {
		return pe.Error()
	}
	var te ledgerclient.TextError
	if errors.As(err, &te) {
		return te.Error()
	}
	return "service unavailable"
}
