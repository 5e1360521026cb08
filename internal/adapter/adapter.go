/**
 * @description
 * This file contains the adapter between the ledger client's typed bindings
 * and the UI-shaped world the stores live in. Its contract is uniform across
 * every operation:
 *   - return (value, error); expected remote rejections come back as typed
 *     error values, transport failures as wrapped errors, and the zero value
 *     / empty slice / false accompanies every error as the safe fallback,
 *   - emit exactly one toast per call describing the outcome, success or
 *     failure. The toast is a required observable side effect, not logging.
 */
package adapter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dairydirect/storefront/internal/domain"
	"github.com/dairydirect/storefront/internal/kv"
	"github.com/dairydirect/storefront/internal/notify"
)

// LedgerService is the slice of the ledger client the adapter consumes.
type LedgerService interface {
	GetProducts(ctx context.Context) ([]domain.Product, error)
	AddProductAdmin(ctx context.Context, input domain.ProductInput) (int64, error)
	UpdateProductAdmin(ctx context.Context, id int64, input domain.ProductInput) (domain.Product, error)
	InitializeProducts(ctx context.Context) (string, error)

	CreateProfile(ctx context.Context, profile domain.UserProfile) error
	UpdateProfile(ctx context.Context, profile domain.UserProfile) error
	GetProfileByPhone(ctx context.Context, phoneNumber string) (domain.UserProfile, error)
	GetAllCustomers(ctx context.Context) ([]domain.UserProfile, error)
	DeleteProfileAdmin(ctx context.Context, phoneNumber string) (domain.UserProfile, error)

	CreateOrder(ctx context.Context, phoneNumber string, items []domain.OrderItemInput, deliveryAddress string) (int64, error)
	GetMyOrders(ctx context.Context, phoneNumber string) ([]domain.Order, error)
	GetOrderDetails(ctx context.Context, orderID int64, phoneNumber string) (domain.Order, error)
	CancelMyOrder(ctx context.Context, orderID int64, phoneNumber, reason string) (domain.Order, error)
	GetAllOrders(ctx context.Context) ([]domain.Order, error)
	GetOrderDetailsAdmin(ctx context.Context, orderID int64) (domain.Order, error)
	UpdateOrderStatusAdmin(ctx context.Context, orderID int64, status domain.OrderStatus) (domain.Order, error)

	CreateSubscription(ctx context.Context, phoneNumber string, input domain.SubscriptionInput) (domain.Subscription, error)
	GetMySubscriptions(ctx context.Context, phoneNumber string) ([]domain.Subscription, error)
	GetSubscriptionDetails(ctx context.Context, subscriptionID int64, phoneNumber string) (domain.Subscription, error)
	CancelSubscription(ctx context.Context, subscriptionID int64, phoneNumber string) (domain.Subscription, error)
	PauseSubscription(ctx context.Context, subscriptionID int64, phoneNumber string) (domain.Subscription, error)
	ResumeSubscription(ctx context.Context, subscriptionID int64, phoneNumber string) (domain.Subscription, error)
	UpdateSubscriptionDetails(ctx context.Context, subscriptionID int64, phoneNumber string, update domain.SubscriptionUpdate) (domain.Subscription, error)
	GetAllSubscriptionsAdmin(ctx context.Context) ([]domain.Subscription, error)

	IsDevCheck(ctx context.Context) (bool, error)
}

// Adapter wraps the ledger service for the stores and the HTTP surface.
type Adapter struct {
	ledger   LedgerService
	notifier notify.Notifier
	local    kv.Store
	logger   *slog.Logger
}

// New creates an Adapter.
func New(ledger LedgerService, notifier notify.Notifier, local kv.Store, logger *slog.Logger) *Adapter {
	return &Adapter{ledger: ledger, notifier: notifier, local: local, logger: logger}
}

// --- Catalog ---

// Products fetches the catalog.
func (a *Adapter) Products(ctx context.Context) ([]domain.Product, error) {
	products, err := a.ledger.GetProducts(ctx)
	if err != nil {
		notify.Error(a.notifier, "Failed to fetch products")
		return nil, err
	}
	notify.Info(a.notifier, fmt.Sprintf("Fetched %d products", len(products)))
	return products, nil
}

// AddProduct creates a catalog product and returns it with its new id.
func (a *Adapter) AddProduct(ctx context.Context, input domain.ProductInput) (domain.Product, error) {
	id, err := a.ledger.AddProductAdmin(ctx, input)
	if err != nil {
		notify.Error(a.notifier, "Failed to add product: "+remoteMessage(err))
		return domain.Product{}, err
	}
	notify.Success(a.notifier, "Product added successfully")
	return domain.Product{
		ID:          id,
		Name:        input.Name,
		Unit:        input.Unit,
		Description: input.Description,
		Price:       input.Price,
	}, nil
}

// UpdateProduct replaces a product's mutable fields.
func (a *Adapter) UpdateProduct(ctx context.Context, id int64, input domain.ProductInput) (domain.Product, error) {
	product, err := a.ledger.UpdateProductAdmin(ctx, id, input)
	if err != nil {
		notify.Error(a.notifier, "Failed to update product: "+remoteMessage(err))
		return domain.Product{}, err
	}
	notify.Success(a.notifier, "Product updated successfully")
	return product, nil
}

// InitializeCatalog seeds the catalog on a fresh deployment.
func (a *Adapter) InitializeCatalog(ctx context.Context) (string, error) {
	msg, err := a.ledger.InitializeProducts(ctx)
	if err != nil {
		notify.Error(a.notifier, "Failed to initialize catalog: "+remoteMessage(err))
		return "", err
	}
	notify.Success(a.notifier, msg)
	return msg, nil
}

// --- Profiles ---

// Profile fetches the profile keyed by a phone number.
func (a *Adapter) Profile(ctx context.Context, phoneNumber string) (domain.UserProfile, error) {
	profile, err := a.ledger.GetProfileByPhone(ctx, phoneNumber)
	if err != nil {
		notify.Error(a.notifier, "Failed to fetch user profile")
		return domain.UserProfile{}, err
	}
	notify.Info(a.notifier, "Profile loaded")
	return profile, nil
}

// CreateProfile registers a new profile.
func (a *Adapter) CreateProfile(ctx context.Context, profile domain.UserProfile) error {
	if err := a.ledger.CreateProfile(ctx, profile); err != nil {
		notify.Error(a.notifier, "Failed to create profile: "+remoteMessage(err))
		return err
	}
	notify.Success(a.notifier, "Profile created successfully")
	return nil
}

// UpdateProfile replaces the stored profile.
func (a *Adapter) UpdateProfile(ctx context.Context, profile domain.UserProfile) error {
	if err := a.ledger.UpdateProfile(ctx, profile); err != nil {
		notify.Error(a.notifier, "Failed to update profile: "+remoteMessage(err))
		return err
	}
	notify.Success(a.notifier, "Profile updated successfully")
	return nil
}

// Customers lists every profile. Admin screens only.
func (a *Adapter) Customers(ctx context.Context) ([]domain.UserProfile, error) {
	customers, err := a.ledger.GetAllCustomers(ctx)
	if err != nil {
		notify.Error(a.notifier, "Failed to fetch customers")
		return nil, err
	}
	notify.Info(a.notifier, fmt.Sprintf("Fetched %d customers", len(customers)))
	return customers, nil
}

// DeleteProfile removes a profile. Admin screens only.
func (a *Adapter) DeleteProfile(ctx context.Context, phoneNumber string) (domain.UserProfile, error) {
	deleted, err := a.ledger.DeleteProfileAdmin(ctx, phoneNumber)
	if err != nil {
		notify.Error(a.notifier, "Failed to delete profile: "+remoteMessage(err))
		return domain.UserProfile{}, err
	}
	notify.Success(a.notifier, "Profile deleted")
	return deleted, nil
}

// --- Orders ---

// CreateOrder places an order. On success it drops the new-order breadcrumbs
// into local storage for the orders page to pick up.
func (a *Adapter) CreateOrder(ctx context.Context, phoneNumber string, items []domain.OrderItemInput, deliveryAddress string) (int64, error) {
	id, err := a.ledger.CreateOrder(ctx, phoneNumber, items, deliveryAddress)
	if err != nil {
		notify.Error(a.notifier, "Failed to create order: "+remoteMessage(err))
		return 0, err
	}
	notify.Success(a.notifier, "Order created successfully!")

	if err := a.local.Set(ctx, kv.KeyNewOrderCreated, []byte("true")); err != nil {
		a.logger.Warn("failed to persist new-order flag", "error", err)
	}
	if err := a.local.Set(ctx, kv.KeyLastOrderID, []byte(fmt.Sprintf("%d", id))); err != nil {
		a.logger.Warn("failed to persist last order id", "error", err)
	}
	return id, nil
}

// MyOrders lists the caller's orders.
func (a *Adapter) MyOrders(ctx context.Context, phoneNumber string) ([]domain.Order, error) {
	orders, err := a.ledger.GetMyOrders(ctx, phoneNumber)
	if err != nil {
		notify.Error(a.notifier, "Failed to fetch orders: "+remoteMessage(err))
		return nil, err
	}
	notify.Info(a.notifier, fmt.Sprintf("Fetched %d orders", len(orders)))
	return orders, nil
}

// OrderDetails fetches one of the caller's orders.
func (a *Adapter) OrderDetails(ctx context.Context, orderID int64, phoneNumber string) (domain.Order, error) {
	order, err := a.ledger.GetOrderDetails(ctx, orderID, phoneNumber)
	if err != nil {
		notify.Error(a.notifier, "Failed to fetch order details: "+remoteMessage(err))
		return domain.Order{}, err
	}
	notify.Info(a.notifier, "Order details loaded")
	return order, nil
}

// CancelOrder cancels one of the caller's orders. The rejection kind is
// demultiplexed into a human-readable message.
func (a *Adapter) CancelOrder(ctx context.Context, orderID int64, phoneNumber, reason string) (domain.Order, error) {
	order, err := a.ledger.CancelMyOrder(ctx, orderID, phoneNumber, reason)
	if err != nil {
		notify.Error(a.notifier, orderCancelMessage(err))
		return domain.Order{}, err
	}
	notify.Success(a.notifier, "Order cancelled successfully!")
	return order, nil
}

// AllOrders lists every order. Admin screens only.
func (a *Adapter) AllOrders(ctx context.Context) ([]domain.Order, error) {
	orders, err := a.ledger.GetAllOrders(ctx)
	if err != nil {
		notify.Error(a.notifier, "Failed to fetch all orders: "+remoteMessage(err))
		return nil, err
	}
	notify.Info(a.notifier, fmt.Sprintf("Fetched %d orders", len(orders)))
	return orders, nil
}

// OrderDetailsAdmin fetches any order. Admin screens only.
func (a *Adapter) OrderDetailsAdmin(ctx context.Context, orderID int64) (domain.Order, error) {
	order, err := a.ledger.GetOrderDetailsAdmin(ctx, orderID)
	if err != nil {
		notify.Error(a.notifier, "Failed to fetch order details: "+remoteMessage(err))
		return domain.Order{}, err
	}
	notify.Info(a.notifier, "Order details loaded")
	return order, nil
}

// UpdateOrderStatus moves an order to a new status. Admin screens only.
func (a *Adapter) UpdateOrderStatus(ctx context.Context, orderID int64, status domain.OrderStatus) (domain.Order, error) {
	order, err := a.ledger.UpdateOrderStatusAdmin(ctx, orderID, status)
	if err != nil {
		notify.Error(a.notifier, "Failed to update order status: "+remoteMessage(err))
		return domain.Order{}, err
	}
	notify.Success(a.notifier, "Order status updated successfully")
	return order, nil
}

// --- Subscriptions ---

// CreateSubscription registers a recurring delivery plan.
func (a *Adapter) CreateSubscription(ctx context.Context, phoneNumber string, input domain.SubscriptionInput) (domain.Subscription, error) {
	sub, err := a.ledger.CreateSubscription(ctx, phoneNumber, input)
	if err != nil {
		notify.Error(a.notifier, "Failed to create subscription: "+remoteMessage(err))
		return domain.Subscription{}, err
	}
	notify.Success(a.notifier, "Subscription created successfully!")
	return sub, nil
}

// MySubscriptions lists the caller's subscriptions.
func (a *Adapter) MySubscriptions(ctx context.Context, phoneNumber string) ([]domain.Subscription, error) {
	subs, err := a.ledger.GetMySubscriptions(ctx, phoneNumber)
	if err != nil {
		notify.Error(a.notifier, "Failed to fetch subscriptions: "+remoteMessage(err))
		return nil, err
	}
	notify.Info(a.notifier, fmt.Sprintf("Fetched %d subscriptions", len(subs)))
	return subs, nil
}

// SubscriptionDetails fetches one of the caller's subscriptions.
func (a *Adapter) SubscriptionDetails(ctx context.Context, subscriptionID int64, phoneNumber string) (domain.Subscription, error) {
	sub, err := a.ledger.GetSubscriptionDetails(ctx, subscriptionID, phoneNumber)
	if err != nil {
		notify.Error(a.notifier, "Failed to fetch subscription details: "+remoteMessage(err))
		return domain.Subscription{}, err
	}
	notify.Info(a.notifier, "Subscription details loaded")
	return sub, nil
}

// CancelSubscription cancels a subscription, demultiplexing the rejection
// kind into a human-readable message.
func (a *Adapter) CancelSubscription(ctx context.Context, subscriptionID int64, phoneNumber string) (domain.Subscription, error) {
	sub, err := a.ledger.CancelSubscription(ctx, subscriptionID, phoneNumber)
	if err != nil {
		notify.Error(a.notifier, subscriptionCancelMessage(err))
		return domain.Subscription{}, err
	}
	notify.Success(a.notifier, "Subscription cancelled successfully!")
	return sub, nil
}

// PauseSubscription pauses an active subscription.
func (a *Adapter) PauseSubscription(ctx context.Context, subscriptionID int64, phoneNumber string) (domain.Subscription, error) {
	sub, err := a.ledger.PauseSubscription(ctx, subscriptionID, phoneNumber)
	if err != nil {
		notify.Error(a.notifier, "Failed to pause subscription: "+remoteMessage(err))
		return domain.Subscription{}, err
	}
	notify.Success(a.notifier, "Subscription paused")
	return sub, nil
}

// ResumeSubscription resumes a paused subscription.
func (a *Adapter) ResumeSubscription(ctx context.Context, subscriptionID int64, phoneNumber string) (domain.Subscription, error) {
	sub, err := a.ledger.ResumeSubscription(ctx, subscriptionID, phoneNumber)
	if err != nil {
		notify.Error(a.notifier, "Failed to resume subscription: "+remoteMessage(err))
		return domain.Subscription{}, err
	}
	notify.Success(a.notifier, "Subscription resumed")
	return sub, nil
}

// UpdateSubscription applies a partial update to a subscription.
func (a *Adapter) UpdateSubscription(ctx context.Context, subscriptionID int64, phoneNumber string, update domain.SubscriptionUpdate) (domain.Subscription, error) {
	sub, err := a.ledger.UpdateSubscriptionDetails(ctx, subscriptionID, phoneNumber, update)
	if err != nil {
		notify.Error(a.notifier, "Failed to update subscription: "+remoteMessage(err))
		return domain.Subscription{}, err
	}
	notify.Success(a.notifier, "Subscription updated successfully")
	return sub, nil
}

// AllSubscriptions lists every subscription. Admin screens only.
func (a *Adapter) AllSubscriptions(ctx context.Context) ([]domain.Subscription, error) {
	subs, err := a.ledger.GetAllSubscriptionsAdmin(ctx)
	if err != nil {
		notify.Error(a.notifier, "Failed to fetch all subscriptions: "+remoteMessage(err))
		return nil, err
	}
	notify.Info(a.notifier, fmt.Sprintf("Fetched %d subscriptions", len(subs)))
	return subs, nil
}

// IsDev asks the ledger whether this is a development deployment. The probe
// gates admin UI; a failed probe means no admin surface, not an error page,
// so this is the one operation that does not toast.
func (a *Adapter) IsDev(ctx context.Context) bool {
	isDev, err := a.ledger.IsDevCheck(ctx)
	if err != nil {
		a.logger.Warn("dev capability probe failed", "error", err)
		return false
	}
	return isDev
}
