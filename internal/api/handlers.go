/**
 * @description
 * This file defines the HTTP handlers for the storefront's API endpoints.
 * Handlers are responsible for parsing requests, calling the adapter or the
 * local stores, and writing the response. The logged-in identity comes from
 * the user store, not from the request.
 *
 * @dependencies
 * - Standard Go libraries for HTTP, JSON, etc.
 * - Chi router for URL parameter handling.
 * - The adapter and the local stores.
 */
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dairydirect/storefront/internal/adapter"
	"github.com/dairydirect/storefront/internal/domain"
	"github.com/dairydirect/storefront/internal/store"
	"github.com/dairydirect/storefront/pkg/ledgerclient"
)

// Handler holds the dependencies for the storefront handlers.
type Handler struct {
	adapter       *adapter.Adapter
	cart          *store.CartStore
	users         *store.UserStore
	subscriptions *store.SubscriptionStore
}

// NewHandler creates a new Handler.
func NewHandler(a *adapter.Adapter, cart *store.CartStore, users *store.UserStore, subscriptions *store.SubscriptionStore) *Handler {
	return &Handler{
		adapter:       a,
		cart:          cart,
		users:         users,
		subscriptions: subscriptions,
	}
}

// requirePhone resolves the logged-in phone number, writing a 401 when no
// user is logged in.
func (h *Handler) requirePhone(w http.ResponseWriter) (string, bool) {
	state := h.users.State()
	if !state.LoggedIn || state.Profile == nil {
		http.Error(w, "Not logged in", http.StatusUnauthorized)
		return "", false
	}
	return state.Profile.PhoneNumber, true
}

// statusForError maps typed remote rejections to HTTP status codes. Anything
// that is not a known rejection is treated as an upstream failure.
func statusForError(err error) int {
	var oe *ledgerclient.OrderError
	if errors.As(err, &oe) {
		switch oe.Kind {
		case ledgerclient.OrderErrOrderNotFound, ledgerclient.OrderErrUserProfileNotFound:
			return http.StatusNotFound
		case ledgerclient.OrderErrAccessDenied:
			return http.StatusForbidden
		case ledgerclient.OrderErrInvalidInput, ledgerclient.OrderErrInvalidProductInOrder:
			return http.StatusBadRequest
		case ledgerclient.OrderErrCannotCancelOrder:
			return http.StatusConflict
		default:
			return http.StatusInternalServerError
		}
	}
	var se *ledgerclient.SubscriptionError
	if errors.As(err, &se) {
		switch se.Kind {
		case ledgerclient.SubscriptionErrSubscriptionNotFound, ledgerclient.SubscriptionErrUserProfileNotFound:
			return http.StatusNotFound
		case ledgerclient.SubscriptionErrAccessDenied:
			return http.StatusForbidden
		case ledgerclient.SubscriptionErrInvalidInput, ledgerclient.SubscriptionErrInvalidProduct:
			return http.StatusBadRequest
		case ledgerclient.SubscriptionErrCannotUpdate:
			return http.StatusConflict
		default:
			return http.StatusInternalServerError
		}
	}
	var pe *ledgerclient.ProfileError
	if errors.As(err, &pe) {
		switch pe.Kind {
		case ledgerclient.ProfileErrNotFound:
			return http.StatusNotFound
		case ledgerclient.ProfileErrAnonymousCaller:
			return http.StatusUnauthorized
		default:
			return http.StatusInternalServerError
		}
	}
	var te ledgerclient.TextError
	if errors.As(err, &te) {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

// ListProducts handles listing the product catalog.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.adapter.Products(r.Context())
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// GetSession returns the current login state.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.users.State())
}

// LoginRequest defines the expected JSON body for logging in.
type LoginRequest struct {
	PhoneNumber string `json:"phone_number"`
}

// Login resolves a profile for the phone number and starts a session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PhoneNumber == "" {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.users.Login(r.Context(), req.PhoneNumber, nil); err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}
	writeJSON(w, http.StatusOK, h.users.State())
}

// Logout ends the session and forgets the cached subscriptions.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.users.Logout(r.Context())
	h.subscriptions.Reset(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// RegisterRequest defines the expected JSON body for creating a profile.
type RegisterRequest struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number"`
}

// Register creates a profile and starts a session for it.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PhoneNumber == "" {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	profile := domain.UserProfile{
		Name:        req.Name,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
	}
	if err := h.adapter.CreateProfile(r.Context(), profile); err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}
	if err := h.users.Login(r.Context(), profile.PhoneNumber, &profile); err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}
	writeJSON(w, http.StatusCreated, h.users.State())
}

// UpdateProfileRequest defines the expected JSON body for updating a profile.
type UpdateProfileRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// UpdateProfile updates the logged-in user's profile and refreshes the
// session from the remote copy.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	phone, ok := h.requirePhone(w)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	profile := domain.UserProfile{
		Name:        req.Name,
		Address:     req.Address,
		PhoneNumber: phone,
	}
	if err := h.adapter.UpdateProfile(r.Context(), profile); err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}
	if err := h.users.Login(r.Context(), phone, nil); err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}
	writeJSON(w, http.StatusOK, h.users.State())
}

// CartResponse is the cart snapshot with its derived totals.
type CartResponse struct {
	Items     []domain.CartItem `json:"items"`
	ItemCount float64           `json:"item_count"`
	Total     float64           `json:"total"`
}

func (h *Handler) cartResponse() CartResponse {
	return CartResponse{
		Items:     h.cart.Items(),
		ItemCount: h.cart.ItemCount(),
		Total:     h.cart.Total(),
	}
}

// GetCart returns the cart with its derived totals.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.cartResponse())
}

// AddCartItemRequest defines the expected JSON body for adding a cart line.
type AddCartItemRequest struct {
	ProductID int64   `json:"product_id"`
	Quantity  float64 `json:"quantity"`
}

// AddCartItem resolves the product against the catalog and adds it to the
// cart, merging quantities when the product is already there.
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req AddCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Quantity <= 0 {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	products, err := h.adapter.Products(r.Context())
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}
	var product *domain.Product
	for i := range products {
		if products[i].ID == req.ProductID {
			product = &products[i]
			break
		}
	}
	if product == nil {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	h.cart.AddItem(r.Context(), *product, req.Quantity)
	writeJSON(w, http.StatusOK, h.cartResponse())
}

// UpdateCartItemRequest defines the expected JSON body for changing a line's
// quantity.
type UpdateCartItemRequest struct {
	Quantity float64 `json:"quantity"`
}

// UpdateCartItem sets the quantity of a cart line.
func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid product id", http.StatusBadRequest)
		return
	}
	var req UpdateCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Quantity <= 0 {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	h.cart.UpdateQuantity(r.Context(), productID, req.Quantity)
	writeJSON(w, http.StatusOK, h.cartResponse())
}

// RemoveCartItem drops a cart line.
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid product id", http.StatusBadRequest)
		return
	}
	h.cart.RemoveItem(r.Context(), productID)
	writeJSON(w, http.StatusOK, h.cartResponse())
}

// ClearCart empties the cart.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.cart.ClearCart(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// CheckoutRequest defines the expected JSON body for placing an order.
type CheckoutRequest struct {
	DeliveryAddress string `json:"delivery_address"`
}

// Checkout places an order from the current cart and clears the cart on
// success.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	phone, ok := h.requirePhone(w)
	if !ok {
		return
	}

	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.DeliveryAddress == "" {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	lines := h.cart.Items()
	if len(lines) == 0 {
		http.Error(w, "Cart is empty", http.StatusBadRequest)
		return
	}
	items := make([]domain.OrderItemInput, 0, len(lines))
	for _, line := range lines {
		items = append(items, domain.OrderItemInput{
			ProductID: line.Product.ID,
			Quantity:  line.Quantity,
		})
	}

	orderID, err := h.adapter.CreateOrder(r.Context(), phone, items, req.DeliveryAddress)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}
	h.cart.ClearCart(r.Context())
	writeJSON(w, http.StatusCreated, map[string]int64{"order_id": orderID})
}

// ListOrders lists the logged-in user's orders.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	phone, ok := h.requirePhone(w)
	if !ok {
		return
	}
	orders, err := h.adapter.MyOrders(r.Context(), phone)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// GetOrder returns one of the logged-in user's orders.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	phone, ok := h.requirePhone(w)
	if !ok {
		return
	}
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid order id", http.StatusBadRequest)
		return
	}
	order, err := h.adapter.OrderDetails(r.Context(), orderID, phone)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// CancelOrderRequest defines the expected JSON body for cancelling an order.
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// CancelOrder cancels one of the logged-in user's orders.
func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	phone, ok := h.requirePhone(w)
	if !ok {
		return
	}
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid order id", http.StatusBadRequest)
		return
	}
	var req CancelOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	order, err := h.adapter.CancelOrder(r.Context(), orderID, phone, req.Reason)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// syncSubscription folds a mutated subscription into the local store and
// rebuilds the persisted projection from remote truth. The reload is best
// effort; the mutation already succeeded.
func (h *Handler) syncSubscription(r *http.Request, phone string, sub domain.Subscription) {
	h.subscriptions.Update(sub)
	_ = h.subscriptions.Load(r.Context(), phone, true)
}

// CreateSubscriptionRequest defines the expected JSON body for creating a
// subscription.
type CreateSubscriptionRequest struct {
	Items            []domain.SubscriptionItem `json:"items"`
	DeliveryDays     []string                  `json:"delivery_days"`
	DeliveryTimeSlot string                    `json:"delivery_time_slot"`
	DeliveryAddress  string                    `json:"delivery_address"`
	StartDate        int64                     `json:"start_date"`
}

// CreateSubscription creates a recurring delivery plan.
func (h *Handler) CreateSubscription(w http.ResponseWriter, r *http.Request) {
	phone, ok := h.requirePhone(w)
	if !ok {
		return
	}
	var req CreateSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Items) == 0 {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	sub, err := h.adapter.CreateSubscription(r.Context(), phone, domain.SubscriptionInput{
		Items:            req.Items,
		DeliveryDays:     req.DeliveryDays,
		DeliveryTimeSlot: req.DeliveryTimeSlot,
		DeliveryAddress:  req.DeliveryAddress,
		StartDate:        req.StartDate,
	})
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	h.subscriptions.Add(sub)
	_ = h.subscriptions.Load(r.Context(), phone, true)
	writeJSON(w, http.StatusCreated, sub)
}

// ListSubscriptions returns the logged-in user's subscriptions, loading them
// lazily on first call.
func (h *Handler) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	phone, ok := h.requirePhone(w)
	if !ok {
		return
	}
	if err := h.subscriptions.Load(r.Context(), phone, false); err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}
	writeJSON(w, http.StatusOK, h.subscriptions.Subscriptions())
}

// SubscriptionSummary is the per-status tally plus the persisted active
// projection, when one exists.
type SubscriptionSummary struct {
	Counts     domain.SubscriptionCounts            `json:"counts"`
	Active     []domain.Subscription                `json:"active"`
	Projection *domain.ActiveSubscriptionProjection `json:"projection,omitempty"`
}

// GetSubscriptionSummary returns counts and the active projection.
func (h *Handler) GetSubscriptionSummary(w http.ResponseWriter, r *http.Request) {
	phone, ok := h.requirePhone(w)
	if !ok {
		return
	}
	if err := h.subscriptions.Load(r.Context(), phone, false); err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	summary := SubscriptionSummary{
		Counts: h.subscriptions.Counts(),
		Active: h.subscriptions.ActiveSubscriptions(),
	}
	if projection, ok := h.subscriptions.Projection(r.Context()); ok {
		summary.Projection = &projection
	}
	writeJSON(w, http.StatusOK, summary)
}

// GetSubscription returns one of the logged-in user's subscriptions.
func (h *Handler) GetSubscription(w http.ResponseWriter, r *http.Request) {
	phone, ok := h.requirePhone(w)
	if !ok {
		return
	}
	subID, err := strconv.ParseInt(chi.URLParam(r, "subscriptionID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid subscription id", http.StatusBadRequest)
		return
	}
	sub, err := h.adapter.SubscriptionDetails(r.Context(), subID, phone)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// CancelSubscription cancels a subscription.
func (h *Handler) CancelSubscription(w http.ResponseWriter, r *http.Request) {
	h.mutateSubscription(w, r, h.adapter.CancelSubscription)
}

// PauseSubscription pauses a subscription.
func (h *Handler) PauseSubscription(w http.ResponseWriter, r *http.Request) {
	h.mutateSubscription(w, r, h.adapter.PauseSubscription)
}

// ResumeSubscription resumes a paused subscription.
func (h *Handler) ResumeSubscription(w http.ResponseWriter, r *http.Request) {
	h.mutateSubscription(w, r, h.adapter.ResumeSubscription)
}

func (h *Handler) mutateSubscription(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, subscriptionID int64, phoneNumber string) (domain.Subscription, error)) {
	phone, ok := h.requirePhone(w)
	if !ok {
		return
	}
	subID, err := strconv.ParseInt(chi.URLParam(r, "subscriptionID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid subscription id", http.StatusBadRequest)
		return
	}

	sub, err := op(r.Context(), subID, phone)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}
	h.syncSubscription(r, phone, sub)
	writeJSON(w, http.StatusOK, sub)
}

// UpdateSubscription applies a partial update to a subscription.
func (h *Handler) UpdateSubscription(w http.ResponseWriter, r *http.Request) {
	phone, ok := h.requirePhone(w)
	if !ok {
		return
	}
	subID, err := strconv.ParseInt(chi.URLParam(r, "subscriptionID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid subscription id", http.StatusBadRequest)
		return
	}
	var update domain.SubscriptionUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	sub, err := h.adapter.UpdateSubscription(r.Context(), subID, phone, update)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}
	h.syncSubscription(r, phone, sub)
	writeJSON(w, http.StatusOK, sub)
}

// writeJSON is a helper to write JSON responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// If encoding fails, we can't send a JSON error, so just log it.
		http.Error(w, `{"error":"Failed to encode response"}`, http.StatusInternalServerError)
	}
}
