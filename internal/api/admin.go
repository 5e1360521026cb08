/**
 * @description
 * This file defines the HTTP handlers for the admin endpoints: catalog
 * management, customer lookup and order/subscription oversight. The admin
 * routes are only mounted when the remote service reports a development
 * deployment, mirroring how the remote side gates its own admin operations.
 */
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dairydirect/storefront/internal/adapter"
	"github.com/dairydirect/storefront/internal/domain"
)

// AdminHandler holds the dependencies for the admin handlers.
type AdminHandler struct {
	adapter *adapter.Adapter
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(a *adapter.Adapter) *AdminHandler {
	return &AdminHandler{adapter: a}
}

// ProductRequest defines the expected JSON body for creating or updating a
// product.
type ProductRequest struct {
	Name        string  `json:"name"`
	Unit        string  `json:"unit"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// CreateProduct adds a product to the catalog.
func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	product, err := h.adapter.AddProduct(r.Context(), domain.ProductInput{
		Name:        req.Name,
		Unit:        req.Unit,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

// UpdateProduct replaces a product's fields.
func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid product id", http.StatusBadRequest)
		return
	}
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	product, err := h.adapter.UpdateProduct(r.Context(), productID, domain.ProductInput{
		Name:        req.Name,
		Unit:        req.Unit,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// InitializeCatalog seeds the default catalog.
func (h *AdminHandler) InitializeCatalog(w http.ResponseWriter, r *http.Request) {
	message, err := h.adapter.InitializeCatalog(r.Context())
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}

// ListCustomers lists all registered customer profiles.
func (h *AdminHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.adapter.Customers(r.Context())
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

// DeleteCustomer removes a customer profile and returns the deleted copy.
func (h *AdminHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phoneNumber")
	if phone == "" {
		http.Error(w, "Invalid phone number", http.StatusBadRequest)
		return
	}
	profile, err := h.adapter.DeleteProfile(r.Context(), phone)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// ListOrders lists all orders across customers.
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.adapter.AllOrders(r.Context())
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// GetOrder returns any order by id, without an ownership check.
func (h *AdminHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid order id", http.StatusBadRequest)
		return
	}
	order, err := h.adapter.OrderDetailsAdmin(r.Context(), orderID)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// UpdateOrderStatusRequest defines the expected JSON body for an order
// status change.
type UpdateOrderStatusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

// UpdateOrderStatus moves an order to a new status.
func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid order id", http.StatusBadRequest)
		return
	}
	var req UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !domain.ValidOrderStatus(req.Status) {
		http.Error(w, "Invalid order status", http.StatusBadRequest)
		return
	}

	order, err := h.adapter.UpdateOrderStatus(r.Context(), orderID, req.Status)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// ListSubscriptions lists all subscriptions across customers.
func (h *AdminHandler) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	subscriptions, err := h.adapter.AllSubscriptions(r.Context())
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}
	writeJSON(w, http.StatusOK, subscriptions)
}
