/**
 * @description
 * This file sets up the HTTP router for the storefront using the go-chi/chi
 * router. It defines the API routes, applies middleware for logging, CORS
 * and timeouts, and maps the routes to their corresponding handler
 * functions.
 *
 * @dependencies
 * - github.com/go-chi/chi/v5: The routing library.
 * - github.com/go-chi/cors: CORS middleware.
 */
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates and configures a new HTTP router. The admin routes are
// mounted only when mountAdmin is true; callers gate that on the remote
// service reporting a development deployment.
func NewRouter(h *Handler, admin *AdminHandler, mountAdmin bool) http.Handler {
	r := chi.NewRouter()

	// Setup middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any major browsers
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("healthy"))
	})

	r.Get("/products", h.ListProducts)

	r.Route("/session", func(r chi.Router) {
		r.Get("/", h.GetSession)
		r.Post("/", h.Login)
		r.Delete("/", h.Logout)
	})
	r.Post("/register", h.Register)
	r.Put("/profile", h.UpdateProfile)

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Delete("/", h.ClearCart)
		r.Post("/items", h.AddCartItem)
		r.Put("/items/{productID}", h.UpdateCartItem)
		r.Delete("/items/{productID}", h.RemoveCartItem)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.Checkout)
		r.Get("/", h.ListOrders)
		r.Get("/{orderID}", h.GetOrder)
		r.Post("/{orderID}/cancel", h.CancelOrder)
	})

	r.Route("/subscriptions", func(r chi.Router) {
		r.Post("/", h.CreateSubscription)
		r.Get("/", h.ListSubscriptions)
		r.Get("/summary", h.GetSubscriptionSummary)
		r.Get("/{subscriptionID}", h.GetSubscription)
		r.Put("/{subscriptionID}", h.UpdateSubscription)
		r.Post("/{subscriptionID}/cancel", h.CancelSubscription)
		r.Post("/{subscriptionID}/pause", h.PauseSubscription)
		r.Post("/{subscriptionID}/resume", h.ResumeSubscription)
	})

	if mountAdmin {
		r.Route("/admin", func(r chi.Router) {
			r.Post("/products", admin.CreateProduct)
			r.Put("/products/{productID}", admin.UpdateProduct)
			r.Post("/products/initialize", admin.InitializeCatalog)
			r.Get("/customers", admin.ListCustomers)
			r.Delete("/customers/{phoneNumber}", admin.DeleteCustomer)
			r.Get("/orders", admin.ListOrders)
			r.Get("/orders/{orderID}", admin.GetOrder)
			r.Put("/orders/{orderID}/status", admin.UpdateOrderStatus)
			r.Get("/subscriptions", admin.ListSubscriptions)
		})
	}

	return r
}
