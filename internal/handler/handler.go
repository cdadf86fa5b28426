// Package handler exposes the storefront over HTTP: public catalog and auth
// endpoints, session-scoped cart and order endpoints, and an admin surface
// for approvals, catalog management, and order status changes.
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/singleflight"

	"github.com/opryshko/bakehouse/internal/domain/order"
	"github.com/opryshko/bakehouse/internal/domain/product"
	"github.com/opryshko/bakehouse/internal/domain/user"
	"github.com/opryshko/bakehouse/internal/session"
)

// Handler serves the storefront API.
type Handler struct {
	products product.Repository
	users    *user.Service
	orders   *order.Service
	sessions session.Store

	// pepper keys the HMAC applied to session tokens before they are used
	// as store keys, so a leaked session store does not leak usable tokens.
	pepper []byte

	// catalog collapses concurrent identical reads into one repository call.
	catalog singleflight.Group
}

// New creates a Handler over the given services and session store.
func New(products product.Repository, users *user.Service, orders *order.Service, sessions session.Store, pepper []byte) *Handler {
	return &Handler{
		products: products,
		users:    users,
		orders:   orders,
		sessions: sessions,
		pepper:   pepper,
	}
}

// Routes builds the API router. Mount it under /api.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	// Public.
	r.Get("/products", h.listProducts)
	r.Get("/products/{id}", h.getProduct)
	r.Get("/categories", h.listCategories)
	r.Post("/auth/register", h.register)
	r.Post("/auth/login", h.login)

	// Session-scoped.
	r.Group(func(r chi.Router) {
		r.Use(h.withSession)

		r.Get("/auth/me", h.me)
		r.Post("/auth/logout", h.logout)

		r.Get("/cart", h.getCart)
		r.Post("/cart/items", h.addCartItem)
		r.Patch("/cart/items/{id}", h.updateCartItem)
		r.Delete("/cart/items/{id}", h.removeCartItem)
		r.Delete("/cart", h.clearCart)

		r.Post("/orders", h.checkout)
		r.Get("/orders", h.listOwnOrders)
		r.Get("/orders/{id}", h.getOrder)
	})

	// Admin.
	r.Route("/admin", func(r chi.Router) {
		r.Use(h.withSession, h.requireAdmin)

		r.Get("/users", h.listUsers)
		r.Post("/users/{id}/approve", h.approveUser)
		r.Delete("/users/{id}", h.rejectUser)

		r.Post("/products", h.createProduct)
		r.Put("/products/{id}", h.updateProduct)
		r.Delete("/products/{id}", h.deleteProduct)

		r.Get("/orders", h.listAllOrders)
		r.Patch("/orders/{id}/status", h.updateOrderStatus)
	})

	return r
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Code: status, Message: message})
}

// decode parses the request body into v, rejecting unknown fields.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// pathID parses the {id} route parameter as a positive int64.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
