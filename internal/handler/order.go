package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/opryshko/bakehouse/internal/domain/cart"
	"github.com/opryshko/bakehouse/internal/domain/order"
)

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	info, _ := authFromContext(r.Context())

	c, err := h.loadCart(r, info.key)
	if err != nil {
		zctx.From(r.Context()).Error("Load cart failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "checkout failed")
		return
	}
	if c.IsEmpty() {
		writeError(w, http.StatusUnprocessableEntity, "cart is empty")
		return
	}

	o, err := h.orders.Create(r.Context(), info.user.ID, c.Snapshot(), c.Total())
	if err != nil {
		zctx.From(r.Context()).Error("Create order failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "checkout failed")
		return
	}

	// Clear the cart for the next order. The order is already persisted, so
	// a failure here leaves a stale cart rather than losing the order.
	if err := h.sessions.SaveCart(r.Context(), info.key, &cart.Cart{}); err != nil {
		zctx.From(r.Context()).Warn("Clear cart after checkout failed", zap.Error(err))
	}

	writeJSON(w, http.StatusCreated, o)
}

func (h *Handler) listOwnOrders(w http.ResponseWriter, r *http.Request) {
	info, _ := authFromContext(r.Context())

	orders, err := h.orders.ListForUser(r.Context(), info.user.ID)
	if err != nil {
		zctx.From(r.Context()).Error("List orders failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "list orders failed")
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	info, _ := authFromContext(r.Context())

	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	o, err := h.orders.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		zctx.From(r.Context()).Error("Get order failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "get order failed")
		return
	}

	// Owners and admins only. Others get the same 404 as a missing order so
	// order IDs cannot be enumerated.
	if o.UserID != info.user.ID && !info.user.Admin {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) listAllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		zctx.From(r.Context()).Error("List orders failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "list orders failed")
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req updateStatusRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	status, err := order.ParseStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, "status must be one of pending, confirmed, completed, cancelled")
		return
	}

	if err := h.orders.UpdateStatus(r.Context(), id, status); err != nil {
		if errors.Is(err, order.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		zctx.From(r.Context()).Error("Update order status failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "update status failed")
		return
	}

	o, err := h.orders.GetByID(r.Context(), id)
	if err != nil {
		zctx.From(r.Context()).Error("Get order failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "update status failed")
		return
	}
	writeJSON(w, http.StatusOK, o)
}
