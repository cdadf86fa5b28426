package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/opryshko/bakehouse/internal/domain/cart"
	"github.com/opryshko/bakehouse/internal/domain/product"
	"github.com/opryshko/bakehouse/internal/session"
)

// cartResponse is the cart plus its derived totals. Totals are recomputed
// from the lines on every response, never stored.
type cartResponse struct {
	Lines     []cart.Line     `json:"lines"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
}

func newCartResponse(c *cart.Cart) cartResponse {
	lines := c.Snapshot()
	if lines == nil {
		lines = []cart.Line{}
	}
	return cartResponse{
		Lines:     lines,
		Total:     c.Total(),
		ItemCount: c.ItemCount(),
	}
}

// loadCart fetches the session cart, treating a missing cart as empty.
func (h *Handler) loadCart(r *http.Request, key string) (*cart.Cart, error) {
	c, err := h.sessions.LoadCart(r.Context(), key)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return &cart.Cart{}, nil
		}
		return nil, err
	}
	return c, nil
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	info, _ := authFromContext(r.Context())

	c, err := h.loadCart(r, info.key)
	if err != nil {
		zctx.From(r.Context()).Error("Load cart failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "load cart failed")
		return
	}
	writeJSON(w, http.StatusOK, newCartResponse(c))
}

type addItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type addItemResponse struct {
	Message string       `json:"message"`
	Cart    cartResponse `json:"cart"`
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	info, _ := authFromContext(r.Context())

	var req addItemRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProductID <= 0 {
		writeError(w, http.StatusBadRequest, "productId is required")
		return
	}
	if req.Quantity < 1 {
		writeError(w, http.StatusBadRequest, "quantity must be at least 1")
		return
	}

	p, err := h.products.GetByID(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		zctx.From(r.Context()).Error("Get product failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "add item failed")
		return
	}

	c, err := h.loadCart(r, info.key)
	if err != nil {
		zctx.From(r.Context()).Error("Load cart failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "add item failed")
		return
	}

	added := c.AddItem(*p, req.Quantity)
	if err := h.sessions.SaveCart(r.Context(), info.key, c); err != nil {
		zctx.From(r.Context()).Error("Save cart failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "add item failed")
		return
	}

	msg := "updated"
	if added {
		msg = "added"
	}
	writeJSON(w, http.StatusOK, addItemResponse{Message: msg, Cart: newCartResponse(c)})
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	info, _ := authFromContext(r.Context())

	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req updateQuantityRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.loadCart(r, info.key)
	if err != nil {
		zctx.From(r.Context()).Error("Load cart failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "update item failed")
		return
	}

	// Zero or negative quantity removes the line; unknown IDs are a no-op.
	c.UpdateQuantity(id, req.Quantity)
	if err := h.sessions.SaveCart(r.Context(), info.key, c); err != nil {
		zctx.From(r.Context()).Error("Save cart failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "update item failed")
		return
	}
	writeJSON(w, http.StatusOK, newCartResponse(c))
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	info, _ := authFromContext(r.Context())

	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	c, err := h.loadCart(r, info.key)
	if err != nil {
		zctx.From(r.Context()).Error("Load cart failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "remove item failed")
		return
	}

	c.RemoveItem(id)
	if err := h.sessions.SaveCart(r.Context(), info.key, c); err != nil {
		zctx.From(r.Context()).Error("Save cart failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "remove item failed")
		return
	}
	writeJSON(w, http.StatusOK, newCartResponse(c))
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	info, _ := authFromContext(r.Context())

	c := &cart.Cart{}
	if err := h.sessions.SaveCart(r.Context(), info.key, c); err != nil {
		zctx.From(r.Context()).Error("Save cart failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "clear cart failed")
		return
	}
	writeJSON(w, http.StatusOK, newCartResponse(c))
}
