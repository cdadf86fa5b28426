package handler

import (
	"net/http"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/opryshko/bakehouse/internal/domain/product"
)

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	// Concurrent list requests share a single repository read.
	v, err, _ := h.catalog.Do("products", func() (any, error) {
		return h.products.List(r.Context())
	})
	if err != nil {
		zctx.From(r.Context()).Error("List products failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "list products failed")
		return
	}
	writeJSON(w, http.StatusOK, v.([]product.Product))
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	p, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		zctx.From(r.Context()).Error("Get product failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "get product failed")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	v, err, _ := h.catalog.Do("categories", func() (any, error) {
		return h.products.Categories(r.Context())
	})
	if err != nil {
		zctx.From(r.Context()).Error("List categories failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "list categories failed")
		return
	}
	writeJSON(w, http.StatusOK, v.([]string))
}

type productRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
	Category    string          `json:"category"`
	Available   bool            `json:"available"`
}

func (req *productRequest) validate() (string, bool) {
	req.Name = strings.TrimSpace(req.Name)
	req.Category = strings.TrimSpace(req.Category)
	switch {
	case req.Name == "":
		return "name is required", false
	case req.Category == "":
		return "category is required", false
	case req.Price.IsNegative():
		return "price must not be negative", false
	}
	return "", true
}

func (req *productRequest) toProduct(id int64) *product.Product {
	return &product.Product{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
		Available:   req.Available,
	}
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg, ok := req.validate(); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	p := req.toProduct(0)
	if err := h.products.Save(r.Context(), p); err != nil {
		zctx.From(r.Context()).Error("Create product failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "create product failed")
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req productRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg, ok := req.validate(); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	p := req.toProduct(id)
	if err := h.products.Save(r.Context(), p); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		zctx.From(r.Context()).Error("Update product failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "update product failed")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		zctx.From(r.Context()).Error("Delete product failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "delete product failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
