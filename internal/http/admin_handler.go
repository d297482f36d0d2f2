package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fjod/go_storefront/internal/catalog"
	"github.com/fjod/go_storefront/internal/checkout"
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AdminHandler serves product CRUD for the dashboard. Every change is
// announced in the notification feed.
type AdminHandler struct {
	catalog       *catalog.Store
	notifications checkout.Notifier
	log           *zap.Logger
}

func NewAdminHandler(c *catalog.Store, n checkout.Notifier, log *zap.Logger) *AdminHandler {
	return &AdminHandler{catalog: c, notifications: n, log: log}
}

// POST /api/v1/admin/products
func (h *AdminHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var in domain.ProductInput
	if !decodeJSON(w, r, &in) {
		return
	}

	p, err := h.catalog.Add(r.Context(), in)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	h.announce(r.Context(), "Product added", fmt.Sprintf("%s has been added successfully.", p.Title))
	respondJSON(w, http.StatusCreated, p)
}

// PATCH /api/v1/admin/products/{id}
func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var patch domain.ProductPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	p, err := h.catalog.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	title := "Product"
	if patch.Title != nil && *patch.Title != "" {
		title = *patch.Title
	}
	h.announce(r.Context(), "Product updated", fmt.Sprintf("%s has been updated successfully.", title))
	respondJSON(w, http.StatusOK, p)
}

// DELETE /api/v1/admin/products/{id}
func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, err := h.catalog.Get(id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	if err := h.catalog.Remove(r.Context(), id); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	h.announce(r.Context(), "Product deleted", fmt.Sprintf("%s has been deleted.", p.Title))
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/v1/admin/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, h.catalog.Stats())
}

// announce does not fail the request: the catalog change already persisted.
func (h *AdminHandler) announce(ctx context.Context, title, message string) {
	if _, err := h.notifications.Push(ctx, title, message, domain.SeveritySuccess); err != nil {
		h.log.Warn("failed to push admin notification", zap.String("title", title), zap.Error(err))
	}
}
