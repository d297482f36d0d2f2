package http

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/fjod/go_storefront/internal/catalog"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	catalog *catalog.Store
	log     *zap.Logger
}

func NewCatalogHandler(c *catalog.Store, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: c, log: log}
}

// GET /api/v1/products?q=&category=&min_price=&max_price=&tags=a,b
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, err := parseFilter(q)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_price", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, h.catalog.Query(q.Get("q"), filter))
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.Get(chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *CatalogHandler) Featured(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, h.catalog.Featured())
}

func (h *CatalogHandler) Categories(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, h.catalog.Categories())
}

func (h *CatalogHandler) Tags(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, h.catalog.Tags())
}

func parseFilter(q url.Values) (catalog.Filter, error) {
	f := catalog.Filter{Category: q.Get("category")}

	if v := q.Get("min_price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return catalog.Filter{}, err
		}
		f.MinPrice = &d
	}
	if v := q.Get("max_price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return catalog.Filter{}, err
		}
		f.MaxPrice = &d
	}
	if v := q.Get("tags"); v != "" {
		for _, tag := range strings.Split(v, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				f.Tags = append(f.Tags, tag)
			}
		}
	}
	return f, nil
}
