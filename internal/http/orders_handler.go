package http

import (
	"net/http"

	"github.com/fjod/go_storefront/internal/checkout"
	"github.com/fjod/go_storefront/internal/orders"
	"go.uber.org/zap"
)

type OrdersHandler struct {
	history orders.History
	session checkout.Session
	log     *zap.Logger
}

func NewOrdersHandler(history orders.History, sess checkout.Session, log *zap.Logger) *OrdersHandler {
	return &OrdersHandler{history: history, session: sess, log: log}
}

// GET /api/v1/orders
func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	u, ok := h.session.Current()
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "login required")
		return
	}

	receipts, err := h.history.ListByUser(r.Context(), u.ID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, receipts)
}
