package payment

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fjod/go_storefront/internal/checkout"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// widgetScript is served in place of the hosted checkout script.
const widgetScript = "window.Storefront = window.Storefront || {}; window.Storefront.simulatedCheckout = true;\n"

// Handler exposes a Simulator over HTTP so Client can target it.
type Handler struct {
	sim *Simulator
	log *zap.Logger
}

func NewHandler(sim *Simulator, log *zap.Logger) *Handler {
	return &Handler{sim: sim, log: log}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/orders", h.CreateOrder)
	r.Post("/verify", h.Verify)
	r.Get("/checkout.js", h.Script)
	return r
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req checkout.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	order, err := h.sim.CreateOrder(r.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrInvalidAmount) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

// Verify answers 200 with verified=false for payments it cannot confirm.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	var p checkout.PaymentResult
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	if err := h.sim.VerifyPayment(r.Context(), p); err != nil {
		writeJSON(w, http.StatusOK, verifyResponse{Verified: false, Reason: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, verifyResponse{Verified: true})
}

func (h *Handler) Script(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/javascript")
	if _, err := w.Write([]byte(widgetScript)); err != nil {
		h.log.Warn("failed to write widget script", zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
