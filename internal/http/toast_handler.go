package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fjod/go_storefront/internal/toast"
	"go.uber.org/zap"
)

const sseHeartbeat = 15 * time.Second

// ToastHandler streams toasts to the UI as server-sent events.
type ToastHandler struct {
	toasts *toast.Broadcaster
	log    *zap.Logger
}

func NewToastHandler(b *toast.Broadcaster, log *zap.Logger) *ToastHandler {
	return &ToastHandler{toasts: b, log: log}
}

// GET /api/v1/toasts
func (h *ToastHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "streaming_unsupported", "streaming unsupported")
		return
	}

	signals, cancel := h.toasts.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	heartbeat := time.NewTicker(sseHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case s, ok := <-signals:
			if !ok {
				return
			}
			data, err := json.Marshal(s)
			if err != nil {
				h.log.Warn("failed to encode toast", zap.Error(err))
				continue
			}
			if _, err := fmt.Fprintf(w, "event: toast\ndata: %s\n\n", data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
