package http

import (
	"net/http"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/session"
	"go.uber.org/zap"
)

type SessionHandler struct {
	session *session.Store
	log     *zap.Logger
}

func NewSessionHandler(s *session.Store, log *zap.Logger) *SessionHandler {
	return &SessionHandler{session: s, log: log}
}

type LoginRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequestDTO struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SessionResponseDTO struct {
	Authenticated bool         `json:"authenticated"`
	User          *domain.User `json:"user,omitempty"`
}

// GET /api/v1/session
func (h *SessionHandler) Current(w http.ResponseWriter, _ *http.Request) {
	u, ok := h.session.Current()
	resp := SessionResponseDTO{Authenticated: ok}
	if ok {
		resp.User = &u
	}
	respondJSON(w, http.StatusOK, resp)
}

// POST /api/v1/session/login
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	u, err := h.session.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, SessionResponseDTO{Authenticated: true, User: &u})
}

// POST /api/v1/session/register
func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	u, err := h.session.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusCreated, SessionResponseDTO{Authenticated: true, User: &u})
}

// DELETE /api/v1/session
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Logout(r.Context()); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PATCH /api/v1/session/profile
func (h *SessionHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var patch domain.UserPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	u, err := h.session.UpdateProfile(r.Context(), patch)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, SessionResponseDTO{Authenticated: true, User: &u})
}
