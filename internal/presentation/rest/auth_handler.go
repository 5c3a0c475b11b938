package rest

import (
	"log/slog"
	"net/http"

	"github.com/Isaksend/credit-score/internal/application/dto"
	"github.com/Isaksend/credit-score/internal/application/usecase"
)

// AuthHandler serves login and caller introspection.
type AuthHandler struct {
	login   *usecase.Login
	me      *usecase.GetCurrentUser
	logger  *slog.Logger
	maxBody int64
}

// NewAuthHandler creates a new AuthHandler. A nil login disables
// POST /auth/login.
func NewAuthHandler(login *usecase.Login, me *usecase.GetCurrentUser, maxBody int64, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{login: login, me: me, maxBody: maxBody, logger: logger}
}

// RegisterRoutes registers auth endpoints on the provided ServeMux.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux) {
	if h.login != nil {
		mux.HandleFunc("POST /auth/login", h.Login)
	}
	mux.HandleFunc("GET /auth/me", h.Me)
}

// Login exchanges credentials for a bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(w, r, h.maxBody, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	resp, err := h.login.Execute(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, resp)
}

// Me describes the authenticated caller.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	resp, err := h.me.Execute(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
