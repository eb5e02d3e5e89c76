// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// maxLoginBody caps the credentials payload.
const maxLoginBody = 4 << 10

// AuthDependencies defines what the sign-in handlers need.
type AuthDependencies interface {
	Login(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context, sessionID string)
}

// AuthHandler handles sign-in and sign-out requests.
type AuthHandler struct {
	deps    AuthDependencies
	cookies Cookies
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(deps AuthDependencies, cookies Cookies) *AuthHandler {
	return &AuthHandler{deps: deps, cookies: cookies}
}

// loginRequest mirrors the OpenAPI schema for POST /api/login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Status string `json:"status"`
}

// HandleLogin handles POST /api/login requests.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	var req loginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxLoginBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}

	sessionID, err := h.deps.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.cookies.Set(w, sessionID)
	writeJSON(w, http.StatusOK, loginResponse{Status: "ok"})
}

// HandleLogout handles POST /api/logout requests.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	if id := h.cookies.SessionID(r); id != "" {
		h.deps.Logout(r.Context(), id)
	}
	h.cookies.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}
