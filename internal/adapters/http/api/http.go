// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/The-Tifo/Graphql/internal/adapters/upstream"
	service "github.com/The-Tifo/Graphql/internal/app"
	"github.com/The-Tifo/Graphql/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface keeps the
// handler layer loosely coupled to the service implementation.
type Dependencies interface {
	// Login signs in and returns an opaque session id.
	Login(ctx context.Context, username, password string) (string, error)

	// Logout forgets the session.
	Logout(ctx context.Context, sessionID string)

	// Dashboard builds the profile for a session at the given canvas width.
	Dashboard(ctx context.Context, sessionID string, width float64) (service.Dashboard, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	authHandler    *AuthHandler
	profileHandler *ProfileHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, cookies Cookies) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		authHandler:    NewAuthHandler(deps, cookies),
		profileHandler: NewProfileHandler(deps, cookies),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/login", MetricsMiddleware(s.authHandler.HandleLogin, "api_login"))
	mux.HandleFunc("/api/logout", MetricsMiddleware(s.authHandler.HandleLogout, "api_logout"))
	mux.HandleFunc("/api/profile", MetricsMiddleware(s.profileHandler.HandleProfile, "api_profile"))
	mux.HandleFunc("/api/charts/skills.svg", MetricsMiddleware(s.profileHandler.HandleSkillsChart, "api_chart_skills"))
	mux.HandleFunc("/api/charts/audits.svg", MetricsMiddleware(s.profileHandler.HandleAuditsChart, "api_chart_audits"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes into a buffer first, so a value that cannot be encoded
// yields a 500 instead of a truncated success.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		logger.Get().Error(context.Background(), "encode response failed", logger.Int("status", status), logger.Error(err))
		buf.Reset()
		_ = json.NewEncoder(&buf).Encode(errorResponse{Code: "internal", Message: http.StatusText(http.StatusInternalServerError)})
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError maps service and platform errors onto status codes.
// Messages for server-side failures stay generic so platform details do
// not leak to clients.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNoSession):
		writeError(w, http.StatusUnauthorized, "unauthorized", ErrUnauthorized)
	case errors.Is(err, service.ErrMissingCredentials):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, upstream.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", upstream.ErrInvalidCredentials)
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", nil)
	case errors.Is(err, upstream.ErrUpstream), errors.Is(err, upstream.ErrUnauthorized):
		writeError(w, http.StatusBadGateway, "upstream_error", upstream.ErrUpstream)
	default:
		writeError(w, http.StatusInternalServerError, "internal", nil)
	}
}
