// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/The-Tifo/Graphql/internal/adapters/svg"
	service "github.com/The-Tifo/Graphql/internal/app"
	"github.com/The-Tifo/Graphql/internal/domain/chart"
	"github.com/The-Tifo/Graphql/pkg/logger"
)

// ProfileDependencies defines what the profile handlers need.
type ProfileDependencies interface {
	Dashboard(ctx context.Context, sessionID string, width float64) (service.Dashboard, error)
}

// ProfileHandler serves the dashboard as JSON and the charts as SVG.
type ProfileHandler struct {
	deps    ProfileDependencies
	cookies Cookies
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(deps ProfileDependencies, cookies Cookies) *ProfileHandler {
	return &ProfileHandler{deps: deps, cookies: cookies}
}

// HandleProfile handles GET /api/profile?width=N requests.
func (h *ProfileHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	d, ok := h.load(w, r)
	if !ok {
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, d)
}

// HandleSkillsChart handles GET /api/charts/skills.svg requests.
func (h *ProfileHandler) HandleSkillsChart(w http.ResponseWriter, r *http.Request) {
	d, ok := h.load(w, r)
	if !ok {
		return
	}
	writeSVG(w, d.Radar.Drawing())
}

// HandleAuditsChart handles GET /api/charts/audits.svg requests.
func (h *ProfileHandler) HandleAuditsChart(w http.ResponseWriter, r *http.Request) {
	d, ok := h.load(w, r)
	if !ok {
		return
	}
	writeSVG(w, d.Audits.Drawing())
}

// load validates the request and builds the dashboard. It writes the error
// response itself and reports false when the handler should stop.
func (h *ProfileHandler) load(w http.ResponseWriter, r *http.Request) (service.Dashboard, bool) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return service.Dashboard{}, false
	}
	width, err := parseWidth(r.URL.Query().Get("width"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return service.Dashboard{}, false
	}

	sessionID := h.cookies.SessionID(r)
	d, err := h.deps.Dashboard(r.Context(), sessionID, width)
	if err != nil {
		if errors.Is(err, service.ErrNoSession) && sessionID != "" {
			h.cookies.Clear(w)
		}
		if !errors.Is(err, service.ErrNoSession) {
			logger.Get().Error(r.Context(), "dashboard failed", logger.Error(err))
		}
		writeServiceError(w, err)
		return service.Dashboard{}, false
	}
	return d, true
}

// parseWidth reads the optional width query parameter. Empty means default.
func parseWidth(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, fmt.Errorf("%w: width must be a positive number", ErrBadRequest)
	}
	return v, nil
}

func writeSVG(w http.ResponseWriter, d chart.Drawing) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(svg.Render(d)))
}
