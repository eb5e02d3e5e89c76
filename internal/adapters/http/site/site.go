// Package site serves the server-rendered sign-in and profile pages.
package site

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"net/http"

	"github.com/The-Tifo/Graphql/internal/adapters/http/api"
	"github.com/The-Tifo/Graphql/internal/adapters/svg"
	"github.com/The-Tifo/Graphql/internal/adapters/upstream"
	service "github.com/The-Tifo/Graphql/internal/app"
	"github.com/The-Tifo/Graphql/pkg/logger"
)

// User-facing messages.
const (
	msgInvalidLogin = "Invalid username or password"
	msgUnavailable  = "The platform is unavailable right now. Please try again later."
)

// maxFormBody caps the sign-in form.
const maxFormBody = 4 << 10

// Handler renders the pages on top of the dashboard service.
type Handler struct {
	deps    api.Dependencies
	cookies api.Cookies
}

// NewHandler creates a page handler.
func NewHandler(deps api.Dependencies, cookies api.Cookies) *Handler {
	return &Handler{deps: deps, cookies: cookies}
}

// Register attaches the page routes to mux.
func (h *Handler) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/", api.MetricsMiddleware(h.HandleRoot, "page_root"))
	mux.HandleFunc("/login", api.MetricsMiddleware(h.HandleLogin, "page_login"))
	mux.HandleFunc("/profile", api.MetricsMiddleware(h.HandleProfile, "page_profile"))
	mux.HandleFunc("/logout", api.MetricsMiddleware(h.HandleLogout, "page_logout"))
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(FS())))
}

// HandleRoot sends / to the profile page; every other unknown path is a 404.
func (h *Handler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/profile", http.StatusFound)
}

type loginPage struct {
	Title    string
	Username string
	Error    string
}

// HandleLogin shows the form on GET and signs in on POST.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		render(w, r, http.StatusOK, "login", loginPage{Title: "Login"})
	case http.MethodPost:
		r.Body = http.MaxBytesReader(w, r.Body, maxFormBody)
		if err := r.ParseForm(); err != nil {
			render(w, r, http.StatusBadRequest, "login", loginPage{Title: "Login", Error: msgInvalidLogin})
			return
		}
		username := r.PostFormValue("username")
		sessionID, err := h.deps.Login(r.Context(), username, r.PostFormValue("password"))
		if err != nil {
			status, msg := http.StatusUnauthorized, msgInvalidLogin
			if !errors.Is(err, upstream.ErrInvalidCredentials) && !errors.Is(err, service.ErrMissingCredentials) {
				status, msg = http.StatusBadGateway, msgUnavailable
				logger.Get().Error(r.Context(), "sign-in failed", logger.Error(err))
			}
			render(w, r, status, "login", loginPage{Title: "Login", Username: username, Error: msg})
			return
		}
		h.cookies.Set(w, sessionID)
		http.Redirect(w, r, "/profile", http.StatusSeeOther)
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

type profilePage struct {
	Title     string
	D         service.Dashboard
	SkillsSVG template.HTML
	AuditsSVG template.HTML
}

type errorPage struct {
	Title string
	Error string
}

// HandleProfile renders the dashboard, or redirects to the sign-in page when
// there is no usable session.
func (h *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	sessionID := h.cookies.SessionID(r)
	d, err := h.deps.Dashboard(r.Context(), sessionID, 0)
	if err != nil {
		if errors.Is(err, service.ErrNoSession) {
			if sessionID != "" {
				h.cookies.Clear(w)
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		logger.Get().Error(r.Context(), "profile page failed", logger.Error(err))
		render(w, r, http.StatusBadGateway, "error", errorPage{Title: "Profile", Error: msgUnavailable})
		return
	}

	// svg.Render escapes every text node, so its output is safe to inline.
	render(w, r, http.StatusOK, "profile", profilePage{
		Title:     "Profile",
		D:         d,
		SkillsSVG: template.HTML(svg.Render(d.Radar.Drawing())), //nolint:gosec // escaped by svg.Render
		AuditsSVG: template.HTML(svg.Render(d.Audits.Drawing())), //nolint:gosec // escaped by svg.Render
	})
}

// HandleLogout ends the session and returns to the sign-in page.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	if id := h.cookies.SessionID(r); id != "" {
		h.deps.Logout(r.Context(), id)
	}
	h.cookies.Clear(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// render executes into a buffer first so a template error never produces a
// half-written page.
func render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		logger.Get().Error(r.Context(), "template failed", logger.String("template", name), logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
