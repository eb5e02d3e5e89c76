package api

import (
	"net/http"
	"time"
)

// Cookies describes the session cookie shared by the API and the pages.
type Cookies struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

// DefaultCookies returns the cookie settings used when none are configured.
func DefaultCookies() Cookies {
	return Cookies{Name: "profile_session", TTL: time.Hour}
}

// Set writes the session id cookie.
func (c Cookies) Set(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(c.TTL.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires the session cookie.
func (c Cookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionID reads the session id from r, or "" when absent.
func (c Cookies) SessionID(r *http.Request) string {
	ck, err := r.Cookie(c.Name)
	if err != nil {
		return ""
	}
	return ck.Value
}
