package upstream

import (
	"net/http"
	"strings"
	"time"

	"github.com/The-Tifo/Graphql/pkg/logger"
)

// Option configures the Client.
type Option func(*Client)

// WithBaseURL sets the platform root, e.g. https://learn.reboot01.com.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithSignInPath sets the sign-in endpoint path.
func WithSignInPath(p string) Option {
	return func(c *Client) {
		if p != "" {
			c.signInPath = p
		}
	}
}

// WithGraphQLPath sets the GraphQL endpoint path.
func WithGraphQLPath(p string) Option {
	return func(c *Client) {
		if p != "" {
			c.graphQLPath = p
		}
	}
}

// WithModulePath scopes XP and project queries to a curriculum path.
func WithModulePath(p string) Option {
	return func(c *Client) {
		if p != "" {
			c.modulePath = strings.TrimRight(p, "/")
		}
	}
}

// WithRecentProjectsLimit caps the recent projects list.
func WithRecentProjectsLimit(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.recentLimit = n
		}
	}
}

// WithAuditHistoryLimit caps the audit history list.
func WithAuditHistoryLimit(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.auditLimit = n
		}
	}
}

// WithTimeout bounds every request made by the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the HTTP client. Its own timeout is used as is.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}
