// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - New(ctx) builds a Config with defaults; Load layers overrides on top.
//   - Durations are stored as integers in the unit named by the key suffix.
//   - Errors returned from Load wrap ErrLoadConfig or ErrInvalidConfig.
package config

import (
	"context"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// APIBaseURL is the platform root; sign-in and GraphQL paths hang off it.
	APIBaseURL  string `koanf:"api_base_url"`
	SignInPath  string `koanf:"signin_path"`
	GraphQLPath string `koanf:"graphql_path"`

	// UpstreamTimeoutMS bounds every platform call.
	UpstreamTimeoutMS int `koanf:"upstream_timeout_ms"`

	// ModulePath scopes progress and XP queries, e.g. /bahrain/bh-module.
	ModulePath string `koanf:"module_path"`

	RecentProjectsLimit int `koanf:"recent_projects_limit"`
	AuditHistoryLimit   int `koanf:"audit_history_limit"`

	// SessionCookie names the cookie carrying the opaque session id.
	SessionCookie     string `koanf:"session_cookie"`
	SessionTTLMinutes int    `koanf:"session_ttl_minutes"`
	MaxSessions       int    `koanf:"max_sessions"`
	CookieSecure      bool   `koanf:"cookie_secure"`

	// ProfileCacheTTLSeconds controls snapshot caching; 0 disables it.
	ProfileCacheTTLSeconds int `koanf:"profile_cache_ttl_seconds"`

	// RedisAddr selects the Redis snapshot cache; empty means in-process memory.
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	// Canvas sizes used when a request does not supply its own width.
	ChartWidth  int `koanf:"chart_width"`
	RadarHeight int `koanf:"radar_height"`
}

// New creates a Config populated with defaults. Context is accepted first to
// follow the project-wide convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:               "info",
		Addr:                   ":8080",
		APIBaseURL:             "https://learn.reboot01.com",
		SignInPath:             "/api/auth/signin",
		GraphQLPath:            "/api/graphql-engine/v1/graphql",
		UpstreamTimeoutMS:      10_000,
		ModulePath:             "/bahrain/bh-module",
		RecentProjectsLimit:    5,
		AuditHistoryLimit:      5,
		SessionCookie:          "profile_session",
		SessionTTLMinutes:      60,
		MaxSessions:            10_000,
		ProfileCacheTTLSeconds: 60,
		ChartWidth:             600,
		RadarHeight:            300,
	}
}

// UpstreamTimeout returns the platform call timeout.
func (c *Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.UpstreamTimeoutMS) * time.Millisecond
}

// SessionTTL returns the session lifetime.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// ProfileCacheTTL returns the snapshot cache lifetime.
func (c *Config) ProfileCacheTTL() time.Duration {
	return time.Duration(c.ProfileCacheTTLSeconds) * time.Second
}

// SignInURL joins the base URL and the sign-in path.
func (c *Config) SignInURL() string { return c.APIBaseURL + c.SignInPath }

// GraphQLURL joins the base URL and the GraphQL path.
func (c *Config) GraphQLURL() string { return c.APIBaseURL + c.GraphQLPath }
