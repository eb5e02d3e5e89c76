// Package probe signs in against the platform from the command line, builds
// the dashboard once and writes the rendered charts to disk.
package probe

import "time"

// Config holds configuration for a probe run.
type Config struct {
	BaseURL    string        // Platform root URL
	ModulePath string        // Module scoping progress and XP, e.g. /bahrain/bh-module
	Username   string        // Username or email
	Password   string        // Password; read from PROFILE_PROBE_PASSWORD when empty
	Width      float64       // Canvas width for both charts
	Height     float64       // Radar canvas height
	Timeout    time.Duration // Per-request platform timeout
	OutDir     string        // Directory receiving the output files
	Verbose    bool          // Log the full dashboard summary
}

// Summary describes what a run produced.
type Summary struct {
	Login      string
	XP         string
	AuditRatio string
	Skills     int
	Skipped    int
	Files      []string
	Duration   time.Duration
}
