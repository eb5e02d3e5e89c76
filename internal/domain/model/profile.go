// Package model contains domain models passed between layers.
package model

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/The-Tifo/Graphql/internal/domain/chart"
)

// pointsPerUnit converts raw platform points into the display base unit.
const pointsPerUnit = 1000

// User is the signed-in platform user.
type User struct {
	ID        int64   `json:"id"`
	Login     string  `json:"login"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	TotalUp   float64 `json:"total_up"`   // audit points given
	TotalDown float64 `json:"total_down"` // audit points received
}

// DisplayName returns "First Last", trimmed when either part is missing.
func (u User) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Project is a recently completed project.
type Project struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Audit is one audit the user performed.
type Audit struct {
	CreatedAt time.Time `json:"created_at"`
	Path      string    `json:"path"`    // group path, e.g. /bahrain/bh-module/go-reloaded
	Captain   string    `json:"captain"` // login of the audited group's captain
	Code      string    `json:"code"`
}

// Project returns the last segment of the group path.
func (a Audit) Project() string {
	trimmed := strings.TrimRight(a.Path, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

// Snapshot is everything fetched for one dashboard render. It is cached as JSON.
type Snapshot struct {
	User           User            `json:"user"`
	XP             *float64        `json:"xp,omitempty"`
	Skills         json.RawMessage `json:"skills"`
	RecentProjects []Project       `json:"recent_projects"`
	Audits         []Audit         `json:"audits"`
	FetchedAt      time.Time       `json:"fetched_at"`
}

// Balance converts the user's audit totals into the chart base unit.
func Balance(u User) chart.AuditBalance {
	return chart.AuditBalance{
		Given:    u.TotalUp / pointsPerUnit,
		Received: u.TotalDown / pointsPerUnit,
	}
}
