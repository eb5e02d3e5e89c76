package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/The-Tifo/Graphql/internal/adapters/upstream"
	"github.com/The-Tifo/Graphql/internal/domain/chart"
	"github.com/The-Tifo/Graphql/internal/domain/model"
	"github.com/The-Tifo/Graphql/internal/domain/skills"
	"github.com/The-Tifo/Graphql/pkg/logger"
	"github.com/The-Tifo/Graphql/pkg/metrics"
)

// Display strings shared with the HTML pages.
const (
	NoRecentProjects = "No recent projects"
	AuditPassed      = "Pass"

	// maxChartWidth keeps a caller-supplied width within a sane canvas.
	maxChartWidth = 4000
)

// AuditRow is one line of the audit history.
type AuditRow struct {
	Label     string    `json:"label"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Dashboard is everything the profile page shows.
type Dashboard struct {
	UserID         int64             `json:"user_id"`
	Login          string            `json:"login"`
	DisplayName    string            `json:"display_name"`
	XP             string            `json:"xp"`
	Skills         []skills.Scaled   `json:"skills"`
	SkillReport    skills.Report     `json:"skill_report"`
	Radar          chart.RadarLayout `json:"radar"`
	Audits         chart.BarLayout   `json:"audits"`
	AuditRatio     string            `json:"audit_ratio"`
	RecentProjects []string          `json:"recent_projects"`
	AuditHistory   []AuditRow        `json:"audit_history"`
	FetchedAt      time.Time         `json:"fetched_at"`
	Cached         bool              `json:"cached"`
}

// Dashboard builds the dashboard for a session. A width of zero (or any
// non-positive or non-finite value) uses the configured chart width.
// A token the platform no longer accepts ends the session.
func (s *Service) Dashboard(ctx context.Context, sessionID string, width float64) (Dashboard, error) {
	if err := s.ready(); err != nil {
		return Dashboard{}, err
	}
	token, err := s.token(ctx, sessionID)
	if err != nil {
		return Dashboard{}, err
	}

	snap, cached, err := s.snapshot(ctx, token)
	if err != nil {
		if errors.Is(err, upstream.ErrUnauthorized) {
			s.sessions.Delete(ctx, sessionID)
			s.logger.Info(ctx, "platform rejected session token, session dropped")
			return Dashboard{}, fmt.Errorf("%w: %w", ErrNoSession, err)
		}
		return Dashboard{}, fmt.Errorf("fetch snapshot: %w", err)
	}

	d := s.build(ctx, snap, s.canvasWidth(width))
	d.Cached = cached
	return d, nil
}

func (s *Service) canvasWidth(width float64) float64 {
	if math.IsNaN(width) || math.IsInf(width, 0) || width <= 0 {
		return s.chartWidth
	}
	return math.Min(width, maxChartWidth)
}

// build turns a snapshot into display data. It does not touch the network.
func (s *Service) build(ctx context.Context, snap model.Snapshot, width float64) Dashboard {
	d := Dashboard{
		UserID:      snap.User.ID,
		Login:       snap.User.Login,
		DisplayName: snap.User.DisplayName(),
		XP:          chart.FormatXP(snap.XP),
		FetchedAt:   snap.FetchedAt,
	}

	samples, report, err := skills.ParseSamples(snap.Skills)
	if err != nil {
		metrics.RecordMalformedInput()
		s.logger.Warn(ctx, "skill payload is not a list, showing no skills",
			logger.String("login", snap.User.Login), logger.Error(err))
	}
	metrics.RecordSkippedSamples(report.Skipped)
	if report.Skipped > 0 {
		s.logger.Debug(ctx, "skipped malformed skill entries", logger.Int("skipped", report.Skipped))
	}
	d.SkillReport = report
	d.Skills = skills.Display(skills.TopSkills(samples))

	entries := make([]chart.RadarEntry, len(d.Skills))
	for i, sk := range d.Skills {
		entries[i] = chart.RadarEntry{Label: sk.Name, Value: sk.Value}
	}
	d.Radar = chart.Radar(entries, width, s.radarHeight)
	recordLayout("radar", d.Radar.Degenerate)

	d.Audits = chart.Bars(model.Balance(snap.User), width)
	recordLayout("bars", d.Audits.Degenerate)
	d.AuditRatio = d.Audits.Ratio

	d.RecentProjects = recentProjects(snap.RecentProjects)
	d.AuditHistory = auditRows(snap.Audits)
	return d
}

func recordLayout(name, degenerate string) {
	metrics.RecordChartRender(name)
	if degenerate != chart.DegenerateNone {
		metrics.RecordDegenerateGeometry(name, degenerate)
	}
}

// recentProjects numbers the projects from 1, or returns the fallback line.
func recentProjects(projects []model.Project) []string {
	if len(projects) == 0 {
		return []string{NoRecentProjects}
	}
	out := make([]string, len(projects))
	for i, p := range projects {
		out[i] = strconv.Itoa(i+1) + ". " + p.Name
	}
	return out
}

// auditRows labels each audit "captain - project". Only audits with a
// private code are fetched, and those are passes.
func auditRows(audits []model.Audit) []AuditRow {
	out := make([]AuditRow, len(audits))
	for i, a := range audits {
		out[i] = AuditRow{
			Label:     a.Captain + " - " + a.Project(),
			Status:    AuditPassed,
			CreatedAt: a.CreatedAt,
		}
	}
	return out
}
