package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/The-Tifo/Graphql/internal/adapters/svg"
	"github.com/The-Tifo/Graphql/internal/adapters/upstream"
	service "github.com/The-Tifo/Graphql/internal/app"
	"github.com/The-Tifo/Graphql/pkg/logger"
)

// Errors returned by Run.
var (
	ErrMissingUser     = errors.New("username is required")
	ErrMissingPassword = errors.New("password is required")
)

// Run signs in, builds the dashboard and writes the output files.
func Run(ctx context.Context, cfg *Config) (*Summary, error) {
	start := time.Now()
	log := logger.Named("probe")

	if cfg.Username == "" {
		return nil, ErrMissingUser
	}
	password := cfg.Password
	if password == "" {
		password = os.Getenv(PasswordEnv)
	}
	if password == "" {
		return nil, ErrMissingPassword
	}

	log.Info(ctx, "starting profile probe",
		logger.String("baseURL", cfg.BaseURL),
		logger.String("module", cfg.ModulePath),
		logger.String("user", cfg.Username),
		logger.String("outDir", cfg.OutDir),
	)

	opts := []upstream.Option{
		upstream.WithBaseURL(cfg.BaseURL),
		upstream.WithLogger(log),
	}
	if cfg.ModulePath != "" {
		opts = append(opts, upstream.WithModulePath(cfg.ModulePath))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, upstream.WithTimeout(cfg.Timeout))
	}

	svc := service.New(
		service.WithLogger(log),
		service.WithPlatform(upstream.New(opts...)),
		service.WithChartSize(cfg.Width, cfg.Height),
		service.WithCacheTTL(0),
	)
	if err := svc.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start service: %w", err)
	}
	defer svc.Stop()

	sessionID, err := svc.Login(ctx, cfg.Username, password)
	if err != nil {
		return nil, fmt.Errorf("sign-in failed: %w", err)
	}
	defer svc.Logout(context.Background(), sessionID)

	d, err := svc.Dashboard(ctx, sessionID, cfg.Width)
	if err != nil {
		return nil, fmt.Errorf("dashboard failed: %w", err)
	}

	files, err := writeOutputs(cfg.OutDir, d)
	if err != nil {
		return nil, err
	}

	sum := &Summary{
		Login:      d.Login,
		XP:         d.XP,
		AuditRatio: d.AuditRatio,
		Skills:     len(d.Skills),
		Skipped:    d.SkillReport.Skipped,
		Files:      files,
		Duration:   time.Since(start),
	}
	logSummary(ctx, log, sum, d, cfg.Verbose)
	return sum, nil
}

func writeOutputs(dir string, d service.Dashboard) ([]string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, directoryPermission); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	body, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode dashboard: %w", err)
	}

	outputs := []struct {
		name string
		data []byte
	}{
		{SkillsFile, []byte(svg.Render(d.Radar.Drawing()))},
		{AuditsFile, []byte(svg.Render(d.Audits.Drawing()))},
		{DashboardFile, body},
	}
	files := make([]string, 0, len(outputs))
	for _, o := range outputs {
		path := filepath.Join(dir, o.name)
		if err := os.WriteFile(path, o.data, filePermission); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", o.name, err)
		}
		files = append(files, path)
	}
	return files, nil
}

func logSummary(ctx context.Context, log logger.Logger, sum *Summary, d service.Dashboard, verbose bool) {
	log.Info(ctx, "probe completed",
		logger.String("login", sum.Login),
		logger.String("xp", sum.XP),
		logger.String("auditRatio", sum.AuditRatio),
		logger.Int("skills", sum.Skills),
		logger.Int("skippedSamples", sum.Skipped),
		logger.String("duration", sum.Duration.String()),
	)
	if !verbose {
		return
	}
	for _, s := range d.Skills {
		log.Debug(ctx, "skill", logger.String("name", s.Name), logger.Float64("value", s.Value))
	}
	for _, p := range d.RecentProjects {
		log.Debug(ctx, "recent project", logger.String("name", p))
	}
	for _, a := range d.AuditHistory {
		log.Debug(ctx, "audit", logger.String("label", a.Label), logger.String("status", a.Status))
	}
}
