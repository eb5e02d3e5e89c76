package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/The-Tifo/Graphql/internal/adapters/cache"
	"github.com/The-Tifo/Graphql/internal/adapters/http/api"
	"github.com/The-Tifo/Graphql/internal/adapters/http/site"
	"github.com/The-Tifo/Graphql/internal/adapters/http/swagger"
	"github.com/The-Tifo/Graphql/internal/adapters/upstream"
	app "github.com/The-Tifo/Graphql/internal/app"
	"github.com/The-Tifo/Graphql/internal/config"
	"github.com/The-Tifo/Graphql/pkg/logger"
	"github.com/The-Tifo/Graphql/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 30 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	redisDialTimeout          = 3 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx)
	stop()
	_ = logger.Sync()
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	loggerInstance := logger.Get()

	// Load configuration (defaults -> dotenv -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc, err := newService(ctx, cfg)
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start service: %w", err)
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, cfg, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("platform", cfg.APIBaseURL),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
	}
	loggerInstance.Info(context.Background(), "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(shutdownCtx, "server stopped")
	return nil
}

// newService wires the platform client and the snapshot cache from cfg.
func newService(ctx context.Context, cfg *config.Config) (*app.Service, error) {
	log := logger.Get()

	client := upstream.New(
		upstream.WithBaseURL(cfg.APIBaseURL),
		upstream.WithSignInPath(cfg.SignInPath),
		upstream.WithGraphQLPath(cfg.GraphQLPath),
		upstream.WithModulePath(cfg.ModulePath),
		upstream.WithRecentProjectsLimit(cfg.RecentProjectsLimit),
		upstream.WithAuditHistoryLimit(cfg.AuditHistoryLimit),
		upstream.WithTimeout(cfg.UpstreamTimeout()),
		upstream.WithLogger(log.Named("upstream")),
	)

	var snapshots cache.Cache = cache.NewMemory(nil)
	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedis(ctx,
			cache.WithAddress(cfg.RedisAddr),
			cache.WithPassword(cfg.RedisPassword),
			cache.WithDB(cfg.RedisDB),
			cache.WithDialTimeout(redisDialTimeout),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		snapshots = rc
	}

	return app.New(
		app.WithLogger(log.Named("dashboard")),
		app.WithPlatform(client),
		app.WithSessionLimits(cfg.MaxSessions, cfg.SessionTTL()),
		app.WithCache(snapshots),
		app.WithCacheTTL(cfg.ProfileCacheTTL()),
		app.WithChartSize(float64(cfg.ChartWidth), float64(cfg.RadarHeight)),
	), nil
}

// newHandler mounts the API, the pages and the docs on one mux.
func newHandler(ctx context.Context, cfg *config.Config, svc *app.Service) http.Handler {
	cookies := api.Cookies{
		Name:   cfg.SessionCookie,
		Secure: cfg.CookieSecure,
		TTL:    cfg.SessionTTL(),
	}

	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc, cookies).Register(ctx, mux)
	site.NewHandler(svc, cookies).Register(ctx, mux)

	return api.RequestIDMiddleware(mux)
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
