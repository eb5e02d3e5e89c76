// Package service provides the dashboard service that implements the
// dependencies required by the HTTP API and the HTML pages.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/The-Tifo/Graphql/internal/adapters/cache"
	"github.com/The-Tifo/Graphql/internal/adapters/session"
	"github.com/The-Tifo/Graphql/internal/adapters/upstream"
	"github.com/The-Tifo/Graphql/internal/domain/model"
	"github.com/The-Tifo/Graphql/pkg/logger"
	"github.com/The-Tifo/Graphql/pkg/metrics"
)

const snapshotKeyPrefix = "snapshot:"

// sharedFetchTimeout bounds a platform fetch shared by concurrent callers.
const sharedFetchTimeout = 30 * time.Second

// Platform is the subset of the platform client the service needs.
type Platform interface {
	SignIn(ctx context.Context, username, password string) (string, error)
	FetchSnapshot(ctx context.Context, token string) (model.Snapshot, error)
}

// Service signs users in, keeps their tokens server-side and builds
// dashboards from platform snapshots.
type Service struct {
	mu sync.RWMutex

	// Core components
	platform Platform
	sessions session.Store
	cache    cache.Cache
	group    singleflight.Group

	// Configuration
	cacheTTL    time.Duration
	maxSessions int
	sessionTTL  time.Duration
	chartWidth  float64
	radarHeight float64
	newID       func() string

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithPlatform sets the platform client.
func WithPlatform(p Platform) Option {
	return func(s *Service) {
		if p != nil {
			s.platform = p
		}
	}
}

// WithSessionStore sets the session store. Without one, Start creates an
// in-memory store sized by WithSessionLimits.
func WithSessionStore(store session.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.sessions = store
		}
	}
}

// WithSessionLimits sizes the default in-memory session store.
func WithSessionLimits(maxSessions int, ttl time.Duration) Option {
	return func(s *Service) {
		if maxSessions > 0 {
			s.maxSessions = maxSessions
		}
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithCache sets the snapshot cache. Without one, Start uses an in-process cache.
func WithCache(c cache.Cache) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithCacheTTL sets how long snapshots are reused. Zero disables caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl >= 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithChartSize sets the default canvas used when a request gives no width.
func WithChartSize(width, radarHeight float64) Option {
	return func(s *Service) {
		if width > 0 {
			s.chartWidth = width
		}
		if radarHeight > 0 {
			s.radarHeight = radarHeight
		}
	}
}

// WithIDGenerator replaces the session id generator, for tests.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		cacheTTL:    time.Minute,
		maxSessions: 10_000,
		sessionTTL:  time.Hour,
		chartWidth:  600,
		radarHeight: 300,
		newID:       uuid.NewString,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start fills in default components that were not supplied as options.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.platform == nil {
		return ErrNoPlatform
	}
	if s.sessions == nil {
		s.sessions = session.NewInMemoryStore(
			session.WithMaxSize(s.maxSessions),
			session.WithTTL(s.sessionTTL),
		)
	}
	if s.cache == nil {
		s.cache = cache.NewMemory(nil)
	}

	s.started = true
	s.logger.Info(ctx, "dashboard service started",
		logger.String("cache", s.cache.Name()),
		logger.Float64("cacheTTLSeconds", s.cacheTTL.Seconds()),
		logger.Float64("chartWidth", s.chartWidth),
	)
	return nil
}

// Stop releases the cache connection.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if err := s.cache.Close(); err != nil {
		s.logger.Warn(context.Background(), "closing cache failed", logger.Error(err))
	}
	s.started = false
	s.logger.Info(context.Background(), "dashboard service stopped")
}

func (s *Service) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// Login signs in against the platform and returns a new session id.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		metrics.RecordLogin("invalid_input")
		return "", ErrMissingCredentials
	}

	token, err := s.platform.SignIn(ctx, username, password)
	if err != nil {
		outcome := "error"
		if errors.Is(err, upstream.ErrInvalidCredentials) {
			outcome = "rejected"
		}
		metrics.RecordLogin(outcome)
		return "", fmt.Errorf("sign in: %w", err)
	}

	id := s.newID()
	s.sessions.Put(ctx, id, token)
	metrics.RecordLogin("ok")
	s.logger.Info(ctx, "user signed in", logger.Int64("sessions", s.sessions.Size()))
	return id, nil
}

// Logout forgets the session. Unknown ids are ignored.
func (s *Service) Logout(ctx context.Context, sessionID string) {
	if err := s.ready(); err != nil || sessionID == "" {
		return
	}
	s.sessions.Delete(ctx, sessionID)
}

// token resolves a session id to its platform token.
func (s *Service) token(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return "", ErrNoSession
	}
	token, ok := s.sessions.Get(ctx, sessionID)
	if !ok {
		return "", ErrNoSession
	}
	return token, nil
}

// snapshot returns the platform snapshot for token, reusing a cached copy
// when one is fresh. Concurrent misses for the same token share one fetch.
func (s *Service) snapshot(ctx context.Context, token string) (model.Snapshot, bool, error) {
	key := snapshotKey(token)

	if s.cacheTTL > 0 {
		var snap model.Snapshot
		hit, err := s.cache.Get(ctx, key, &snap)
		if err != nil {
			metrics.RecordCacheError("get")
			s.logger.Warn(ctx, "snapshot cache read failed", logger.String("backend", s.cache.Name()), logger.Error(err))
		}
		metrics.RecordCacheLookup(hit)
		if hit {
			return snap, true, nil
		}
	}

	// The shared fetch outlives any single caller: it runs detached from the
	// request that started it, and each caller waits on its own context.
	ch := s.group.DoChan(key, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedFetchTimeout)
		defer cancel()
		snap, err := s.platform.FetchSnapshot(fetchCtx, token)
		if err != nil {
			return model.Snapshot{}, err
		}
		if s.cacheTTL > 0 {
			if err := s.cache.Set(fetchCtx, key, snap, s.cacheTTL); err != nil {
				metrics.RecordCacheError("set")
				s.logger.Warn(fetchCtx, "snapshot cache write failed", logger.String("backend", s.cache.Name()), logger.Error(err))
			}
		}
		return snap, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return model.Snapshot{}, false, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return model.Snapshot{}, false, res.Err
	}
	return res.Val.(model.Snapshot), false, nil
}

// snapshotKey hashes the token so raw credentials never reach the cache.
func snapshotKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return snapshotKeyPrefix + hex.EncodeToString(sum[:])
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":         s.started,
		"cacheTTLSeconds": s.cacheTTL.Seconds(),
		"chartWidth":      s.chartWidth,
		"radarHeight":     s.radarHeight,
	}

	if s.started {
		sessions := s.sessions.Size()
		stats["sessions"] = sessions
		stats["cacheBackend"] = s.cache.Name()
		metrics.UpdateActiveSessions(sessions)
	}

	return stats
}
