package session

import "time"

// Option applies a configuration option to the in-memory store.
type Option func(*inMemoryStore)

// WithMaxSize sets the maximum number of sessions kept in memory.
// If maxSize > 0 the oldest session is evicted to make room.
// If maxSize <= 0 the store is unbounded.
func WithMaxSize(maxSize int) Option {
	return func(s *inMemoryStore) {
		s.maxSize = maxSize
	}
}

// WithTTL sets how long a session stays valid after it is stored.
// A non-positive TTL keeps sessions until they are deleted or evicted.
func WithTTL(ttl time.Duration) Option {
	return func(s *inMemoryStore) {
		s.ttl = ttl
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *inMemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}
