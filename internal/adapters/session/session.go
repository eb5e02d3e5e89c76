// Package session keeps platform tokens server-side behind opaque session ids.
package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/The-Tifo/Graphql/pkg/metrics"
)

// Store maps session ids to platform tokens.
type Store interface {
	// Put stores token under id, replacing any previous value and
	// restarting its TTL.
	Put(ctx context.Context, id, token string)

	// Get returns the token for id. Expired sessions are removed and
	// reported as missing.
	Get(ctx context.Context, id string) (string, bool)

	// Delete removes id. Deleting a missing id is a no-op.
	Delete(ctx context.Context, id string)

	Size() int64
}

// node is a single session in the linked list.
type node struct {
	id      string
	token   string
	expires time.Time
	next    *node
}

func (n *node) reset() {
	n.id = ""
	n.token = ""
	n.expires = time.Time{}
	n.next = nil
}

// inMemoryStore keeps sessions in a map plus a singly linked list ordered
// newest first. When maxSize is reached the tail (oldest) is evicted.
type inMemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*node
	head     *node
	maxSize  int
	ttl      time.Duration
	now      func() time.Time
	size     atomic.Int64
	nodePool sync.Pool
}

// NewInMemoryStore creates a session store with configuration options.
func NewInMemoryStore(opts ...Option) Store {
	s := &inMemoryStore{
		maxSize: 10_000,
		ttl:     time.Hour,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.sessions = make(map[string]*node)
	s.nodePool = sync.Pool{
		New: func() interface{} {
			return &node{}
		},
	}
	return s
}

func (s *inMemoryStore) Put(_ context.Context, id, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[id]; exists {
		s.remove(id)
	}
	if s.maxSize > 0 && len(s.sessions) >= s.maxSize {
		s.evictOldest()
	}

	n := s.nodePool.Get().(*node)
	n.id = id
	n.token = token
	if s.ttl > 0 {
		n.expires = s.now().Add(s.ttl)
	}
	n.next = s.head
	s.head = n
	s.sessions[id] = n
	s.size.Add(1)
	metrics.UpdateActiveSessions(s.size.Load())
}

func (s *inMemoryStore) Get(_ context.Context, id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, exists := s.sessions[id]
	if !exists {
		return "", false
	}
	if !n.expires.IsZero() && !s.now().Before(n.expires) {
		s.remove(id)
		metrics.UpdateActiveSessions(s.size.Load())
		return "", false
	}
	return n.token, true
}

func (s *inMemoryStore) Delete(_ context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.remove(id) {
		metrics.UpdateActiveSessions(s.size.Load())
	}
}

// remove unlinks id. Must be called with s.mu held.
func (s *inMemoryStore) remove(id string) bool {
	target, exists := s.sessions[id]
	if !exists {
		return false
	}
	delete(s.sessions, id)

	if s.head == target {
		s.head = target.next
	} else {
		current := s.head
		for current != nil && current.next != target {
			current = current.next
		}
		if current != nil {
			current.next = target.next
		}
	}

	target.reset()
	s.nodePool.Put(target)
	s.size.Add(-1)
	return true
}

// evictOldest removes the tail of the list. Must be called with s.mu held.
func (s *inMemoryStore) evictOldest() {
	if s.head == nil {
		return
	}
	tail := s.head
	for tail.next != nil {
		tail = tail.next
	}
	s.remove(tail.id)
}

// Size returns the current number of sessions, expired ones included until
// they are looked up or evicted.
func (s *inMemoryStore) Size() int64 {
	return s.size.Load()
}
