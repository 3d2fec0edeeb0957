package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryEntry struct {
	sess    Session
	expires time.Time
}

// MemoryStore is the fallback used when Redis cannot be reached at startup.
// Sessions do not survive a restart.  Expired entries are dropped lazily on
// read; a portal of this size does not need a sweeper goroutine.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time // overridable in tests
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Create(_ context.Context, sess *Session) (string, error) {
	id := uuid.NewString()
	s.mu.Lock()
	s.entries[id] = memoryEntry{sess: *sess, expires: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return id, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, nil
	}
	if s.now().After(e.expires) {
		delete(s.entries, id)
		return nil, nil
	}
	// Sliding expiry: every hit pushes the window forward.
	e.expires = s.now().Add(s.ttl)
	s.entries[id] = e
	sess := e.sess
	return &sess, nil
}

func (s *MemoryStore) Destroy(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
	return nil
}
