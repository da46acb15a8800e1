// Package memory provides an in-process ports.StateStore with TTL-based
// eviction, so abandoned sessions do not grow memory without bound.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/quentel/fitflow/pkg/domain"
)

type entry struct {
	state     *domain.WorkflowState
	expiresAt time.Time // zero means no expiry
}

// Store implements ports.StateStore backed by a map.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]entry
	ttl      time.Duration
	now      func() time.Time
}

// Option configures the Store.
type Option func(*Store)

// WithTTL sets the session expiry. Zero (the default) disables eviction.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates an empty in-memory store.
func New(opts ...Option) *Store {
	s := &Store{
		sessions: make(map[string]entry),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save stores a deep copy of the state so later mutations by the caller
// cannot corrupt the checkpoint.
func (s *Store) Save(ctx context.Context, sessionID string, state *domain.WorkflowState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := entry{state: state.Clone()}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}
	s.sessions[sessionID] = e
	return nil
}

// Load returns a deep copy of the stored state.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.WorkflowState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if s.expired(e) {
		delete(s.sessions, sessionID)
		return nil, domain.ErrSessionNotFound
	}
	return e.state.Clone(), nil
}

// Delete removes the session. Unknown IDs are a no-op.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// List returns live session IDs, evicting expired ones as it goes.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.sessions))
	for id, e := range s.sessions {
		if s.expired(e) {
			delete(s.sessions, id)
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Store) expired(e entry) bool {
	return !e.expiresAt.IsZero() && s.now().After(e.expiresAt)
}
