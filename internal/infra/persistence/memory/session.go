package memory

import (
	"context"
	"sync"

	"campuscore/pkg/domain"
)

var _ domain.SessionStore = (*SessionStore)(nil)

// SessionStore keeps the session pointer in process memory. It backs tests and
// the pure in-memory driver; durable drivers persist the pointer themselves.
type SessionStore struct {
	mu      sync.RWMutex
	pointer domain.SessionPointer
	set     bool
}

// NewSessionStore constructs an empty in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

// SaveSession replaces the stored pointer.
func (s *SessionStore) SaveSession(_ context.Context, pointer domain.SessionPointer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pointer = pointer
	s.set = true
	return nil
}

// LoadSession returns the stored pointer, reporting whether one is set.
func (s *SessionStore) LoadSession(_ context.Context) (domain.SessionPointer, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pointer, s.set, nil
}

// ClearSession removes the stored pointer. Clearing an empty store is a no-op.
func (s *SessionStore) ClearSession(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pointer = domain.SessionPointer{}
	s.set = false
	return nil
}
