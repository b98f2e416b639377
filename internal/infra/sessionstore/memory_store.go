// Package sessionstore keeps conversation sessions in process memory.
package sessionstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/smartchef/internal/domain/session"
)

type slot struct {
	mu   sync.Mutex
	sess session.Session
	gone bool
}

// MemoryStore holds sessions in a map with one mutex per session.
type MemoryStore struct {
	mu    sync.RWMutex
	slots map[uuid.UUID]*slot
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[uuid.UUID]*slot)}
}

// Create implements session.Store.
func (s *MemoryStore) Create(_ context.Context, sess session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.slots[sess.ID]; exists {
		return fmt.Errorf("session %s already exists", sess.ID)
	}
	s.slots[sess.ID] = &slot{sess: sess.Clone()}
	return nil
}

// Get implements session.Store.
func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (session.Session, error) {
	sl, ok := s.lookup(id)
	if !ok {
		return session.Session{}, session.ErrNotFound
	}
	sl.mu.Lock()
	defer sl.mu.Unlock()
	if sl.gone {
		return session.Session{}, session.ErrNotFound
	}
	return sl.sess.Clone(), nil
}

// Update applies fn to a working copy under the session lock; the copy replaces the
// stored session only when fn succeeds.
func (s *MemoryStore) Update(_ context.Context, id uuid.UUID, fn func(*session.Session) error) (session.Session, error) {
	sl, ok := s.lookup(id)
	if !ok {
		return session.Session{}, session.ErrNotFound
	}
	sl.mu.Lock()
	defer sl.mu.Unlock()
	if sl.gone {
		return session.Session{}, session.ErrNotFound
	}
	working := sl.sess.Clone()
	if err := fn(&working); err != nil {
		return session.Session{}, err
	}
	working.ID = id
	sl.sess = working
	return working.Clone(), nil
}

// Delete implements session.Store.
func (s *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	sl, ok := s.slots[id]
	delete(s.slots, id)
	s.mu.Unlock()
	if !ok {
		return session.ErrNotFound
	}
	sl.mu.Lock()
	sl.gone = true
	sl.mu.Unlock()
	return nil
}

// DeleteIdle removes sessions whose last activity is before the cutoff.
func (s *MemoryStore) DeleteIdle(_ context.Context, before time.Time) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed []uuid.UUID
	for id, sl := range s.slots {
		if !sl.mu.TryLock() {
			// busy sessions are active by definition
			continue
		}
		if sl.sess.LastActiveAt.Before(before) {
			sl.gone = true
			delete(s.slots, id)
			removed = append(removed, id)
		}
		sl.mu.Unlock()
	}
	return removed, nil
}

// Count implements session.Store.
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.slots)
}

func (s *MemoryStore) lookup(id uuid.UUID) (*slot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sl, ok := s.slots[id]
	return sl, ok
}

var _ session.Store = (*MemoryStore)(nil)
