package session

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

type memoryStore struct {
	mu       sync.RWMutex
	clock    clockwork.Clock
	sessions map[int64]*Session
}

// NewMemoryStore constructs the in-memory Store used in production; sessions
// do not survive a restart. The clock is injected so expiry is testable.
func NewMemoryStore(clock clockwork.Clock) Store {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &memoryStore{
		clock:    clock,
		sessions: make(map[int64]*Session),
	}
}

// Create installs a fresh Collecting session, replacing any existing one.
func (m *memoryStore) Create(userID int64) *Session {
	now := m.clock.Now()
	s := &Session{
		UserID:    userID,
		State:     StateCollecting,
		CreatedAt: now,
		UpdatedAt: now,
	}

	m.mu.Lock()
	m.sessions[userID] = s
	m.mu.Unlock()

	return s.Clone()
}

// Get returns a copy of the session so concurrent users never observe each
// other's mutations through a shared slice.
func (m *memoryStore) Get(userID int64) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[userID]
	if !ok {
		return nil, false
	}
	return s.Clone(), true
}

// Replace swaps in a new session value for the user.
func (m *memoryStore) Replace(userID int64, s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s == nil {
		delete(m.sessions, userID)
		return
	}
	m.sessions[userID] = s.Clone()
}

// Delete removes the session for a user.
func (m *memoryStore) Delete(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, userID)
}

// Len reports the number of active sessions.
func (m *memoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Stale lists users whose sessions were last touched before cutoff.
func (m *memoryStore) Stale(cutoff time.Time) []int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ids []int64
	for id, s := range m.sessions {
		if s.UpdatedAt.Before(cutoff) {
			ids = append(ids, id)
		}
	}
	return ids
}
