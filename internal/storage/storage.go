package storage

import (
	"sync"
	"time"

	"github.com/anipix/anipix/internal/discovery"
	"github.com/google/uuid"
)

type entry struct {
	session  *discovery.Session
	lastSeen time.Time
}

// SessionStore keeps the discovery sessions of connected browsers in memory.
// Nothing is persisted; sessions end when evicted or when the process exits.
type SessionStore struct {
	sessions   map[string]*entry
	mu         sync.RWMutex
	newSession func() *discovery.Session
	clock      func() time.Time
}

// New creates a store that builds sessions with newSession
func New(newSession func() *discovery.Session) *SessionStore {
	return &SessionStore{
		sessions:   make(map[string]*entry),
		newSession: newSession,
		clock:      time.Now,
	}
}

// Create starts a new session and returns its ID
func (s *SessionStore) Create() (string, *discovery.Session) {
	id := uuid.NewString()
	session := s.newSession()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = &entry{session: session, lastSeen: s.clock()}
	return id, session
}

// Get returns the session for sessionID and marks it as recently used
func (s *SessionStore) Get(sessionID string) (*discovery.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, exists := s.sessions[sessionID]
	if !exists {
		return nil, false
	}
	e.lastSeen = s.clock()
	return e.session, true
}

// Len returns the number of live sessions
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Delete ends a session
func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Sweep removes sessions idle for longer than maxIdle and returns how many
// were removed
func (s *SessionStore) Sweep(maxIdle time.Duration) int {
	cutoff := s.clock().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}
