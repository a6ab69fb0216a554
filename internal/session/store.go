package session

import (
	"sync"
	"time"
)

// abandonedGrace is how long an expired session stays claimable, so a caller
// returning late still receives the auto-submitted result. Sessions past the
// grace window are swept on the next Put.
const abandonedGrace = time.Hour

// Store holds in-flight sessions keyed by session id. Session state is never
// shared across users; the store only guards the map itself.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Put stores the session and sweeps abandoned ones, keeping the map bounded
// by the number of sessions started within the grace window.
func (s *Store) Put(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, existing := range s.sessions {
		if existing.Abandoned(now, abandonedGrace) {
			delete(s.sessions, id)
		}
	}
	s.sessions[sess.ID] = sess
}

func (s *Store) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
