package session

import (
	"sync"
	"time"

	"github.com/matzehuels/linegraph/pkg/errors"
)

// Store is a concurrency-safe set of live sessions.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	limit    int
	now      func() time.Time
}

// NewStore creates a store that expires sessions idle for longer than ttl
// and holds at most limit sessions. Zero values select the defaults.
func NewStore(ttl time.Duration, limit int) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if limit <= 0 {
		limit = DefaultMax
	}
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		limit:    limit,
		now:      time.Now,
	}
}

// Add registers s. Expired sessions are removed first; a full store is an
// error.
func (st *Store) Add(s *Session) error {
	st.Cleanup()
	st.mu.Lock()
	defer st.mu.Unlock()
	if len(st.sessions) >= st.limit {
		return errors.New(errors.ErrCodeUnavailable, "session limit of %d reached", st.limit)
	}
	st.sessions[s.ID] = s
	return nil
}

// Get returns the live session with id.
func (st *Store) Get(id string) (*Session, error) {
	if err := errors.ValidateSessionID(id); err != nil {
		return nil, err
	}
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %s not found", id)
	}
	if st.expired(s) {
		st.remove(id)
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %s expired", id)
	}
	return s, nil
}

// Delete closes and removes the session with id.
func (st *Store) Delete(id string) error {
	if err := errors.ValidateSessionID(id); err != nil {
		return err
	}
	if !st.remove(id) {
		return errors.New(errors.ErrCodeSessionNotFound, "session %s not found", id)
	}
	return nil
}

// Cleanup closes and removes every expired session and returns how many
// were removed.
func (st *Store) Cleanup() int {
	st.mu.RLock()
	var stale []string
	for id, s := range st.sessions {
		if st.expired(s) {
			stale = append(stale, id)
		}
	}
	st.mu.RUnlock()

	n := 0
	for _, id := range stale {
		if st.remove(id) {
			n++
		}
	}
	return n
}

// Len returns the number of registered sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Close closes and removes every session.
func (st *Store) Close() {
	st.mu.Lock()
	sessions := st.sessions
	st.sessions = make(map[string]*Session)
	st.mu.Unlock()
	for _, s := range sessions {
		s.Close()
	}
}

func (st *Store) expired(s *Session) bool {
	return st.now().Sub(s.LastUsed()) > st.ttl
}

func (st *Store) remove(id string) bool {
	st.mu.Lock()
	s, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()
	if ok {
		s.Close()
	}
	return ok
}
