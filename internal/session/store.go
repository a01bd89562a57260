package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store maps session IDs to sessions and expires idle ones.
type Store struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	ttl         time.Duration
	maxDatasets int
	now         func() time.Time
}

// NewStore creates a store. Sessions idle for longer than ttl are removed
// by Sweep; maxDatasets <= 0 means no per-session limit.
func NewStore(ttl time.Duration, maxDatasets int) *Store {
	return &Store{
		sessions:    make(map[string]*Session),
		ttl:         ttl,
		maxDatasets: maxDatasets,
		now:         time.Now,
	}
}

// Create starts a new session with a random ID.
func (st *Store) Create() *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	s := newSession(uuid.NewString(), st.now(), st.maxDatasets)
	st.sessions[s.ID] = s
	return s
}

// Get returns the session and marks it as used.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		return nil, false
	}
	if st.expired(s) {
		delete(st.sessions, id)
		return nil, false
	}
	s.lastSeen = st.now()
	return s, true
}

// Delete removes a session.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

func (st *Store) expired(s *Session) bool {
	return st.ttl > 0 && st.now().Sub(s.lastSeen) > st.ttl
}

// Sweep removes expired sessions and returns how many were removed.
func (st *Store) Sweep() int {
	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, s := range st.sessions {
		if st.expired(s) {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// StartJanitor sweeps expired sessions every interval until ctx is done.
func (st *Store) StartJanitor(ctx context.Context, interval time.Duration) {
	slog.Info("session janitor started", "interval", interval, "ttl", st.ttl)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session janitor stopped")
			return
		case <-ticker.C:
			if n := st.Sweep(); n > 0 {
				slog.Info("expired sessions removed", "count", n, "active", st.Len())
			}
		}
	}
}
