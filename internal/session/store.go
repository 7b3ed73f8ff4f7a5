package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store is the in-memory registry of live sessions. The map lock is only
// held for map operations; per-session state has its own locks.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	now   func() time.Time
	newID func() string
}

type Option func(*Store)

// WithClock overrides the time source used for session start times.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides session identifier generation.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		sessions: make(map[string]*Session),
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create registers a new session seeded with the opening assistant message.
func (s *Store) Create(cfg Config) *Session {
	sess := newSession(s.newID(), cfg, s.now())

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return sess
}

func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return sess, nil
}

// Delete ends the session and removes it. It waits for an in-flight turn on
// the same session; turns arriving afterwards observe ErrNotFound.
func (s *Store) Delete(id string) (Snapshot, error) {
	sess, err := s.Get(id)
	if err != nil {
		return Snapshot{}, err
	}

	snap, err := sess.end()
	if err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	if cur, ok := s.sessions[id]; ok && cur == sess {
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	return snap, nil
}

// Sweep deletes every session started before cutoff and returns their ids.
func (s *Store) Sweep(cutoff time.Time) []string {
	s.mu.RLock()
	var stale []string
	for id, sess := range s.sessions {
		if sess.StartTime.Before(cutoff) {
			stale = append(stale, id)
		}
	}
	s.mu.RUnlock()

	removed := make([]string, 0, len(stale))
	for _, id := range stale {
		if _, err := s.Delete(id); err == nil {
			removed = append(removed, id)
		}
	}
	return removed
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Now exposes the store's clock so timers use the same time source.
func (s *Store) Now() time.Time {
	return s.now()
}
