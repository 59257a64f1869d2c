package session

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	DefaultTTL             = 24 * time.Hour
	defaultCleanupInterval = 30 * time.Minute
)

// Store keeps one State per session ID and drops sessions idle for longer
// than the TTL.
type Store struct {
	mu     sync.Mutex
	states *cache.Cache
	logger *zap.Logger
}

func NewStore(ttl time.Duration, logger *zap.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		states: cache.New(ttl, defaultCleanupInterval),
		logger: logger,
	}
}

// Load returns the state for id, creating and initializing it on first use.
// Every call refreshes the session's expiry.
func (s *Store) Load(id string) *State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.states.Get(id); ok {
		st := v.(*State)
		s.states.SetDefault(id, st)
		return st
	}

	st := NewState(id)
	st.InitDefaults()
	s.states.SetDefault(id, st)
	s.logger.Debug("Session state created", zap.String("session_id", id))
	return st
}

// Delete forgets a session.
func (s *Store) Delete(id string) {
	s.states.Delete(id)
}

// Len is the number of live sessions.
func (s *Store) Len() int {
	return s.states.ItemCount()
}
