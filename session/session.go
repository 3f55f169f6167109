// Package session tracks the live editor sessions, each owning one
// in-memory file tree.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v4"

	"github.com/brettbedarf/editorfs/filesystem"
	"github.com/brettbedarf/editorfs/internal/util"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTooManySessions = errors.New("too many sessions")
)

// Session is one editor's workspace
type Session struct {
	ID        string
	Tree      *filesystem.Tree
	CreatedAt time.Time
}

// Manager owns the live sessions. It is safe for concurrent use.
type Manager struct {
	sessions    *xsync.Map[string, *Session]
	maxSessions int // 0 means unbounded

	mu    sync.Mutex // serializes the capacity check in Create
	count int
}

// NewManager returns a manager that holds at most maxSessions sessions.
// A maxSessions of 0 or less means no limit.
func NewManager(maxSessions int) *Manager {
	return &Manager{
		sessions:    xsync.NewMap[string, *Session](),
		maxSessions: maxSessions,
	}
}

// Create starts a session with an empty tree
func (m *Manager) Create() (*Session, error) {
	logger := util.GetLogger("Manager.Create")

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.maxSessions > 0 && m.count >= m.maxSessions {
		logger.Warn().Int("max", m.maxSessions).Msg("Session limit reached")
		return nil, fmt.Errorf("%w: limit is %d", ErrTooManySessions, m.maxSessions)
	}

	s := &Session{
		ID:        uuid.NewString(),
		Tree:      filesystem.New(),
		CreatedAt: time.Now().UTC(),
	}
	m.sessions.Store(s.ID, s)
	m.count++
	logger.Debug().Str("id", s.ID).Int("live", m.count).Msg("Created session")
	return s, nil
}

// Get returns the session with the given id
func (m *Manager) Get(id string) (*Session, error) {
	if s, ok := m.sessions.Load(id); ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
}

// Close drops the session and its tree
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, loaded := m.sessions.LoadAndDelete(id); !loaded {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	m.count--
	logger := util.GetLogger("Manager.Close")
	logger.Debug().Str("id", id).Int("live", m.count).Msg("Closed session")
	return nil
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	return m.sessions.Size()
}

// Range calls fn for each live session until fn returns false
func (m *Manager) Range(fn func(s *Session) bool) {
	m.sessions.Range(func(_ string, s *Session) bool {
		return fn(s)
	})
}
