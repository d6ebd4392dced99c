package checkout

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Manager keeps the open till sessions. Sessions never share a cart.
type Manager struct {
	settler Settler
	logger  *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(settler Settler, logger *zap.Logger) *Manager {
	return &Manager{
		settler:  settler,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

func (m *Manager) Open() *Session {
	s := newSession(uuid.NewString(), m.settler, m.logger)

	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()

	m.logger.Debug("session opened", zap.String("session_id", s.ID()))
	return s
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Close forgets the session and aborts its settlement if one is running.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	if s.Abort() {
		m.logger.Info("in-flight checkout aborted on close", zap.String("session_id", id))
	}
	return nil
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
