package editor

import (
	"log/slog"
	"sync"
)

// Manager hands out one editing session per operator, so the admin API and
// the embedded live preview work against the same snapshot.
type Manager struct {
	mu       sync.Mutex
	gw       Gateway
	logger   *slog.Logger
	sessions map[int64]*Session
}

func NewManager(gw Gateway, logger *slog.Logger) *Manager {
	return &Manager{
		gw:       gw,
		logger:   logger,
		sessions: make(map[int64]*Session),
	}
}

// Session returns the operator's editing session, creating it on first use.
func (m *Manager) Session(ownerID int64) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[ownerID]; ok {
		return s
	}
	s := NewSession(ownerID, m.gw, m.logger.With("owner_id", ownerID))
	m.sessions[ownerID] = s
	return s
}

// Drop removes an operator's session, e.g. on logout.
func (m *Manager) Drop(ownerID int64) {
	m.mu.Lock()
	delete(m.sessions, ownerID)
	m.mu.Unlock()
}
