package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"unicbot/internal/metrics"
)

var ErrNotFound = errors.New("session not found")

// Manager owns the live sessions of the process. Nothing is persisted.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	now      func() time.Time
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[uuid.UUID]*Session), now: time.Now}
}

// Create starts a new session.
func (m *Manager) Create() *Session {
	s := newSession(m.now)
	m.mu.Lock()
	m.sessions[s.ID] = s
	n := len(m.sessions)
	m.mu.Unlock()
	metrics.ActiveSessions.Set(float64(n))
	return s
}

// Get returns the session with id or ErrNotFound.
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Delete ends a session.
func (m *Manager) Delete(id uuid.UUID) error {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	n := len(m.sessions)
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	metrics.ActiveSessions.Set(float64(n))
	return nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep drops sessions idle for longer than idle and returns how many were
// removed. Sessions with a turn in flight are kept.
func (m *Manager) Sweep(idle time.Duration) int {
	cutoff := m.now().Add(-idle)
	m.mu.Lock()
	removed := 0
	for id, s := range m.sessions {
		if !s.Busy() && s.LastActive().Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	n := len(m.sessions)
	m.mu.Unlock()
	metrics.ActiveSessions.Set(float64(n))
	return removed
}

// Janitor sweeps idle sessions every interval until ctx is done.
func (m *Manager) Janitor(ctx context.Context, idle, interval time.Duration, onSweep func(removed int)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := m.Sweep(idle); n > 0 && onSweep != nil {
				onSweep(n)
			}
		}
	}
}
