package state

import (
	"sync"
	"time"
)

// Manager manages session state with thread-safe access. The loop
// goroutine writes it; the UI and the CLI read it.
type Manager struct {
	mu sync.RWMutex

	sessionID string
	phase     Phase
	endReason EndReason

	songsTotal int

	startTime *time.Time
	endTime   *time.Time
}

// New creates a new state manager.
func New(sessionID string) *Manager {
	return &Manager{
		sessionID: sessionID,
		phase:     PhaseWaiting,
	}
}

// GetSessionID returns the session ID.
func (m *Manager) GetSessionID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessionID
}

// GetPhase returns the current session phase.
func (m *Manager) GetPhase() Phase {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.phase
}

// SetPhase sets the session phase. A terminated session stays terminated.
func (m *Manager) SetPhase(p Phase) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase == PhaseTerminated {
		return
	}
	m.phase = p
}

// Start records the start time and moves out of PhaseWaiting.
func (m *Manager) Start(at time.Time, phase Phase) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startTime = &at
	m.phase = phase
}

// Terminate ends the session. It reports false when it was already over.
func (m *Manager) Terminate(at time.Time, reason EndReason) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase == PhaseTerminated {
		return false
	}
	m.phase = PhaseTerminated
	m.endReason = reason
	m.endTime = &at
	return true
}

// IsTerminated returns true once the session has ended.
func (m *Manager) IsTerminated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.phase == PhaseTerminated
}

// GetEndReason returns why the session ended.
func (m *Manager) GetEndReason() EndReason {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.endReason
}

// SetSongsTotal sets how many songs the session was loaded with.
func (m *Manager) SetSongsTotal(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.songsTotal = n
}

// GetSongsTotal returns how many songs the session was loaded with.
func (m *Manager) GetSongsTotal() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.songsTotal
}

// GetTimes returns the start and end times.
func (m *Manager) GetTimes() (*time.Time, *time.Time) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.startTime, m.endTime
}

// Elapsed returns how long the session has been running, or ran.
func (m *Manager) Elapsed(now time.Time) time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.startTime == nil {
		return 0
	}
	if m.endTime != nil {
		return m.endTime.Sub(*m.startTime)
	}
	return now.Sub(*m.startTime)
}
