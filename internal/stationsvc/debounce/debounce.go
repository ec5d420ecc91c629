package debounce

import (
	"sync"
	"time"
)

// Window is how long a repeated read of the same fingerprint is treated as
// noise. NFC hardware emits several reading events per physical tap, so a
// tag lingering on the reader must not produce multiple arrivals.
const Window = 5 * time.Second

// Memory is the single most-recent-read state of one station session. It is
// local, best-effort suppression only: never shared across stations, never
// persisted, reset when the session stops.
type Memory struct {
	mu          sync.Mutex
	window      time.Duration
	fingerprint string
	at          time.Time
}

func New() *Memory {
	return NewWithWindow(Window)
}

func NewWithWindow(window time.Duration) *Memory {
	return &Memory{window: window}
}

// Observe reports whether a read should proceed, remembering it when it
// does. A read of the remembered fingerprint inside the window is discarded
// silently; anything else replaces the memory and passes.
func (m *Memory) Observe(fingerprint string, now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fingerprint == fingerprint && !m.at.IsZero() && now.Sub(m.at) < m.window {
		return false
	}

	m.fingerprint = fingerprint
	m.at = now
	return true
}

// Forget clears the memory if it still holds fingerprint. Called when the
// downstream record fails, so a retried tap is not wrongly suppressed.
func (m *Memory) Forget(fingerprint string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fingerprint == fingerprint {
		m.fingerprint = ""
		m.at = time.Time{}
	}
}

// Reset clears the memory entirely, for session stop.
func (m *Memory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.fingerprint = ""
	m.at = time.Time{}
}
