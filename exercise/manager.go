// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package exercise

import (
	"fmt"
	"sync"
)

// CompletionFunc is called from the timer goroutine when a session completes.
type CompletionFunc func(uid string, prog Program, snap Snapshot)

type sessionKey struct {
	uid  string
	kind Kind
}

// Manager holds in-memory sessions per user and kind.
type Manager struct {
	mu         sync.Mutex
	clock      Clock
	focus      func(string) (string, bool)
	onComplete CompletionFunc
	sessions   map[sessionKey]*Session
	closed     bool
}

// NewManager creates a manager. focus resolves focus exercise instructions.
func NewManager(clock Clock, focus func(string) (string, bool), onComplete CompletionFunc) *Manager {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Manager{
		clock:      clock,
		focus:      focus,
		onComplete: onComplete,
		sessions:   make(map[sessionKey]*Session),
	}
}

// Session returns the user's session for kind, creating it on first use.
func (m *Manager) Session(uid string, kind Kind) (*Session, error) {
	prog, ok := Lookup(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}

	key := sessionKey{uid: uid, kind: kind}
	if s, ok := m.sessions[key]; ok {
		return s, nil
	}

	var cb func(Snapshot)
	if m.onComplete != nil {
		cb = func(snap Snapshot) { m.onComplete(uid, prog, snap) }
	}
	s := newSession(prog, m.clock, m.focus, cb)
	m.sessions[key] = s
	return s, nil
}

// Close cancels every timer. No callback fires afterwards.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	for _, s := range m.sessions {
		s.Close()
	}
}
