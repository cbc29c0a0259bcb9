// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package exercise

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// State of a session.
type State string

const (
	Ready    State = "ready"
	Running  State = "running"
	Paused   State = "paused"
	Complete State = "complete"
)

const (
	tickInterval = time.Second
	// ResetDelay is how long the completion message stays before the session is ready again.
	ResetDelay = 3 * time.Second

	readyInstruction    = "Ready to begin"
	pausedInstruction   = "Paused - Click Start to continue"
	completeInstruction = "Exercise complete!"
	focusFallback       = "Focus on your breath and stay present."
)

var (
	ErrUnknownKind          = errors.New("unknown exercise")
	ErrNoFocusExercise      = errors.New("please select an exercise first")
	ErrUnknownFocusExercise = errors.New("unknown focus exercise")
	ErrAlreadyRunning       = errors.New("exercise already running")
	ErrNotRunning           = errors.New("exercise is not running")
	ErrClosed               = errors.New("exercise manager closed")
)

// Snapshot is the observable state of a session.
type Snapshot struct {
	Kind             Kind   `json:"kind"`
	State            State  `json:"state"`
	TotalSeconds     int    `json:"totalSeconds"`
	RemainingSeconds int    `json:"remainingSeconds"`
	Display          string `json:"display"`
	Phase            string `json:"phase,omitempty"`
	Instruction      string `json:"instruction"`
	FocusType        string `json:"focusType,omitempty"`
}

// FormatRemaining renders seconds as m:ss.
func FormatRemaining(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// Session is one user's timer for one exercise kind.
//
// Every scheduled callback captures the generation it was created under;
// pause, stop and close bump the generation so a callback that was already
// in flight becomes a no-op.
type Session struct {
	mu         sync.Mutex
	prog       Program
	clock      Clock
	focus      func(string) (string, bool)
	onComplete func(Snapshot)

	state       State
	remaining   int
	phaseIdx    int
	phaseLeft   int
	instruction string
	focusType   string
	gen         uint64
	timer       Timer
	closed      bool
}

func newSession(prog Program, clock Clock, focus func(string) (string, bool), onComplete func(Snapshot)) *Session {
	s := &Session{
		prog:       prog,
		clock:      clock,
		focus:      focus,
		onComplete: onComplete,
	}
	s.resetLocked()
	return s
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Start begins a session from ready or complete, or resumes a paused one.
// focusType is required for a fresh focus session and ignored otherwise.
// The bool reports whether a paused session was resumed.
func (s *Session) Start(focusType string) (Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return s.snapshotLocked(), false, ErrClosed
	}

	switch s.state {
	case Running:
		return s.snapshotLocked(), false, ErrAlreadyRunning

	case Paused:
		s.state = Running
		s.instruction = s.runningInstructionLocked()
		s.scheduleTickLocked()
		return s.snapshotLocked(), true, nil
	}

	if s.prog.Kind == Focus {
		if focusType == "" {
			return s.snapshotLocked(), false, ErrNoFocusExercise
		}
		if _, ok := s.focusText(focusType); !ok {
			return s.snapshotLocked(), false, fmt.Errorf("%w: %s", ErrUnknownFocusExercise, focusType)
		}
	}

	// a completed session may still have its reset pending
	s.cancelLocked()
	s.resetLocked()
	if s.prog.Kind == Focus {
		s.focusType = focusType
	}
	s.state = Running
	s.instruction = s.runningInstructionLocked()
	s.scheduleTickLocked()
	return s.snapshotLocked(), false, nil
}

// Pause halts the countdown without resetting it.
func (s *Session) Pause() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Running {
		return s.snapshotLocked(), ErrNotRunning
	}
	s.cancelLocked()
	s.state = Paused
	s.instruction = pausedInstruction
	return s.snapshotLocked(), nil
}

// Stop resets the session to ready immediately.
func (s *Session) Stop() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked()
	s.resetLocked()
	return s.snapshotLocked()
}

// Close cancels any pending timer; later starts fail with ErrClosed.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
	s.closed = true
}

func (s *Session) tick(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || s.state != Running {
		s.mu.Unlock()
		return
	}

	s.remaining--
	s.phaseLeft--

	if s.remaining <= 0 {
		s.cancelLocked()
		s.remaining = 0
		s.state = Complete
		s.instruction = completeInstruction
		g := s.gen
		s.timer = s.clock.AfterFunc(ResetDelay, func() { s.resetAfterComplete(g) })

		snap := s.snapshotLocked()
		cb := s.onComplete
		s.mu.Unlock()

		if cb != nil {
			cb(snap)
		}
		return
	}

	if s.phaseLeft <= 0 {
		s.phaseIdx = (s.phaseIdx + 1) % len(s.prog.Phases)
		s.phaseLeft = s.prog.Phases[s.phaseIdx].Seconds
		s.instruction = s.runningInstructionLocked()
	}
	s.scheduleTickLocked()
	s.mu.Unlock()
}

func (s *Session) resetAfterComplete(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || s.state != Complete {
		return
	}
	s.timer = nil
	s.resetLocked()
}

func (s *Session) scheduleTickLocked() {
	g := s.gen
	s.timer = s.clock.AfterFunc(tickInterval, func() { s.tick(g) })
}

func (s *Session) cancelLocked() {
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Session) resetLocked() {
	s.state = Ready
	s.remaining = s.prog.TotalSeconds
	s.phaseIdx = 0
	s.phaseLeft = s.prog.Phases[0].Seconds
	s.instruction = readyInstruction
	s.focusType = ""
}

func (s *Session) runningInstructionLocked() string {
	if s.prog.Kind == Focus {
		text, ok := s.focusText(s.focusType)
		if !ok {
			text = focusFallback
		}
		return text + " Session in progress..."
	}
	return s.prog.Phases[s.phaseIdx].Instruction
}

func (s *Session) focusText(kind string) (string, bool) {
	if s.focus == nil {
		return "", false
	}
	return s.focus(kind)
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		Kind:             s.prog.Kind,
		State:            s.state,
		TotalSeconds:     s.prog.TotalSeconds,
		RemainingSeconds: s.remaining,
		Display:          FormatRemaining(s.remaining),
		Instruction:      s.instruction,
		FocusType:        s.focusType,
	}
	if s.state == Running || s.state == Paused {
		snap.Phase = s.prog.Phases[s.phaseIdx].Name
	}
	return snap
}
