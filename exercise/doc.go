// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package exercise runs the timed breathing and focus exercises.

# Programs

  - breathing: 60s, inhale 4s, hold 2s, exhale 4s, rest 2s
  - deep-breathing: 300s, inhale 4s, exhale 4s, pause 1s
  - focus: 180s, one phase; a focus exercise (counting, object, body, word) must be chosen

# States

	ready -> running <-> paused
	running -> complete -> (3s) -> ready
	any -> stop -> ready

A one-second tick decrements the remaining time and the current phase.
Pause keeps the remaining time; Start resumes from it. Stop resets at once.

# Timers

Every callback is bound to the generation it was scheduled under, so a tick
that races a pause or stop is ignored. Manager.Close cancels all timers.
The Clock is injectable; ManualClock drives tests deterministically:

	clock := exercise.NewManualClock(time.Now())
	m := exercise.NewManager(clock, lib.FocusInstruction, onComplete)
	s, _ := m.Session(uid, exercise.Breathing)
	s.Start("")
	clock.Advance(4 * time.Second) // now in the hold phase
*/
package exercise
