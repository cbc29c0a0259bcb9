// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package exercise

import "fmt"

// Kind identifies an exercise program.
type Kind string

const (
	Breathing     Kind = "breathing"
	DeepBreathing Kind = "deep-breathing"
	Focus         Kind = "focus"
)

// Phase is one named step of a breathing cycle.
type Phase struct {
	Name        string
	Seconds     int
	Instruction string
}

// Program is the fixed timing of an exercise kind.
type Program struct {
	Kind         Kind
	TotalSeconds int
	Phases       []Phase
	// activity feed presentation
	ActivityType string
	Icon         string
	Color        string
	startTitle   string
	doneTitle    string
}

var programs = map[Kind]Program{
	Breathing: {
		Kind:         Breathing,
		TotalSeconds: 60,
		Phases: []Phase{
			{Name: "inhale", Seconds: 4, Instruction: "Breathe In..."},
			{Name: "hold", Seconds: 2, Instruction: "Hold..."},
			{Name: "exhale", Seconds: 4, Instruction: "Breathe Out..."},
			{Name: "rest", Seconds: 2, Instruction: "Rest..."},
		},
		ActivityType: "breathing",
		Icon:         "fas fa-wind",
		Color:        "text-primary",
		startTitle:   "Started 1-minute breathing exercise",
		doneTitle:    "1-minute breathing exercise completed",
	},
	DeepBreathing: {
		Kind:         DeepBreathing,
		TotalSeconds: 300,
		Phases: []Phase{
			{Name: "inhale", Seconds: 4, Instruction: "Breathe in slowly..."},
			{Name: "exhale", Seconds: 4, Instruction: "Breathe out slowly..."},
			{Name: "pause", Seconds: 1, Instruction: "Breathe out slowly..."},
		},
		ActivityType: "breathing",
		Icon:         "fas fa-spa",
		Color:        "text-primary",
		startTitle:   "Started 5-minute breathing session",
		doneTitle:    "5-minute breathing exercise completed",
	},
	Focus: {
		Kind:         Focus,
		TotalSeconds: 180,
		Phases: []Phase{
			{Name: "focus", Seconds: 180},
		},
		ActivityType: "focus",
		Icon:         "fas fa-brain",
		Color:        "text-info",
		startTitle:   "Started %s focus exercise",
		doneTitle:    "Completed %s focus exercise",
	},
}

// Lookup returns the program for kind.
func Lookup(kind Kind) (Program, bool) {
	p, ok := programs[kind]
	return p, ok
}

// StartedTitle is the activity title logged when a session starts.
func (p Program) StartedTitle(focusType string) string {
	if p.Kind == Focus {
		return fmt.Sprintf(p.startTitle, focusType)
	}
	return p.startTitle
}

// CompletedTitle is the activity title logged when a session completes.
func (p Program) CompletedTitle(focusType string) string {
	if p.Kind == Focus {
		return fmt.Sprintf(p.doneTitle, focusType)
	}
	return p.doneTitle
}
