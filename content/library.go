// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package content

import (
	_ "embed"
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/mindmaze/wellness"
)

//go:embed library.yaml
var defaultLibrary []byte

// Question is one self-report stress question.
type Question struct {
	Question string   `yaml:"question" json:"question"`
	Answers  []string `yaml:"answers" json:"answers"`
	Weights  []int    `yaml:"weights" json:"weights"`
}

// SampleActivity is shown when a user has no recorded activity yet.
type SampleActivity struct {
	Type     string `yaml:"type"`
	Title    string `yaml:"title"`
	Icon     string `yaml:"icon"`
	Color    string `yaml:"color"`
	HoursAgo int    `yaml:"hoursAgo"`
}

// Library is every piece of static copy the API serves.
type Library struct {
	SystemPrompt      string              `yaml:"systemPrompt"`
	BoundaryMessage   string              `yaml:"boundaryMessage"`
	LimitMessage      string              `yaml:"limitMessage"`
	Tips              []string            `yaml:"tips"`
	FallbackReplies   []string            `yaml:"fallbackReplies"`
	Quotes            []string            `yaml:"quotes"`
	JournalPrompts    []string            `yaml:"journalPrompts"`
	StressQuestions   []Question          `yaml:"stressQuestions"`
	VideoQueries      map[string][]string `yaml:"videoQueries"`
	FocusInstructions map[string]string   `yaml:"focusInstructions"`
	SampleActivities  []SampleActivity    `yaml:"sampleActivities"`
}

var stressBuckets = []string{"high", "moderate", "mild", "low"}

// Parse decodes data on top of the embedded defaults, so an override file
// only needs the keys it changes.
func Parse(data []byte) (*Library, error) {
	var lib Library
	if err := yaml.Unmarshal(defaultLibrary, &lib); err != nil {
		return nil, fmt.Errorf("failed to parse embedded library: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &lib); err != nil {
			return nil, fmt.Errorf("failed to parse content override: %w", err)
		}
	}
	if err := lib.Validate(); err != nil {
		return nil, err
	}
	return &lib, nil
}

// Default returns the embedded library.
func Default() *Library {
	lib, err := Parse(nil)
	if err != nil {
		panic(err)
	}
	return lib
}

// Validate checks the invariants the handlers rely on.
func (l *Library) Validate() error {
	var errs []error
	if len(l.Tips) == 0 {
		errs = append(errs, errors.New("tips must not be empty"))
	}
	if len(l.Quotes) == 0 {
		errs = append(errs, errors.New("quotes must not be empty"))
	}
	if len(l.JournalPrompts) == 0 {
		errs = append(errs, errors.New("journalPrompts must not be empty"))
	}
	if len(l.FallbackReplies) == 0 {
		errs = append(errs, errors.New("fallbackReplies must not be empty"))
	}
	if len(l.StressQuestions) < wellness.QuestionsPerAssessment {
		errs = append(errs, fmt.Errorf("need at least %d stress questions, have %d",
			wellness.QuestionsPerAssessment, len(l.StressQuestions)))
	}
	for i, q := range l.StressQuestions {
		if len(q.Answers) != 5 || len(q.Weights) != 5 {
			errs = append(errs, fmt.Errorf("stress question %d needs 5 answers and 5 weights", i))
			continue
		}
		for _, w := range q.Weights {
			if w < 1 || w > 5 {
				errs = append(errs, fmt.Errorf("stress question %d has weight %d outside 1-5", i, w))
				break
			}
		}
	}
	for _, bucket := range stressBuckets {
		if len(l.VideoQueries[bucket]) == 0 {
			errs = append(errs, fmt.Errorf("videoQueries.%s must not be empty", bucket))
		}
	}
	return errors.Join(errs...)
}

// TipFor returns the chat tip of the day.
func (l *Library) TipFor(t time.Time) string {
	return l.Tips[wellness.TipIndex(t, len(l.Tips))]
}

// QuoteFor returns the dashboard quote of the day.
func (l *Library) QuoteFor(t time.Time) string {
	return l.Quotes[wellness.QuoteIndex(t, len(l.Quotes))]
}

// PromptFor returns the journal prompt of the day and its index.
func (l *Library) PromptFor(t time.Time) (string, int) {
	i := wellness.PromptIndex(t, len(l.JournalPrompts))
	return l.JournalPrompts[i], i
}

// QuestionsFor returns the day's assessment questions.
func (l *Library) QuestionsFor(t time.Time) []Question {
	return wellness.SelectQuestions(t, l.StressQuestions, wellness.QuestionsPerAssessment)
}

// QueryFor picks a video search query for a 0-100 stress level. The seed
// keeps the choice stable within one client session.
func (l *Library) QueryFor(stress float64, seed uint64) string {
	bank := l.VideoQueries[wellness.StressBucket(stress)]
	return bank[seed%uint64(len(bank))]
}

// FocusInstruction returns the guidance text for a focus exercise type.
func (l *Library) FocusInstruction(kind string) (string, bool) {
	s, ok := l.FocusInstructions[kind]
	return s, ok
}

// FallbackReply picks a canned chat reply; intn returns a value in [0,n).
func (l *Library) FallbackReply(intn func(n int) int) string {
	return l.FallbackReplies[intn(len(l.FallbackReplies))]
}
