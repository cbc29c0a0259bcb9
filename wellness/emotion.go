// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package wellness

import (
	"sort"
	"strings"
)

// Neutral is the expression label the classifier over-reports.
const Neutral = "neutral"

// Default thresholds for dominant-emotion selection.
const (
	DefaultNeutralMargin = 0.12
	DefaultMinConfidence = 0.20
)

// canonical label order used to break per-frame ties
var labelOrder = map[string]int{
	"neutral":   0,
	"happy":     1,
	"sad":       2,
	"angry":     3,
	"fearful":   4,
	"disgusted": 5,
	"surprised": 6,
}

// Frame is one classifier output: label -> probability.
type Frame map[string]float64

// EmotionThresholds tunes the neutral-bias correction.
type EmotionThresholds struct {
	// NeutralMargin lets a runner-up within this distance of a neutral top label take the vote.
	NeutralMargin float64
	// MinConfidence is the vote share a non-neutral winner needs before neutral is reported instead.
	MinConfidence float64
}

// DefaultEmotionThresholds returns the stock thresholds.
func DefaultEmotionThresholds() EmotionThresholds {
	return EmotionThresholds{
		NeutralMargin: DefaultNeutralMargin,
		MinConfidence: DefaultMinConfidence,
	}
}

// EmotionResult summarizes a detection session.
// Available is false when no frame was collected.
type EmotionResult struct {
	Available  bool    `json:"available"`
	Emotion    string  `json:"emotion,omitempty"`
	Confidence float64 `json:"confidence"`
	Samples    int     `json:"sampleCount"`
}

// Percentage is the confidence rounded to a whole percent.
func (r EmotionResult) Percentage() int {
	return int(r.Confidence*100 + 0.5)
}

type scoredLabel struct {
	label string
	value float64
}

// rankFrame orders a frame's labels by probability, highest first.
func rankFrame(f Frame) []scoredLabel {
	ranked := make([]scoredLabel, 0, len(f))
	for label, v := range f {
		ranked = append(ranked, scoredLabel{label: label, value: v})
	}
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.value != b.value {
			return a.value > b.value
		}
		oa, okA := labelOrder[a.label]
		ob, okB := labelOrder[b.label]
		if okA != okB {
			return okA
		}
		if okA && oa != ob {
			return oa < ob
		}
		return a.label < b.label
	})
	return ranked
}

// DominantEmotion picks the label that best represents a sampled session.
//
// Each frame votes for its top label, except that a neutral top label yields
// its vote to a non-neutral runner-up within NeutralMargin. The label with the
// most votes wins with confidence votes/frames; a non-neutral winner below
// MinConfidence is replaced by neutral and neutral's own vote share.
func DominantEmotion(frames []Frame, th EmotionThresholds) EmotionResult {
	counts := make(map[string]int)
	var seen []string
	total := 0

	for _, f := range frames {
		ranked := rankFrame(f)
		if len(ranked) == 0 {
			continue
		}
		total++

		top := ranked[0]
		second := scoredLabel{label: Neutral}
		if len(ranked) > 1 {
			second = ranked[1]
		}

		label := top.label
		if top.label == Neutral && second.label != Neutral && second.value >= top.value-th.NeutralMargin {
			label = second.label
		}
		if _, ok := counts[label]; !ok {
			seen = append(seen, label)
		}
		counts[label]++
	}

	if total == 0 {
		return EmotionResult{Available: false}
	}

	dominant := seen[0]
	for _, label := range seen[1:] {
		if counts[label] > counts[dominant] {
			dominant = label
		}
	}
	confidence := float64(counts[dominant]) / float64(total)

	if dominant != Neutral && confidence < th.MinConfidence {
		dominant = Neutral
		confidence = float64(counts[Neutral]) / float64(total)
	}

	return EmotionResult{
		Available:  true,
		Emotion:    dominant,
		Confidence: confidence,
		Samples:    total,
	}
}

var emotionEmoji = map[string]string{
	"happy":     "🙂",
	"sad":       "😢",
	"angry":     "😠",
	"fearful":   "😨",
	"disgusted": "🤢",
	"surprised": "😮",
	"neutral":   "😐",
}

// Emoji returns the display emoji for an expression label.
func Emoji(label string) string {
	if e, ok := emotionEmoji[label]; ok {
		return e
	}
	return emotionEmoji[Neutral]
}

// Capitalize upper-cases the first letter of s.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
