// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package wellness

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// QuestionsPerAssessment is the number of questions in a daily assessment.
const QuestionsPerAssessment = 8

var (
	ErrIncompleteAssessment = errors.New("please answer all questions before submitting")
	ErrAnswerOutOfRange     = errors.New("answer weight must be between 1 and 5")
)

// Score computes the 0-100 stress score from eight answer weights (1-5).
// A zero weight means the question was left unanswered.
func Score(answers []int) (int, error) {
	answered := 0
	sum := 0
	for _, a := range answers {
		if a == 0 {
			continue
		}
		if a < 1 || a > 5 {
			return 0, fmt.Errorf("%w: got %d", ErrAnswerOutOfRange, a)
		}
		answered++
		sum += a
	}
	if answered != QuestionsPerAssessment || len(answers) != QuestionsPerAssessment {
		return 0, ErrIncompleteAssessment
	}

	mean := float64(sum) / float64(answered)
	return int(math.Round(mean / 5 * 100)), nil
}

// Level converts a 0-100 score into the 0-10 level used by stress logs.
func Level(score int) int {
	return int(math.Round(float64(score) / 10))
}

// Status labels a 0-100 score.
func Status(score int) (label, class string) {
	switch {
	case score <= 30:
		return "Low Stress", "low"
	case score <= 60:
		return "Moderate Stress", "medium"
	default:
		return "High Stress", "high"
	}
}

// Band classifies a 0-10 level for the stress indicator.
func Band(level int) string {
	switch {
	case level <= 3:
		return "stress-low"
	case level <= 6:
		return "stress-moderate"
	default:
		return "stress-high"
	}
}

// StressPoint is one charted stress level.
type StressPoint struct {
	Date   time.Time `json:"date"`
	Stress int       `json:"stress"`
}

// StressSummary aggregates a stress history.
type StressSummary struct {
	Average     int     `json:"average"`
	Min         int     `json:"min"`
	Max         int     `json:"max"`
	Improvement float64 `json:"improvement"`
}

// Summarize computes average, range and first-to-last improvement.
// Improvement needs at least two points and a non-zero first level.
func Summarize(points []StressPoint) StressSummary {
	if len(points) == 0 {
		return StressSummary{}
	}

	sum := 0
	minV, maxV := points[0].Stress, points[0].Stress
	for _, p := range points {
		sum += p.Stress
		minV = min(minV, p.Stress)
		maxV = max(maxV, p.Stress)
	}

	summary := StressSummary{
		Average: int(math.Round(float64(sum) / float64(len(points)))),
		Min:     minV,
		Max:     maxV,
	}

	if len(points) >= 2 {
		first := points[0].Stress
		last := points[len(points)-1].Stress
		if first > 0 {
			summary.Improvement = math.Max(0, float64(first-last)/float64(first)*100)
		}
	}
	return summary
}

// SampleHistory fabricates a week of demo levels ending at now.
// jitter returns a value in [0,1).
func SampleHistory(now time.Time, jitter func() float64) []StressPoint {
	points := make([]StressPoint, 0, 7)
	for i := 6; i >= 0; i-- {
		base := 4 + math.Sin(float64(i)*0.8)*2
		variation := (jitter() - 0.5) * 2
		stress := int(math.Round(base + variation))
		stress = max(1, min(10, stress))
		points = append(points, StressPoint{
			Date:   now.AddDate(0, 0, -i),
			Stress: stress,
		})
	}
	return points
}
