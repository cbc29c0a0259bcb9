// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package wellness

import "strings"

// DefaultStressPercent is used when no stress signal exists for a user.
const DefaultStressPercent = 40

var moodStressBands = []struct {
	stress   int
	keywords []string
}{
	{75, []string{"angry", "furious", "rage", "panicked", "overwhelmed", "anxious", "stressed", "worried"}},
	{60, []string{"frustrated", "irritated", "nervous", "tense", "restless", "sad", "depressed", "down"}},
	{45, []string{"tired", "bored", "neutral", "okay", "fine", "confused", "uncertain"}},
	{25, []string{"calm", "peaceful", "relaxed", "content", "satisfied", "good", "happy", "joyful", "excited", "energetic", "optimistic"}},
}

// InferStressFromMood maps a free-text mood to a 0-100 stress estimate.
func InferStressFromMood(mood string) int {
	m := strings.ToLower(strings.TrimSpace(mood))
	if m == "" {
		return DefaultStressPercent
	}
	for _, band := range moodStressBands {
		for _, k := range band.keywords {
			if strings.Contains(m, k) {
				return band.stress
			}
		}
	}
	return DefaultStressPercent
}

// StressBucket names the video query bank for a 0-100 stress level.
func StressBucket(stress float64) string {
	switch {
	case stress >= 70:
		return "high"
	case stress >= 50:
		return "moderate"
	case stress >= 30:
		return "mild"
	default:
		return "low"
	}
}

var wellnessKeywords = []string{
	"stress", "anxiety", "worry", "feel", "feeling", "emotion", "sad", "happy",
	"depression", "mental", "health", "wellness", "mindfulness", "meditation",
	"breathe", "breathing", "relax", "calm", "peace", "positive", "negative",
	"motivation", "tired", "energy", "sleep", "rest", "overwhelmed", "pressure",
	"support", "help", "better", "improve", "cope", "manage", "handle",
	"grateful", "gratitude", "thankful", "appreciate", "love", "care", "hope",
	"good", "bad", "upset", "angry", "frustrated", "lonely", "confused",
	"nervous", "scared", "afraid", "comfort", "reassurance", "advice",
}

// IsWellnessRelated reports whether a chat message touches a wellness topic.
func IsWellnessRelated(message string) bool {
	m := strings.ToLower(message)
	for _, k := range wellnessKeywords {
		if strings.Contains(m, k) {
			return true
		}
	}
	return false
}
