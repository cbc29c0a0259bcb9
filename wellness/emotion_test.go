// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package wellness

import (
	"math"
	"testing"
)

func repeat(f Frame, n int) []Frame {
	out := make([]Frame, n)
	for i := range out {
		out[i] = f
	}
	return out
}

func TestDominantEmotion(t *testing.T) {
	th := DefaultEmotionThresholds()

	tests := []struct {
		name        string
		frames      []Frame
		wantEmotion string
		wantConf    float64
		wantSamples int
	}{
		{
			name:        "all neutral",
			frames:      repeat(Frame{"neutral": 0.9, "happy": 0.05, "sad": 0.05}, 4),
			wantEmotion: "neutral",
			wantConf:    1.0,
			wantSamples: 4,
		},
		{
			name: "majority happy",
			frames: append(
				repeat(Frame{"happy": 0.8, "neutral": 0.1}, 3),
				repeat(Frame{"sad": 0.7, "neutral": 0.2}, 2)...,
			),
			wantEmotion: "happy",
			wantConf:    0.6,
			wantSamples: 5,
		},
		{
			name:        "close runner-up overrides neutral",
			frames:      repeat(Frame{"neutral": 0.5, "happy": 0.45, "sad": 0.05}, 2),
			wantEmotion: "happy",
			wantConf:    1.0,
			wantSamples: 2,
		},
		{
			name:        "distant runner-up keeps neutral",
			frames:      repeat(Frame{"neutral": 0.7, "happy": 0.2}, 2),
			wantEmotion: "neutral",
			wantConf:    1.0,
			wantSamples: 2,
		},
		{
			name: "weak winner falls back to neutral",
			frames: []Frame{
				{"happy": 0.6, "neutral": 0.1},
				{"sad": 0.6, "neutral": 0.1},
				{"angry": 0.6, "neutral": 0.1},
				{"fearful": 0.6, "neutral": 0.1},
				{"disgusted": 0.6, "neutral": 0.1},
				{"surprised": 0.6, "neutral": 0.1},
			},
			wantEmotion: "neutral",
			wantConf:    0,
			wantSamples: 6,
		},
		{
			name:        "empty frames are skipped",
			frames:      []Frame{{}, {"happy": 0.9}, nil},
			wantEmotion: "happy",
			wantConf:    1.0,
			wantSamples: 1,
		},
		{
			name:        "single neutral label",
			frames:      []Frame{{"neutral": 0.9}},
			wantEmotion: "neutral",
			wantConf:    1.0,
			wantSamples: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DominantEmotion(tt.frames, th)
			if !got.Available {
				t.Fatal("Expected result to be available")
			}
			if got.Emotion != tt.wantEmotion {
				t.Errorf("Expected emotion %s, got %s", tt.wantEmotion, got.Emotion)
			}
			if math.Abs(got.Confidence-tt.wantConf) > 1e-9 {
				t.Errorf("Expected confidence %v, got %v", tt.wantConf, got.Confidence)
			}
			if got.Samples != tt.wantSamples {
				t.Errorf("Expected %d samples, got %d", tt.wantSamples, got.Samples)
			}
		})
	}
}

func TestDominantEmotion_NoSamples(t *testing.T) {
	for _, frames := range [][]Frame{nil, {}, {{}, {}}} {
		got := DominantEmotion(frames, DefaultEmotionThresholds())
		if got.Available {
			t.Errorf("Expected unavailable result for %v, got %+v", frames, got)
		}
	}
}

func TestDominantEmotion_TieGoesToFirstSeen(t *testing.T) {
	frames := []Frame{
		{"sad": 0.9},
		{"happy": 0.9},
		{"happy": 0.9},
		{"sad": 0.9},
	}
	got := DominantEmotion(frames, DefaultEmotionThresholds())
	if got.Emotion != "sad" {
		t.Errorf("Expected first-seen label sad to win the tie, got %s", got.Emotion)
	}
}

func TestDominantEmotion_CustomMargin(t *testing.T) {
	frames := []Frame{{"neutral": 0.5, "happy": 0.45}}
	got := DominantEmotion(frames, EmotionThresholds{NeutralMargin: 0.01, MinConfidence: 0.2})
	if got.Emotion != "neutral" {
		t.Errorf("Expected neutral with a tight margin, got %s", got.Emotion)
	}
}

func TestEmotionResult_Percentage(t *testing.T) {
	if p := (EmotionResult{Confidence: 0.6}).Percentage(); p != 60 {
		t.Errorf("Expected 60, got %d", p)
	}
	if p := (EmotionResult{Confidence: 2.0 / 3.0}).Percentage(); p != 67 {
		t.Errorf("Expected 67, got %d", p)
	}
}

func TestEmojiAndCapitalize(t *testing.T) {
	if Emoji("happy") != "🙂" {
		t.Errorf("unexpected emoji for happy: %s", Emoji("happy"))
	}
	if Emoji("bewildered") != Emoji(Neutral) {
		t.Error("unknown labels should use the neutral emoji")
	}
	if Capitalize("surprised") != "Surprised" || Capitalize("") != "" {
		t.Error("Capitalize produced unexpected output")
	}
}
