// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package wellness holds the pure scoring and rotation rules behind MindMaze.

Nothing here touches storage or the network, so every function is a
deterministic function of its inputs.

# Daily Rotation

Content rotates by calendar day in the user's timezone:

	wellness.TipIndex(now, len(tips))       // |hashCode(date string)| mod n
	wellness.QuoteIndex(now, len(quotes))   // sum of char codes mod n
	wellness.PromptIndex(now, len(prompts)) // day of year mod n

The date string uses the "Mon Jan 02 2006" layout, so all indices stay
stable for the whole day and change at local midnight.

SelectQuestions picks the day's assessment questions with a seeded shuffle:

	qs := wellness.SelectQuestions(now, pool, wellness.QuestionsPerAssessment)

# Stress Scoring

Eight answers weighted 1-5 become a 0-100 score:

	score, err := wellness.Score([]int{3, 4, 2, 5, 3, 4, 2, 3}) // 65
	level := wellness.Level(score)                            // 7

Score returns ErrIncompleteAssessment unless all eight are answered.

# Emotion Aggregation

DominantEmotion folds sampled classifier frames into one label. A neutral
top label yields to a close runner-up, and a weak winner falls back to
neutral. Both thresholds live in EmotionThresholds.

# Chat Quota

Quota renders the remaining daily allowance:

	q := wellness.Quota{Used: 1, Limit: 20}
	q.Text() // "Chats left today: 19/20"
*/
package wellness
