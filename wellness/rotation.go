// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package wellness

import (
	"math"
	"time"
)

// DateString renders a calendar date the way browsers print Date.toDateString,
// e.g. "Fri Oct 16 2026". All daily rotations hash this string.
func DateString(t time.Time) string {
	return t.Format("Mon Jan 02 2006")
}

// DayKey is the document key for a calendar day (YYYY-MM-DD).
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// HashCode folds s into a 32-bit signed hash (h = h*31 + c with wraparound).
func HashCode(s string) int32 {
	var h int32
	for _, c := range utf16Units(s) {
		h = (h << 5) - h + int32(c)
	}
	return h
}

// charSum adds up the UTF-16 code units of s.
func charSum(s string) int {
	sum := 0
	for _, c := range utf16Units(s) {
		sum += int(c)
	}
	return sum
}

// utf16Units splits s into UTF-16 code units so hashes agree with the
// browser's charCodeAt for non-ASCII input.
func utf16Units(s string) []uint16 {
	units := make([]uint16, 0, len(s))
	for _, r := range s {
		if r >= 0x10000 {
			r -= 0x10000
			units = append(units, uint16(0xD800+(r>>10)), uint16(0xDC00+(r&0x3FF)))
			continue
		}
		units = append(units, uint16(r))
	}
	return units
}

// TipIndex picks the daily tip: |HashCode(date)| mod n.
func TipIndex(t time.Time, n int) int {
	if n <= 0 {
		return 0
	}
	h := int64(HashCode(DateString(t)))
	if h < 0 {
		h = -h
	}
	return int(h % int64(n))
}

// QuoteIndex picks the daily quote: sum of date characters mod n.
func QuoteIndex(t time.Time, n int) int {
	if n <= 0 {
		return 0
	}
	return charSum(DateString(t)) % n
}

// PromptIndex picks the daily journal prompt: day-of-year mod n.
func PromptIndex(t time.Time, n int) int {
	if n <= 0 {
		return 0
	}
	return t.YearDay() % n
}

// SelectQuestions returns count items of pool in a date-seeded order.
// The sine-based index is a weak shuffle and only meant for variety.
func SelectQuestions[T any](t time.Time, pool []T, count int) []T {
	seed := charSum(DateString(t))

	shuffled := make([]T, len(pool))
	copy(shuffled, pool)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := int(math.Floor(math.Sin(float64(seed+i))*1000)) % (i + 1)
		if j >= 0 {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		}
	}

	if count > len(shuffled) {
		count = len(shuffled)
	}
	return shuffled[:count]
}

// Greeting returns the time-of-day salutation for name.
func Greeting(t time.Time, name string) string {
	hour := t.Hour()
	switch {
	case hour < 12:
		return "Good morning, " + name + "!"
	case hour < 17:
		return "Good afternoon, " + name + "!"
	default:
		return "Good evening, " + name + "!"
	}
}
