// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package wellness

import "fmt"

// DefaultDailyMessageLimit is the daily chat cap.
const DefaultDailyMessageLimit = 20

// LowQuotaThreshold is the remaining count at which a warning is shown.
const LowQuotaThreshold = 3

// Quota is a user's chat allowance for one day.
type Quota struct {
	Used  int
	Limit int
}

// Remaining never drops below zero.
func (q Quota) Remaining() int {
	return max(0, q.Limit-q.Used)
}

// Blocked reports whether no more messages may be sent today.
func (q Quota) Blocked() bool {
	return q.Remaining() == 0
}

// Text is the usage line shown under the chat input.
func (q Quota) Text() string {
	return fmt.Sprintf("Chats left today: %d/%d", q.Remaining(), q.Limit)
}

// Warning is set when only a few messages remain.
func (q Quota) Warning() string {
	r := q.Remaining()
	if r > 0 && r <= LowQuotaThreshold {
		return fmt.Sprintf("⚠️ Only %d chats left today", r)
	}
	return ""
}
