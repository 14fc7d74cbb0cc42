// Package deadline decides whether a prediction is on time, late or locked
// relative to a session start time. Nothing here reads a clock: callers pass
// the current instant explicitly.
package deadline

import (
	"fmt"
	"strings"
	"time"
)

// IsLate reports whether submittedAt is strictly after deadlineAt.
// A submission at exactly the deadline is on time.
func IsLate(submittedAt, deadlineAt time.Time) bool {
	return submittedAt.After(deadlineAt)
}

// IsLocked reports whether a deadline with no late path has been reached.
func IsLocked(now, deadlineAt time.Time) bool {
	return !now.Before(deadlineAt)
}

// TimeRemaining returns deadlineAt - now. Negative once the deadline passed.
func TimeRemaining(deadlineAt, now time.Time) time.Duration {
	return deadlineAt.Sub(now)
}

// FormatRemaining renders a remaining duration as "1d 2h 3m", dropping
// zero-valued units.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		return "deadline passed"
	}

	days := int(d / (24 * time.Hour))
	hours := int(d % (24 * time.Hour) / time.Hour)
	minutes := int(d % time.Hour / time.Minute)

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if len(parts) == 0 {
		return "less than 1m"
	}
	return strings.Join(parts, " ")
}

// Status is a snapshot of a deadline as seen at a given instant.
type Status struct {
	Deadline  time.Time     `json:"deadline"`
	Remaining time.Duration `json:"remaining_ns"`
	Label     string        `json:"label"`
	Passed    bool          `json:"passed"`
}

// StatusAt computes the Status of deadlineAt at now.
func StatusAt(deadlineAt, now time.Time) Status {
	remaining := TimeRemaining(deadlineAt, now)
	return Status{
		Deadline:  deadlineAt,
		Remaining: remaining,
		Label:     FormatRemaining(remaining),
		Passed:    IsLate(now, deadlineAt),
	}
}
