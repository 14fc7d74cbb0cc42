package deadline

import (
	"testing"
	"time"
)

var fp1 = time.Date(2025, 3, 14, 1, 45, 0, 0, time.UTC)

func TestIsLate(t *testing.T) {
	tests := []struct {
		name      string
		submitted time.Time
		expected  bool
	}{
		{"one millisecond before", fp1.Add(-time.Millisecond), false},
		{"exactly at deadline", fp1, false},
		{"one millisecond after", fp1.Add(time.Millisecond), true},
		{"a day after", fp1.Add(24 * time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsLate(tt.submitted, fp1); got != tt.expected {
				t.Errorf("IsLate() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsLocked(t *testing.T) {
	if IsLocked(fp1.Add(-time.Millisecond), fp1) {
		t.Error("expected unlocked before deadline")
	}
	if !IsLocked(fp1, fp1) {
		t.Error("expected locked at deadline")
	}
	if !IsLocked(fp1.Add(time.Hour), fp1) {
		t.Error("expected locked after deadline")
	}
}

func TestTimeRemaining(t *testing.T) {
	now := fp1.Add(-90 * time.Minute)
	if got := TimeRemaining(fp1, now); got != 90*time.Minute {
		t.Errorf("expected 90m, got %v", got)
	}
	if got := TimeRemaining(fp1, fp1.Add(time.Second)); got != -time.Second {
		t.Errorf("expected -1s, got %v", got)
	}
}

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		d        time.Duration
		expected string
	}{
		{0, "less than 1m"},
		{-time.Millisecond, "deadline passed"},
		{59 * time.Second, "less than 1m"},
		{time.Minute, "1m"},
		{90000000 * time.Millisecond, "1d 1h"},
		{2*time.Hour + 5*time.Minute, "2h 5m"},
		{3*24*time.Hour + 7*time.Minute, "3d 7m"},
		{24*time.Hour + time.Hour + time.Minute + 30*time.Second, "1d 1h 1m"},
	}

	for _, tt := range tests {
		if got := FormatRemaining(tt.d); got != tt.expected {
			t.Errorf("FormatRemaining(%v) = %q, want %q", tt.d, got, tt.expected)
		}
	}
}

func TestStatusAt(t *testing.T) {
	s := StatusAt(fp1, fp1.Add(-25*time.Hour))
	if s.Passed {
		t.Error("expected not passed")
	}
	if s.Label != "1d 1h" {
		t.Errorf("expected label '1d 1h', got %q", s.Label)
	}

	s = StatusAt(fp1, fp1.Add(time.Minute))
	if !s.Passed || s.Label != "deadline passed" {
		t.Errorf("expected passed status, got %+v", s)
	}

	s = StatusAt(fp1, fp1)
	if s.Passed {
		t.Error("exactly at deadline should not count as passed")
	}
}

func TestClassify(t *testing.T) {
	before := fp1.Add(-time.Hour)
	after := fp1.Add(time.Hour)

	tests := []struct {
		name        string
		now         time.Time
		hasExisting bool
		lateAllowed bool
		outcome     Outcome
		next        State
	}{
		{"new on time", before, false, true, Accept, SubmittedOnTime},
		{"edit on time", before, true, false, Accept, SubmittedOnTime},
		{"at deadline", fp1, true, false, Accept, SubmittedOnTime},
		{"first late entry", after, false, true, AcceptLate, SubmittedLate},
		{"late edit", after, true, true, Reject, Locked},
		{"late not allowed", after, false, false, Reject, Locked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Classify(tt.now, fp1, tt.hasExisting, tt.lateAllowed)
			if d.Outcome != tt.outcome {
				t.Errorf("outcome = %v, want %v", d.Outcome, tt.outcome)
			}
			if d.Next != tt.next {
				t.Errorf("next = %v, want %v", d.Next, tt.next)
			}
			if d.Outcome == Reject && d.Reason == "" {
				t.Error("expected a reason for rejection")
			}
			if d.Late() != (tt.outcome == AcceptLate) {
				t.Errorf("Late() = %v", d.Late())
			}
		})
	}
}

func TestStateAt(t *testing.T) {
	if got := StateAt(fp1.Add(time.Hour), fp1, false); got != Unsubmitted {
		t.Errorf("expected unsubmitted, got %v", got)
	}
	if got := StateAt(fp1.Add(-time.Hour), fp1, true); got != SubmittedOnTime {
		t.Errorf("expected submitted, got %v", got)
	}
	if got := StateAt(fp1.Add(time.Hour), fp1, true); got != Locked {
		t.Errorf("expected locked, got %v", got)
	}
}

func TestStateString(t *testing.T) {
	if SubmittedLate.String() != "submitted_late" {
		t.Errorf("unexpected %q", SubmittedLate.String())
	}
	if State(99).String() != "unknown" {
		t.Errorf("unexpected %q", State(99).String())
	}
}
