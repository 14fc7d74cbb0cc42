package deadline

import "time"

// State is where a prediction sits in its lifecycle.
type State int

const (
	Unsubmitted State = iota
	SubmittedOnTime
	SubmittedLate
	Locked
)

func (s State) String() string {
	switch s {
	case Unsubmitted:
		return "unsubmitted"
	case SubmittedOnTime:
		return "submitted"
	case SubmittedLate:
		return "submitted_late"
	case Locked:
		return "locked"
	default:
		return "unknown"
	}
}

// Outcome of a submission attempt.
type Outcome int

const (
	// Accept stores the prediction, creating or overwriting it.
	Accept Outcome = iota
	// AcceptLate stores a first-time prediction and assesses a penalty.
	AcceptLate
	// Reject refuses the submission.
	Reject
)

// Decision is the result of Classify.
type Decision struct {
	Outcome Outcome
	Next    State
	Reason  string
}

// Late reports whether the accepted submission must be flagged late.
func (d Decision) Late() bool { return d.Outcome == AcceptLate }

// Classify applies the submission lifecycle to an attempt made at now.
// hasExisting reports whether the player already has a prediction for this
// deadline; lateAllowed is false when late entries are disabled or the
// session results are already known.
func Classify(now, deadlineAt time.Time, hasExisting, lateAllowed bool) Decision {
	if !IsLate(now, deadlineAt) {
		return Decision{Outcome: Accept, Next: SubmittedOnTime}
	}
	if hasExisting {
		return Decision{Outcome: Reject, Next: Locked, Reason: "prediction is locked"}
	}
	if !lateAllowed {
		return Decision{Outcome: Reject, Next: Locked, Reason: "deadline passed"}
	}
	return Decision{Outcome: AcceptLate, Next: SubmittedLate}
}

// StateAt reports the lifecycle state of a prediction at now. An
// unsubmitted prediction past its deadline stays Unsubmitted since a late
// entry may still be possible.
func StateAt(now, deadlineAt time.Time, submitted bool) State {
	switch {
	case !submitted:
		return Unsubmitted
	case IsLate(now, deadlineAt):
		return Locked
	default:
		return SubmittedOnTime
	}
}
