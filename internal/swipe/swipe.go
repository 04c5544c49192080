// Package swipe interprets drag gestures over the follow-up question deck
// as committed yes/no answers. The classification rule is a pure function
// so decision logic is testable without any rendering harness; the
// Interpreter adds traversal state (active index, delta accumulator,
// animation lock) on top of it.
package swipe

// Decision is the outcome of classifying a completed gesture.
type Decision int

const (
	// DecisionCancel means the gesture did not clear the threshold in
	// either direction; nothing is committed.
	DecisionCancel Decision = iota

	// DecisionNo commits a "no" answer (left swipe).
	DecisionNo

	// DecisionYes commits a "yes" answer (right swipe).
	DecisionYes
)

// String returns a readable name for logs.
func (d Decision) String() string {
	switch d {
	case DecisionNo:
		return "no"
	case DecisionYes:
		return "yes"
	default:
		return "cancel"
	}
}

// Classify maps a signed horizontal delta to a decision against the
// threshold magnitude. The boundary is exclusive: a delta of exactly the
// threshold cancels, threshold+1 commits.
func Classify(deltaX, threshold float64) Decision {
	if threshold < 0 {
		threshold = -threshold
	}
	switch {
	case deltaX > threshold:
		return DecisionYes
	case deltaX < -threshold:
		return DecisionNo
	default:
		return DecisionCancel
	}
}
