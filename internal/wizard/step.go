package wizard

// Step represents the wizard's current position in the planning flow.
type Step string

const (
	// StepStart collects destination and dates.
	StepStart Step = "start"

	// StepPreferences collects trip type, budget, vibe, pace, interests,
	// and demographics.
	StepPreferences Step = "preferences"

	// StepSpecifics collects hotel location, fixed plans, and must-visit
	// free text.
	StepSpecifics Step = "specifics"

	// StepQuestions runs the swipe deck of generated follow-up questions.
	StepQuestions Step = "questions"

	// StepLoading is the re-entrant waypoint around every generation
	// round-trip: question fetch, first generation, post-answers
	// generation, and session resume all pass through it.
	StepLoading Step = "loading"

	// StepItinerary shows the generated plan. Long-lived and
	// re-enterable; leaving it means restarting.
	StepItinerary Step = "itinerary"

	// StepVerifyingPayment is the alternate entry reached only via a
	// resumed link carrying a payment-success marker.
	StepVerifyingPayment Step = "verifying_payment"
)

// String returns the string representation of the step.
func (s Step) String() string {
	return string(s)
}

// CanTransitionTo validates whether a step transition is allowed.
func (s Step) CanTransitionTo(target Step) bool {
	switch s {
	case StepStart:
		// Loading and VerifyingPayment are the deep-link resume entries.
		return target == StepPreferences ||
			target == StepLoading ||
			target == StepVerifyingPayment
	case StepPreferences:
		return target == StepSpecifics || target == StepStart
	case StepSpecifics:
		return target == StepLoading || target == StepStart
	case StepQuestions:
		return target == StepLoading || target == StepStart
	case StepLoading:
		return target == StepQuestions ||
			target == StepItinerary ||
			target == StepStart
	case StepItinerary:
		return target == StepStart
	case StepVerifyingPayment:
		return target == StepItinerary || target == StepStart
	default:
		return false
	}
}
