package events

import (
	"time"

	"github.com/romeonoobcode/Trip-daddy-paywall/internal/types"
)

// EventType identifies the category and nature of a wizard event.
type EventType string

// Step lifecycle events
const (
	EventStepChanged EventType = "step.changed"
	EventRestarted   EventType = "wizard.restarted"
)

// Question events
const (
	EventQuestionsLoaded    EventType = "questions.loaded"
	EventQuestionAnswered   EventType = "question.answered"
	EventQuestionsCompleted EventType = "questions.completed"
)

// Generation events
const (
	EventGenerationStarted   EventType = "generation.started"
	EventGenerationCompleted EventType = "generation.completed"
	EventGenerationFailed    EventType = "generation.failed"
)

// Image hydration events
const (
	EventImageHydrated EventType = "image.hydrated"
	EventImageFailed   EventType = "image.failed"
)

// Slot events
const (
	EventSlotRegenerating EventType = "slot.regenerating"
	EventSlotReplaced     EventType = "slot.replaced"
	EventSlotDropped      EventType = "slot.dropped"
	EventSlotDeleted      EventType = "slot.deleted"
)

// Paywall and resume events
const (
	EventCheckoutStarted  EventType = "payment.checkout_started"
	EventPaymentVerifying EventType = "payment.verifying"
	EventPaymentVerified  EventType = "payment.verified"
	EventPaymentFailed    EventType = "payment.failed"
	EventSessionResumed   EventType = "session.resumed"
	EventEmailSaved       EventType = "email.saved"
)

// String returns the string representation of the event type.
func (t EventType) String() string {
	return string(t)
}

// Event is a single wizard observation delivered to subscribers.
type Event struct {
	// Type identifies the event type.
	Type EventType `json:"type"`

	// SessionID is the session locator, when one exists yet.
	SessionID types.ID `json:"session_id,omitempty"`

	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	// Payload contains type-specific event data.
	Payload any `json:"payload,omitempty"`
}

// New constructs an event stamped with the current time.
func New(t EventType, sessionID types.ID, payload any) Event {
	return Event{
		Type:      t,
		SessionID: sessionID,
		Timestamp: time.Now(),
		Payload:   payload,
	}
}

// Filter selects which events a subscriber receives. Zero-valued fields
// match everything.
type Filter struct {
	// Types limits delivery to the listed event types.
	Types []EventType

	// SessionID limits delivery to events for one session.
	SessionID types.ID
}

// Matches reports whether the event passes the filter.
func (f Filter) Matches(e Event) bool {
	if !f.SessionID.IsZero() && f.SessionID != e.SessionID {
		return false
	}
	if len(f.Types) == 0 {
		return true
	}
	for _, t := range f.Types {
		if t == e.Type {
			return true
		}
	}
	return false
}
