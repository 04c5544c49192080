// Package capability declares the external collaborators the wizard
// orchestrator consumes: content generation, session persistence, payments,
// and email. All of them are transport-agnostic interfaces; the
// orchestrator never sees a concrete client.
package capability

import (
	"context"

	"github.com/romeonoobcode/Trip-daddy-paywall/internal/trip"
	"github.com/romeonoobcode/Trip-daddy-paywall/internal/types"
)

// DayImage is a generated image for a single day.
type DayImage struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

// Session is the server-owned resource referenced by an opaque locator.
// When Unlocked is false the Plan may be truncated to the free-day count;
// TotalDays is always the true day count and must be used for lock
// accounting instead of len(Plan.Days).
type Session struct {
	ID        types.ID         `json:"id"`
	Plan      *trip.Itinerary  `json:"plan"`
	Unlocked  bool             `json:"unlocked"`
	TotalDays int              `json:"total_days"`
	Images    map[int]DayImage `json:"images,omitempty"`
}

// ValidationResult is the outcome of a destination validation call.
type ValidationResult struct {
	IsValid       bool   `json:"is_valid"`
	FormattedName string `json:"formatted_name,omitempty"`
}

// DayContext carries the inputs for a single day-image generation.
type DayContext struct {
	DayNumber   int       `json:"day_number"`
	Title       string    `json:"title"`
	AreaFocus   string    `json:"area_focus"`
	Destination string    `json:"destination"`
	Vibe        trip.Vibe `json:"vibe"`
}

// RegenContext locates the activity being regenerated within its day.
type RegenContext struct {
	DayNumber int         `json:"day_number"`
	Date      string      `json:"date"`
	Period    trip.Period `json:"period"`
}

// DestinationValidator checks free-text destinations before the wizard
// leaves the Start step.
type DestinationValidator interface {
	// ValidateDestination returns IsValid=false for unrecognized input.
	// A transport error is distinct from an invalid destination: callers
	// proceed optimistically when the service is unreachable.
	ValidateDestination(ctx context.Context, text string) (ValidationResult, error)
}

// QuestionService generates the follow-up question set from the frozen
// preference draft. The returned sequence may be empty.
type QuestionService interface {
	FollowUpQuestions(ctx context.Context, prefs *trip.PreferenceDraft) ([]trip.SmartQuestion, error)
}

// Generator is the content generation service, treated as a black box.
type Generator interface {
	// GenerateItinerary turns the frozen preferences into a persisted
	// session resource. Every external call is attempted exactly once;
	// failure is fatal to the current attempt.
	GenerateItinerary(ctx context.Context, prefs *trip.PreferenceDraft) (Session, error)

	// AlternativeActivity produces a replacement for one activity.
	// Exclusions lists every activity name currently in the plan so the
	// service does not suggest a duplicate. Instruction is optional
	// free-text steering from the traveler.
	AlternativeActivity(ctx context.Context, prefs *trip.PreferenceDraft, current trip.Activity, rc RegenContext, exclusions []string, instruction string) (trip.Activity, error)

	// DayImage generates one image for a day. A nil image with a nil
	// error means the service produced nothing; the day stays imageless.
	DayImage(ctx context.Context, dc DayContext) (*DayImage, error)
}

// SessionStore persists and reloads session resources.
type SessionStore interface {
	// Save writes the full, untruncated session.
	Save(ctx context.Context, s Session) error

	// LoadByID returns the session, with Plan truncated to the free-day
	// count when the session is still locked. Returns SESSION_NOT_FOUND
	// for unknown locators.
	LoadByID(ctx context.Context, id types.ID) (Session, error)

	// MarkUnlocked flips the paywall flag after payment verification.
	MarkUnlocked(ctx context.Context, id types.ID) error

	// SaveImage persists one hydrated day image. Fire-and-forget from
	// the orchestrator's perspective.
	SaveImage(ctx context.Context, id types.ID, dayNumber int, img DayImage) error
}

// PaymentProvider drives the checkout and verification sub-flow.
type PaymentProvider interface {
	// CreateCheckoutSession returns the redirect URL for the unlock
	// purchase of the given session.
	CreateCheckoutSession(ctx context.Context, id types.ID) (string, error)

	// VerifySession confirms a completed payment identified by the
	// opaque reference the provider attached on return.
	VerifySession(ctx context.Context, id types.ID, sessionRef string) error
}

// EmailSender delivers the shareable plan link.
type EmailSender interface {
	SaveEmail(ctx context.Context, email string, id types.ID) error
}
