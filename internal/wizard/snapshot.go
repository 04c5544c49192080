package wizard

import (
	"github.com/romeonoobcode/Trip-daddy-paywall/internal/capability"
	"github.com/romeonoobcode/Trip-daddy-paywall/internal/paywall"
	"github.com/romeonoobcode/Trip-daddy-paywall/internal/trip"
	"github.com/romeonoobcode/Trip-daddy-paywall/internal/types"
)

// Snapshot is a deep copy of everything the UI needs to render one
// frame. Nothing in it aliases orchestrator-owned state, so the UI can
// read it freely while background work continues.
type Snapshot struct {
	Step Step

	// Draft is the current preference draft.
	Draft *trip.PreferenceDraft

	// Questions is the follow-up deck; ActiveQuestion indexes into it
	// and equals len(Questions) once the deck is exhausted.
	Questions      []trip.SmartQuestion
	ActiveQuestion int

	// SwipeDX and SwipeDY are the accumulated delta of the drag in
	// progress, for card offset rendering.
	SwipeDX float64
	SwipeDY float64

	// Itinerary is the visible plan, already masked to the free days
	// when the session is locked.
	Itinerary *trip.Itinerary

	// Images holds the hydrated day images keyed by day number.
	Images map[int]capability.DayImage

	// RegeneratingIDs lists the activities with a regeneration in
	// flight, for per-slot spinner rendering.
	RegeneratingIDs []types.ID

	SessionID types.ID
	Unlocked  bool

	// Accounting is the paywall lock arithmetic; zero-valued until a
	// session exists.
	Accounting paywall.Accounting
}

// Snapshot captures the current wizard state for rendering.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	snap := Snapshot{
		Step:      o.step,
		Draft:     o.draft.Clone(),
		Itinerary: o.plan.Clone(),
		SessionID: o.sessionID,
		Unlocked:  o.unlocked,
	}

	if len(o.deck) > 0 {
		snap.Questions = append([]trip.SmartQuestion(nil), o.deck...)
	}
	if o.interp != nil {
		snap.ActiveQuestion = o.interp.Index()
		snap.SwipeDX, snap.SwipeDY = o.interp.Delta()
	}

	snap.Images = make(map[int]capability.DayImage, len(o.images))
	for day, img := range o.images {
		snap.Images[day] = img
	}

	if !o.sessionID.IsZero() {
		snap.RegeneratingIDs = o.slots.InFlightIDs()
		snap.Accounting = o.reconciler.Account(capability.Session{
			ID:        o.sessionID,
			Plan:      o.plan,
			Unlocked:  o.unlocked,
			TotalDays: o.totalDays,
		})
	}

	return snap
}
