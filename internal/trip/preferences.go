package trip

import (
	"sort"
	"time"

	"github.com/romeonoobcode/Trip-daddy-paywall/internal/types"
)

// DateLayout is the calendar date format used throughout the planner.
const DateLayout = "2006-01-02"

// TripType identifies who is traveling.
type TripType string

const (
	TripTypeSolo    TripType = "solo"
	TripTypeCouple  TripType = "couple"
	TripTypeFriends TripType = "friends"
	TripTypeFamily  TripType = "family"
)

// Valid reports whether the trip type is one of the known values.
func (t TripType) Valid() bool {
	switch t {
	case TripTypeSolo, TripTypeCouple, TripTypeFriends, TripTypeFamily:
		return true
	default:
		return false
	}
}

// Budget is the traveler's spending level.
type Budget string

const (
	BudgetLow    Budget = "low"
	BudgetMedium Budget = "medium"
	BudgetHigh   Budget = "high"
)

// Vibe is the overall mood the traveler wants from the trip.
type Vibe string

const (
	VibeRelaxed     Vibe = "relaxed"
	VibeBalanced    Vibe = "balanced"
	VibeAdventurous Vibe = "adventurous"
	VibeParty       Vibe = "party"
	VibeCulture     Vibe = "culture"
)

// Pace controls how densely days are scheduled.
type Pace string

const (
	PaceSlow     Pace = "slow"
	PaceModerate Pace = "moderate"
	PacePacked   Pace = "packed"
)

// Interest is a single selectable interest category.
type Interest string

const (
	InterestFood        Interest = "food"
	InterestHistory     Interest = "history"
	InterestArt         Interest = "art"
	InterestNature      Interest = "nature"
	InterestNightlife   Interest = "nightlife"
	InterestShopping    Interest = "shopping"
	InterestSports      Interest = "sports"
	InterestPhotography Interest = "photography"
)

// Demographics is the trip-type-dependent traveler information.
// Which fields are required depends on the selected TripType:
//
//	Solo           -> Gender and Age
//	Couple/Friends -> Age
//	Family         -> KidsAgeRange
type Demographics struct {
	Gender       string `json:"gender,omitempty"`
	Age          int    `json:"age,omitempty"`
	KidsAgeRange string `json:"kids_age_range,omitempty"`
}

// CompleteFor reports whether the demographics satisfy the requirements
// of the given trip type.
func (d Demographics) CompleteFor(t TripType) bool {
	switch t {
	case TripTypeSolo:
		return d.Gender != "" && d.Age > 0
	case TripTypeCouple, TripTypeFriends:
		return d.Age > 0
	case TripTypeFamily:
		return d.KidsAgeRange != ""
	default:
		return false
	}
}

// FixedPlan is a commitment the traveler already has (a booked dinner, a
// concert) that generation must schedule around. The date must fall within
// the trip range.
type FixedPlan struct {
	ID          types.ID `json:"id"`
	Date        string   `json:"date"`
	Description string   `json:"description"`
}

// PreferenceDraft is the mutable aggregate of everything collected by the
// wizard before generation. It is created empty at session start, mutated
// only by the current step's handlers, and frozen when generation begins.
type PreferenceDraft struct {
	Destination          string            `json:"destination"`
	FormattedDestination string            `json:"formatted_destination,omitempty"`
	StartDate            string            `json:"start_date"`
	EndDate              string            `json:"end_date"`
	HotelLocation        string            `json:"hotel_location,omitempty"`
	TripType             TripType          `json:"trip_type"`
	Budget               Budget            `json:"budget"`
	Vibe                 Vibe              `json:"vibe"`
	Pace                 Pace              `json:"pace"`
	Interests            map[Interest]bool `json:"interests"`
	Demographics         Demographics      `json:"demographics"`
	FixedPlans           []FixedPlan       `json:"fixed_plans,omitempty"`
	MustVisit            string            `json:"must_visit,omitempty"`
	Answers              map[string]bool   `json:"answers"`

	frozen bool
}

// NewPreferenceDraft returns an empty draft ready for the wizard.
func NewPreferenceDraft() *PreferenceDraft {
	return &PreferenceDraft{
		Interests: make(map[Interest]bool),
		Answers:   make(map[string]bool),
	}
}

// Freeze marks the draft immutable. Called when generation begins; any
// later AddFixedPlan or SetAnswer call fails with DRAFT_FROZEN.
func (p *PreferenceDraft) Freeze() { p.frozen = true }

// Unfreeze makes the draft mutable again after a failed generation attempt
// so the traveler does not lose their inputs.
func (p *PreferenceDraft) Unfreeze() { p.frozen = false }

// Frozen reports whether generation has begun for this draft.
func (p *PreferenceDraft) Frozen() bool { return p.frozen }

// ToggleInterest adds the interest to the set, or removes it if present.
func (p *PreferenceDraft) ToggleInterest(i Interest) {
	if p.Interests[i] {
		delete(p.Interests, i)
		return
	}
	p.Interests[i] = true
}

// InterestList returns the selected interests in a stable order.
func (p *PreferenceDraft) InterestList() []Interest {
	list := make([]Interest, 0, len(p.Interests))
	for i := range p.Interests {
		list = append(list, i)
	}
	sort.Slice(list, func(a, b int) bool { return list[a] < list[b] })
	return list
}

// AddFixedPlan validates the date against the trip range, assigns an ID,
// and appends the plan in insertion order.
func (p *PreferenceDraft) AddFixedPlan(date, description string) (FixedPlan, error) {
	if p.frozen {
		return FixedPlan{}, types.NewError(types.DRAFT_FROZEN, "preferences are frozen after generation begins")
	}
	if err := p.validateWithinRange(date); err != nil {
		return FixedPlan{}, err
	}

	plan := FixedPlan{
		ID:          types.NewID(),
		Date:        date,
		Description: description,
	}
	p.FixedPlans = append(p.FixedPlans, plan)
	return plan, nil
}

// RemoveFixedPlan deletes the plan with the given ID. Unknown IDs are a no-op.
func (p *PreferenceDraft) RemoveFixedPlan(id types.ID) {
	for i, plan := range p.FixedPlans {
		if plan.ID == id {
			p.FixedPlans = append(p.FixedPlans[:i], p.FixedPlans[i+1:]...)
			return
		}
	}
}

// SetAnswer records a follow-up answer keyed by question ID. Re-answering
// the same ID overwrites.
func (p *PreferenceDraft) SetAnswer(questionID string, yes bool) error {
	if p.frozen {
		return types.NewError(types.DRAFT_FROZEN, "preferences are frozen after generation begins")
	}
	p.Answers[questionID] = yes
	return nil
}

// ValidateStart checks the inputs required to leave the Start step:
// non-empty destination and a coherent date range.
func (p *PreferenceDraft) ValidateStart() error {
	if p.Destination == "" {
		return types.NewError(types.DEST_EMPTY, "destination is required")
	}
	if p.StartDate == "" || p.EndDate == "" {
		return types.NewError(types.DATES_INCOMPLETE, "both start and end dates are required")
	}

	start, err := time.Parse(DateLayout, p.StartDate)
	if err != nil {
		return types.WrapError(types.DATES_INCOMPLETE, "invalid start date", err)
	}
	end, err := time.Parse(DateLayout, p.EndDate)
	if err != nil {
		return types.WrapError(types.DATES_INCOMPLETE, "invalid end date", err)
	}
	if end.Before(start) {
		return types.NewError(types.DATES_INVERTED, "end date must not be before start date")
	}
	return nil
}

// ValidateDemographics checks the trip-type-dependent completeness rule
// that gates the Preferences -> Specifics transition.
func (p *PreferenceDraft) ValidateDemographics() error {
	if !p.TripType.Valid() {
		return types.NewError(types.DEMOGRAPHICS_MISSING, "trip type is required")
	}
	if !p.Demographics.CompleteFor(p.TripType) {
		return types.NewErrorf(types.DEMOGRAPHICS_MISSING,
			"demographics incomplete for %s trip", p.TripType)
	}
	return nil
}

// Days returns the number of calendar days in the trip range, inclusive.
// Returns 0 if the range is not yet valid.
func (p *PreferenceDraft) Days() int {
	start, err := time.Parse(DateLayout, p.StartDate)
	if err != nil {
		return 0
	}
	end, err := time.Parse(DateLayout, p.EndDate)
	if err != nil || end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// Clone returns a deep copy safe to hand out in render snapshots.
func (p *PreferenceDraft) Clone() *PreferenceDraft {
	out := *p
	out.Interests = make(map[Interest]bool, len(p.Interests))
	for k, v := range p.Interests {
		out.Interests[k] = v
	}
	out.Answers = make(map[string]bool, len(p.Answers))
	for k, v := range p.Answers {
		out.Answers[k] = v
	}
	out.FixedPlans = append([]FixedPlan(nil), p.FixedPlans...)
	return &out
}

func (p *PreferenceDraft) validateWithinRange(date string) error {
	if err := p.ValidateStart(); err != nil {
		return err
	}
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return types.WrapError(types.FIXED_PLAN_OUT_OF_RANGE, "invalid fixed plan date", err)
	}
	start, _ := time.Parse(DateLayout, p.StartDate)
	end, _ := time.Parse(DateLayout, p.EndDate)
	if d.Before(start) || d.After(end) {
		return types.NewErrorf(types.FIXED_PLAN_OUT_OF_RANGE,
			"fixed plan date %s falls outside trip range %s..%s", date, p.StartDate, p.EndDate)
	}
	return nil
}
