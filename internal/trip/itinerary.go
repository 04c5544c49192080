package trip

import (
	"fmt"

	"github.com/romeonoobcode/Trip-daddy-paywall/internal/types"
)

// Period is one of the three activity lists in a day plan.
type Period string

const (
	PeriodMorning   Period = "morning"
	PeriodAfternoon Period = "afternoon"
	PeriodEvening   Period = "evening"
)

// Periods returns the three periods in day order.
func Periods() []Period {
	return []Period{PeriodMorning, PeriodAfternoon, PeriodEvening}
}

// Valid reports whether the period is one of the known values.
func (p Period) Valid() bool {
	switch p {
	case PeriodMorning, PeriodAfternoon, PeriodEvening:
		return true
	default:
		return false
	}
}

// SlotKey addresses one activity position in the itinerary. It is the
// public addressing scheme; mutations resolve it to the activity's stable
// ID before any asynchronous work starts.
type SlotKey struct {
	Day    int    `json:"day"`
	Period Period `json:"period"`
	Index  int    `json:"index"`
}

// String renders the key for logs and error messages.
func (k SlotKey) String() string {
	return fmt.Sprintf("day %d %s[%d]", k.Day, k.Period, k.Index)
}

// Activity is a single suggested thing to do. The ID is assigned when the
// itinerary is decoded from the generation service and never changes.
type Activity struct {
	ID                    types.ID `json:"id"`
	Name                  string   `json:"name"`
	Description           string   `json:"description"`
	Emoji                 string   `json:"emoji"`
	Category              string   `json:"category"`
	MapsQuery             string   `json:"maps_query"`
	Website               string   `json:"website,omitempty"`
	PriceLevel            string   `json:"price_level,omitempty"`
	AdmissionFee          string   `json:"admission_fee,omitempty"`
	Rating                float64  `json:"rating,omitempty"`
	OpeningHours          string   `json:"opening_hours,omitempty"`
	IsLocalRecommendation bool     `json:"is_local_recommendation,omitempty"`
}

// HighlightEvent is an optional headline event for a day.
type HighlightEvent struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	MapsQuery   string `json:"maps_query"`
}

// DayPlan is one day of the itinerary. DayNumber is 1-based and contiguous
// across the full plan; the three activity lists are independently sized.
type DayPlan struct {
	DayNumber int             `json:"day_number"`
	Date      string          `json:"date"`
	Title     string          `json:"title"`
	AreaFocus string          `json:"area_focus"`
	VibeIcons []string        `json:"vibe_icons,omitempty"`
	Highlight *HighlightEvent `json:"highlight_event,omitempty"`
	Morning   []Activity      `json:"morning"`
	Afternoon []Activity      `json:"afternoon"`
	Evening   []Activity      `json:"evening"`
}

// Activities returns the list for the given period, or nil for an unknown
// period.
func (d *DayPlan) Activities(p Period) []Activity {
	switch p {
	case PeriodMorning:
		return d.Morning
	case PeriodAfternoon:
		return d.Afternoon
	case PeriodEvening:
		return d.Evening
	default:
		return nil
	}
}

func (d *DayPlan) setActivities(p Period, list []Activity) {
	switch p {
	case PeriodMorning:
		d.Morning = list
	case PeriodAfternoon:
		d.Afternoon = list
	case PeriodEvening:
		d.Evening = list
	}
}

// Itinerary is the generated day-by-day plan. It is owned exclusively by
// the wizard orchestrator after generation; days are ordered by DayNumber.
type Itinerary struct {
	Destination string    `json:"destination"`
	Days        []DayPlan `json:"days"`
}

// Day returns a pointer to the plan with the given day number.
func (it *Itinerary) Day(n int) (*DayPlan, bool) {
	for i := range it.Days {
		if it.Days[i].DayNumber == n {
			return &it.Days[i], true
		}
	}
	return nil, false
}

// ActivityAt returns the activity at the given slot position.
func (it *Itinerary) ActivityAt(key SlotKey) (Activity, bool) {
	day, ok := it.Day(key.Day)
	if !ok {
		return Activity{}, false
	}
	list := day.Activities(key.Period)
	if key.Index < 0 || key.Index >= len(list) {
		return Activity{}, false
	}
	return list[key.Index], true
}

// Find locates an activity by its stable ID and returns its current slot
// position. Positions move when earlier activities in the same period are
// deleted; Find always reflects the current layout.
func (it *Itinerary) Find(id types.ID) (SlotKey, bool) {
	for i := range it.Days {
		day := &it.Days[i]
		for _, p := range Periods() {
			for idx, act := range day.Activities(p) {
				if act.ID == id {
					return SlotKey{Day: day.DayNumber, Period: p, Index: idx}, true
				}
			}
		}
	}
	return SlotKey{}, false
}

// ReplaceActivity writes the replacement at the position currently held by
// the activity with the target ID. The list length and every other
// position are unchanged. Returns false if the target no longer exists,
// in which case nothing is written.
func (it *Itinerary) ReplaceActivity(target types.ID, replacement Activity) bool {
	key, ok := it.Find(target)
	if !ok {
		return false
	}
	day, _ := it.Day(key.Day)

	// Whole-list replacement so a concurrent snapshot never observes a
	// partially written slice.
	list := append([]Activity(nil), day.Activities(key.Period)...)
	list[key.Index] = replacement
	day.setActivities(key.Period, list)
	return true
}

// RemoveAt deletes the activity at the given slot position, shifting
// subsequent activities in the same period down by one.
func (it *Itinerary) RemoveAt(key SlotKey) bool {
	day, ok := it.Day(key.Day)
	if !ok {
		return false
	}
	list := day.Activities(key.Period)
	if key.Index < 0 || key.Index >= len(list) {
		return false
	}

	out := make([]Activity, 0, len(list)-1)
	out = append(out, list[:key.Index]...)
	out = append(out, list[key.Index+1:]...)
	day.setActivities(key.Period, out)
	return true
}

// ActivityNames collects the names of every activity across all days and
// periods. Used as the exclusion list for regeneration so the service does
// not suggest something already in the plan.
func (it *Itinerary) ActivityNames() []string {
	var names []string
	for i := range it.Days {
		for _, p := range Periods() {
			for _, act := range it.Days[i].Activities(p) {
				names = append(names, act.Name)
			}
		}
	}
	return names
}

// EnsureActivityIDs assigns a fresh stable ID to every activity that does
// not carry one. Called once when an itinerary arrives from the generation
// service or is loaded from a stored session.
func (it *Itinerary) EnsureActivityIDs() {
	for i := range it.Days {
		day := &it.Days[i]
		for _, p := range Periods() {
			list := day.Activities(p)
			for j := range list {
				if list[j].ID.IsZero() {
					list[j].ID = types.NewID()
				}
			}
		}
	}
}

// Clone returns a deep copy safe to hand out in render snapshots.
func (it *Itinerary) Clone() *Itinerary {
	if it == nil {
		return nil
	}
	out := &Itinerary{
		Destination: it.Destination,
		Days:        make([]DayPlan, len(it.Days)),
	}
	for i, day := range it.Days {
		cp := day
		cp.VibeIcons = append([]string(nil), day.VibeIcons...)
		if day.Highlight != nil {
			h := *day.Highlight
			cp.Highlight = &h
		}
		cp.Morning = append([]Activity(nil), day.Morning...)
		cp.Afternoon = append([]Activity(nil), day.Afternoon...)
		cp.Evening = append([]Activity(nil), day.Evening...)
		out.Days[i] = cp
	}
	return out
}
