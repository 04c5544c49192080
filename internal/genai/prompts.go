package genai

import (
	"fmt"
	"strings"

	"github.com/romeonoobcode/Trip-daddy-paywall/internal/capability"
	"github.com/romeonoobcode/Trip-daddy-paywall/internal/trip"
)

// describeDraft renders the collected preferences as the shared context
// block every generation prompt starts from.
func describeDraft(p *trip.PreferenceDraft) string {
	var b strings.Builder

	dest := p.Destination
	if p.FormattedDestination != "" {
		dest = p.FormattedDestination
	}
	fmt.Fprintf(&b, "Destination: %s\n", dest)
	fmt.Fprintf(&b, "Dates: %s to %s (%d days)\n", p.StartDate, p.EndDate, p.Days())
	if p.HotelLocation != "" {
		fmt.Fprintf(&b, "Staying at/near: %s\n", p.HotelLocation)
	}
	if p.TripType != "" {
		fmt.Fprintf(&b, "Travel party: %s\n", p.TripType)
	}
	switch p.TripType {
	case trip.TripTypeSolo:
		fmt.Fprintf(&b, "Traveler: %s, age %d\n", p.Demographics.Gender, p.Demographics.Age)
	case trip.TripTypeCouple, trip.TripTypeFriends:
		fmt.Fprintf(&b, "Traveler age: %d\n", p.Demographics.Age)
	case trip.TripTypeFamily:
		fmt.Fprintf(&b, "Kids age range: %s\n", p.Demographics.KidsAgeRange)
	}
	if p.Budget != "" {
		fmt.Fprintf(&b, "Budget: %s\n", p.Budget)
	}
	if p.Vibe != "" {
		fmt.Fprintf(&b, "Vibe: %s\n", p.Vibe)
	}
	if p.Pace != "" {
		fmt.Fprintf(&b, "Pace: %s\n", p.Pace)
	}
	if interests := p.InterestList(); len(interests) > 0 {
		names := make([]string, len(interests))
		for i, in := range interests {
			names[i] = string(in)
		}
		fmt.Fprintf(&b, "Interests: %s\n", strings.Join(names, ", "))
	}
	for _, fp := range p.FixedPlans {
		fmt.Fprintf(&b, "Fixed commitment on %s: %s\n", fp.Date, fp.Description)
	}
	if p.MustVisit != "" {
		fmt.Fprintf(&b, "Must visit: %s\n", p.MustVisit)
	}
	for id, yes := range p.Answers {
		fmt.Fprintf(&b, "Preference %s: %v\n", id, yes)
	}
	return b.String()
}

func validationPrompt(text string) string {
	return fmt.Sprintf(`You validate travel destinations. Decide whether the input below names a real place someone could plan a trip to (a city, region, island, or country). Typos are fine if the place is recognizable.

Input: %q

Respond with only a JSON object:
{"is_valid": true|false, "formatted_name": "<canonical display name with country, empty when invalid>"}`, text)
}

func questionsPrompt(p *trip.PreferenceDraft) string {
	return fmt.Sprintf(`You are a travel planner preparing a personalized itinerary. Based on the trip below, write a short set of sharp yes/no questions (at most 6) that would most improve the plan. Skip anything the preferences already answer. It is fine to return an empty list.

%s
Respond with only a JSON array:
[{"id": "<kebab-case-slug>", "emoji": "<single emoji>", "title": "<question, max 60 chars>", "description": "<one sentence of context>"}]`, describeDraft(p))
}

func itineraryPrompt(p *trip.PreferenceDraft) string {
	return fmt.Sprintf(`You are an expert local travel planner. Build a day-by-day itinerary for the trip below. Schedule around every fixed commitment on its date. Honor the stated pace, budget, and interests. Prefer places locals actually go over tourist traps, and mark those with "is_local_recommendation": true.

%s
Respond with only a JSON object:
{
  "destination": "<display name>",
  "days": [
    {
      "day_number": 1,
      "date": "YYYY-MM-DD",
      "title": "<short day theme>",
      "area_focus": "<neighborhood or area>",
      "vibe_icons": ["<emoji>", "<emoji>"],
      "highlight_event": {"name": "", "description": "", "maps_query": ""} or null,
      "morning": [<activity>],
      "afternoon": [<activity>],
      "evening": [<activity>]
    }
  ]
}

Each <activity> is:
{"name": "", "description": "", "emoji": "", "category": "", "maps_query": "<name plus city for a maps search>", "website": "", "price_level": "", "admission_fee": "", "rating": 0.0, "opening_hours": "", "is_local_recommendation": false}

Cover every date from %s to %s with contiguous day numbers starting at 1. Do not include id fields.`, describeDraft(p), p.StartDate, p.EndDate)
}

func alternativePrompt(p *trip.PreferenceDraft, current trip.Activity, rc capability.RegenContext, exclusions []string, instruction string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `You are an expert local travel planner. Suggest one replacement activity for the %s of day %d (%s) of the trip below. The traveler rejected %q.

%s`, rc.Period, rc.DayNumber, rc.Date, current.Name, describeDraft(p))

	if instruction != "" {
		fmt.Fprintf(&b, "\nThe traveler asked for: %s\n", instruction)
	}
	if len(exclusions) > 0 {
		fmt.Fprintf(&b, "\nDo not suggest any of these, they are already planned: %s\n",
			strings.Join(exclusions, "; "))
	}

	b.WriteString(`
Respond with only a JSON object:
{"name": "", "description": "", "emoji": "", "category": "", "maps_query": "", "website": "", "price_level": "", "admission_fee": "", "rating": 0.0, "opening_hours": "", "is_local_recommendation": false}`)
	return b.String()
}

func dayImagePrompt(dc capability.DayContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A beautiful travel illustration of %s", dc.Destination)
	if dc.AreaFocus != "" {
		fmt.Fprintf(&b, ", focused on %s", dc.AreaFocus)
	}
	if dc.Title != "" {
		fmt.Fprintf(&b, ", capturing the feeling of %q", dc.Title)
	}
	if dc.Vibe != "" {
		fmt.Fprintf(&b, ", %s mood", dc.Vibe)
	}
	b.WriteString(". Warm light, no text, no people in the foreground.")
	return b.String()
}
