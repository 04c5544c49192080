package tui

import (
	"fmt"
	"strings"

	"github.com/romeonoobcode/Trip-daddy-paywall/internal/trip"
	"github.com/romeonoobcode/Trip-daddy-paywall/internal/wizard"
)

// View implements tea.Model.
func (a *App) View() string {
	snap := a.orch.Snapshot()

	var b strings.Builder
	b.WriteString(a.theme.Title.Render("✈  Trip Daddy"))
	b.WriteString("\n\n")

	switch snap.Step {
	case wizard.StepStart:
		b.WriteString(a.viewStart())
	case wizard.StepPreferences:
		b.WriteString(a.viewPreferences(snap))
	case wizard.StepSpecifics:
		b.WriteString(a.viewSpecifics(snap))
	case wizard.StepQuestions:
		b.WriteString(a.viewQuestions(snap))
	case wizard.StepLoading:
		b.WriteString(a.viewLoading("Planning your trip..."))
	case wizard.StepVerifyingPayment:
		b.WriteString(a.viewLoading("Confirming your payment..."))
	case wizard.StepItinerary:
		b.WriteString(a.viewItinerary(snap))
	}

	if a.status != "" {
		b.WriteString("\n")
		b.WriteString(a.theme.Error.Render(a.status))
	}
	b.WriteString("\n")
	return b.String()
}

func (a *App) viewLoading(caption string) string {
	return fmt.Sprintf("%s %s", a.spin.View(), a.theme.Subtitle.Render(caption))
}

func (a *App) viewStart() string {
	var b strings.Builder
	b.WriteString(a.theme.Subtitle.Render("Where are we going?"))
	b.WriteString("\n\n")

	labels := []string{"Destination", "Start date", "End date"}
	for i, in := range a.inputs {
		b.WriteString(a.formRow(labels[i], in.View(), a.field == i))
	}

	b.WriteString("\n")
	b.WriteString(a.theme.Help.Render("↑/↓ move · enter continue · q quit"))
	return b.String()
}

func (a *App) viewPreferences(snap wizard.Snapshot) string {
	var b strings.Builder
	b.WriteString(a.theme.Subtitle.Render("Tell us about the trip"))
	b.WriteString("\n\n")

	enumRows := []struct {
		label string
		value string
	}{
		{"Who's going", string(tripTypes[a.tripTypeIdx])},
		{"Budget", string(budgets[a.budgetIdx])},
		{"Vibe", string(vibes[a.vibeIdx])},
		{"Pace", string(paces[a.paceIdx])},
	}
	for i, row := range enumRows {
		b.WriteString(a.formRow(row.label, "◂ "+row.value+" ▸", a.field == i))
	}

	b.WriteString("\n")
	b.WriteString(a.theme.Label.Render("Interests"))
	b.WriteString("\n")
	for i, in := range interests {
		row := 4 + i
		mark := "[ ]"
		if snap.Draft.Interests[in] {
			mark = "[x]"
		}
		b.WriteString(a.formRow(string(in), mark, a.field == row))
	}

	b.WriteString("\n")
	textBase := 4 + len(interests)
	labels := []string{"Age", "Gender", "Kids age range"}
	for i, in := range a.inputs {
		b.WriteString(a.formRow(labels[i], in.View(), a.field == textBase+i))
	}

	b.WriteString("\n")
	b.WriteString(a.theme.Help.Render("←/→ change · space toggle interest · enter continue"))
	return b.String()
}

func (a *App) viewSpecifics(snap wizard.Snapshot) string {
	var b strings.Builder
	b.WriteString(a.theme.Subtitle.Render("Any specifics?"))
	b.WriteString("\n\n")

	labels := []string{"Staying at", "Must visit", "Fixed plan date", "Fixed plan"}
	for i, in := range a.inputs {
		b.WriteString(a.formRow(labels[i], in.View(), a.field == i))
	}

	if len(snap.Draft.FixedPlans) > 0 {
		b.WriteString("\n")
		b.WriteString(a.theme.Label.Render("Planned commitments"))
		b.WriteString("\n")
		for _, fp := range snap.Draft.FixedPlans {
			b.WriteString(fmt.Sprintf("  %s  %s\n",
				a.theme.Value.Render(fp.Date), fp.Description))
		}
	}

	b.WriteString("\n")
	b.WriteString(a.theme.Help.Render("fill a fixed-plan row to add it · enter continue"))
	return b.String()
}

func (a *App) viewQuestions(snap wizard.Snapshot) string {
	var b strings.Builder

	if snap.ActiveQuestion >= len(snap.Questions) {
		return a.viewLoading("Wrapping up...")
	}
	q := snap.Questions[snap.ActiveQuestion]

	b.WriteString(a.theme.Subtitle.Render(fmt.Sprintf(
		"Quick question %d of %d", snap.ActiveQuestion+1, len(snap.Questions))))
	b.WriteString("\n\n")

	card := fmt.Sprintf("%s  %s", q.Emoji, a.theme.Title.Render(q.Title))
	if q.Description != "" {
		card += "\n" + a.theme.Muted.Render(q.Description)
	}

	// Shift the card with the drag so the gesture reads on screen.
	offset := int(snap.SwipeDX / 15)
	pad := strings.Repeat(" ", max(0, offset+10))
	rendered := a.theme.Card.Render(card)
	b.WriteString(indentBlock(rendered, pad))

	b.WriteString("\n\n")
	hint := "← no · yes →"
	switch {
	case snap.SwipeDX > 0:
		hint = a.theme.Success.Render("release for YES")
	case snap.SwipeDX < 0:
		hint = a.theme.Error.Render("release for NO")
	}
	b.WriteString("  " + hint + "\n\n")
	b.WriteString(a.theme.Help.Render("hold ←/→ then enter to release · y/n to answer directly"))
	return b.String()
}

func (a *App) viewItinerary(snap wizard.Snapshot) string {
	var b strings.Builder
	if snap.Itinerary == nil {
		return a.viewLoading("Loading your plan...")
	}

	regenerating := make(map[string]bool, len(snap.RegeneratingIDs))
	for _, id := range snap.RegeneratingIDs {
		regenerating[id.String()] = true
	}

	b.WriteString(a.theme.Subtitle.Render(snap.Itinerary.Destination))
	b.WriteString("\n")

	slot := 0
	for _, day := range snap.Itinerary.Days {
		b.WriteString("\n")
		title := fmt.Sprintf("Day %d · %s", day.DayNumber, day.Date)
		if day.Title != "" {
			title += " · " + day.Title
		}
		b.WriteString(a.theme.Label.Render(title))
		b.WriteString("\n")

		if img, ok := snap.Images[day.DayNumber]; ok {
			b.WriteString(a.theme.Muted.Render("  🖼  " + img.URL))
			b.WriteString("\n")
		}
		if day.Highlight != nil {
			b.WriteString(a.theme.Success.Render("  ★ " + day.Highlight.Name))
			b.WriteString("\n")
		}

		for _, p := range trip.Periods() {
			acts := dayActivities(day, p)
			if len(acts) == 0 {
				continue
			}
			b.WriteString(a.theme.Muted.Render("  " + string(p)))
			b.WriteString("\n")
			for _, act := range acts {
				line := fmt.Sprintf("%s %s", act.Emoji, act.Name)
				if regenerating[act.ID.String()] {
					line += "  " + a.spin.View()
				}
				if act.IsLocalRecommendation {
					line += a.theme.Success.Render("  local pick")
				}
				if slot == a.cursor {
					line = a.theme.Selected.Render("▸ " + line)
				} else {
					line = "  " + line
				}
				b.WriteString("   " + line + "\n")
				slot++
			}
		}
	}

	if snap.Accounting.ShowUnlock {
		b.WriteString("\n")
		b.WriteString(a.theme.Locked.Render(fmt.Sprintf(
			"🔒 %d more day(s) locked · press u to unlock the full plan",
			snap.Accounting.LockedDaysCount)))
		b.WriteString("\n")
	}
	if a.checkoutURL != "" {
		b.WriteString("\n")
		b.WriteString(a.theme.Success.Render("Open to complete your purchase: " + a.checkoutURL))
		b.WriteString("\n")
	}
	if a.emailMode {
		b.WriteString("\n" + a.formRow("Email", a.aux.View(), true))
	}
	if a.instrMode {
		b.WriteString("\n" + a.formRow("Instead", a.aux.View(), true))
	}

	b.WriteString("\n")
	b.WriteString(a.theme.Help.Render(
		"↑/↓ select · r regenerate · i regenerate with a wish · x delete · e email · ctrl+r start over · q quit"))
	return b.String()
}

func (a *App) formRow(label, value string, focused bool) string {
	l := a.theme.Label.Render(fmt.Sprintf("%-16s", label))
	if focused {
		l = a.theme.Selected.Render(fmt.Sprintf("%-16s", label))
	}
	return fmt.Sprintf("  %s %s\n", l, value)
}

func indentBlock(block, pad string) string {
	lines := strings.Split(block, "\n")
	for i := range lines {
		lines[i] = pad + lines[i]
	}
	return strings.Join(lines, "\n")
}
