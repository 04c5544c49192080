// Package tui renders the planning wizard as a bubbletea application.
// Every blocking orchestrator call runs inside a tea.Cmd so the event
// loop never stalls; the view is always drawn from a fresh orchestrator
// snapshot.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/romeonoobcode/Trip-daddy-paywall/internal/trip"
	"github.com/romeonoobcode/Trip-daddy-paywall/internal/wizard"
)

// slotRef is one selectable activity position in the itinerary view.
type slotRef struct {
	key    trip.SlotKey
	act    trip.Activity
	locked bool
}

// App is the bubbletea model for the planning wizard.
type App struct {
	ctx   context.Context
	orch  *wizard.Orchestrator
	keys  KeyMap
	theme *Theme

	width  int
	height int

	// Form state. inputs holds the text fields of the current step;
	// field is the focused row, counting enum rows too.
	inputs []textinput.Model
	field  int

	// Enum selections on the Preferences step.
	tripTypeIdx int
	budgetIdx   int
	vibeIdx     int
	paceIdx     int

	// Itinerary state.
	cursor      int
	slots       []slotRef
	emailMode   bool
	instrMode   bool
	aux         textinput.Model
	checkoutURL string

	swiping bool
	busy    bool
	spin    spinner.Model
	status  string
}

var (
	tripTypes = []trip.TripType{trip.TripTypeSolo, trip.TripTypeCouple, trip.TripTypeFriends, trip.TripTypeFamily}
	budgets   = []trip.Budget{trip.BudgetLow, trip.BudgetMedium, trip.BudgetHigh}
	vibes     = []trip.Vibe{trip.VibeRelaxed, trip.VibeBalanced, trip.VibeAdventurous, trip.VibeParty, trip.VibeCulture}
	paces     = []trip.Pace{trip.PaceSlow, trip.PaceModerate, trip.PacePacked}
	interests = []trip.Interest{
		trip.InterestFood, trip.InterestHistory, trip.InterestArt, trip.InterestNature,
		trip.InterestNightlife, trip.InterestShopping, trip.InterestSports, trip.InterestPhotography,
	}
)

// NewApp creates the wizard UI over an orchestrator that is already at
// its entry step (fresh or resumed).
func NewApp(ctx context.Context, orch *wizard.Orchestrator) *App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	a := &App{
		ctx:   ctx,
		orch:  orch,
		keys:  DefaultKeyMap(),
		theme: DefaultTheme(),
		spin:  sp,
		aux:   textinput.New(),
	}
	a.setupStep()
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, a.spin.Tick, a.tick())
}

type stepDoneMsg struct{ err error }

type specificsDoneMsg struct {
	pending bool
	err     error
}

type generatedMsg struct{ err error }

type regenMsg struct{ err error }

type unlockMsg struct {
	url string
	err error
}

type emailMsg struct{ err error }

type tickMsg time.Time

func (a *App) tick() tea.Cmd {
	return tea.Tick(400*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		return a, nil

	case tickMsg:
		// Re-render so hydrated images and finished regenerations appear.
		return a, a.tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case stepDoneMsg:
		a.busy = false
		a.reportErr(msg.err)
		a.setupStep()
		return a, nil

	case specificsDoneMsg:
		a.reportErr(msg.err)
		if msg.err == nil && !msg.pending {
			// No follow-up questions; go straight to generation.
			return a, a.generateCmd()
		}
		a.busy = false
		a.setupStep()
		return a, nil

	case generatedMsg:
		a.busy = false
		a.reportErr(msg.err)
		a.setupStep()
		return a, nil

	case regenMsg:
		a.reportErr(msg.err)
		return a, nil

	case unlockMsg:
		a.busy = false
		if msg.err != nil {
			a.reportErr(msg.err)
			return a, nil
		}
		a.checkoutURL = msg.url
		return a, nil

	case emailMsg:
		a.reportErr(msg.err)
		if msg.err == nil {
			a.status = "We'll email you a link to this plan."
		}
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, a.updateInputs(msg)
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, a.keys.Quit) && !a.typing() {
		return a, tea.Quit
	}
	if a.busy {
		return a, nil
	}

	switch a.orch.Step() {
	case wizard.StepStart:
		return a.updateStart(msg)
	case wizard.StepPreferences:
		return a.updatePreferences(msg)
	case wizard.StepSpecifics:
		return a.updateSpecifics(msg)
	case wizard.StepQuestions:
		return a.updateQuestions(msg)
	case wizard.StepItinerary:
		return a.updateItinerary(msg)
	default:
		return a, nil
	}
}

func (a *App) updateStart(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Next):
		a.orch.SetDestination(a.inputs[0].Value())
		a.orch.SetDates(a.inputs[1].Value(), a.inputs[2].Value())
		a.busy = true
		a.status = ""
		return a, func() tea.Msg {
			return stepDoneMsg{err: a.orch.BeginPlanning(a.ctx)}
		}
	case key.Matches(msg, a.keys.Up):
		a.focusField(a.field - 1)
	case key.Matches(msg, a.keys.Down):
		a.focusField(a.field + 1)
	default:
		return a, a.updateInputs(msg)
	}
	return a, nil
}

func (a *App) updatePreferences(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Rows 0-3 cycle enums, rows 4..11 toggle interests, rows 12.. are
	// the demographic text fields.
	interestBase := 4
	textBase := interestBase + len(interests)

	switch {
	case key.Matches(msg, a.keys.Next):
		a.pushPreferences()
		a.busy = true
		a.status = ""
		return a, func() tea.Msg {
			return stepDoneMsg{err: a.orch.CompletePreferences(a.ctx)}
		}
	case key.Matches(msg, a.keys.Up):
		a.focusField(a.field - 1)
	case key.Matches(msg, a.keys.Down):
		a.focusField(a.field + 1)
	case key.Matches(msg, a.keys.Left), key.Matches(msg, a.keys.Right):
		delta := 1
		if key.Matches(msg, a.keys.Left) {
			delta = -1
		}
		switch a.field {
		case 0:
			a.tripTypeIdx = cycle(a.tripTypeIdx+delta, len(tripTypes))
			a.orch.SetTripType(tripTypes[a.tripTypeIdx])
		case 1:
			a.budgetIdx = cycle(a.budgetIdx+delta, len(budgets))
			a.orch.SetBudget(budgets[a.budgetIdx])
		case 2:
			a.vibeIdx = cycle(a.vibeIdx+delta, len(vibes))
			a.orch.SetVibe(vibes[a.vibeIdx])
		case 3:
			a.paceIdx = cycle(a.paceIdx+delta, len(paces))
			a.orch.SetPace(paces[a.paceIdx])
		}
	case key.Matches(msg, a.keys.Toggle) && a.field >= interestBase && a.field < textBase:
		a.orch.ToggleInterest(interests[a.field-interestBase])
	default:
		return a, a.updateInputs(msg)
	}
	return a, nil
}

func (a *App) updateSpecifics(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Next):
		// A filled fixed-plan row is added first so it is not lost.
		if err := a.pushSpecifics(); err != nil {
			a.reportErr(err)
			return a, nil
		}
		a.busy = true
		a.status = ""
		return a, func() tea.Msg {
			pending, err := a.orch.CompleteSpecifics(a.ctx)
			return specificsDoneMsg{pending: pending, err: err}
		}
	case key.Matches(msg, a.keys.Up):
		a.focusField(a.field - 1)
	case key.Matches(msg, a.keys.Down):
		a.focusField(a.field + 1)
	default:
		return a, a.updateInputs(msg)
	}
	return a, nil
}

func (a *App) updateQuestions(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	const nudge = 45

	finish := func(res wizardResult) (tea.Model, tea.Cmd) {
		if res.done {
			a.busy = true
			return a, a.generateCmd()
		}
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Left), key.Matches(msg, a.keys.Right):
		if !a.swiping {
			a.swiping = a.orch.GestureStart()
		}
		if a.swiping {
			dx := float64(nudge)
			if key.Matches(msg, a.keys.Left) {
				dx = -nudge
			}
			a.orch.GestureMove(dx, 0)
		}
		return a, nil
	case key.Matches(msg, a.keys.Next), key.Matches(msg, a.keys.Back):
		if !a.swiping {
			return a, nil
		}
		a.swiping = false
		res, err := a.orch.GestureRelease(a.ctx)
		a.reportErr(err)
		return finish(wizardResult{done: res.Done && res.Committed})
	case key.Matches(msg, a.keys.Yes), key.Matches(msg, a.keys.No):
		a.swiping = false
		res, err := a.orch.PressAnswer(a.ctx, key.Matches(msg, a.keys.Yes))
		a.reportErr(err)
		return finish(wizardResult{done: res.Done && res.Committed})
	}
	return a, nil
}

type wizardResult struct{ done bool }

func (a *App) updateItinerary(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.emailMode || a.instrMode {
		return a.updateItineraryInput(msg)
	}

	switch {
	case key.Matches(msg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
	case key.Matches(msg, a.keys.Down):
		if a.cursor < len(a.slots)-1 {
			a.cursor++
		}
	case key.Matches(msg, a.keys.Regenerate):
		if ref, ok := a.selectedSlot(); ok {
			return a, a.regenerateCmd(ref.key, "")
		}
	case msg.String() == "i":
		if _, ok := a.selectedSlot(); ok {
			a.instrMode = true
			a.aux.Placeholder = "what would you like instead?"
			a.aux.SetValue("")
			a.aux.Focus()
		}
	case key.Matches(msg, a.keys.Delete):
		if ref, ok := a.selectedSlot(); ok {
			err := a.orch.DeleteActivity(a.ctx, ref.key)
			a.reportErr(err)
			a.refreshSlots()
		}
	case key.Matches(msg, a.keys.Unlock):
		a.busy = true
		return a, func() tea.Msg {
			url, err := a.orch.Unlock(a.ctx)
			return unlockMsg{url: url, err: err}
		}
	case key.Matches(msg, a.keys.Email):
		a.emailMode = true
		a.aux.Placeholder = "you@example.com"
		a.aux.SetValue("")
		a.aux.Focus()
	case key.Matches(msg, a.keys.Restart):
		a.orch.Restart(a.ctx)
		a.checkoutURL = ""
		a.status = ""
		a.setupStep()
	}
	return a, nil
}

func (a *App) updateItineraryInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Back):
		a.emailMode, a.instrMode = false, false
		a.aux.Blur()
		return a, nil
	case key.Matches(msg, a.keys.Next):
		value := a.aux.Value()
		wasEmail := a.emailMode
		a.emailMode, a.instrMode = false, false
		a.aux.Blur()

		if wasEmail {
			return a, func() tea.Msg {
				return emailMsg{err: a.orch.SubmitEmail(a.ctx, value)}
			}
		}
		if ref, ok := a.selectedSlot(); ok {
			return a, a.regenerateCmd(ref.key, value)
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.aux, cmd = a.aux.Update(msg)
	return a, cmd
}

func (a *App) generateCmd() tea.Cmd {
	a.status = ""
	return func() tea.Msg {
		return generatedMsg{err: a.orch.Generate(a.ctx)}
	}
}

func (a *App) regenerateCmd(key trip.SlotKey, instruction string) tea.Cmd {
	return func() tea.Msg {
		_, err := a.orch.Regenerate(a.ctx, key, instruction)
		return regenMsg{err: err}
	}
}

// setupStep rebuilds the form inputs for the orchestrator's current step.
func (a *App) setupStep() {
	a.field = 0
	a.cursor = 0
	a.swiping = false

	snap := a.orch.Snapshot()
	switch snap.Step {
	case wizard.StepStart:
		a.inputs = newInputs(
			inputSpec{placeholder: "where to?", value: snap.Draft.Destination},
			inputSpec{placeholder: "start date (YYYY-MM-DD)", value: snap.Draft.StartDate},
			inputSpec{placeholder: "end date (YYYY-MM-DD)", value: snap.Draft.EndDate},
		)
	case wizard.StepPreferences:
		a.inputs = newInputs(
			inputSpec{placeholder: "age"},
			inputSpec{placeholder: "gender"},
			inputSpec{placeholder: "kids age range (e.g. 6-10)"},
		)
	case wizard.StepSpecifics:
		a.inputs = newInputs(
			inputSpec{placeholder: "hotel or neighborhood (optional)", value: snap.Draft.HotelLocation},
			inputSpec{placeholder: "anything you must see? (optional)", value: snap.Draft.MustVisit},
			inputSpec{placeholder: "fixed plan date (YYYY-MM-DD, optional)"},
			inputSpec{placeholder: "fixed plan description"},
		)
	case wizard.StepItinerary:
		a.inputs = nil
		a.refreshSlots()
	default:
		a.inputs = nil
	}
	a.focusField(0)
}

type inputSpec struct {
	placeholder string
	value       string
}

func newInputs(specs ...inputSpec) []textinput.Model {
	out := make([]textinput.Model, len(specs))
	for i, spec := range specs {
		in := textinput.New()
		in.Placeholder = spec.placeholder
		in.SetValue(spec.value)
		out[i] = in
	}
	return out
}

// fieldCount returns the number of focusable rows on the current step.
func (a *App) fieldCount() int {
	switch a.orch.Step() {
	case wizard.StepPreferences:
		return 4 + len(interests) + len(a.inputs)
	default:
		return len(a.inputs)
	}
}

// inputIndex maps the focused row to an index in a.inputs, or -1 for
// enum and toggle rows.
func (a *App) inputIndex() int {
	switch a.orch.Step() {
	case wizard.StepPreferences:
		idx := a.field - 4 - len(interests)
		if idx >= 0 && idx < len(a.inputs) {
			return idx
		}
		return -1
	default:
		if a.field >= 0 && a.field < len(a.inputs) {
			return a.field
		}
		return -1
	}
}

func (a *App) focusField(n int) {
	count := a.fieldCount()
	if count == 0 {
		return
	}
	if n < 0 {
		n = 0
	}
	if n >= count {
		n = count - 1
	}
	a.field = n

	for i := range a.inputs {
		a.inputs[i].Blur()
	}
	if idx := a.inputIndex(); idx >= 0 {
		a.inputs[idx].Focus()
	}
}

func (a *App) typing() bool {
	if a.emailMode || a.instrMode {
		return true
	}
	return a.inputIndex() >= 0
}

func (a *App) updateInputs(msg tea.Msg) tea.Cmd {
	idx := a.inputIndex()
	if idx < 0 {
		return nil
	}
	var cmd tea.Cmd
	a.inputs[idx], cmd = a.inputs[idx].Update(msg)
	return cmd
}

func (a *App) pushPreferences() {
	a.orch.SetTripType(tripTypes[a.tripTypeIdx])
	a.orch.SetBudget(budgets[a.budgetIdx])
	a.orch.SetVibe(vibes[a.vibeIdx])
	a.orch.SetPace(paces[a.paceIdx])

	d := trip.Demographics{
		Gender:       a.inputs[1].Value(),
		KidsAgeRange: a.inputs[2].Value(),
	}
	d.Age = atoiSafe(a.inputs[0].Value())
	a.orch.SetDemographics(d)
}

func (a *App) pushSpecifics() error {
	a.orch.SetHotelLocation(a.inputs[0].Value())
	a.orch.SetMustVisit(a.inputs[1].Value())

	date, desc := a.inputs[2].Value(), a.inputs[3].Value()
	if date != "" || desc != "" {
		if _, err := a.orch.AddFixedPlan(date, desc); err != nil {
			return err
		}
		a.inputs[2].SetValue("")
		a.inputs[3].SetValue("")
	}
	return nil
}

// refreshSlots rebuilds the selectable slot list from a fresh snapshot.
func (a *App) refreshSlots() {
	snap := a.orch.Snapshot()
	a.slots = a.slots[:0]
	if snap.Itinerary == nil {
		return
	}
	for _, day := range snap.Itinerary.Days {
		for _, p := range trip.Periods() {
			for idx, act := range dayActivities(day, p) {
				a.slots = append(a.slots, slotRef{
					key: trip.SlotKey{Day: day.DayNumber, Period: p, Index: idx},
					act: act,
				})
			}
		}
	}
	if a.cursor >= len(a.slots) {
		a.cursor = len(a.slots) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

func dayActivities(day trip.DayPlan, p trip.Period) []trip.Activity {
	return (&day).Activities(p)
}

func (a *App) selectedSlot() (slotRef, bool) {
	a.refreshSlots()
	if a.cursor < 0 || a.cursor >= len(a.slots) {
		return slotRef{}, false
	}
	return a.slots[a.cursor], true
}

func (a *App) reportErr(err error) {
	if err != nil {
		a.status = err.Error()
	}
}

func cycle(n, size int) int {
	if size == 0 {
		return 0
	}
	return ((n % size) + size) % size
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
