// Package wizard implements the planning workflow orchestrator: a step
// state machine over the preference draft, the follow-up question deck,
// generation, the rendered itinerary, and the paywalled resume entries.
// The orchestrator owns all mutable wizard state behind a single mutex;
// external service calls always run outside it. Blocking operations are
// meant to be invoked from goroutines owned by the UI layer.
package wizard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/romeonoobcode/Trip-daddy-paywall/internal/capability"
	"github.com/romeonoobcode/Trip-daddy-paywall/internal/events"
	"github.com/romeonoobcode/Trip-daddy-paywall/internal/hydrate"
	"github.com/romeonoobcode/Trip-daddy-paywall/internal/paywall"
	"github.com/romeonoobcode/Trip-daddy-paywall/internal/slots"
	"github.com/romeonoobcode/Trip-daddy-paywall/internal/swipe"
	"github.com/romeonoobcode/Trip-daddy-paywall/internal/trip"
	"github.com/romeonoobcode/Trip-daddy-paywall/internal/types"
)

const (
	// DefaultSwipeThreshold is the horizontal distance a drag must cover
	// to commit an answer.
	DefaultSwipeThreshold = 120.0

	// DefaultAnimationLock is how long new gestures are ignored after a
	// committed answer.
	DefaultAnimationLock = 300 * time.Millisecond
)

// Deps are the external collaborators the orchestrator is wired with.
// Validator, Questions, Email, and Bus may be nil; the corresponding
// feature degrades gracefully.
type Deps struct {
	Validator capability.DestinationValidator
	Questions capability.QuestionService
	Generator capability.Generator
	Store     capability.SessionStore
	Payments  capability.PaymentProvider
	Email     capability.EmailSender
	Bus       events.Bus
	Logger    *slog.Logger
}

// Options tune the orchestrator's interaction parameters. Zero values
// fall back to defaults.
type Options struct {
	SwipeThreshold float64
	AnimationLock  time.Duration
	FreeDays       int
}

// Orchestrator drives a single traveler's planning session from the
// Start step through the rendered (and possibly paywalled) itinerary.
type Orchestrator struct {
	logger    *slog.Logger
	bus       events.Bus
	validator capability.DestinationValidator
	questions capability.QuestionService
	gen       capability.Generator
	email     capability.EmailSender

	reconciler *paywall.Reconciler
	scheduler  *hydrate.Scheduler
	slots      *slots.Controller

	threshold float64
	lockFor   time.Duration

	mu        sync.Mutex
	step      Step
	draft     *trip.PreferenceDraft
	deck      []trip.SmartQuestion
	interp    *swipe.Interpreter
	plan      *trip.Itinerary
	sessionID types.ID
	unlocked  bool
	totalDays int
	images    map[int]capability.DayImage
	hydration <-chan struct{}
}

// New creates an orchestrator at the Start step with an empty draft.
func New(deps Deps, opts Options) *Orchestrator {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.SwipeThreshold <= 0 {
		opts.SwipeThreshold = DefaultSwipeThreshold
	}
	if opts.AnimationLock <= 0 {
		opts.AnimationLock = DefaultAnimationLock
	}

	o := &Orchestrator{
		logger:    logger,
		bus:       deps.Bus,
		validator: deps.Validator,
		questions: deps.Questions,
		gen:       deps.Generator,
		email:     deps.Email,
		threshold: opts.SwipeThreshold,
		lockFor:   opts.AnimationLock,
		step:      StepStart,
		draft:     trip.NewPreferenceDraft(),
		images:    make(map[int]capability.DayImage),
	}
	o.reconciler = paywall.NewReconciler(deps.Store, deps.Payments, deps.Bus, logger, opts.FreeDays)
	o.scheduler = hydrate.NewScheduler(deps.Generator, deps.Store, deps.Bus, logger)
	o.slots = slots.NewController(deps.Generator, editor{o}, deps.Bus, logger)
	return o
}

// Step returns the current wizard step.
func (o *Orchestrator) Step() Step {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.step
}

// SessionID returns the session locator once generation or resume has
// produced one.
func (o *Orchestrator) SessionID() types.ID {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.sessionID
}

// HydrationDone returns the completion channel of the most recently
// started hydration round, or nil if none has started.
func (o *Orchestrator) HydrationDone() <-chan struct{} {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.hydration
}

// SetDestination records the free-text destination.
func (o *Orchestrator) SetDestination(text string) {
	o.editDraft(func(d *trip.PreferenceDraft) { d.Destination = text })
}

// SetDates records the trip date range as calendar dates.
func (o *Orchestrator) SetDates(start, end string) {
	o.editDraft(func(d *trip.PreferenceDraft) {
		d.StartDate = start
		d.EndDate = end
	})
}

// SetHotelLocation records the optional hotel or neighborhood.
func (o *Orchestrator) SetHotelLocation(text string) {
	o.editDraft(func(d *trip.PreferenceDraft) { d.HotelLocation = text })
}

// SetTripType records who is traveling.
func (o *Orchestrator) SetTripType(t trip.TripType) {
	o.editDraft(func(d *trip.PreferenceDraft) { d.TripType = t })
}

// SetBudget records the spending level.
func (o *Orchestrator) SetBudget(b trip.Budget) {
	o.editDraft(func(d *trip.PreferenceDraft) { d.Budget = b })
}

// SetVibe records the overall trip mood.
func (o *Orchestrator) SetVibe(v trip.Vibe) {
	o.editDraft(func(d *trip.PreferenceDraft) { d.Vibe = v })
}

// SetPace records how densely days should be scheduled.
func (o *Orchestrator) SetPace(p trip.Pace) {
	o.editDraft(func(d *trip.PreferenceDraft) { d.Pace = p })
}

// ToggleInterest flips one interest in the selection set.
func (o *Orchestrator) ToggleInterest(i trip.Interest) {
	o.editDraft(func(d *trip.PreferenceDraft) { d.ToggleInterest(i) })
}

// SetDemographics records the trip-type-dependent traveler details.
func (o *Orchestrator) SetDemographics(d trip.Demographics) {
	o.editDraft(func(dr *trip.PreferenceDraft) { dr.Demographics = d })
}

// SetMustVisit records the free-text must-visit wishes.
func (o *Orchestrator) SetMustVisit(text string) {
	o.editDraft(func(d *trip.PreferenceDraft) { d.MustVisit = text })
}

// AddFixedPlan appends a dated commitment to the draft.
func (o *Orchestrator) AddFixedPlan(date, description string) (trip.FixedPlan, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.draft.AddFixedPlan(date, description)
}

// RemoveFixedPlan deletes a previously added commitment.
func (o *Orchestrator) RemoveFixedPlan(id types.ID) {
	o.editDraft(func(d *trip.PreferenceDraft) { d.RemoveFixedPlan(id) })
}

func (o *Orchestrator) editDraft(edit func(*trip.PreferenceDraft)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.draft.Frozen() {
		return
	}
	edit(o.draft)
}

// BeginPlanning validates the Start inputs and the destination, then
// advances to Preferences. An unrecognized destination keeps the wizard
// at Start; an unreachable validation service is logged and skipped.
func (o *Orchestrator) BeginPlanning(ctx context.Context) error {
	o.mu.Lock()
	if o.step != StepStart {
		o.mu.Unlock()
		return invalidTransition(o.step, StepPreferences)
	}
	if err := o.draft.ValidateStart(); err != nil {
		o.mu.Unlock()
		return err
	}
	dest := o.draft.Destination
	o.mu.Unlock()

	var result capability.ValidationResult
	var valErr error
	if o.validator != nil {
		result, valErr = o.validator.ValidateDestination(ctx, dest)
	} else {
		result = capability.ValidationResult{IsValid: true}
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.step != StepStart {
		return invalidTransition(o.step, StepPreferences)
	}

	switch {
	case valErr != nil:
		o.logger.Warn("destination validation unavailable, proceeding",
			"destination", dest, "error", valErr)
	case !result.IsValid:
		return types.NewErrorf(types.DEST_NOT_RECOGNIZED,
			"destination %q was not recognized", dest)
	case result.FormattedName != "":
		o.draft.Destination = result.FormattedName
		o.draft.FormattedDestination = result.FormattedName
	}

	return o.setStepLocked(ctx, StepPreferences)
}

// CompletePreferences checks the demographics completeness rule and
// advances to Specifics.
func (o *Orchestrator) CompletePreferences(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.step != StepPreferences {
		return invalidTransition(o.step, StepSpecifics)
	}
	if err := o.draft.ValidateDemographics(); err != nil {
		return err
	}
	return o.setStepLocked(ctx, StepSpecifics)
}

// CompleteSpecifics leaves the form steps and fetches the follow-up
// question deck. When questions come back the wizard moves to Questions
// and questionsPending is true; with an empty deck (or an unreachable
// question service) the wizard stays at Loading and the caller drives
// Generate next.
func (o *Orchestrator) CompleteSpecifics(ctx context.Context) (questionsPending bool, err error) {
	o.mu.Lock()
	if o.step != StepSpecifics {
		o.mu.Unlock()
		return false, invalidTransition(o.step, StepLoading)
	}
	if err := o.setStepLocked(ctx, StepLoading); err != nil {
		o.mu.Unlock()
		return false, err
	}
	prefs := o.draft
	o.mu.Unlock()

	var deck []trip.SmartQuestion
	if o.questions != nil {
		qs, qErr := o.questions.FollowUpQuestions(ctx, prefs)
		if qErr != nil {
			o.logger.Warn("follow-up questions unavailable, skipping deck", "error", qErr)
		} else {
			deck = qs
		}
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.step != StepLoading {
		// Restarted while the fetch was in flight.
		return false, nil
	}
	if len(deck) == 0 {
		return false, nil
	}

	o.deck = deck
	o.interp = swipe.NewInterpreter(deck, o.threshold, o.lockFor)
	o.publish(ctx, events.New(events.EventQuestionsLoaded, o.sessionID, len(deck)))
	return true, o.setStepLocked(ctx, StepQuestions)
}

// Generate freezes the draft and runs the single generation attempt.
// On failure the wizard returns to Start with the draft unfrozen so no
// input is lost. On success the session is applied, the wizard moves to
// Itinerary, and image hydration starts in the background.
func (o *Orchestrator) Generate(ctx context.Context) error {
	o.mu.Lock()
	if o.step != StepLoading {
		o.mu.Unlock()
		return invalidTransition(o.step, StepItinerary)
	}
	if o.interp != nil && !o.interp.Done() {
		o.mu.Unlock()
		return types.NewError(types.WIZARD_INVALID_TRANSITION,
			"question deck is not finished")
	}
	o.draft.Freeze()
	prefs := o.draft
	o.mu.Unlock()

	o.publish(ctx, events.New(events.EventGenerationStarted, "", nil))

	s, genErr := o.gen.GenerateItinerary(ctx, prefs)

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.step != StepLoading {
		// Restarted while generation was in flight; the session is
		// superseded and the late result is discarded.
		o.logger.Debug("late generation result dropped", "session_id", s.ID)
		return nil
	}
	if genErr != nil {
		o.draft.Unfreeze()
		o.publish(ctx, events.New(events.EventGenerationFailed, "", genErr.Error()))
		if err := o.setStepLocked(ctx, StepStart); err != nil {
			return err
		}
		return types.WrapError(types.GENERATION_FAILED, "itinerary generation failed", genErr)
	}

	o.applySessionLocked(s)
	if err := o.setStepLocked(ctx, StepItinerary); err != nil {
		return err
	}
	o.publish(ctx, events.New(events.EventGenerationCompleted, o.sessionID, nil))
	o.startHydrationLocked(ctx)
	return nil
}

// GestureStart begins a drag on the active question card. Returns false
// when the input was ignored (wrong step, finished deck, animation lock).
func (o *Orchestrator) GestureStart() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.step != StepQuestions || o.interp == nil {
		return false
	}
	return o.interp.Start()
}

// GestureMove accumulates pointer movement during an active drag.
func (o *Orchestrator) GestureMove(dx, dy float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.step != StepQuestions || o.interp == nil {
		return
	}
	o.interp.Move(dx, dy)
}

// GestureRelease ends the drag, records a committed answer, and moves to
// Loading once the deck is exhausted. The caller drives Generate after a
// Done result.
func (o *Orchestrator) GestureRelease(ctx context.Context) (swipe.Result, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.step != StepQuestions || o.interp == nil {
		return swipe.Result{}, invalidTransition(o.step, StepLoading)
	}
	return o.recordAnswerLocked(ctx, o.interp.Release())
}

// PressAnswer commits an answer through the button path, bypassing the
// drag gesture but subject to the same animation lock.
func (o *Orchestrator) PressAnswer(ctx context.Context, yes bool) (swipe.Result, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.step != StepQuestions || o.interp == nil {
		return swipe.Result{}, invalidTransition(o.step, StepLoading)
	}
	return o.recordAnswerLocked(ctx, o.interp.Press(yes))
}

func (o *Orchestrator) recordAnswerLocked(ctx context.Context, res swipe.Result) (swipe.Result, error) {
	if res.Committed {
		if err := o.draft.SetAnswer(res.Answer.QuestionID, res.Answer.Yes); err != nil {
			return res, err
		}
		o.publish(ctx, events.New(events.EventQuestionAnswered, o.sessionID, res.Answer))
	}
	if res.Done && res.Committed {
		o.publish(ctx, events.New(events.EventQuestionsCompleted, o.sessionID, nil))
		if err := o.setStepLocked(ctx, StepLoading); err != nil {
			return res, err
		}
	}
	return res, nil
}

// Regenerate requests an alternative activity for the slot. Blocks for
// the service round-trip; duplicate requests for a slot already in
// flight return accepted=false immediately.
func (o *Orchestrator) Regenerate(ctx context.Context, key trip.SlotKey, instruction string) (bool, error) {
	o.mu.Lock()
	if o.step != StepItinerary {
		o.mu.Unlock()
		return false, invalidTransition(o.step, StepItinerary)
	}
	id := o.sessionID
	o.mu.Unlock()

	return o.slots.Regenerate(ctx, id, key, instruction)
}

// DeleteActivity removes the activity at the slot immediately. Later
// activities in the same period shift down by one; regenerations still
// in flight for the removed activity are dropped on completion.
func (o *Orchestrator) DeleteActivity(ctx context.Context, key trip.SlotKey) error {
	o.mu.Lock()
	if o.step != StepItinerary {
		o.mu.Unlock()
		return invalidTransition(o.step, StepItinerary)
	}
	id := o.sessionID
	o.mu.Unlock()

	return o.slots.Delete(ctx, id, key)
}

// SubmitEmail saves the traveler's address against the session for the
// shareable link. A delivery failure is logged and never surfaces; the
// itinerary view is unaffected.
func (o *Orchestrator) SubmitEmail(ctx context.Context, address string) error {
	o.mu.Lock()
	id := o.sessionID
	o.mu.Unlock()

	if id.IsZero() {
		return types.NewError(types.SESSION_NOT_FOUND, "no session to share yet")
	}
	if o.email == nil {
		return nil
	}
	if err := o.email.SaveEmail(ctx, address, id); err != nil {
		o.logger.Warn("could not save share email", "session_id", id, "error", err)
		return nil
	}
	o.publish(ctx, events.New(events.EventEmailSaved, id, nil))
	return nil
}

// Unlock starts the checkout for the locked remainder of the plan and
// returns the provider's redirect URL.
func (o *Orchestrator) Unlock(ctx context.Context) (string, error) {
	o.mu.Lock()
	if o.step != StepItinerary {
		o.mu.Unlock()
		return "", invalidTransition(o.step, StepItinerary)
	}
	if o.unlocked {
		o.mu.Unlock()
		return "", types.NewError(types.PAYMENT_CHECKOUT_FAILED, "session is already unlocked")
	}
	id := o.sessionID
	o.mu.Unlock()

	return o.reconciler.BeginCheckout(ctx, id)
}

// Resume reconstructs wizard state from a deep link. A fresh entry is a
// no-op; a resume entry loads the (possibly masked) session; a
// payment-return entry verifies the checkout first and loads the
// unlocked session. Any failure routes back to Start.
func (o *Orchestrator) Resume(ctx context.Context, entry paywall.EntryContext) error {
	path := entry.Path()
	if path == paywall.PathFresh {
		return nil
	}

	id, err := types.ParseID(entry.Locator)
	if err != nil {
		return types.WrapError(types.SESSION_NOT_FOUND, "invalid session link", err)
	}

	target := StepLoading
	if path == paywall.PathVerifyPayment {
		target = StepVerifyingPayment
	}

	o.mu.Lock()
	if err := o.setStepLocked(ctx, target); err != nil {
		o.mu.Unlock()
		return err
	}
	o.mu.Unlock()

	var s capability.Session
	var loadErr error
	if path == paywall.PathVerifyPayment {
		s, loadErr = o.reconciler.VerifyAndReload(ctx, id, entry.PaymentSessionRef)
	} else {
		s, loadErr = o.reconciler.Load(ctx, id)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.step != target {
		// Restarted while the load was in flight; the late result is
		// discarded.
		o.logger.Debug("late resume result dropped", "session_id", id)
		return nil
	}
	if loadErr != nil {
		if stepErr := o.setStepLocked(ctx, StepStart); stepErr != nil {
			return stepErr
		}
		return loadErr
	}

	o.applySessionLocked(s)
	if err := o.setStepLocked(ctx, StepItinerary); err != nil {
		return err
	}
	o.startHydrationLocked(ctx)
	return nil
}

// Restart abandons the session and returns to an empty Start step.
func (o *Orchestrator) Restart(ctx context.Context) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.step = StepStart
	o.draft = trip.NewPreferenceDraft()
	o.deck = nil
	o.interp = nil
	o.plan = nil
	o.sessionID = ""
	o.unlocked = false
	o.totalDays = 0
	o.images = make(map[int]capability.DayImage)
	o.publish(ctx, events.New(events.EventRestarted, "", nil))
}

func (o *Orchestrator) setStepLocked(ctx context.Context, to Step) error {
	if !o.step.CanTransitionTo(to) {
		return invalidTransition(o.step, to)
	}
	from := o.step
	o.step = to
	o.publish(ctx, events.New(events.EventStepChanged, o.sessionID, map[string]string{
		"from": from.String(),
		"to":   to.String(),
	}))
	return nil
}

func (o *Orchestrator) applySessionLocked(s capability.Session) {
	if s.Plan != nil {
		s.Plan.EnsureActivityIDs()
	}
	o.sessionID = s.ID
	o.plan = s.Plan
	o.unlocked = s.Unlocked
	o.totalDays = s.TotalDays

	o.images = make(map[int]capability.DayImage, len(s.Images))
	for day, img := range s.Images {
		o.images[day] = img
	}
}

func (o *Orchestrator) startHydrationLocked(ctx context.Context) {
	known := make(map[int]capability.DayImage, len(o.images))
	for day, img := range o.images {
		known[day] = img
	}
	id := o.sessionID
	o.hydration = o.scheduler.Schedule(ctx, id, o.plan.Clone(), o.draft.Vibe, known,
		func(dayNumber int, img capability.DayImage) {
			o.mergeImage(id, dayNumber, img)
		})
}

// mergeImage is the hydration merge callback. Keyed by day number, it is
// idempotent and order-independent. Completions from a round whose
// session has been superseded are dropped.
func (o *Orchestrator) mergeImage(sessionID types.ID, dayNumber int, img capability.DayImage) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if sessionID != o.sessionID {
		o.logger.Debug("late day image dropped",
			"session_id", sessionID, "day", dayNumber)
		return
	}
	if o.images == nil {
		o.images = make(map[int]capability.DayImage)
	}
	o.images[dayNumber] = img
}

func (o *Orchestrator) publish(ctx context.Context, e events.Event) {
	if o.bus == nil {
		return
	}
	if err := o.bus.Publish(ctx, e); err != nil {
		o.logger.Debug("event publish failed", "type", e.Type, "error", err)
	}
}

func invalidTransition(from, to Step) error {
	return types.NewErrorf(types.WIZARD_INVALID_TRANSITION,
		"cannot move from %s to %s", from, to)
}

// editor adapts the orchestrator to the slot controller's mutation
// surface, keeping every itinerary write behind the orchestrator mutex.
type editor struct {
	o *Orchestrator
}

func (e editor) ResolveSlot(key trip.SlotKey) (trip.Activity, capability.RegenContext, bool) {
	e.o.mu.Lock()
	defer e.o.mu.Unlock()
	if e.o.plan == nil {
		return trip.Activity{}, capability.RegenContext{}, false
	}
	act, ok := e.o.plan.ActivityAt(key)
	if !ok {
		return trip.Activity{}, capability.RegenContext{}, false
	}
	day, _ := e.o.plan.Day(key.Day)
	return act, capability.RegenContext{
		DayNumber: key.Day,
		Date:      day.Date,
		Period:    key.Period,
	}, true
}

func (e editor) ExclusionList() []string {
	e.o.mu.Lock()
	defer e.o.mu.Unlock()
	if e.o.plan == nil {
		return nil
	}
	return e.o.plan.ActivityNames()
}

func (e editor) Prefs() *trip.PreferenceDraft {
	e.o.mu.Lock()
	defer e.o.mu.Unlock()
	return e.o.draft
}

func (e editor) ReplaceActivity(target types.ID, replacement trip.Activity) bool {
	e.o.mu.Lock()
	defer e.o.mu.Unlock()
	if e.o.plan == nil {
		return false
	}
	return e.o.plan.ReplaceActivity(target, replacement)
}

func (e editor) DeleteAt(key trip.SlotKey) bool {
	e.o.mu.Lock()
	defer e.o.mu.Unlock()
	if e.o.plan == nil {
		return false
	}
	return e.o.plan.RemoveAt(key)
}
