package wizard

import (
	"context"
	"sync"
	"time"

	"github.com/romeonoobcode/Trip-daddy-paywall/internal/capability"
	"github.com/romeonoobcode/Trip-daddy-paywall/internal/paywall"
	"github.com/romeonoobcode/Trip-daddy-paywall/internal/trip"
	"github.com/romeonoobcode/Trip-daddy-paywall/internal/types"
)

type fakeValidator struct {
	result capability.ValidationResult
	err    error
	calls  []string
}

func (f *fakeValidator) ValidateDestination(_ context.Context, text string) (capability.ValidationResult, error) {
	f.calls = append(f.calls, text)
	return f.result, f.err
}

type fakeQuestions struct {
	qs  []trip.SmartQuestion
	err error
}

func (f *fakeQuestions) FollowUpQuestions(context.Context, *trip.PreferenceDraft) ([]trip.SmartQuestion, error) {
	return f.qs, f.err
}

// fakeGen serves a canned session and synthesizes alternatives and day
// images on demand. The gate channels, when set, hold a call in flight
// until closed; entered signals that the call has started.
type fakeGen struct {
	mu        sync.Mutex
	session   capability.Session
	genErr    error
	altErr    error
	imgErr    error
	images    map[int]capability.DayImage
	seenPrefs *trip.PreferenceDraft

	gate    chan struct{}
	imgGate chan struct{}
	entered chan struct{}
}

func (g *fakeGen) GenerateItinerary(_ context.Context, prefs *trip.PreferenceDraft) (capability.Session, error) {
	g.mu.Lock()
	g.seenPrefs = prefs
	g.mu.Unlock()
	g.signalEntered()
	if g.gate != nil {
		<-g.gate
	}
	if g.genErr != nil {
		return capability.Session{}, g.genErr
	}
	return g.session, nil
}

func (g *fakeGen) signalEntered() {
	if g.entered == nil {
		return
	}
	select {
	case g.entered <- struct{}{}:
	default:
	}
}

func (g *fakeGen) AlternativeActivity(_ context.Context, _ *trip.PreferenceDraft, current trip.Activity, _ capability.RegenContext, _ []string, _ string) (trip.Activity, error) {
	if g.altErr != nil {
		return trip.Activity{}, g.altErr
	}
	return trip.Activity{ID: types.NewID(), Name: "Alternative to " + current.Name}, nil
}

func (g *fakeGen) DayImage(_ context.Context, dc capability.DayContext) (*capability.DayImage, error) {
	if g.imgGate != nil {
		<-g.imgGate
	}
	if g.imgErr != nil {
		return nil, g.imgErr
	}
	img, ok := g.images[dc.DayNumber]
	if !ok {
		return nil, nil
	}
	return &img, nil
}

// memStore is an in-memory SessionStore that masks locked plans on load,
// matching the persistence contract. The gate, when set, holds LoadByID
// in flight until closed; entered signals that the load has started.
type memStore struct {
	mu       sync.Mutex
	sessions map[types.ID]capability.Session
	freeDays int

	gate    chan struct{}
	entered chan struct{}
}

func newMemStore() *memStore {
	return &memStore{
		sessions: make(map[types.ID]capability.Session),
		freeDays: paywall.DefaultFreeDays,
	}
}

func (m *memStore) Save(_ context.Context, s capability.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *memStore) LoadByID(_ context.Context, id types.ID) (capability.Session, error) {
	if m.entered != nil {
		select {
		case m.entered <- struct{}{}:
		default:
		}
	}
	if m.gate != nil {
		<-m.gate
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return capability.Session{}, types.NewError(types.SESSION_NOT_FOUND, "unknown session")
	}
	if !s.Unlocked && s.Plan != nil && len(s.Plan.Days) > m.freeDays {
		masked := s.Plan.Clone()
		masked.Days = masked.Days[:m.freeDays]
		s.Plan = masked
	}
	return s, nil
}

func (m *memStore) MarkUnlocked(_ context.Context, id types.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return types.NewError(types.SESSION_NOT_FOUND, "unknown session")
	}
	s.Unlocked = true
	m.sessions[id] = s
	return nil
}

func (m *memStore) SaveImage(_ context.Context, id types.ID, day int, img capability.DayImage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return types.NewError(types.SESSION_NOT_FOUND, "unknown session")
	}
	if s.Images == nil {
		s.Images = make(map[int]capability.DayImage)
	}
	s.Images[day] = img
	m.sessions[id] = s
	return nil
}

func (m *memStore) imageCount(id types.ID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions[id].Images)
}

type fakePayments struct {
	checkoutURL string
	checkoutErr error
	verifyErr   error
	verified    []string
}

func (f *fakePayments) CreateCheckoutSession(context.Context, types.ID) (string, error) {
	if f.checkoutErr != nil {
		return "", f.checkoutErr
	}
	return f.checkoutURL, nil
}

func (f *fakePayments) VerifySession(_ context.Context, _ types.ID, ref string) error {
	if f.verifyErr != nil {
		return f.verifyErr
	}
	f.verified = append(f.verified, ref)
	return nil
}

type fakeEmail struct {
	saved []string
	err   error
}

func (f *fakeEmail) SaveEmail(_ context.Context, email string, _ types.ID) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, email)
	return nil
}

func planOf(days int) *trip.Itinerary {
	plan := &trip.Itinerary{Destination: "Lisbon, Portugal"}
	for i := 1; i <= days; i++ {
		plan.Days = append(plan.Days, trip.DayPlan{
			DayNumber: i,
			Date:      time.Date(2026, 5, i, 0, 0, 0, 0, time.UTC).Format(trip.DateLayout),
			Title:     "Day by the river",
			Morning:   []trip.Activity{{Name: "Castle walk"}},
			Afternoon: []trip.Activity{{Name: "Tram ride"}},
			Evening:   []trip.Activity{{Name: "Fado house"}, {Name: "Wine bar"}},
		})
	}
	return plan
}

func sessionOf(days int) capability.Session {
	return capability.Session{
		ID:        types.NewID(),
		Plan:      planOf(days),
		TotalDays: days,
	}
}

type testEnv struct {
	validator *fakeValidator
	questions *fakeQuestions
	gen       *fakeGen
	store     *memStore
	payments  *fakePayments
	email     *fakeEmail
}

func newTestEnv() *testEnv {
	return &testEnv{
		validator: &fakeValidator{result: capability.ValidationResult{IsValid: true}},
		questions: &fakeQuestions{},
		gen:       &fakeGen{session: sessionOf(3)},
		store:     newMemStore(),
		payments:  &fakePayments{checkoutURL: "https://pay.example/cs_42"},
		email:     &fakeEmail{},
	}
}

func (e *testEnv) orchestrator() *Orchestrator {
	return New(Deps{
		Validator: e.validator,
		Questions: e.questions,
		Generator: e.gen,
		Store:     e.store,
		Payments:  e.payments,
		Email:     e.email,
	}, Options{AnimationLock: time.Nanosecond})
}

// fillStart puts valid Start inputs on the draft.
func fillStart(o *Orchestrator) {
	o.SetDestination("Lisbon")
	o.SetDates("2026-05-01", "2026-05-03")
}

// fillPreferences satisfies the demographics rule for a couple trip.
func fillPreferences(o *Orchestrator) {
	o.SetTripType(trip.TripTypeCouple)
	o.SetBudget(trip.BudgetMedium)
	o.SetVibe(trip.VibeBalanced)
	o.SetPace(trip.PaceModerate)
	o.SetDemographics(trip.Demographics{Age: 30})
}

// advanceToItinerary walks a wizard through the whole flow with an empty
// question deck.
func advanceToItinerary(o *Orchestrator, ctx context.Context) error {
	fillStart(o)
	if err := o.BeginPlanning(ctx); err != nil {
		return err
	}
	fillPreferences(o)
	if err := o.CompletePreferences(ctx); err != nil {
		return err
	}
	pending, err := o.CompleteSpecifics(ctx)
	if err != nil {
		return err
	}
	if !pending {
		return o.Generate(ctx)
	}
	return nil
}
