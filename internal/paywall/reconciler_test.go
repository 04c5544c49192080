package paywall

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romeonoobcode/Trip-daddy-paywall/internal/capability"
	"github.com/romeonoobcode/Trip-daddy-paywall/internal/trip"
	"github.com/romeonoobcode/Trip-daddy-paywall/internal/types"
)

func TestEntryContext_Path(t *testing.T) {
	tests := []struct {
		name  string
		entry EntryContext
		want  EntryPath
	}{
		{"no parameters", EntryContext{}, PathFresh},
		{"locator only", EntryContext{Locator: "abc"}, PathResume},
		{"locator with success marker and ref", EntryContext{Locator: "abc", PaymentSuccess: true, PaymentSessionRef: "cs_123"}, PathVerifyPayment},
		{"success marker without ref", EntryContext{Locator: "abc", PaymentSuccess: true}, PathResume},
		{"marker without locator", EntryContext{PaymentSuccess: true, PaymentSessionRef: "cs_123"}, PathFresh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.entry.Path())
		})
	}
}

func maskedSession(total, visible int, unlocked bool) capability.Session {
	plan := &trip.Itinerary{Destination: "Lisbon"}
	for i := 1; i <= visible; i++ {
		plan.Days = append(plan.Days, trip.DayPlan{DayNumber: i})
	}
	return capability.Session{
		ID:        types.NewID(),
		Plan:      plan,
		Unlocked:  unlocked,
		TotalDays: total,
	}
}

func TestAccount(t *testing.T) {
	tests := []struct {
		name    string
		session capability.Session
		want    Accounting
	}{
		{
			"locked five day trip",
			maskedSession(5, 2, false),
			Accounting{TotalDays: 5, DisplayedDays: 2, LockedDaysCount: 3, ShowUnlock: true},
		},
		{
			"unlocked five day trip",
			maskedSession(5, 5, true),
			Accounting{TotalDays: 5, DisplayedDays: 5},
		},
		{
			"locked short trip fits free days",
			maskedSession(2, 2, false),
			Accounting{TotalDays: 2, DisplayedDays: 2},
		},
		{
			"locked one day trip",
			maskedSession(1, 1, false),
			Accounting{TotalDays: 1, DisplayedDays: 1},
		},
		{
			"plan shorter than free days",
			maskedSession(5, 1, false),
			Accounting{TotalDays: 5, DisplayedDays: 1, LockedDaysCount: 4, ShowUnlock: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Account(tt.session, DefaultFreeDays))
		})
	}
}

func TestAccount_NeverTrustsPlanLength(t *testing.T) {
	// A truncated plan must not change the lock arithmetic derived from
	// TotalDays.
	s := maskedSession(7, 2, false)
	acct := Account(s, 2)

	assert.Equal(t, 5, acct.LockedDaysCount)
	assert.True(t, acct.ShowUnlock)
}

// fakePayments implements capability.PaymentProvider.
type fakePayments struct {
	checkoutURL string
	checkoutErr error
	verifyErr   error
	verified    []string
}

func (f *fakePayments) CreateCheckoutSession(_ context.Context, id types.ID) (string, error) {
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

// fakeStore implements capability.SessionStore over a map, masking locked
// plans the way the real store does.
type fakeStore struct {
	sessions map[types.ID]capability.Session
	freeDays int
}

func newFakeStore() *fakeStore {
	return &fakeStore{sessions: map[types.ID]capability.Session{}, freeDays: DefaultFreeDays}
}

func (f *fakeStore) Save(_ context.Context, s capability.Session) error {
	f.sessions[s.ID] = s
	return nil
}

func (f *fakeStore) LoadByID(_ context.Context, id types.ID) (capability.Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return capability.Session{}, types.NewError(types.SESSION_NOT_FOUND, "unknown session")
	}
	if !s.Unlocked && s.Plan != nil && len(s.Plan.Days) > f.freeDays {
		masked := s.Plan.Clone()
		masked.Days = masked.Days[:f.freeDays]
		s.Plan = masked
	}
	return s, nil
}

func (f *fakeStore) MarkUnlocked(_ context.Context, id types.ID) error {
	s, ok := f.sessions[id]
	if !ok {
		return types.NewError(types.SESSION_NOT_FOUND, "unknown session")
	}
	s.Unlocked = true
	f.sessions[id] = s
	return nil
}

func (f *fakeStore) SaveImage(_ context.Context, id types.ID, day int, img capability.DayImage) error {
	s, ok := f.sessions[id]
	if !ok {
		return types.NewError(types.SESSION_NOT_FOUND, "unknown session")
	}
	if s.Images == nil {
		s.Images = map[int]capability.DayImage{}
	}
	s.Images[day] = img
	f.sessions[id] = s
	return nil
}

func fullSession(days int) capability.Session {
	plan := &trip.Itinerary{Destination: "Lisbon"}
	for i := 1; i <= days; i++ {
		plan.Days = append(plan.Days, trip.DayPlan{DayNumber: i})
	}
	return capability.Session{
		ID:        types.NewID(),
		Plan:      plan,
		TotalDays: days,
	}
}

func TestReconciler_Load_MasksLockedPlan(t *testing.T) {
	store := newFakeStore()
	s := fullSession(5)
	require.NoError(t, store.Save(context.Background(), s))

	r := NewReconciler(store, &fakePayments{}, nil, nil, DefaultFreeDays)

	loaded, err := r.Load(context.Background(), s.ID)
	require.NoError(t, err)
	assert.False(t, loaded.Unlocked)
	assert.Len(t, loaded.Plan.Days, 2)
	assert.Equal(t, 5, loaded.TotalDays)
}

func TestReconciler_Load_NotFound(t *testing.T) {
	r := NewReconciler(newFakeStore(), &fakePayments{}, nil, nil, DefaultFreeDays)

	_, err := r.Load(context.Background(), types.NewID())
	assert.Equal(t, types.SESSION_NOT_FOUND, types.CodeOf(err))
}

func TestReconciler_BeginCheckout(t *testing.T) {
	payments := &fakePayments{checkoutURL: "https://pay.example/cs_42"}
	r := NewReconciler(newFakeStore(), payments, nil, nil, DefaultFreeDays)

	url, err := r.BeginCheckout(context.Background(), types.NewID())
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/cs_42", url)
}

func TestReconciler_BeginCheckout_Failure(t *testing.T) {
	payments := &fakePayments{checkoutErr: errors.New("provider down")}
	r := NewReconciler(newFakeStore(), payments, nil, nil, DefaultFreeDays)

	_, err := r.BeginCheckout(context.Background(), types.NewID())
	assert.Equal(t, types.PAYMENT_CHECKOUT_FAILED, types.CodeOf(err))
}

func TestReconciler_VerifyAndReload(t *testing.T) {
	store := newFakeStore()
	s := fullSession(5)
	require.NoError(t, store.Save(context.Background(), s))

	payments := &fakePayments{}
	r := NewReconciler(store, payments, nil, nil, DefaultFreeDays)

	reloaded, err := r.VerifyAndReload(context.Background(), s.ID, "cs_42")
	require.NoError(t, err)

	assert.True(t, reloaded.Unlocked)
	assert.Len(t, reloaded.Plan.Days, 5)
	assert.Equal(t, []string{"cs_42"}, payments.verified)

	acct := r.Account(reloaded)
	assert.Zero(t, acct.LockedDaysCount)
	assert.False(t, acct.ShowUnlock)
}

func TestReconciler_VerifyFailure(t *testing.T) {
	store := newFakeStore()
	s := fullSession(5)
	require.NoError(t, store.Save(context.Background(), s))

	payments := &fakePayments{verifyErr: errors.New("signature mismatch")}
	r := NewReconciler(store, payments, nil, nil, DefaultFreeDays)

	_, err := r.VerifyAndReload(context.Background(), s.ID, "cs_bogus")
	assert.Equal(t, types.PAYMENT_VERIFICATION_FAILED, types.CodeOf(err))

	// The session stays locked.
	loaded, loadErr := store.LoadByID(context.Background(), s.ID)
	require.NoError(t, loadErr)
	assert.False(t, loaded.Unlocked)
}
