package wizard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romeonoobcode/Trip-daddy-paywall/internal/capability"
	"github.com/romeonoobcode/Trip-daddy-paywall/internal/paywall"
	"github.com/romeonoobcode/Trip-daddy-paywall/internal/types"
)

func TestResume_FreshEntryIsNoOp(t *testing.T) {
	o := newTestEnv().orchestrator()

	require.NoError(t, o.Resume(context.Background(), paywall.EntryContext{}))
	assert.Equal(t, StepStart, o.Step())
}

func TestResume_LockedSession(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	s := sessionOf(5)
	require.NoError(t, env.store.Save(ctx, s))
	o := env.orchestrator()

	require.NoError(t, o.Resume(ctx, paywall.EntryContext{Locator: s.ID.String()}))
	assert.Equal(t, StepItinerary, o.Step())

	snap := o.Snapshot()
	require.NotNil(t, snap.Itinerary)
	assert.Len(t, snap.Itinerary.Days, 2)
	assert.False(t, snap.Unlocked)
	assert.Equal(t, 5, snap.Accounting.TotalDays)
	assert.Equal(t, 3, snap.Accounting.LockedDaysCount)
	assert.True(t, snap.Accounting.ShowUnlock)
}

func TestResume_UnlockedSession(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	s := sessionOf(5)
	s.Unlocked = true
	require.NoError(t, env.store.Save(ctx, s))
	o := env.orchestrator()

	require.NoError(t, o.Resume(ctx, paywall.EntryContext{Locator: s.ID.String()}))

	snap := o.Snapshot()
	assert.Len(t, snap.Itinerary.Days, 5)
	assert.True(t, snap.Unlocked)
	assert.False(t, snap.Accounting.ShowUnlock)
}

func TestResume_PaymentReturnUnlocks(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	s := sessionOf(5)
	require.NoError(t, env.store.Save(ctx, s))
	o := env.orchestrator()

	entry := paywall.EntryContext{
		Locator:           s.ID.String(),
		PaymentSuccess:    true,
		PaymentSessionRef: "cs_42",
	}
	require.NoError(t, o.Resume(ctx, entry))
	assert.Equal(t, StepItinerary, o.Step())
	assert.Equal(t, []string{"cs_42"}, env.payments.verified)

	snap := o.Snapshot()
	assert.True(t, snap.Unlocked)
	assert.Len(t, snap.Itinerary.Days, 5)
	assert.Zero(t, snap.Accounting.LockedDaysCount)
}

func TestResume_VerificationFailureRoutesToStart(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	s := sessionOf(5)
	require.NoError(t, env.store.Save(ctx, s))
	env.payments.verifyErr = errors.New("signature mismatch")
	o := env.orchestrator()

	entry := paywall.EntryContext{
		Locator:           s.ID.String(),
		PaymentSuccess:    true,
		PaymentSessionRef: "cs_bogus",
	}
	err := o.Resume(ctx, entry)
	assert.Equal(t, types.PAYMENT_VERIFICATION_FAILED, types.CodeOf(err))
	assert.Equal(t, StepStart, o.Step())

	// The session stays locked for the next attempt.
	loaded, loadErr := env.store.LoadByID(ctx, s.ID)
	require.NoError(t, loadErr)
	assert.False(t, loaded.Unlocked)
}

func TestResume_UnknownLocator(t *testing.T) {
	o := newTestEnv().orchestrator()

	err := o.Resume(context.Background(), paywall.EntryContext{Locator: types.NewID().String()})
	assert.Equal(t, types.SESSION_NOT_FOUND, types.CodeOf(err))
	assert.Equal(t, StepStart, o.Step())
}

func TestResume_MalformedLocator(t *testing.T) {
	o := newTestEnv().orchestrator()

	err := o.Resume(context.Background(), paywall.EntryContext{Locator: "not-a-uuid"})
	assert.Equal(t, types.SESSION_NOT_FOUND, types.CodeOf(err))
	assert.Equal(t, StepStart, o.Step())
}

func TestResume_HydratesMissingImages(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	env.gen.images = map[int]capability.DayImage{
		1: {URL: "https://img.example/day1.png"},
		2: {URL: "https://img.example/day2.png"},
	}

	// Day 1 was already hydrated in a previous visit.
	s := sessionOf(5)
	s.Images = map[int]capability.DayImage{1: {URL: "https://img.example/stored1.png"}}
	require.NoError(t, env.store.Save(ctx, s))
	o := env.orchestrator()

	require.NoError(t, o.Resume(ctx, paywall.EntryContext{Locator: s.ID.String()}))
	<-o.HydrationDone()

	snap := o.Snapshot()
	// The known image is kept; only the missing visible day was fetched.
	assert.Equal(t, "https://img.example/stored1.png", snap.Images[1].URL)
	assert.Equal(t, "https://img.example/day2.png", snap.Images[2].URL)
	assert.Len(t, snap.Images, 2)
}

func TestResume_RestartDiscardsLateLoad(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	s := sessionOf(5)
	require.NoError(t, env.store.Save(ctx, s))
	env.store.gate = make(chan struct{})
	env.store.entered = make(chan struct{}, 1)
	o := env.orchestrator()

	errCh := make(chan error, 1)
	go func() {
		errCh <- o.Resume(ctx, paywall.EntryContext{Locator: s.ID.String()})
	}()
	<-env.store.entered

	// The traveler starts over while the session is still loading.
	o.Restart(ctx)
	close(env.store.gate)
	require.NoError(t, <-errCh)

	// The late load is discarded; the restarted wizard stays empty.
	assert.Equal(t, StepStart, o.Step())
	assert.True(t, o.SessionID().IsZero())
	assert.Nil(t, o.Snapshot().Itinerary)
}
