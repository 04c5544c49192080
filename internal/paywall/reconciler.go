// Package paywall reconciles the client view against a partially unlocked
// session resource. It classifies deep-link entry contexts, computes lock
// accounting from the authoritative total day count, and drives the
// checkout and payment-verification sub-flow.
package paywall

import (
	"context"
	"log/slog"

	"github.com/romeonoobcode/Trip-daddy-paywall/internal/capability"
	"github.com/romeonoobcode/Trip-daddy-paywall/internal/events"
	"github.com/romeonoobcode/Trip-daddy-paywall/internal/types"
)

// DefaultFreeDays is the number of days visible before unlocking.
const DefaultFreeDays = 2

// EntryContext carries the optional deep-link parameters present when the
// wizard loads. Presence or absence of these fields fully determines the
// entry path.
type EntryContext struct {
	// Locator is the opaque shareable session identifier.
	Locator string

	// PaymentSuccess marks a return from a completed checkout redirect.
	PaymentSuccess bool

	// PaymentSessionRef is the provider's opaque reference for the
	// checkout session, required to verify the payment.
	PaymentSessionRef string
}

// EntryPath is one of the three ways the wizard can start.
type EntryPath int

const (
	// PathFresh starts an empty wizard at the Start step.
	PathFresh EntryPath = iota

	// PathResume reconstructs state from a persisted session.
	PathResume

	// PathVerifyPayment verifies a completed checkout before resuming.
	PathVerifyPayment
)

// Path classifies the entry context. A payment marker without a locator
// cannot be acted on and falls back to a fresh start.
func (e EntryContext) Path() EntryPath {
	if e.Locator == "" {
		return PathFresh
	}
	if e.PaymentSuccess && e.PaymentSessionRef != "" {
		return PathVerifyPayment
	}
	return PathResume
}

// Accounting is the render-ready lock arithmetic for one session.
type Accounting struct {
	// TotalDays is the true day count, authoritative regardless of how
	// many days the (possibly truncated) plan actually carries.
	TotalDays int

	// DisplayedDays is how many days to render.
	DisplayedDays int

	// LockedDaysCount is TotalDays minus DisplayedDays.
	LockedDaysCount int

	// ShowUnlock is true when an unlock affordance should render.
	ShowUnlock bool
}

// Account computes lock accounting for a session. freeDays values below 1
// fall back to DefaultFreeDays.
func Account(s capability.Session, freeDays int) Accounting {
	if freeDays < 1 {
		freeDays = DefaultFreeDays
	}

	visible := 0
	if s.Plan != nil {
		visible = len(s.Plan.Days)
	}

	if s.Unlocked {
		return Accounting{
			TotalDays:     s.TotalDays,
			DisplayedDays: visible,
		}
	}

	displayed := freeDays
	if s.TotalDays < displayed {
		displayed = s.TotalDays
	}
	if visible < displayed {
		displayed = visible
	}

	locked := s.TotalDays - displayed
	return Accounting{
		TotalDays:       s.TotalDays,
		DisplayedDays:   displayed,
		LockedDaysCount: locked,
		ShowUnlock:      locked > 0,
	}
}

// Reconciler drives resume loading and the payment sub-flow.
type Reconciler struct {
	store    capability.SessionStore
	payments capability.PaymentProvider
	bus      events.Bus
	logger   *slog.Logger
	freeDays int
}

// NewReconciler creates a Reconciler. freeDays values below 1 fall back
// to DefaultFreeDays.
func NewReconciler(store capability.SessionStore, payments capability.PaymentProvider, bus events.Bus, logger *slog.Logger, freeDays int) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	if freeDays < 1 {
		freeDays = DefaultFreeDays
	}
	return &Reconciler{
		store:    store,
		payments: payments,
		bus:      bus,
		logger:   logger,
		freeDays: freeDays,
	}
}

// FreeDays returns the configured free-day count.
func (r *Reconciler) FreeDays() int { return r.freeDays }

// Account computes lock accounting with the reconciler's free-day count.
func (r *Reconciler) Account(s capability.Session) Accounting {
	return Account(s, r.freeDays)
}

// Load fetches the session for a plain resume. The stored unlocked flag
// decides whether the returned plan is masked.
func (r *Reconciler) Load(ctx context.Context, id types.ID) (capability.Session, error) {
	s, err := r.store.LoadByID(ctx, id)
	if err != nil {
		return capability.Session{}, err
	}
	r.publish(ctx, events.New(events.EventSessionResumed, s.ID, nil))
	return s, nil
}

// BeginCheckout starts the unlock purchase and returns the provider's
// redirect URL.
func (r *Reconciler) BeginCheckout(ctx context.Context, id types.ID) (string, error) {
	url, err := r.payments.CreateCheckoutSession(ctx, id)
	if err != nil {
		return "", types.WrapError(types.PAYMENT_CHECKOUT_FAILED, "could not start checkout", err)
	}
	r.publish(ctx, events.New(events.EventCheckoutStarted, id, url))
	return url, nil
}

// VerifyAndReload confirms a completed payment, marks the session
// unlocked, and re-fetches the now-complete resource. On verification
// failure the caller routes back to Start; the session is left untouched.
func (r *Reconciler) VerifyAndReload(ctx context.Context, id types.ID, sessionRef string) (capability.Session, error) {
	r.publish(ctx, events.New(events.EventPaymentVerifying, id, nil))

	if err := r.payments.VerifySession(ctx, id, sessionRef); err != nil {
		r.publish(ctx, events.New(events.EventPaymentFailed, id, err.Error()))
		return capability.Session{}, types.WrapError(types.PAYMENT_VERIFICATION_FAILED, "payment verification failed", err)
	}

	if err := r.store.MarkUnlocked(ctx, id); err != nil {
		r.publish(ctx, events.New(events.EventPaymentFailed, id, err.Error()))
		return capability.Session{}, types.WrapError(types.PAYMENT_VERIFICATION_FAILED, "could not unlock session", err)
	}

	s, err := r.store.LoadByID(ctx, id)
	if err != nil {
		return capability.Session{}, err
	}

	r.publish(ctx, events.New(events.EventPaymentVerified, id, nil))
	return s, nil
}

func (r *Reconciler) publish(ctx context.Context, e events.Event) {
	if r.bus == nil {
		return
	}
	if err := r.bus.Publish(ctx, e); err != nil {
		r.logger.Debug("event publish failed", "type", e.Type, "error", err)
	}
}
