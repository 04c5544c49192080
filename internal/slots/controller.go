// Package slots serializes per-slot activity regeneration and handles
// synchronous deletion. A slot is addressed publicly by (day, period,
// index); the controller resolves the position to the activity's stable ID
// before any asynchronous work starts, so deletions that shift indices can
// never redirect a slower regeneration to the wrong position. Duplicate
// requests for an activity already in flight are coalesced into no-ops.
package slots

import (
	"context"
	"log/slog"
	"sync"

	"github.com/romeonoobcode/Trip-daddy-paywall/internal/capability"
	"github.com/romeonoobcode/Trip-daddy-paywall/internal/events"
	"github.com/romeonoobcode/Trip-daddy-paywall/internal/trip"
	"github.com/romeonoobcode/Trip-daddy-paywall/internal/types"
)

// Editor is the mutation surface the orchestrator exposes to the
// controller. All itinerary writes stay centralized behind it; the
// controller never holds the document.
type Editor interface {
	// ResolveSlot returns the activity at the position together with its
	// regeneration context, or false if the position does not exist.
	ResolveSlot(key trip.SlotKey) (trip.Activity, capability.RegenContext, bool)

	// ExclusionList returns every activity name currently in the plan.
	ExclusionList() []string

	// Prefs returns the frozen preference draft generation was run with.
	Prefs() *trip.PreferenceDraft

	// ReplaceActivity writes the replacement at the position currently
	// held by the target ID, returning false if the target is gone.
	ReplaceActivity(target types.ID, replacement trip.Activity) bool

	// DeleteAt removes the activity at the position, shifting later
	// activities in the same period down by one.
	DeleteAt(key trip.SlotKey) bool
}

// Controller tracks in-flight regenerations per stable activity ID.
type Controller struct {
	gen    capability.Generator
	editor Editor
	bus    events.Bus
	logger *slog.Logger

	mu       sync.Mutex
	inflight map[types.ID]trip.SlotKey
}

// NewController creates a Controller bound to the orchestrator's editor.
func NewController(gen capability.Generator, editor Editor, bus events.Bus, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		gen:      gen,
		editor:   editor,
		bus:      bus,
		logger:   logger,
		inflight: make(map[types.ID]trip.SlotKey),
	}
}

// Regenerate requests an alternative activity for the slot. The call
// blocks for the duration of the service round-trip; run it from a
// goroutine owned by the UI layer.
//
// Returns accepted=false without calling the service when a regeneration
// for the same activity is already in flight. A service failure is logged
// and leaves the slot unchanged; it is not returned as an error. The only
// error is SLOT_NOT_FOUND for a position that does not exist.
func (c *Controller) Regenerate(ctx context.Context, sessionID types.ID, key trip.SlotKey, instruction string) (accepted bool, err error) {
	current, rc, ok := c.editor.ResolveSlot(key)
	if !ok {
		return false, types.NewErrorf(types.SLOT_NOT_FOUND, "no activity at %s", key)
	}

	c.mu.Lock()
	if _, busy := c.inflight[current.ID]; busy {
		c.mu.Unlock()
		return false, nil
	}
	c.inflight[current.ID] = key
	c.mu.Unlock()

	// The key always leaves the in-flight set, whatever the outcome.
	defer func() {
		c.mu.Lock()
		delete(c.inflight, current.ID)
		c.mu.Unlock()
	}()

	c.publish(ctx, events.New(events.EventSlotRegenerating, sessionID, key))

	exclusions := c.editor.ExclusionList()
	replacement, genErr := c.gen.AlternativeActivity(ctx, c.editor.Prefs(), current, rc, exclusions, instruction)
	if genErr != nil {
		c.logger.Warn("activity regeneration failed",
			"session_id", sessionID, "slot", key.String(), "error", genErr)
		return true, nil
	}

	if replacement.ID.IsZero() {
		replacement.ID = types.NewID()
	}

	if !c.editor.ReplaceActivity(current.ID, replacement) {
		// The target was deleted while the request was in flight.
		c.logger.Debug("regeneration result dropped, target gone",
			"session_id", sessionID, "slot", key.String())
		c.publish(ctx, events.New(events.EventSlotDropped, sessionID, key))
		return true, nil
	}

	c.publish(ctx, events.New(events.EventSlotReplaced, sessionID, key))
	return true, nil
}

// Delete removes the activity at the position immediately and
// synchronously; there is no service round-trip. Later activities in the
// same period shift down by one.
func (c *Controller) Delete(ctx context.Context, sessionID types.ID, key trip.SlotKey) error {
	if !c.editor.DeleteAt(key) {
		return types.NewErrorf(types.SLOT_NOT_FOUND, "no activity at %s", key)
	}
	c.publish(ctx, events.New(events.EventSlotDeleted, sessionID, key))
	return nil
}

// InFlightCount returns the number of active regenerations.
func (c *Controller) InFlightCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.inflight)
}

// InFlightIDs returns the stable IDs of activities currently being
// regenerated, for render snapshots.
func (c *Controller) InFlightIDs() []types.ID {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]types.ID, 0, len(c.inflight))
	for id := range c.inflight {
		ids = append(ids, id)
	}
	return ids
}

func (c *Controller) publish(ctx context.Context, e events.Event) {
	if c.bus == nil {
		return
	}
	if err := c.bus.Publish(ctx, e); err != nil {
		c.logger.Debug("event publish failed", "type", e.Type, "error", err)
	}
}
