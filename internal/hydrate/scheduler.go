// Package hydrate progressively populates per-day images after the
// itinerary is already displayable. One independent task runs per day
// lacking an image; completions are funneled through a single mediator
// goroutine so the keyed merge stays commutative and idempotent no matter
// the completion order.
package hydrate

import (
	"context"
	"log/slog"
	"sync"

	"github.com/romeonoobcode/Trip-daddy-paywall/internal/capability"
	"github.com/romeonoobcode/Trip-daddy-paywall/internal/events"
	"github.com/romeonoobcode/Trip-daddy-paywall/internal/trip"
	"github.com/romeonoobcode/Trip-daddy-paywall/internal/types"
)

// Merger applies one hydrated image to the shared image cache. It is
// invoked from a single goroutine, once per successfully hydrated day.
type Merger func(dayNumber int, img capability.DayImage)

// Scheduler fires the per-day image generation tasks.
type Scheduler struct {
	gen    capability.Generator
	store  capability.SessionStore
	bus    events.Bus
	logger *slog.Logger
}

// NewScheduler creates a Scheduler. The store may be nil when persistence
// of hydrated images is not wanted (headless preview).
func NewScheduler(gen capability.Generator, store capability.SessionStore, bus events.Bus, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		gen:    gen,
		store:  store,
		bus:    bus,
		logger: logger,
	}
}

type hydrated struct {
	day int
	img capability.DayImage
}

// Schedule starts one asynchronous task for every visible day that has no
// known image and returns immediately. The returned channel closes once
// every task, merge, and persistence write has finished; callers that do
// not care may discard it. Itinerary rendering is never blocked: merge
// callbacks arrive as tasks resolve.
//
// Failed days are logged and left permanently imageless for the session;
// there is no retry.
func (s *Scheduler) Schedule(ctx context.Context, sessionID types.ID, plan *trip.Itinerary, vibe trip.Vibe, known map[int]capability.DayImage, merge Merger) <-chan struct{} {
	done := make(chan struct{})
	if plan == nil {
		close(done)
		return done
	}

	results := make(chan hydrated)

	var fetchers sync.WaitGroup
	for i := range plan.Days {
		day := plan.Days[i]
		if _, ok := known[day.DayNumber]; ok {
			continue
		}

		fetchers.Add(1)
		go func() {
			defer fetchers.Done()
			s.fetch(ctx, sessionID, capability.DayContext{
				DayNumber:   day.DayNumber,
				Title:       day.Title,
				AreaFocus:   day.AreaFocus,
				Destination: plan.Destination,
				Vibe:        vibe,
			}, results)
		}()
	}

	go func() {
		fetchers.Wait()
		close(results)
	}()

	// Single mediator applies merges in arrival order and fans out the
	// fire-and-forget persistence writes.
	go func() {
		defer close(done)
		var persists sync.WaitGroup
		for r := range results {
			merge(r.day, r.img)
			s.publish(ctx, events.New(events.EventImageHydrated, sessionID, r.day))

			if s.store == nil {
				continue
			}
			persists.Add(1)
			go func(r hydrated) {
				defer persists.Done()
				if err := s.store.SaveImage(ctx, sessionID, r.day, r.img); err != nil {
					s.logger.Warn("failed to persist day image",
						"session_id", sessionID, "day", r.day, "error", err)
				}
			}(r)
		}
		persists.Wait()
	}()

	return done
}

func (s *Scheduler) fetch(ctx context.Context, sessionID types.ID, dc capability.DayContext, results chan<- hydrated) {
	img, err := s.gen.DayImage(ctx, dc)
	if err != nil {
		s.logger.Warn("day image generation failed",
			"session_id", sessionID, "day", dc.DayNumber, "error", err)
		s.publish(ctx, events.New(events.EventImageFailed, sessionID, dc.DayNumber))
		return
	}
	if img == nil {
		s.logger.Debug("day image generation returned nothing",
			"session_id", sessionID, "day", dc.DayNumber)
		s.publish(ctx, events.New(events.EventImageFailed, sessionID, dc.DayNumber))
		return
	}

	select {
	case results <- hydrated{day: dc.DayNumber, img: *img}:
	case <-ctx.Done():
	}
}

func (s *Scheduler) publish(ctx context.Context, e events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, e); err != nil {
		s.logger.Debug("event publish failed", "type", e.Type, "error", err)
	}
}
