package events

import (
	"context"
	"log/slog"
)

// LogEvents subscribes to the bus and mirrors every event to the logger
// until the context is cancelled. It is the default observability sink
// when no richer observer (such as the TUI) is attached.
func LogEvents(ctx context.Context, bus Bus, logger *slog.Logger) {
	ch, cleanup := bus.Subscribe(ctx, Filter{}, 0)

	go func() {
		defer cleanup()
		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-ch:
				if !ok {
					return
				}
				logger.Debug("wizard event",
					"type", e.Type.String(),
					"session_id", e.SessionID.String(),
					"payload", e.Payload,
				)
			}
		}
	}()
}
