// Package events provides the wizard event bus. The orchestrator and its
// background tasks publish lifecycle events (step changes, generation,
// per-day image hydration, slot mutations, payment verification) and
// observers such as the TUI or a logging sink subscribe with optional
// filtering. Publishing never blocks on a slow subscriber.
package events
