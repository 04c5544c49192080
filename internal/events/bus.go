package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/romeonoobcode/Trip-daddy-paywall/internal/types"
)

// Bus distributes wizard events to subscribers with filtering support.
//
// Thread safety:
//   - All methods are safe for concurrent use.
//   - Publish never blocks on slow subscribers; events are dropped for a
//     subscriber whose buffer is full, without affecting other subscribers.
type Bus interface {
	// Publish sends an event to all matching subscribers.
	// Returns an error only if the bus is closed.
	Publish(ctx context.Context, event Event) error

	// Subscribe creates a subscription with optional filtering.
	// bufferSize 0 uses the bus default. The returned cleanup function
	// must be called to release the subscription.
	Subscribe(ctx context.Context, filter Filter, bufferSize int) (<-chan Event, func())

	// Close shuts down the bus and all subscriptions. After Close
	// returns, Publish returns an error.
	Close() error
}

// DefaultBus implements Bus with buffered channels and non-blocking sends.
type DefaultBus struct {
	mu          sync.RWMutex
	subscribers map[string]*subscription
	options     *busOptions
	closed      bool
}

type subscription struct {
	id     string
	ch     chan Event
	filter Filter
	ctx    context.Context
	cancel context.CancelFunc
}

type busOptions struct {
	defaultBufferSize int
	dropHandler       func(sub string, e Event)
}

// Option is a functional option for configuring DefaultBus.
type Option func(*busOptions)

// WithDefaultBufferSize sets the buffer size used when Subscribe is
// called with bufferSize 0. Default: 64 events.
func WithDefaultBufferSize(size int) Option {
	return func(opts *busOptions) {
		if size > 0 {
			opts.defaultBufferSize = size
		}
	}
}

// WithDropHandler sets a callback invoked when an event is dropped for a
// slow subscriber. Default: no-op.
func WithDropHandler(h func(subscriberID string, e Event)) Option {
	return func(opts *busOptions) {
		if h != nil {
			opts.dropHandler = h
		}
	}
}

// NewBus creates a DefaultBus.
func NewBus(opts ...Option) *DefaultBus {
	options := &busOptions{
		defaultBufferSize: 64,
		dropHandler:       func(string, Event) {},
	}
	for _, opt := range opts {
		opt(options)
	}
	return &DefaultBus{
		subscribers: make(map[string]*subscription),
		options:     options,
	}
}

// Publish sends the event to every matching subscriber without blocking.
func (b *DefaultBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return fmt.Errorf("event bus is closed")
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	for _, sub := range b.subscribers {
		if !sub.filter.Matches(event) {
			continue
		}
		select {
		case sub.ch <- event:
		case <-sub.ctx.Done():
		default:
			b.options.dropHandler(sub.id, event)
		}
	}
	return nil
}

// Subscribe registers a subscriber and returns its event channel plus a
// cleanup function.
func (b *DefaultBus) Subscribe(ctx context.Context, filter Filter, bufferSize int) (<-chan Event, func()) {
	if bufferSize <= 0 {
		bufferSize = b.options.defaultBufferSize
	}

	subCtx, cancel := context.WithCancel(ctx)
	sub := &subscription{
		id:     types.NewID().String(),
		ch:     make(chan Event, bufferSize),
		filter: filter,
		ctx:    subCtx,
		cancel: cancel,
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		cancel()
		close(sub.ch)
		return sub.ch, func() {}
	}
	b.subscribers[sub.id] = sub
	b.mu.Unlock()

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subscribers, sub.id)
			b.mu.Unlock()
			cancel()
			close(sub.ch)
		})
	}
	return sub.ch, cleanup
}

// Close shuts down the bus and every subscription.
func (b *DefaultBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	for id, sub := range b.subscribers {
		sub.cancel()
		close(sub.ch)
		delete(b.subscribers, id)
	}
	return nil
}

var _ Bus = (*DefaultBus)(nil)
