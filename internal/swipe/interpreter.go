package swipe

import (
	"time"

	"github.com/romeonoobcode/Trip-daddy-paywall/internal/trip"
)

// Answer is one committed yes/no decision keyed by question ID.
type Answer struct {
	QuestionID string
	Yes        bool
}

// Result reports the effect of a gesture release or button press.
type Result struct {
	// Committed is true when an answer was written; false for cancelled
	// gestures and inputs ignored during the animation lock.
	Committed bool

	// Answer is the committed answer when Committed is true.
	Answer Answer

	// Done is true once every question in the deck has been answered.
	Done bool
}

// Interpreter consumes the question deck front to back, converting drag
// gestures (or button presses) into committed answers. It maintains the
// active question index, a 2D delta accumulator reset on gesture start,
// and a fixed-duration animation lock after each commit during which new
// gesture starts are ignored. No question can be skipped or answered
// twice within a single traversal.
type Interpreter struct {
	questions []trip.SmartQuestion
	threshold float64
	lockFor   time.Duration
	now       func() time.Time

	active      int
	dx, dy      float64
	dragging    bool
	lockedUntil time.Time
}

// InterpreterOption configures an Interpreter.
type InterpreterOption func(*Interpreter)

// WithClock injects a clock for deterministic tests.
func WithClock(now func() time.Time) InterpreterOption {
	return func(i *Interpreter) {
		if now != nil {
			i.now = now
		}
	}
}

// NewInterpreter creates an interpreter over the received question
// sequence. Traversal order is exactly the order given.
func NewInterpreter(questions []trip.SmartQuestion, threshold float64, lockFor time.Duration, opts ...InterpreterOption) *Interpreter {
	i := &Interpreter{
		questions: questions,
		threshold: threshold,
		lockFor:   lockFor,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Active returns the question currently facing the traveler, or false
// once the deck is exhausted.
func (i *Interpreter) Active() (trip.SmartQuestion, bool) {
	if i.Done() {
		return trip.SmartQuestion{}, false
	}
	return i.questions[i.active], true
}

// Index returns the 0-based active question index. It only moves forward.
func (i *Interpreter) Index() int { return i.active }

// Count returns the deck size.
func (i *Interpreter) Count() int { return len(i.questions) }

// Done reports whether every question has been answered.
func (i *Interpreter) Done() bool { return i.active >= len(i.questions) }

// Delta returns the accumulated drag delta of the gesture in progress.
func (i *Interpreter) Delta() (dx, dy float64) { return i.dx, i.dy }

// Start begins a drag gesture, resetting the delta accumulator. Returns
// false if the input was ignored (deck done or animation lock active).
func (i *Interpreter) Start() bool {
	if i.Done() || i.locked() {
		return false
	}
	i.dragging = true
	i.dx, i.dy = 0, 0
	return true
}

// Move accumulates pointer movement during an active drag. Movement
// outside a gesture is ignored.
func (i *Interpreter) Move(dx, dy float64) {
	if !i.dragging {
		return
	}
	i.dx += dx
	i.dy += dy
}

// Release ends the drag gesture and classifies it. A cancelled gesture
// resets the delta with no state change.
func (i *Interpreter) Release() Result {
	if !i.dragging {
		return Result{Done: i.Done()}
	}
	i.dragging = false

	decision := Classify(i.dx, i.threshold)
	i.dx, i.dy = 0, 0

	if decision == DecisionCancel {
		return Result{Done: i.Done()}
	}
	return i.commit(decision == DecisionYes)
}

// Press is the gesture-free equivalent of a full swipe: an immediate
// commit in the given direction, subject to the same animation lock.
func (i *Interpreter) Press(yes bool) Result {
	if i.Done() || i.locked() {
		return Result{Done: i.Done()}
	}
	i.dragging = false
	i.dx, i.dy = 0, 0
	return i.commit(yes)
}

func (i *Interpreter) commit(yes bool) Result {
	q := i.questions[i.active]
	i.active++
	i.lockedUntil = i.now().Add(i.lockFor)

	return Result{
		Committed: true,
		Answer:    Answer{QuestionID: q.ID, Yes: yes},
		Done:      i.Done(),
	}
}

func (i *Interpreter) locked() bool {
	return i.now().Before(i.lockedUntil)
}
