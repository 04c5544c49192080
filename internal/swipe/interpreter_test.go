package swipe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romeonoobcode/Trip-daddy-paywall/internal/trip"
)

const (
	testThreshold = 100.0
	testLock      = 300 * time.Millisecond
)

// fakeClock advances only when told to, making the animation lock
// deterministic.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func testQuestions() []trip.SmartQuestion {
	return []trip.SmartQuestion{
		{ID: "q1", Emoji: "🌅", Title: "Early riser?"},
		{ID: "q2", Emoji: "🍜", Title: "Street food?"},
		{ID: "q3", Emoji: "🚶", Title: "Long walks?"},
	}
}

func newTestInterpreter() (*Interpreter, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	i := NewInterpreter(testQuestions(), testThreshold, testLock, WithClock(clock.now))
	return i, clock
}

func TestInterpreter_SwipeCommit(t *testing.T) {
	i, _ := newTestInterpreter()

	require.True(t, i.Start())
	i.Move(60, 5)
	i.Move(70, -3)
	res := i.Release()

	require.True(t, res.Committed)
	assert.Equal(t, Answer{QuestionID: "q1", Yes: true}, res.Answer)
	assert.False(t, res.Done)
	assert.Equal(t, 1, i.Index())
}

func TestInterpreter_SwipeLeftCommitsNo(t *testing.T) {
	i, _ := newTestInterpreter()

	require.True(t, i.Start())
	i.Move(-150, 0)
	res := i.Release()

	require.True(t, res.Committed)
	assert.False(t, res.Answer.Yes)
	assert.Equal(t, "q1", res.Answer.QuestionID)
}

func TestInterpreter_CancelResetsDelta(t *testing.T) {
	i, _ := newTestInterpreter()

	require.True(t, i.Start())
	i.Move(testThreshold, 0) // boundary is exclusive
	res := i.Release()

	assert.False(t, res.Committed)
	assert.Equal(t, 0, i.Index())

	dx, dy := i.Delta()
	assert.Zero(t, dx)
	assert.Zero(t, dy)

	// The same question is still active and answerable.
	q, ok := i.Active()
	require.True(t, ok)
	assert.Equal(t, "q1", q.ID)
}

func TestInterpreter_AnimationLock(t *testing.T) {
	i, clock := newTestInterpreter()

	res := i.Press(true)
	require.True(t, res.Committed)

	// New gesture starts are ignored for the lock duration.
	assert.False(t, i.Start())
	ignored := i.Press(false)
	assert.False(t, ignored.Committed)
	assert.Equal(t, 1, i.Index())

	clock.advance(testLock)
	assert.True(t, i.Start())
}

func TestInterpreter_FullTraversal(t *testing.T) {
	i, clock := newTestInterpreter()

	answers := map[string]bool{}
	directions := []bool{true, false, true}

	for n, yes := range directions {
		res := i.Press(yes)
		require.True(t, res.Committed, "press %d ignored", n)
		answers[res.Answer.QuestionID] = res.Answer.Yes
		assert.Equal(t, n == len(directions)-1, res.Done)
		clock.advance(testLock)
	}

	// Exactly one entry per question ID, no omissions, order preserved.
	require.Len(t, answers, 3)
	assert.Equal(t, map[string]bool{"q1": true, "q2": false, "q3": true}, answers)
	assert.True(t, i.Done())

	_, ok := i.Active()
	assert.False(t, ok)

	// Inputs after completion are ignored.
	assert.False(t, i.Start())
	res := i.Press(true)
	assert.False(t, res.Committed)
	assert.True(t, res.Done)
}

func TestInterpreter_MoveWithoutStartIgnored(t *testing.T) {
	i, _ := newTestInterpreter()

	i.Move(500, 0)
	res := i.Release()

	assert.False(t, res.Committed)
	assert.Equal(t, 0, i.Index())
}

func TestInterpreter_EmptyDeck(t *testing.T) {
	i := NewInterpreter(nil, testThreshold, testLock)

	assert.True(t, i.Done())
	assert.False(t, i.Start())

	res := i.Press(true)
	assert.False(t, res.Committed)
	assert.True(t, res.Done)
}
