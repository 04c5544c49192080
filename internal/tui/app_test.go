package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romeonoobcode/Trip-daddy-paywall/internal/wizard"
)

func TestCycle(t *testing.T) {
	assert.Equal(t, 1, cycle(1, 4))
	assert.Equal(t, 0, cycle(4, 4))
	assert.Equal(t, 3, cycle(-1, 4))
	assert.Equal(t, 0, cycle(0, 0))
}

func TestAtoiSafe(t *testing.T) {
	assert.Equal(t, 34, atoiSafe("34"))
	assert.Equal(t, 0, atoiSafe(""))
	assert.Equal(t, 0, atoiSafe("3a"))
}

func TestApp_StartFormSetup(t *testing.T) {
	orch := wizard.New(wizard.Deps{}, wizard.Options{})
	a := NewApp(context.Background(), orch)

	require.Len(t, a.inputs, 3)
	assert.Equal(t, 0, a.field)
	assert.True(t, a.inputs[0].Focused())

	a.focusField(2)
	assert.False(t, a.inputs[0].Focused())
	assert.True(t, a.inputs[2].Focused())

	// Focus clamps at the edges.
	a.focusField(99)
	assert.Equal(t, 2, a.field)
	a.focusField(-5)
	assert.Equal(t, 0, a.field)
}

func TestApp_ViewRendersStart(t *testing.T) {
	orch := wizard.New(wizard.Deps{}, wizard.Options{})
	a := NewApp(context.Background(), orch)

	out := a.View()
	assert.Contains(t, out, "Trip Daddy")
	assert.Contains(t, out, "Destination")
}
