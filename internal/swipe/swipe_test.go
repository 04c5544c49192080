package swipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	const threshold = 100.0

	tests := []struct {
		name  string
		delta float64
		want  Decision
	}{
		{"far right", 250, DecisionYes},
		{"far left", -250, DecisionNo},
		{"exactly threshold cancels", 100, DecisionCancel},
		{"exactly negative threshold cancels", -100, DecisionCancel},
		{"threshold plus one commits yes", 101, DecisionYes},
		{"negative threshold minus one commits no", -101, DecisionNo},
		{"zero", 0, DecisionCancel},
		{"small wobble", 12.5, DecisionCancel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.delta, threshold))
		})
	}
}

func TestClassify_NegativeThresholdNormalized(t *testing.T) {
	assert.Equal(t, DecisionYes, Classify(150, -100))
	assert.Equal(t, DecisionCancel, Classify(50, -100))
}

func TestDecision_String(t *testing.T) {
	assert.Equal(t, "yes", DecisionYes.String())
	assert.Equal(t, "no", DecisionNo.String())
	assert.Equal(t, "cancel", DecisionCancel.String())
}
