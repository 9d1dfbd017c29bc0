package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecomputeCompleted(t *testing.T) {
	g := Goal{TargetValue: 100, CurrentValue: 99}
	g.RecomputeCompleted()
	assert.False(t, g.Completed)

	g.CurrentValue = 100
	g.RecomputeCompleted()
	assert.True(t, g.Completed)

	// A zero target can never complete, whatever the current value says.
	g = Goal{TargetValue: 0, CurrentValue: 50, Completed: true}
	g.RecomputeCompleted()
	assert.False(t, g.Completed)
}

func TestProgress(t *testing.T) {
	zeroTarget := Goal{TargetValue: 0, CurrentValue: 50}
	assert.InDelta(t, 0, zeroTarget.Progress(), 0.001)

	halfway := Goal{TargetValue: 100, CurrentValue: 50}
	assert.InDelta(t, 50, halfway.Progress(), 0.001)

	overshoot := Goal{TargetValue: 100, CurrentValue: 150}
	assert.InDelta(t, 150, overshoot.Progress(), 0.001)
}
