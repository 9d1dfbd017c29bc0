package service

import (
	"context"
	"testing"

	"fittrack/fitness-tracker/internal/domain"
	"fittrack/fitness-tracker/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newGoalFixture() (GoalService, primitive.ObjectID, primitive.ObjectID) {
	svc := NewGoalService(memory.NewGoalRepository())
	return svc, primitive.NewObjectID(), primitive.NewObjectID()
}

func floatPtr(v float64) *float64 { return &v }

func TestCreateGoalDerivesCompletion(t *testing.T) {
	ctx := context.Background()
	svc, alice, _ := newGoalFixture()

	tests := []struct {
		name      string
		target    float64
		current   float64
		completed bool
		progress  float64
	}{
		{"fresh goal", 100, 0, false, 0},
		{"exactly at target", 100, 100, true, 100},
		{"over target", 100, 150, true, 150},
		{"just under target", 100, 99.5, false, 99.5},
		{"zero target never completes", 0, 50, false, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			goal, err := svc.CreateGoal(ctx, alice, GoalInput{
				Name:         "goal",
				Type:         domain.GoalCardio,
				TargetValue:  tc.target,
				CurrentValue: tc.current,
				Unit:         "km",
			})
			require.NoError(t, err)
			assert.Equal(t, tc.completed, goal.Completed)
			assert.InDelta(t, tc.progress, goal.Progress(), 0.001)
		})
	}
}

func TestUpdateGoalRecomputesCompletion(t *testing.T) {
	ctx := context.Background()
	svc, alice, _ := newGoalFixture()

	goal, err := svc.CreateGoal(ctx, alice, GoalInput{Name: "Lift 100kg", TargetValue: 100, CurrentValue: 40, Unit: "kg"})
	require.NoError(t, err)
	require.False(t, goal.Completed)

	// Progress reaches the target.
	updated, err := svc.UpdateGoal(ctx, goal.ID, alice, GoalPatch{CurrentValue: floatPtr(100)})
	require.NoError(t, err)
	assert.True(t, updated.Completed)

	// Raising the bar un-completes, even when only targetValue changes.
	updated, err = svc.UpdateGoal(ctx, goal.ID, alice, GoalPatch{TargetValue: floatPtr(120)})
	require.NoError(t, err)
	assert.False(t, updated.Completed)

	// Updates that touch neither value leave the flag alone.
	name := "Lift heavier"
	updated, err = svc.UpdateGoal(ctx, goal.ID, alice, GoalPatch{Name: &name})
	require.NoError(t, err)
	assert.False(t, updated.Completed)
	assert.Equal(t, "Lift heavier", updated.Name)
	assert.InDelta(t, 100, updated.CurrentValue, 0.001, "absent fields are retained")

	empty := ""
	_, err = svc.UpdateGoal(ctx, goal.ID, alice, GoalPatch{Name: &empty})
	require.ErrorIs(t, err, ErrValidationFailed)
}

func TestToggleCompletionOverridesValues(t *testing.T) {
	ctx := context.Background()
	svc, alice, _ := newGoalFixture()

	goal, err := svc.CreateGoal(ctx, alice, GoalInput{Name: "Run 50km", TargetValue: 50, CurrentValue: 10, Unit: "km"})
	require.NoError(t, err)

	toggled, err := svc.ToggleCompletion(ctx, goal.ID, alice)
	require.NoError(t, err)
	assert.True(t, toggled.Completed, "toggle ignores the numeric values")

	toggled, err = svc.ToggleCompletion(ctx, goal.ID, alice)
	require.NoError(t, err)
	assert.False(t, toggled.Completed)
}

func TestGoalOwnership(t *testing.T) {
	ctx := context.Background()
	svc, alice, bob := newGoalFixture()

	goal, err := svc.CreateGoal(ctx, alice, GoalInput{Name: "Run 50km", TargetValue: 50, Unit: "km"})
	require.NoError(t, err)

	_, err = svc.GetGoal(ctx, goal.ID, bob)
	require.ErrorIs(t, err, ErrForbidden)
	_, err = svc.UpdateGoal(ctx, goal.ID, bob, GoalPatch{CurrentValue: floatPtr(50)})
	require.ErrorIs(t, err, ErrForbidden)
	require.ErrorIs(t, svc.DeleteGoal(ctx, goal.ID, bob), ErrForbidden)

	// A nonexistent id is not found, never forbidden.
	_, err = svc.GetGoal(ctx, primitive.NewObjectID(), bob)
	require.ErrorIs(t, err, ErrGoalNotFound)

	// Listing is scoped per user rather than forbidden.
	goals, err := svc.ListGoals(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, goals)

	goals, err = svc.ListGoals(ctx, alice)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, goal.ID, goals[0].ID)
}

func TestDeleteGoal(t *testing.T) {
	ctx := context.Background()
	svc, alice, _ := newGoalFixture()

	goal, err := svc.CreateGoal(ctx, alice, GoalInput{Name: "Run 50km", TargetValue: 50, Unit: "km"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteGoal(ctx, goal.ID, alice))
	_, err = svc.GetGoal(ctx, goal.ID, alice)
	require.ErrorIs(t, err, ErrGoalNotFound)
}
