package service

import (
	"context"
	"testing"
	"time"

	"fittrack/fitness-tracker/internal/domain"
	"fittrack/fitness-tracker/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type workoutFixture struct {
	svc          WorkoutService
	workoutRepo  *memory.WorkoutRepository
	exerciseRepo *memory.ExerciseRepository
	alice        primitive.ObjectID
	bob          primitive.ObjectID
}

func newWorkoutFixture() *workoutFixture {
	workoutRepo := memory.NewWorkoutRepository()
	exerciseRepo := memory.NewExerciseRepository()
	return &workoutFixture{
		svc:          NewWorkoutService(workoutRepo, exerciseRepo),
		workoutRepo:  workoutRepo,
		exerciseRepo: exerciseRepo,
		alice:        primitive.NewObjectID(),
		bob:          primitive.NewObjectID(),
	}
}

func (f *workoutFixture) seedExercise(t *testing.T, name string) primitive.ObjectID {
	t.Helper()
	ex := &domain.Exercise{Name: name}
	id, err := f.exerciseRepo.Create(context.Background(), ex)
	require.NoError(t, err)
	return id
}

func intPtr(v int) *int { return &v }

func TestCreateWorkoutWithEntries(t *testing.T) {
	ctx := context.Background()
	f := newWorkoutFixture()
	benchID := f.seedExercise(t, "Bench Press")
	squatID := f.seedExercise(t, "Squat")

	workout, err := f.svc.CreateWorkout(ctx, f.alice, WorkoutInput{
		Name: "Push day",
		Type: domain.WorkoutStrength,
	}, []EntryInput{
		{ExerciseID: squatID, Sets: intPtr(5), Reps: intPtr(5), Order: 1},
		{ExerciseID: benchID, Sets: intPtr(3), Reps: intPtr(8), Order: 0},
	})
	require.NoError(t, err)
	assert.False(t, workout.Date.IsZero(), "date defaults to now")

	entries, err := f.svc.ListEntries(ctx, workout.ID, f.alice)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// Sorted by order, not by insertion.
	assert.Equal(t, benchID, entries[0].Entry.ExerciseID)
	assert.Equal(t, squatID, entries[1].Entry.ExerciseID)
	require.NotNil(t, entries[0].Exercise)
	assert.Equal(t, "Bench Press", entries[0].Exercise.Name)
}

func TestCreateWorkoutValidation(t *testing.T) {
	ctx := context.Background()
	f := newWorkoutFixture()

	_, err := f.svc.CreateWorkout(ctx, f.alice, WorkoutInput{Name: ""}, nil)
	require.ErrorIs(t, err, ErrValidationFailed)

	_, err = f.svc.CreateWorkout(ctx, f.alice, WorkoutInput{Name: "ok"}, []EntryInput{
		{ExerciseID: primitive.NilObjectID},
	})
	require.ErrorIs(t, err, ErrValidationFailed)
	assert.Equal(t, 0, f.workoutRepo.WorkoutCount())
}

func TestCreateWorkoutIsAtomic(t *testing.T) {
	ctx := context.Background()
	f := newWorkoutFixture()
	benchID := f.seedExercise(t, "Bench Press")

	f.workoutRepo.FailEntryInsertAt = 2
	_, err := f.svc.CreateWorkout(ctx, f.alice, WorkoutInput{Name: "Push day"}, []EntryInput{
		{ExerciseID: benchID, Order: 0},
		{ExerciseID: benchID, Order: 1},
	})
	require.Error(t, err)
	assert.Equal(t, 0, f.workoutRepo.WorkoutCount(), "a failed entry insert must leave no workout behind")
	assert.Equal(t, 0, f.workoutRepo.EntryCount())
}

func TestListWorkoutsSortedByDateDescending(t *testing.T) {
	ctx := context.Background()
	f := newWorkoutFixture()

	older := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	_, err := f.svc.CreateWorkout(ctx, f.alice, WorkoutInput{Name: "January", Date: older}, nil)
	require.NoError(t, err)
	_, err = f.svc.CreateWorkout(ctx, f.alice, WorkoutInput{Name: "March", Date: newer}, nil)
	require.NoError(t, err)

	workouts, err := f.svc.ListWorkouts(ctx, f.alice)
	require.NoError(t, err)
	require.Len(t, workouts, 2)
	assert.Equal(t, "March", workouts[0].Name)
	assert.Equal(t, "January", workouts[1].Name)
}

func TestUpdateWorkoutRetainsAbsentFields(t *testing.T) {
	ctx := context.Background()
	f := newWorkoutFixture()

	workout, err := f.svc.CreateWorkout(ctx, f.alice, WorkoutInput{
		Name:     "Push day",
		Duration: intPtr(45),
		Notes:    "felt strong",
	}, nil)
	require.NoError(t, err)

	name := "Push day (deload)"
	updated, err := f.svc.UpdateWorkout(ctx, workout.ID, f.alice, WorkoutPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Push day (deload)", updated.Name)
	require.NotNil(t, updated.Duration)
	assert.Equal(t, 45, *updated.Duration)
	assert.Equal(t, "felt strong", updated.Notes)

	empty := ""
	_, err = f.svc.UpdateWorkout(ctx, workout.ID, f.alice, WorkoutPatch{Name: &empty})
	require.ErrorIs(t, err, ErrValidationFailed)
}

func TestWorkoutOwnership(t *testing.T) {
	ctx := context.Background()
	f := newWorkoutFixture()

	workout, err := f.svc.CreateWorkout(ctx, f.alice, WorkoutInput{Name: "Push day"}, nil)
	require.NoError(t, err)

	_, err = f.svc.GetWorkout(ctx, workout.ID, f.bob)
	require.ErrorIs(t, err, ErrForbidden)
	require.ErrorIs(t, f.svc.DeleteWorkout(ctx, workout.ID, f.bob), ErrForbidden)

	// Nonexistent wins over forbidden.
	_, err = f.svc.GetWorkout(ctx, primitive.NewObjectID(), f.bob)
	require.ErrorIs(t, err, ErrWorkoutNotFound)

	workouts, err := f.svc.ListWorkouts(ctx, f.bob)
	require.NoError(t, err)
	assert.Empty(t, workouts)
}

func TestDeleteWorkoutCascadesEntries(t *testing.T) {
	ctx := context.Background()
	f := newWorkoutFixture()
	benchID := f.seedExercise(t, "Bench Press")

	workout, err := f.svc.CreateWorkout(ctx, f.alice, WorkoutInput{Name: "Push day"}, []EntryInput{
		{ExerciseID: benchID, Order: 0},
		{ExerciseID: benchID, Order: 1},
	})
	require.NoError(t, err)
	require.Equal(t, 2, f.workoutRepo.EntryCount())

	require.NoError(t, f.svc.DeleteWorkout(ctx, workout.ID, f.alice))
	assert.Equal(t, 0, f.workoutRepo.EntryCount())
	_, err = f.svc.GetWorkout(ctx, workout.ID, f.alice)
	require.ErrorIs(t, err, ErrWorkoutNotFound)
}

func TestEntryOwnershipThroughParentWorkout(t *testing.T) {
	ctx := context.Background()
	f := newWorkoutFixture()
	benchID := f.seedExercise(t, "Bench Press")

	workout, err := f.svc.CreateWorkout(ctx, f.alice, WorkoutInput{Name: "Push day"}, nil)
	require.NoError(t, err)

	entry, err := f.svc.AddEntry(ctx, workout.ID, f.alice, EntryInput{ExerciseID: benchID, Sets: intPtr(3)})
	require.NoError(t, err)

	_, err = f.svc.AddEntry(ctx, workout.ID, f.bob, EntryInput{ExerciseID: benchID})
	require.ErrorIs(t, err, ErrForbidden)
	_, err = f.svc.UpdateEntry(ctx, entry.ID, f.bob, EntryPatch{Sets: intPtr(5)})
	require.ErrorIs(t, err, ErrForbidden)
	require.ErrorIs(t, f.svc.DeleteEntry(ctx, entry.ID, f.bob), ErrForbidden)

	_, err = f.svc.UpdateEntry(ctx, primitive.NewObjectID(), f.alice, EntryPatch{})
	require.ErrorIs(t, err, ErrEntryNotFound)

	updated, err := f.svc.UpdateEntry(ctx, entry.ID, f.alice, EntryPatch{Sets: intPtr(5)})
	require.NoError(t, err)
	require.NotNil(t, updated.Sets)
	assert.Equal(t, 5, *updated.Sets)

	require.NoError(t, f.svc.DeleteEntry(ctx, entry.ID, f.alice))
	assert.Equal(t, 0, f.workoutRepo.EntryCount())
}

func TestListEntriesWithDeletedExercise(t *testing.T) {
	ctx := context.Background()
	f := newWorkoutFixture()
	benchID := f.seedExercise(t, "Bench Press")

	workout, err := f.svc.CreateWorkout(ctx, f.alice, WorkoutInput{Name: "Push day"}, []EntryInput{
		{ExerciseID: benchID, Order: 0},
	})
	require.NoError(t, err)

	require.NoError(t, f.exerciseRepo.Delete(ctx, benchID))

	entries, err := f.svc.ListEntries(ctx, workout.ID, f.alice)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].Exercise, "entry survives its catalog row")
}
