package service

import (
	"context"
	"testing"
	"time"

	"fittrack/fitness-tracker/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newAuthFixture() (AuthService, *memory.UserRepository) {
	userRepo := memory.NewUserRepository()
	return NewAuthService(userRepo, "test-secret", time.Hour), userRepo
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthFixture()

	user, err := svc.Register(ctx, "alice", "Alice", "password123", "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "alice", user.Username)
	assert.Empty(t, user.PasswordHash, "hash must never leave the service")
	assert.False(t, user.ID.IsZero())

	token, loggedIn, err := svc.Login(ctx, "alice", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.Empty(t, loggedIn.PasswordHash)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	svc, userRepo := newAuthFixture()

	_, err := svc.Register(ctx, "alice", "Alice", "password123", "")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "Another Alice", "different456", "")
	require.ErrorIs(t, err, ErrUsernameTaken)
	assert.Equal(t, 1, userRepo.Count(), "failed registration must not create a row")

	// The first account still works with its original password.
	_, user, err := svc.Login(ctx, "alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Name)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, userRepo := newAuthFixture()

	_, err := svc.Register(ctx, "alice", "Alice", "password123", "shared@example.com")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "bob", "Bob", "password456", "shared@example.com")
	require.ErrorIs(t, err, ErrEmailTaken)
	assert.Equal(t, 1, userRepo.Count())

	// Omitted emails never collide with each other.
	_, err = svc.Register(ctx, "carol", "Carol", "password789", "")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "dave", "Dave", "password000", "")
	require.NoError(t, err)
}

func TestLoginDoesNotRevealUsernames(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthFixture()

	_, err := svc.Register(ctx, "alice", "Alice", "password123", "")
	require.NoError(t, err)

	_, _, wrongPassword := svc.Login(ctx, "alice", "wrong-password")
	_, _, unknownUser := svc.Login(ctx, "nobody", "password123")

	require.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	require.ErrorIs(t, unknownUser, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestGetUserByID(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthFixture()

	created, err := svc.Register(ctx, "alice", "Alice", "password123", "")
	require.NoError(t, err)

	user, err := svc.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Empty(t, user.PasswordHash)

	_, err = svc.GetUserByID(ctx, primitive.NewObjectID())
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteAccountCascades(t *testing.T) {
	ctx := context.Background()

	userRepo := memory.NewUserRepository()
	workoutRepo := memory.NewWorkoutRepository()
	goalRepo := memory.NewGoalRepository()
	userRepo.Workouts = workoutRepo
	userRepo.Goals = goalRepo

	authSvc := NewAuthService(userRepo, "test-secret", time.Hour)
	workoutSvc := NewWorkoutService(workoutRepo, memory.NewExerciseRepository())
	goalSvc := NewGoalService(goalRepo)

	alice, err := authSvc.Register(ctx, "alice", "Alice", "password123", "")
	require.NoError(t, err)

	workout, err := workoutSvc.CreateWorkout(ctx, alice.ID, WorkoutInput{Name: "Leg day"}, []EntryInput{
		{ExerciseID: primitive.NewObjectID(), Order: 0},
	})
	require.NoError(t, err)
	_, err = goalSvc.CreateGoal(ctx, alice.ID, GoalInput{Name: "Run 100km", TargetValue: 100, Unit: "km"})
	require.NoError(t, err)

	require.NoError(t, authSvc.DeleteAccount(ctx, alice.ID))

	assert.Equal(t, 0, userRepo.Count())
	assert.Equal(t, 0, workoutRepo.WorkoutCount())
	assert.Equal(t, 0, workoutRepo.EntryCount(), "entries of the deleted workout %s must go too", workout.ID.Hex())
	goals, err := goalRepo.GetByUserID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, goals)

	require.ErrorIs(t, authSvc.DeleteAccount(ctx, alice.ID), ErrUserNotFound)
}
