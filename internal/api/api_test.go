package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fittrack/fitness-tracker/internal/repository/memory"
	"fittrack/fitness-tracker/internal/seed"
	"fittrack/fitness-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router       *gin.Engine
	userRepo     *memory.UserRepository
	exerciseRepo *memory.ExerciseRepository
	workoutRepo  *memory.WorkoutRepository
	goalRepo     *memory.GoalRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	userRepo := memory.NewUserRepository()
	exerciseRepo := memory.NewExerciseRepository()
	workoutRepo := memory.NewWorkoutRepository()
	goalRepo := memory.NewGoalRepository()
	userRepo.Workouts = workoutRepo
	userRepo.Goals = goalRepo

	authService := service.NewAuthService(userRepo, "test-secret", time.Hour)
	exerciseService := service.NewExerciseService(exerciseRepo, nil)
	workoutService := service.NewWorkoutService(workoutRepo, exerciseRepo)
	goalService := service.NewGoalService(goalRepo)

	router := gin.New()
	SetupRoutes(router, "test-secret", authService, exerciseService, workoutService, goalService)

	return &testServer{
		router:       router,
		userRepo:     userRepo,
		exerciseRepo: exerciseRepo,
		workoutRepo:  workoutRepo,
		goalRepo:     goalRepo,
	}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// register creates an account and returns a valid bearer token for it.
func (s *testServer) register(t *testing.T, username string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": username,
		"name":     username,
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": username,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestRegisterAndLoginFlow(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "alice", "name": "Alice", "password": "password123", "email": "alice@example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeJSON[UserResponse](t, w)
	assert.Equal(t, "alice", created.Username)
	assert.NotContains(t, w.Body.String(), "passwordHash")

	// Duplicate username is rejected without creating a second row.
	w = s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "alice", "name": "Other", "password": "different456",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 1, s.userRepo.Count())

	// Short password fails binding.
	w = s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "bob", "name": "Bob", "password": "short",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Wrong password and unknown username are both a plain 401.
	w = s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": "alice", "password": "nope-nope"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	w = s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": "ghost", "password": "password123"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	token := s.register(t, "bob")
	w = s.do(t, http.MethodGet, "/api/auth/user", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decodeJSON[UserResponse](t, w)
	assert.Equal(t, "bob", me.Username)

	w = s.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/workouts", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodGet, "/api/goals", "garbage-token", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Catalog reads stay public.
	w = s.do(t, http.MethodGet, "/api/exercises", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Catalog writes do not.
	w = s.do(t, http.MethodPost, "/api/exercises", "", gin.H{"name": "Curl"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWorkoutLifecycle(t *testing.T) {
	s := newTestServer(t)
	_, err := seed.Run(context.Background(), s.exerciseRepo)
	require.NoError(t, err)
	catalog, err := s.exerciseRepo.GetAll(context.Background())
	require.NoError(t, err)
	bench, squat := catalog[0], catalog[2]

	alice := s.register(t, "alice")
	bob := s.register(t, "bob")

	w := s.do(t, http.MethodPost, "/api/workouts", alice, gin.H{
		"name": "Push day",
		"date": "2026-08-30",
		"type": "strength",
		"exercises": []gin.H{
			{"exerciseId": squat.ID.Hex(), "sets": 5, "reps": 5, "order": 1},
			{"exerciseId": bench.ID.Hex(), "sets": 3, "reps": 8, "order": 0},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	workout := decodeJSON[WorkoutResponse](t, w)
	assert.Equal(t, "2026-08-30", workout.Date)

	// Entries come back sorted by order, enriched with their exercise.
	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/workouts/%s/exercises", workout.ID), alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	entries := decodeJSON[[]EntryResponse](t, w)
	require.Len(t, entries, 2)
	assert.Equal(t, bench.ID.Hex(), entries[0].ExerciseID)
	require.NotNil(t, entries[0].Exercise)
	assert.Equal(t, bench.Name, entries[0].Exercise.Name)

	// Another user's access is forbidden; a made-up id is not found.
	w = s.do(t, http.MethodGet, "/api/workouts/"+workout.ID, bob, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	w = s.do(t, http.MethodGet, "/api/workouts/000000000000000000000099", bob, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	// Partial update keeps everything not mentioned.
	w = s.do(t, http.MethodPut, "/api/workouts/"+workout.ID, alice, gin.H{"notes": "good session"})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decodeJSON[WorkoutResponse](t, w)
	assert.Equal(t, "Push day", updated.Name)
	assert.Equal(t, "good session", updated.Notes)

	// Invalid type value fails binding.
	w = s.do(t, http.MethodPut, "/api/workouts/"+workout.ID, alice, gin.H{"type": "yoga-ish"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Standalone entry management through the parent workout.
	w = s.do(t, http.MethodPost, "/api/workout-exercises", alice, gin.H{
		"workoutId": workout.ID, "exerciseId": bench.ID.Hex(), "sets": 4, "order": 2,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	entry := decodeJSON[EntryResponse](t, w)

	w = s.do(t, http.MethodPut, "/api/workout-exercises/"+entry.ID, bob, gin.H{"sets": 1})
	require.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodDelete, "/api/workout-exercises/"+entry.ID, alice, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodDelete, "/api/workouts/"+workout.ID, alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, s.workoutRepo.EntryCount(), "deleting the workout removes its entries")
}

func TestGoalLifecycle(t *testing.T) {
	s := newTestServer(t)
	alice := s.register(t, "alice")
	bob := s.register(t, "bob")

	w := s.do(t, http.MethodPost, "/api/goals", alice, gin.H{
		"name": "Run 100km", "type": "cardio", "targetValue": 100, "currentValue": 25,
		"unit": "km", "endDate": "2026-12-31",
		"completed": true, // ignored: completion is derived server-side
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	goal := decodeJSON[GoalResponse](t, w)
	assert.False(t, goal.Completed)
	assert.InDelta(t, 25, goal.Progress, 0.001)
	assert.Equal(t, "2026-12-31", goal.EndDate)

	// Blanking the name is a validation error, not a server fault.
	w = s.do(t, http.MethodPut, "/api/goals/"+goal.ID, alice, gin.H{"name": ""})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	w = s.do(t, http.MethodPut, "/api/goals/"+goal.ID, alice, gin.H{"currentValue": 100})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decodeJSON[GoalResponse](t, w)
	assert.True(t, updated.Completed)
	assert.InDelta(t, 100, updated.Progress, 0.001)

	w = s.do(t, http.MethodPost, fmt.Sprintf("/api/goals/%s/toggle", goal.ID), alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decodeJSON[GoalResponse](t, w).Completed)

	w = s.do(t, http.MethodGet, "/api/goals/"+goal.ID, bob, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	w = s.do(t, http.MethodDelete, "/api/goals/000000000000000000000099", bob, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/goals", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeJSON[[]GoalResponse](t, w))

	w = s.do(t, http.MethodDelete, "/api/goals/"+goal.ID, alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodGet, "/api/goals/"+goal.ID, alice, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestExerciseCatalogEndpoints(t *testing.T) {
	s := newTestServer(t)
	alice := s.register(t, "alice")

	w := s.do(t, http.MethodPost, "/api/exercises", alice, gin.H{
		"name":         "Cable Fly",
		"muscleGroups": "Chest",
		"equipment":    "Cable Machine",
		"difficulty":   "intermediate",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeJSON[ExerciseResponse](t, w)

	// Reads are public.
	w = s.do(t, http.MethodGet, "/api/exercises/"+created.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/exercises/not-a-hex-id", "", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(t, http.MethodGet, "/api/exercises/000000000000000000000099", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	// No file storage configured: presigned uploads are unavailable.
	w = s.do(t, http.MethodPost, fmt.Sprintf("/api/exercises/%s/image", created.ID), alice, gin.H{
		"contentType": "image/jpeg",
	})
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = s.do(t, http.MethodDelete, "/api/exercises/"+created.ID, alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestPerUserAliasRoutes(t *testing.T) {
	s := newTestServer(t)
	alice := s.register(t, "alice")
	bob := s.register(t, "bob")

	w := s.do(t, http.MethodGet, "/api/auth/user", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	aliceID := decodeJSON[UserResponse](t, w).ID

	w = s.do(t, http.MethodPost, "/api/goals", alice, gin.H{"name": "Run 100km", "targetValue": 100})
	require.Equal(t, http.StatusCreated, w.Code)
	w = s.do(t, http.MethodPost, "/api/workouts", alice, gin.H{"name": "Push day"})
	require.Equal(t, http.StatusCreated, w.Code)

	// The principal may use their own alias.
	w = s.do(t, http.MethodGet, "/api/users/"+aliceID+"/goals", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeJSON[[]GoalResponse](t, w), 1)
	w = s.do(t, http.MethodGet, "/api/users/"+aliceID+"/workouts", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeJSON[[]WorkoutResponse](t, w), 1)

	// Anyone else's id is forbidden outright, even if it does not exist.
	w = s.do(t, http.MethodGet, "/api/users/"+aliceID+"/goals", bob, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	w = s.do(t, http.MethodGet, "/api/users/"+aliceID+"/workouts", bob, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodGet, "/api/users/not-a-hex-id/goals", alice, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteAccountEndpoint(t *testing.T) {
	s := newTestServer(t)
	alice := s.register(t, "alice")

	w := s.do(t, http.MethodPost, "/api/goals", alice, gin.H{"name": "Run 100km", "targetValue": 100})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodDelete, "/api/auth/user", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, s.userRepo.Count())

	// The token still parses but the principal is gone.
	w = s.do(t, http.MethodGet, "/api/auth/user", alice, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
