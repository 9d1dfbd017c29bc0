package api

import (
	"errors"
	"net/http"
	"time"

	"fittrack/fitness-tracker/internal/domain"
	"fittrack/fitness-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutHandler holds the workout ledger service dependency.
type WorkoutHandler struct {
	workoutService service.WorkoutService
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- DTOs ---

// EntryRequest is one exercise entry within a workout creation payload.
type EntryRequest struct {
	ExerciseID string   `json:"exerciseId" binding:"required"`
	Sets       *int     `json:"sets"`
	Reps       *int     `json:"reps"`
	Weight     *float64 `json:"weight"`
	Duration   *int     `json:"duration"` // Seconds
	Distance   *float64 `json:"distance"`
	Notes      string   `json:"notes"`
	Order      int      `json:"order"`
}

// CreateWorkoutRequest defines the expected JSON for logging a workout. The
// workout and its entries are persisted as one atomic unit.
type CreateWorkoutRequest struct {
	Name           string         `json:"name" binding:"required"`
	Date           string         `json:"date"` // ISO-8601; defaults to today
	Duration       *int           `json:"duration"` // Minutes
	Type           string         `json:"type" binding:"omitempty,oneof=strength cardio hiit flexibility other"`
	Notes          string         `json:"notes"`
	CaloriesBurned *int           `json:"caloriesBurned"`
	Exercises      []EntryRequest `json:"exercises"`
}

// UpdateWorkoutRequest defines a partial update; absent fields are retained
// and entries are never touched by a workout-level update.
type UpdateWorkoutRequest struct {
	Name           *string `json:"name"`
	Date           *string `json:"date"`
	Duration       *int    `json:"duration"`
	Type           *string `json:"type" binding:"omitempty,oneof=strength cardio hiit flexibility other"`
	Notes          *string `json:"notes"`
	CaloriesBurned *int    `json:"caloriesBurned"`
}

// CreateEntryRequest adds one entry to an existing workout.
type CreateEntryRequest struct {
	WorkoutID  string   `json:"workoutId" binding:"required"`
	ExerciseID string   `json:"exerciseId" binding:"required"`
	Sets       *int     `json:"sets"`
	Reps       *int     `json:"reps"`
	Weight     *float64 `json:"weight"`
	Duration   *int     `json:"duration"`
	Distance   *float64 `json:"distance"`
	Notes      string   `json:"notes"`
	Order      int      `json:"order"`
}

// UpdateEntryRequest defines a partial update to an entry.
type UpdateEntryRequest struct {
	Sets     *int     `json:"sets"`
	Reps     *int     `json:"reps"`
	Weight   *float64 `json:"weight"`
	Duration *int     `json:"duration"`
	Distance *float64 `json:"distance"`
	Notes    *string  `json:"notes"`
	Order    *int     `json:"order"`
}

// WorkoutResponse is the DTO for returning workouts.
type WorkoutResponse struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	Name           string    `json:"name"`
	Date           string    `json:"date"`
	Duration       *int      `json:"duration,omitempty"`
	Type           string    `json:"type,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	CaloriesBurned *int      `json:"caloriesBurned,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// EntryResponse is the DTO for returning workout entries, optionally enriched
// with a snapshot of the referenced exercise.
type EntryResponse struct {
	ID         string            `json:"id"`
	WorkoutID  string            `json:"workoutId"`
	ExerciseID string            `json:"exerciseId"`
	Sets       *int              `json:"sets,omitempty"`
	Reps       *int              `json:"reps,omitempty"`
	Weight     *float64          `json:"weight,omitempty"`
	Duration   *int              `json:"duration,omitempty"`
	Distance   *float64          `json:"distance,omitempty"`
	Notes      string            `json:"notes,omitempty"`
	Order      int               `json:"order"`
	Exercise   *ExerciseResponse `json:"exercise,omitempty"`
}

// MapWorkoutToResponse converts a domain.Workout to WorkoutResponse DTO.
func MapWorkoutToResponse(w *domain.Workout) WorkoutResponse {
	if w == nil {
		return WorkoutResponse{}
	}
	return WorkoutResponse{
		ID:             w.ID.Hex(),
		UserID:         w.UserID.Hex(),
		Name:           w.Name,
		Date:           formatDate(w.Date),
		Duration:       w.Duration,
		Type:           string(w.Type),
		Notes:          w.Notes,
		CaloriesBurned: w.CaloriesBurned,
		CreatedAt:      w.CreatedAt,
	}
}

// MapEntryToResponse converts a domain.WorkoutEntry to EntryResponse DTO.
func MapEntryToResponse(e *domain.WorkoutEntry, exercise *domain.Exercise) EntryResponse {
	if e == nil {
		return EntryResponse{}
	}
	resp := EntryResponse{
		ID:         e.ID.Hex(),
		WorkoutID:  e.WorkoutID.Hex(),
		ExerciseID: e.ExerciseID.Hex(),
		Sets:       e.Sets,
		Reps:       e.Reps,
		Weight:     e.Weight,
		Duration:   e.Duration,
		Distance:   e.Distance,
		Notes:      e.Notes,
		Order:      e.Order,
	}
	if exercise != nil {
		ex := MapExerciseToResponse(exercise)
		resp.Exercise = &ex
	}
	return resp
}

func (r EntryRequest) toInput() (service.EntryInput, error) {
	exerciseID, err := primitive.ObjectIDFromHex(r.ExerciseID)
	if err != nil {
		return service.EntryInput{}, errors.New("invalid exerciseId format")
	}
	return service.EntryInput{
		ExerciseID: exerciseID,
		Sets:       r.Sets,
		Reps:       r.Reps,
		Weight:     r.Weight,
		Duration:   r.Duration,
		Distance:   r.Distance,
		Notes:      r.Notes,
		Order:      r.Order,
	}, nil
}

// --- Handler Methods ---

// ListWorkouts returns the authenticated user's workouts, date descending.
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	workouts, err := h.workoutService.ListWorkouts(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list workouts")
		return
	}

	responses := make([]WorkoutResponse, len(workouts))
	for i := range workouts {
		responses[i] = MapWorkoutToResponse(&workouts[i])
	}
	c.JSON(http.StatusOK, responses)
}

// ListWorkoutsForUser serves the per-user alias route. The path id must be
// the authenticated principal; anyone else's workouts are off limits.
func (h *WorkoutHandler) ListWorkoutsForUser(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}
	targetID, err := idFromParam(c, "id")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	if targetID != userID {
		abortWithError(c, http.StatusForbidden, service.ErrForbidden.Error())
		return
	}

	workouts, err := h.workoutService.ListWorkouts(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list workouts")
		return
	}

	responses := make([]WorkoutResponse, len(workouts))
	for i := range workouts {
		responses[i] = MapWorkoutToResponse(&workouts[i])
	}
	c.JSON(http.StatusOK, responses)
}

// GetWorkout returns one workout owned by the requester.
func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}
	workoutID, err := idFromParam(c, "id")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	workout, err := h.workoutService.GetWorkout(c.Request.Context(), workoutID, userID)
	if err != nil {
		h.respondWorkoutError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// CreateWorkout logs a new workout together with its initial entry list.
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	var req CreateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	input := service.WorkoutInput{
		Name:           req.Name,
		Duration:       req.Duration,
		Type:           domain.WorkoutType(req.Type),
		Notes:          req.Notes,
		CaloriesBurned: req.CaloriesBurned,
	}
	if req.Date != "" {
		date, err := parseDate(req.Date)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid date format, expected ISO-8601")
			return
		}
		input.Date = date
	}

	entries := make([]service.EntryInput, 0, len(req.Exercises))
	for _, e := range req.Exercises {
		entryInput, err := e.toInput()
		if err != nil {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		entries = append(entries, entryInput)
	}

	workout, err := h.workoutService.CreateWorkout(c.Request.Context(), userID, input, entries)
	if err != nil {
		if errors.Is(err, service.ErrValidationFailed) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to create workout")
		return
	}
	c.JSON(http.StatusCreated, MapWorkoutToResponse(workout))
}

// UpdateWorkout applies a partial field update to an owned workout.
func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}
	workoutID, err := idFromParam(c, "id")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req UpdateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	patch := service.WorkoutPatch{
		Name:           req.Name,
		Duration:       req.Duration,
		Notes:          req.Notes,
		CaloriesBurned: req.CaloriesBurned,
	}
	if req.Type != nil {
		workoutType := domain.WorkoutType(*req.Type)
		patch.Type = &workoutType
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid date format, expected ISO-8601")
			return
		}
		patch.Date = &date
	}

	workout, err := h.workoutService.UpdateWorkout(c.Request.Context(), workoutID, userID, patch)
	if err != nil {
		h.respondWorkoutError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// DeleteWorkout removes an owned workout and its entries.
func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}
	workoutID, err := idFromParam(c, "id")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.workoutService.DeleteWorkout(c.Request.Context(), workoutID, userID); err != nil {
		h.respondWorkoutError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Workout deleted successfully"})
}

// ListEntries returns a workout's entries sorted by order ascending, each
// with its exercise snapshot.
func (h *WorkoutHandler) ListEntries(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}
	workoutID, err := idFromParam(c, "id")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := h.workoutService.ListEntries(c.Request.Context(), workoutID, userID)
	if err != nil {
		h.respondWorkoutError(c, err)
		return
	}

	responses := make([]EntryResponse, len(entries))
	for i := range entries {
		responses[i] = MapEntryToResponse(&entries[i].Entry, entries[i].Exercise)
	}
	c.JSON(http.StatusOK, responses)
}

// CreateEntry adds one entry to an existing workout. Ownership is resolved
// through the parent workout.
func (h *WorkoutHandler) CreateEntry(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	var req CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	workoutID, err := primitive.ObjectIDFromHex(req.WorkoutID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid workoutId format")
		return
	}
	exerciseID, err := primitive.ObjectIDFromHex(req.ExerciseID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid exerciseId format")
		return
	}

	entry, err := h.workoutService.AddEntry(c.Request.Context(), workoutID, userID, service.EntryInput{
		ExerciseID: exerciseID,
		Sets:       req.Sets,
		Reps:       req.Reps,
		Weight:     req.Weight,
		Duration:   req.Duration,
		Distance:   req.Distance,
		Notes:      req.Notes,
		Order:      req.Order,
	})
	if err != nil {
		h.respondWorkoutError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapEntryToResponse(entry, nil))
}

// UpdateEntry applies a partial update to an entry of an owned workout.
func (h *WorkoutHandler) UpdateEntry(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}
	entryID, err := idFromParam(c, "id")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	entry, err := h.workoutService.UpdateEntry(c.Request.Context(), entryID, userID, service.EntryPatch{
		Sets:     req.Sets,
		Reps:     req.Reps,
		Weight:   req.Weight,
		Duration: req.Duration,
		Distance: req.Distance,
		Notes:    req.Notes,
		Order:    req.Order,
	})
	if err != nil {
		h.respondWorkoutError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapEntryToResponse(entry, nil))
}

// DeleteEntry removes one entry of an owned workout.
func (h *WorkoutHandler) DeleteEntry(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}
	entryID, err := idFromParam(c, "id")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.workoutService.DeleteEntry(c.Request.Context(), entryID, userID); err != nil {
		h.respondWorkoutError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Workout exercise deleted successfully"})
}

// respondWorkoutError maps workout service errors to HTTP status codes. Not
// found always wins over forbidden: the service checks existence first.
func (h *WorkoutHandler) respondWorkoutError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrWorkoutNotFound), errors.Is(err, service.ErrEntryNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrForbidden):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
