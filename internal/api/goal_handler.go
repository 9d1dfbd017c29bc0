package api

import (
	"errors"
	"net/http"
	"time"

	"fittrack/fitness-tracker/internal/domain"
	"fittrack/fitness-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// GoalHandler holds the goal service dependency.
type GoalHandler struct {
	goalService service.GoalService
}

// NewGoalHandler creates a new GoalHandler.
func NewGoalHandler(goalService service.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// --- DTOs ---

// CreateGoalRequest defines the expected JSON for creating a goal. There is
// no completed field: completion is derived server-side from the values.
type CreateGoalRequest struct {
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description"`
	Type         string  `json:"type" binding:"omitempty,oneof=strength cardio weight habit other"`
	TargetValue  float64 `json:"targetValue"`
	CurrentValue float64 `json:"currentValue"`
	Unit         string  `json:"unit"`
	StartDate    string  `json:"startDate"`
	EndDate      string  `json:"endDate"`
}

// UpdateGoalRequest defines a partial update; absent fields are retained.
type UpdateGoalRequest struct {
	Name         *string  `json:"name"`
	Description  *string  `json:"description"`
	Type         *string  `json:"type" binding:"omitempty,oneof=strength cardio weight habit other"`
	TargetValue  *float64 `json:"targetValue"`
	CurrentValue *float64 `json:"currentValue"`
	Unit         *string  `json:"unit"`
	StartDate    *string  `json:"startDate"`
	EndDate      *string  `json:"endDate"`
}

// GoalResponse is the DTO for returning goals. Progress is computed at read
// time and never stored.
type GoalResponse struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Type         string    `json:"type,omitempty"`
	TargetValue  float64   `json:"targetValue"`
	CurrentValue float64   `json:"currentValue"`
	Unit         string    `json:"unit,omitempty"`
	StartDate    string    `json:"startDate"`
	EndDate      string    `json:"endDate,omitempty"`
	Completed    bool      `json:"completed"`
	Progress     float64   `json:"progress"`
	CreatedAt    time.Time `json:"createdAt"`
}

// MapGoalToResponse converts a domain.Goal to GoalResponse DTO.
func MapGoalToResponse(g *domain.Goal) GoalResponse {
	if g == nil {
		return GoalResponse{}
	}
	resp := GoalResponse{
		ID:           g.ID.Hex(),
		UserID:       g.UserID.Hex(),
		Name:         g.Name,
		Description:  g.Description,
		Type:         string(g.Type),
		TargetValue:  g.TargetValue,
		CurrentValue: g.CurrentValue,
		Unit:         g.Unit,
		StartDate:    formatDate(g.StartDate),
		Completed:    g.Completed,
		Progress:     g.Progress(),
		CreatedAt:    g.CreatedAt,
	}
	if g.EndDate != nil {
		resp.EndDate = formatDate(*g.EndDate)
	}
	return resp
}

// --- Handler Methods ---

// ListGoals returns the authenticated user's goals.
func (h *GoalHandler) ListGoals(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	goals, err := h.goalService.ListGoals(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list goals")
		return
	}

	responses := make([]GoalResponse, len(goals))
	for i := range goals {
		responses[i] = MapGoalToResponse(&goals[i])
	}
	c.JSON(http.StatusOK, responses)
}

// ListGoalsForUser serves the per-user alias route. The path id must be the
// authenticated principal; anyone else's goals are off limits.
func (h *GoalHandler) ListGoalsForUser(c *gin.Context) {
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

	goals, err := h.goalService.ListGoals(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list goals")
		return
	}

	responses := make([]GoalResponse, len(goals))
	for i := range goals {
		responses[i] = MapGoalToResponse(&goals[i])
	}
	c.JSON(http.StatusOK, responses)
}

// GetGoal returns one goal owned by the requester.
func (h *GoalHandler) GetGoal(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}
	goalID, err := idFromParam(c, "id")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	goal, err := h.goalService.GetGoal(c.Request.Context(), goalID, userID)
	if err != nil {
		h.respondGoalError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapGoalToResponse(goal))
}

// CreateGoal creates a goal for the authenticated user.
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	input := service.GoalInput{
		Name:         req.Name,
		Description:  req.Description,
		Type:         domain.GoalType(req.Type),
		TargetValue:  req.TargetValue,
		CurrentValue: req.CurrentValue,
		Unit:         req.Unit,
	}
	if req.StartDate != "" {
		startDate, err := parseDate(req.StartDate)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid startDate format, expected ISO-8601")
			return
		}
		input.StartDate = startDate
	}
	if req.EndDate != "" {
		endDate, err := parseDate(req.EndDate)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid endDate format, expected ISO-8601")
			return
		}
		input.EndDate = &endDate
	}

	goal, err := h.goalService.CreateGoal(c.Request.Context(), userID, input)
	if err != nil {
		if errors.Is(err, service.ErrValidationFailed) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to create goal")
		return
	}
	c.JSON(http.StatusCreated, MapGoalToResponse(goal))
}

// UpdateGoal applies a partial update to an owned goal. Changing either value
// recomputes the completion flag.
func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}
	goalID, err := idFromParam(c, "id")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	patch := service.GoalPatch{
		Name:         req.Name,
		Description:  req.Description,
		TargetValue:  req.TargetValue,
		CurrentValue: req.CurrentValue,
		Unit:         req.Unit,
	}
	if req.Type != nil {
		goalType := domain.GoalType(*req.Type)
		patch.Type = &goalType
	}
	if req.StartDate != nil {
		startDate, err := parseDate(*req.StartDate)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid startDate format, expected ISO-8601")
			return
		}
		patch.StartDate = &startDate
	}
	if req.EndDate != nil {
		endDate, err := parseDate(*req.EndDate)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid endDate format, expected ISO-8601")
			return
		}
		patch.EndDate = &endDate
	}

	goal, err := h.goalService.UpdateGoal(c.Request.Context(), goalID, userID, patch)
	if err != nil {
		h.respondGoalError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapGoalToResponse(goal))
}

// DeleteGoal removes an owned goal.
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}
	goalID, err := idFromParam(c, "id")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.goalService.DeleteGoal(c.Request.Context(), goalID, userID); err != nil {
		h.respondGoalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Goal deleted successfully"})
}

// ToggleCompletion flips an owned goal's completion flag regardless of its
// numeric values.
func (h *GoalHandler) ToggleCompletion(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}
	goalID, err := idFromParam(c, "id")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	goal, err := h.goalService.ToggleCompletion(c.Request.Context(), goalID, userID)
	if err != nil {
		h.respondGoalError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapGoalToResponse(goal))
}

func (h *GoalHandler) respondGoalError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrGoalNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrForbidden):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
