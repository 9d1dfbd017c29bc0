package service

import (
	"context"
	"errors"
	"time"

	"fittrack/fitness-tracker/internal/domain"
	"fittrack/fitness-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrGoalNotFound = errors.New("goal not found")
)

// GoalInput carries the client-supplied goal fields. Completed is always
// derived from the numeric values at creation; a client-supplied flag is
// ignored.
type GoalInput struct {
	Name         string
	Description  string
	Type         domain.GoalType
	TargetValue  float64
	CurrentValue float64
	Unit         string
	StartDate    time.Time
	EndDate      *time.Time
}

// GoalPatch carries a partial update; nil fields retain prior values.
type GoalPatch struct {
	Name         *string
	Description  *string
	Type         *domain.GoalType
	TargetValue  *float64
	CurrentValue *float64
	Unit         *string
	StartDate    *time.Time
	EndDate      *time.Time
}

// GoalService manages a user's goals with the same ownership contract as the
// workout ledger. The stored completion flag is kept in sync with the numeric
// values on every write that changes either of them; ToggleCompletion is the
// one manual override path.
type GoalService interface {
	CreateGoal(ctx context.Context, ownerID primitive.ObjectID, input GoalInput) (*domain.Goal, error)
	GetGoal(ctx context.Context, goalID, requesterID primitive.ObjectID) (*domain.Goal, error)
	ListGoals(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Goal, error)
	UpdateGoal(ctx context.Context, goalID, requesterID primitive.ObjectID, patch GoalPatch) (*domain.Goal, error)
	DeleteGoal(ctx context.Context, goalID, requesterID primitive.ObjectID) error
	ToggleCompletion(ctx context.Context, goalID, requesterID primitive.ObjectID) (*domain.Goal, error)
}

// goalService implements the GoalService interface.
type goalService struct {
	goalRepo repository.GoalRepository
}

// NewGoalService creates a new instance of goalService.
func NewGoalService(goalRepo repository.GoalRepository) GoalService {
	return &goalService{goalRepo: goalRepo}
}

// CreateGoal persists a new goal. CurrentValue defaults to 0; the completion
// flag is derived from the values, never taken from the client.
func (s *goalService) CreateGoal(ctx context.Context, ownerID primitive.ObjectID, input GoalInput) (*domain.Goal, error) {
	if ownerID == primitive.NilObjectID {
		return nil, errors.New("owner ID is required")
	}
	if input.Name == "" {
		return nil, ErrValidationFailed
	}

	goal := &domain.Goal{
		UserID:       ownerID,
		Name:         input.Name,
		Description:  input.Description,
		Type:         input.Type,
		TargetValue:  input.TargetValue,
		CurrentValue: input.CurrentValue,
		Unit:         input.Unit,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
	}
	goal.RecomputeCompleted()

	goalID, err := s.goalRepo.Create(ctx, goal)
	if err != nil {
		return nil, err
	}
	goal.ID = goalID
	return goal, nil
}

// GetGoal retrieves one goal after the ownership check.
func (s *goalService) GetGoal(ctx context.Context, goalID, requesterID primitive.ObjectID) (*domain.Goal, error) {
	return s.resolveOwned(ctx, goalID, requesterID)
}

// ListGoals returns the requester's own goals.
func (s *goalService) ListGoals(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Goal, error) {
	if ownerID == primitive.NilObjectID {
		return nil, errors.New("owner ID is required")
	}
	return s.goalRepo.GetByUserID(ctx, ownerID)
}

// UpdateGoal applies a partial update. Whenever the patch changes the current
// or the target value the stored completion flag is re-derived, so it can
// never drift through a numeric write.
func (s *goalService) UpdateGoal(ctx context.Context, goalID, requesterID primitive.ObjectID, patch GoalPatch) (*domain.Goal, error) {
	goal, err := s.resolveOwned(ctx, goalID, requesterID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, ErrValidationFailed
		}
		goal.Name = *patch.Name
	}
	if patch.Description != nil {
		goal.Description = *patch.Description
	}
	if patch.Type != nil {
		goal.Type = *patch.Type
	}
	valuesChanged := false
	if patch.TargetValue != nil {
		goal.TargetValue = *patch.TargetValue
		valuesChanged = true
	}
	if patch.CurrentValue != nil {
		goal.CurrentValue = *patch.CurrentValue
		valuesChanged = true
	}
	if patch.Unit != nil {
		goal.Unit = *patch.Unit
	}
	if patch.StartDate != nil {
		goal.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		goal.EndDate = patch.EndDate
	}

	if valuesChanged {
		goal.RecomputeCompleted()
	}

	if err := s.goalRepo.Update(ctx, goal); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, err
	}
	return goal, nil
}

// DeleteGoal removes a goal.
func (s *goalService) DeleteGoal(ctx context.Context, goalID, requesterID primitive.ObjectID) error {
	if _, err := s.resolveOwned(ctx, goalID, requesterID); err != nil {
		return err
	}
	err := s.goalRepo.Delete(ctx, goalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrGoalNotFound
		}
		return err
	}
	return nil
}

// ToggleCompletion flips the completion flag unconditionally. This is a
// deliberate manual override: the flag may end up inconsistent with the
// numeric values until the next value write re-derives it.
func (s *goalService) ToggleCompletion(ctx context.Context, goalID, requesterID primitive.ObjectID) (*domain.Goal, error) {
	goal, err := s.resolveOwned(ctx, goalID, requesterID)
	if err != nil {
		return nil, err
	}

	goal.Completed = !goal.Completed

	if err := s.goalRepo.Update(ctx, goal); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, err
	}
	return goal, nil
}

// resolveOwned loads a goal and enforces the access-control contract:
// existence first, then ownership.
func (s *goalService) resolveOwned(ctx context.Context, goalID, requesterID primitive.ObjectID) (*domain.Goal, error) {
	goal, err := s.goalRepo.GetByID(ctx, goalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, err
	}
	if goal.UserID != requesterID {
		return nil, ErrForbidden
	}
	return goal, nil
}
