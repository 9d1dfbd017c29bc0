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
	ErrWorkoutNotFound = errors.New("workout not found")
	ErrEntryNotFound   = errors.New("workout entry not found")
	// ErrForbidden signals an authenticated requester who is not the owner of
	// the target entity. Existence is always checked first, so a nonexistent
	// id never surfaces as forbidden.
	ErrForbidden = errors.New("access denied: not the owner")
)

// WorkoutInput carries the client-supplied workout fields.
type WorkoutInput struct {
	Name           string
	Date           time.Time
	Duration       *int
	Type           domain.WorkoutType
	Notes          string
	CaloriesBurned *int
}

// WorkoutPatch carries a partial update; nil fields retain prior values.
// Patching workout fields never touches the entry list.
type WorkoutPatch struct {
	Name           *string
	Date           *time.Time
	Duration       *int
	Type           *domain.WorkoutType
	Notes          *string
	CaloriesBurned *int
}

// EntryInput carries the client-supplied fields of one workout entry.
type EntryInput struct {
	ExerciseID primitive.ObjectID
	Sets       *int
	Reps       *int
	Weight     *float64
	Duration   *int
	Distance   *float64
	Notes      string
	Order      int
}

// EntryPatch carries a partial update to an entry.
type EntryPatch struct {
	Sets     *int
	Reps     *int
	Weight   *float64
	Duration *int
	Distance *float64
	Notes    *string
	Order    *int
}

// EnrichedEntry is an entry together with a snapshot of its referenced
// exercise. The exercise may be nil when the catalog row was deleted.
type EnrichedEntry struct {
	Entry    domain.WorkoutEntry
	Exercise *domain.Exercise
}

// WorkoutService manages a user's workout ledger. Every single-entity read and
// every mutation resolves the entity first (not found beats forbidden) and
// then verifies the requester owns it.
type WorkoutService interface {
	CreateWorkout(ctx context.Context, ownerID primitive.ObjectID, input WorkoutInput, entries []EntryInput) (*domain.Workout, error)
	GetWorkout(ctx context.Context, workoutID, requesterID primitive.ObjectID) (*domain.Workout, error)
	ListWorkouts(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Workout, error)
	UpdateWorkout(ctx context.Context, workoutID, requesterID primitive.ObjectID, patch WorkoutPatch) (*domain.Workout, error)
	DeleteWorkout(ctx context.Context, workoutID, requesterID primitive.ObjectID) error

	ListEntries(ctx context.Context, workoutID, requesterID primitive.ObjectID) ([]EnrichedEntry, error)
	AddEntry(ctx context.Context, workoutID, requesterID primitive.ObjectID, input EntryInput) (*domain.WorkoutEntry, error)
	UpdateEntry(ctx context.Context, entryID, requesterID primitive.ObjectID, patch EntryPatch) (*domain.WorkoutEntry, error)
	DeleteEntry(ctx context.Context, entryID, requesterID primitive.ObjectID) error
}

// workoutService implements the WorkoutService interface.
type workoutService struct {
	workoutRepo  repository.WorkoutRepository
	exerciseRepo repository.ExerciseRepository
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(workoutRepo repository.WorkoutRepository, exerciseRepo repository.ExerciseRepository) WorkoutService {
	return &workoutService{
		workoutRepo:  workoutRepo,
		exerciseRepo: exerciseRepo,
	}
}

// CreateWorkout persists a workout and its initial entries as one atomic unit.
func (s *workoutService) CreateWorkout(ctx context.Context, ownerID primitive.ObjectID, input WorkoutInput, entries []EntryInput) (*domain.Workout, error) {
	if ownerID == primitive.NilObjectID {
		return nil, errors.New("owner ID is required")
	}
	if input.Name == "" {
		return nil, ErrValidationFailed
	}

	workout := &domain.Workout{
		UserID:         ownerID,
		Name:           input.Name,
		Date:           input.Date,
		Duration:       input.Duration,
		Type:           input.Type,
		Notes:          input.Notes,
		CaloriesBurned: input.CaloriesBurned,
	}

	entryRows := make([]*domain.WorkoutEntry, 0, len(entries))
	for _, e := range entries {
		if e.ExerciseID == primitive.NilObjectID {
			return nil, ErrValidationFailed
		}
		entryRows = append(entryRows, &domain.WorkoutEntry{
			ExerciseID: e.ExerciseID,
			Sets:       e.Sets,
			Reps:       e.Reps,
			Weight:     e.Weight,
			Duration:   e.Duration,
			Distance:   e.Distance,
			Notes:      e.Notes,
			Order:      e.Order,
		})
	}

	workoutID, err := s.workoutRepo.CreateWithEntries(ctx, workout, entryRows)
	if err != nil {
		return nil, err
	}
	workout.ID = workoutID
	return workout, nil
}

// GetWorkout retrieves one workout after the ownership check.
func (s *workoutService) GetWorkout(ctx context.Context, workoutID, requesterID primitive.ObjectID) (*domain.Workout, error) {
	return s.resolveOwned(ctx, workoutID, requesterID)
}

// ListWorkouts returns the requester's own workouts, date descending.
func (s *workoutService) ListWorkouts(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Workout, error) {
	if ownerID == primitive.NilObjectID {
		return nil, errors.New("owner ID is required")
	}
	return s.workoutRepo.GetByUserID(ctx, ownerID)
}

// UpdateWorkout applies a partial field update. Only fields present in the
// patch are overwritten; entries are never touched here.
func (s *workoutService) UpdateWorkout(ctx context.Context, workoutID, requesterID primitive.ObjectID, patch WorkoutPatch) (*domain.Workout, error) {
	workout, err := s.resolveOwned(ctx, workoutID, requesterID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, ErrValidationFailed
		}
		workout.Name = *patch.Name
	}
	if patch.Date != nil {
		workout.Date = *patch.Date
	}
	if patch.Duration != nil {
		workout.Duration = patch.Duration
	}
	if patch.Type != nil {
		workout.Type = *patch.Type
	}
	if patch.Notes != nil {
		workout.Notes = *patch.Notes
	}
	if patch.CaloriesBurned != nil {
		workout.CaloriesBurned = patch.CaloriesBurned
	}

	if err := s.workoutRepo.Update(ctx, workout); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return workout, nil
}

// DeleteWorkout removes a workout and cascades its entries.
func (s *workoutService) DeleteWorkout(ctx context.Context, workoutID, requesterID primitive.ObjectID) error {
	if _, err := s.resolveOwned(ctx, workoutID, requesterID); err != nil {
		return err
	}
	err := s.workoutRepo.Delete(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWorkoutNotFound
		}
		return err
	}
	return nil
}

// ListEntries returns the workout's entries ordered ascending by their sort
// key, each enriched with its referenced exercise.
func (s *workoutService) ListEntries(ctx context.Context, workoutID, requesterID primitive.ObjectID) ([]EnrichedEntry, error) {
	if _, err := s.resolveOwned(ctx, workoutID, requesterID); err != nil {
		return nil, err
	}

	entries, err := s.workoutRepo.GetEntriesByWorkoutID(ctx, workoutID)
	if err != nil {
		return nil, err
	}

	enriched := make([]EnrichedEntry, 0, len(entries))
	for _, entry := range entries {
		item := EnrichedEntry{Entry: entry}
		exercise, err := s.exerciseRepo.GetByID(ctx, entry.ExerciseID)
		if err == nil {
			item.Exercise = exercise
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		enriched = append(enriched, item)
	}
	return enriched, nil
}

// AddEntry appends a single entry to an existing workout. Ownership resolves
// through the parent workout.
func (s *workoutService) AddEntry(ctx context.Context, workoutID, requesterID primitive.ObjectID, input EntryInput) (*domain.WorkoutEntry, error) {
	if _, err := s.resolveOwned(ctx, workoutID, requesterID); err != nil {
		return nil, err
	}
	if input.ExerciseID == primitive.NilObjectID {
		return nil, ErrValidationFailed
	}

	entry := &domain.WorkoutEntry{
		WorkoutID:  workoutID,
		ExerciseID: input.ExerciseID,
		Sets:       input.Sets,
		Reps:       input.Reps,
		Weight:     input.Weight,
		Duration:   input.Duration,
		Distance:   input.Distance,
		Notes:      input.Notes,
		Order:      input.Order,
	}

	entryID, err := s.workoutRepo.CreateEntry(ctx, entry)
	if err != nil {
		return nil, err
	}
	entry.ID = entryID
	return entry, nil
}

// UpdateEntry applies a partial update to an entry. The entry is resolved
// first, then its parent workout's owner is checked.
func (s *workoutService) UpdateEntry(ctx context.Context, entryID, requesterID primitive.ObjectID, patch EntryPatch) (*domain.WorkoutEntry, error) {
	entry, err := s.resolveOwnedEntry(ctx, entryID, requesterID)
	if err != nil {
		return nil, err
	}

	if patch.Sets != nil {
		entry.Sets = patch.Sets
	}
	if patch.Reps != nil {
		entry.Reps = patch.Reps
	}
	if patch.Weight != nil {
		entry.Weight = patch.Weight
	}
	if patch.Duration != nil {
		entry.Duration = patch.Duration
	}
	if patch.Distance != nil {
		entry.Distance = patch.Distance
	}
	if patch.Notes != nil {
		entry.Notes = *patch.Notes
	}
	if patch.Order != nil {
		entry.Order = *patch.Order
	}

	if err := s.workoutRepo.UpdateEntry(ctx, entry); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	return entry, nil
}

// DeleteEntry removes a single entry, ownership resolved through its parent.
func (s *workoutService) DeleteEntry(ctx context.Context, entryID, requesterID primitive.ObjectID) error {
	if _, err := s.resolveOwnedEntry(ctx, entryID, requesterID); err != nil {
		return err
	}
	err := s.workoutRepo.DeleteEntry(ctx, entryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEntryNotFound
		}
		return err
	}
	return nil
}

// resolveOwned loads a workout and enforces the access-control contract:
// existence first, then ownership.
func (s *workoutService) resolveOwned(ctx context.Context, workoutID, requesterID primitive.ObjectID) (*domain.Workout, error) {
	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	if workout.UserID != requesterID {
		return nil, ErrForbidden
	}
	return workout, nil
}

// resolveOwnedEntry loads an entry and checks its parent workout's owner.
func (s *workoutService) resolveOwnedEntry(ctx context.Context, entryID, requesterID primitive.ObjectID) (*domain.WorkoutEntry, error) {
	entry, err := s.workoutRepo.GetEntryByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	if _, err := s.resolveOwned(ctx, entry.WorkoutID, requesterID); err != nil {
		return nil, err
	}
	return entry, nil
}
