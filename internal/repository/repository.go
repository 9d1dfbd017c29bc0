package repository

import (
	"context"

	"fittrack/fitness-tracker/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("duplicate key")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// Delete removes the user together with all workouts, workout entries and
	// goals they own. The cascade is explicit, not left to the storage engine.
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ExerciseRepository defines the interface for the shared exercise catalog.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	GetAll(ctx context.Context) ([]domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
}

// WorkoutRepository defines the interface for workouts and their entries.
type WorkoutRepository interface {
	// CreateWithEntries persists a workout and its initial entry list as one
	// atomic unit: either all rows exist afterwards or none do.
	CreateWithEntries(ctx context.Context, workout *domain.Workout, entries []*domain.WorkoutEntry) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Workout, error) // Date descending
	Update(ctx context.Context, workout *domain.Workout) error
	// Delete removes the workout and cascades its entries atomically.
	Delete(ctx context.Context, id primitive.ObjectID) error

	CreateEntry(ctx context.Context, entry *domain.WorkoutEntry) (primitive.ObjectID, error)
	GetEntryByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutEntry, error)
	GetEntriesByWorkoutID(ctx context.Context, workoutID primitive.ObjectID) ([]domain.WorkoutEntry, error) // Order ascending
	UpdateEntry(ctx context.Context, entry *domain.WorkoutEntry) error
	DeleteEntry(ctx context.Context, id primitive.ObjectID) error
}

// GoalRepository defines the interface for interacting with goal data.
type GoalRepository interface {
	Create(ctx context.Context, goal *domain.Goal) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Goal, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Goal, error)
	Update(ctx context.Context, goal *domain.Goal) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
