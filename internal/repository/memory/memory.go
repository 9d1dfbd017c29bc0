// Package memory provides map-backed implementations of the repository
// interfaces. They back the package tests so service and handler behavior can
// be exercised without a running MongoDB.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"fittrack/fitness-tracker/internal/domain"
	"fittrack/fitness-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepository is an in-memory repository.UserRepository.
type UserRepository struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]domain.User

	// Cascade targets, optional. When set, Delete removes owned rows too.
	Workouts *WorkoutRepository
	Goals    *GoalRepository
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[primitive.ObjectID]domain.User)}
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == user.Username || (user.Email != "" && u.Email == user.Email) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}

	user.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return user.ID, nil
}

func (r *UserRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u, ok := r.users[id]; ok {
		return &u, nil
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email != "" && u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	if _, ok := r.users[id]; !ok {
		r.mu.Unlock()
		return repository.ErrNotFound
	}
	delete(r.users, id)
	r.mu.Unlock()

	if r.Workouts != nil {
		workouts, _ := r.Workouts.GetByUserID(ctx, id)
		for _, w := range workouts {
			_ = r.Workouts.Delete(ctx, w.ID)
		}
	}
	if r.Goals != nil {
		goals, _ := r.Goals.GetByUserID(ctx, id)
		for _, g := range goals {
			_ = r.Goals.Delete(ctx, g.ID)
		}
	}
	return nil
}

func (r *UserRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

// ExerciseRepository is an in-memory repository.ExerciseRepository. Insertion
// order is preserved for GetAll.
type ExerciseRepository struct {
	mu        sync.RWMutex
	exercises map[primitive.ObjectID]domain.Exercise
	order     []primitive.ObjectID

	// FailCreate makes the next Create return this error, for failure paths.
	FailCreate error
}

func NewExerciseRepository() *ExerciseRepository {
	return &ExerciseRepository{exercises: make(map[primitive.ObjectID]domain.Exercise)}
}

func (r *ExerciseRepository) Create(_ context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailCreate != nil {
		err := r.FailCreate
		r.FailCreate = nil
		return primitive.NilObjectID, err
	}

	exercise.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	exercise.CreatedAt = now
	exercise.UpdatedAt = now
	r.exercises[exercise.ID] = *exercise
	r.order = append(r.order, exercise.ID)
	return exercise.ID, nil
}

func (r *ExerciseRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.exercises[id]; ok {
		return &e, nil
	}
	return nil, repository.ErrNotFound
}

func (r *ExerciseRepository) GetAll(_ context.Context) ([]domain.Exercise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]domain.Exercise, 0, len(r.order))
	for _, id := range r.order {
		if e, ok := r.exercises[id]; ok {
			all = append(all, e)
		}
	}
	return all, nil
}

func (r *ExerciseRepository) Update(_ context.Context, exercise *domain.Exercise) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.exercises[exercise.ID]; !ok {
		return repository.ErrNotFound
	}
	exercise.UpdatedAt = time.Now().UTC()
	r.exercises[exercise.ID] = *exercise
	return nil
}

func (r *ExerciseRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.exercises[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.exercises, id)
	return nil
}

func (r *ExerciseRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.exercises)), nil
}

// WorkoutRepository is an in-memory repository.WorkoutRepository.
type WorkoutRepository struct {
	mu       sync.RWMutex
	workouts map[primitive.ObjectID]domain.Workout
	entries  map[primitive.ObjectID]domain.WorkoutEntry

	// FailEntryInsertAt makes CreateWithEntries fail before persisting the
	// entry at this index (1-based), to exercise the all-or-nothing contract.
	FailEntryInsertAt int
}

func NewWorkoutRepository() *WorkoutRepository {
	return &WorkoutRepository{
		workouts: make(map[primitive.ObjectID]domain.Workout),
		entries:  make(map[primitive.ObjectID]domain.WorkoutEntry),
	}
}

func (r *WorkoutRepository) CreateWithEntries(_ context.Context, workout *domain.Workout, entries []*domain.WorkoutEntry) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	workout.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	workout.CreatedAt = now
	workout.UpdatedAt = now
	if workout.Date.IsZero() {
		workout.Date = now
	}

	staged := make([]domain.WorkoutEntry, 0, len(entries))
	for i, entry := range entries {
		if r.FailEntryInsertAt > 0 && i+1 == r.FailEntryInsertAt {
			r.FailEntryInsertAt = 0
			return primitive.NilObjectID, repository.ErrUpdateFailed
		}
		entry.ID = primitive.NewObjectID()
		entry.WorkoutID = workout.ID
		staged = append(staged, *entry)
	}

	// Nothing is visible until every insert staged successfully.
	r.workouts[workout.ID] = *workout
	for _, e := range staged {
		r.entries[e.ID] = e
	}
	return workout.ID, nil
}

func (r *WorkoutRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if w, ok := r.workouts[id]; ok {
		return &w, nil
	}
	return nil, repository.ErrNotFound
}

func (r *WorkoutRepository) GetByUserID(_ context.Context, userID primitive.ObjectID) ([]domain.Workout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	workouts := []domain.Workout{}
	for _, w := range r.workouts {
		if w.UserID == userID {
			workouts = append(workouts, w)
		}
	}
	sort.SliceStable(workouts, func(i, j int) bool {
		return workouts[i].Date.After(workouts[j].Date)
	})
	return workouts, nil
}

func (r *WorkoutRepository) Update(_ context.Context, workout *domain.Workout) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.workouts[workout.ID]; !ok {
		return repository.ErrNotFound
	}
	workout.UpdatedAt = time.Now().UTC()
	r.workouts[workout.ID] = *workout
	return nil
}

func (r *WorkoutRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.workouts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.workouts, id)
	for entryID, e := range r.entries {
		if e.WorkoutID == id {
			delete(r.entries, entryID)
		}
	}
	return nil
}

func (r *WorkoutRepository) CreateEntry(_ context.Context, entry *domain.WorkoutEntry) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.ID = primitive.NewObjectID()
	r.entries[entry.ID] = *entry
	return entry.ID, nil
}

func (r *WorkoutRepository) GetEntryByID(_ context.Context, id primitive.ObjectID) (*domain.WorkoutEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.entries[id]; ok {
		return &e, nil
	}
	return nil, repository.ErrNotFound
}

func (r *WorkoutRepository) GetEntriesByWorkoutID(_ context.Context, workoutID primitive.ObjectID) ([]domain.WorkoutEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := []domain.WorkoutEntry{}
	for _, e := range r.entries {
		if e.WorkoutID == workoutID {
			entries = append(entries, e)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Order < entries[j].Order
	})
	return entries, nil
}

func (r *WorkoutRepository) UpdateEntry(_ context.Context, entry *domain.WorkoutEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[entry.ID]; !ok {
		return repository.ErrNotFound
	}
	r.entries[entry.ID] = *entry
	return nil
}

func (r *WorkoutRepository) DeleteEntry(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.entries, id)
	return nil
}

func (r *WorkoutRepository) WorkoutCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.workouts)
}

func (r *WorkoutRepository) EntryCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// GoalRepository is an in-memory repository.GoalRepository.
type GoalRepository struct {
	mu    sync.RWMutex
	goals map[primitive.ObjectID]domain.Goal
}

func NewGoalRepository() *GoalRepository {
	return &GoalRepository{goals: make(map[primitive.ObjectID]domain.Goal)}
}

func (r *GoalRepository) Create(_ context.Context, goal *domain.Goal) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	goal.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	goal.CreatedAt = now
	goal.UpdatedAt = now
	if goal.StartDate.IsZero() {
		goal.StartDate = now
	}
	r.goals[goal.ID] = *goal
	return goal.ID, nil
}

func (r *GoalRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Goal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if g, ok := r.goals[id]; ok {
		return &g, nil
	}
	return nil, repository.ErrNotFound
}

func (r *GoalRepository) GetByUserID(_ context.Context, userID primitive.ObjectID) ([]domain.Goal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	goals := []domain.Goal{}
	for _, g := range r.goals {
		if g.UserID == userID {
			goals = append(goals, g)
		}
	}
	sort.SliceStable(goals, func(i, j int) bool {
		return goals[i].CreatedAt.Before(goals[j].CreatedAt)
	})
	return goals, nil
}

func (r *GoalRepository) Update(_ context.Context, goal *domain.Goal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.goals[goal.ID]; !ok {
		return repository.ErrNotFound
	}
	goal.UpdatedAt = time.Now().UTC()
	r.goals[goal.ID] = *goal
	return nil
}

func (r *GoalRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.goals[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.goals, id)
	return nil
}
