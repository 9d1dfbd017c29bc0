package mongo

import (
	"context"
	"errors"
	"time"

	"fittrack/fitness-tracker/internal/domain"
	"fittrack/fitness-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	workoutCollectionName = "workouts"
	entryCollectionName   = "workout_entries"
)

// mongoWorkoutRepository implements repository.WorkoutRepository over the
// workouts and workout_entries collections.
type mongoWorkoutRepository struct {
	db       *mongo.Database
	workouts *mongo.Collection
	entries  *mongo.Collection
}

// NewMongoWorkoutRepository creates a new workout repository.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		db:       db,
		workouts: db.Collection(workoutCollectionName),
		entries:  db.Collection(entryCollectionName),
	}
}

// CreateWithEntries inserts a workout and its initial entries in a single
// transaction. The parent needs its id assigned before the children can
// reference it, so the id is generated up front; if any entry insert fails the
// whole write rolls back and no workout row remains.
func (r *mongoWorkoutRepository) CreateWithEntries(ctx context.Context, workout *domain.Workout, entries []*domain.WorkoutEntry) (primitive.ObjectID, error) {
	if workout.UserID == primitive.NilObjectID || workout.Name == "" {
		return primitive.NilObjectID, errors.New("workout requires userId and name")
	}

	workout.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	workout.CreatedAt = now
	workout.UpdatedAt = now
	if workout.Date.IsZero() {
		workout.Date = now
	}

	err := withTransaction(ctx, r.db, func(sessCtx mongo.SessionContext) error {
		if _, err := r.workouts.InsertOne(sessCtx, workout); err != nil {
			return err
		}
		for _, entry := range entries {
			entry.ID = primitive.NewObjectID()
			entry.WorkoutID = workout.ID
			if _, err := r.entries.InsertOne(sessCtx, entry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return primitive.NilObjectID, err
	}
	return workout.ID, nil
}

// GetByID retrieves a single workout by its ID.
func (r *mongoWorkoutRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	var workout domain.Workout
	err := r.workouts.FindOne(ctx, bson.M{"_id": id}).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

// GetByUserID retrieves all workouts of a user, most recent date first.
func (r *mongoWorkoutRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Workout, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})

	cursor, err := r.workouts.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	workouts := []domain.Workout{}
	if err = cursor.All(ctx, &workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

// Update replaces the mutable fields of a workout. Entries are untouched.
func (r *mongoWorkoutRepository) Update(ctx context.Context, workout *domain.Workout) error {
	workout.UpdatedAt = time.Now().UTC()

	update := bson.M{"$set": bson.M{
		"name":           workout.Name,
		"date":           workout.Date,
		"duration":       workout.Duration,
		"type":           workout.Type,
		"notes":          workout.Notes,
		"caloriesBurned": workout.CaloriesBurned,
		"updatedAt":      workout.UpdatedAt,
	}}

	result, err := r.workouts.UpdateOne(ctx, bson.M{"_id": workout.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a workout and all its entries atomically.
func (r *mongoWorkoutRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return withTransaction(ctx, r.db, func(sessCtx mongo.SessionContext) error {
		if _, err := r.entries.DeleteMany(sessCtx, bson.M{"workoutId": id}); err != nil {
			return err
		}
		result, err := r.workouts.DeleteOne(sessCtx, bson.M{"_id": id})
		if err != nil {
			return err
		}
		if result.DeletedCount == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}

// CreateEntry inserts a single entry into an existing workout.
func (r *mongoWorkoutRepository) CreateEntry(ctx context.Context, entry *domain.WorkoutEntry) (primitive.ObjectID, error) {
	if entry.WorkoutID == primitive.NilObjectID || entry.ExerciseID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("entry requires workoutId and exerciseId")
	}

	entry.ID = primitive.NewObjectID()
	_, err := r.entries.InsertOne(ctx, entry)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return entry.ID, nil
}

// GetEntryByID retrieves a single workout entry.
func (r *mongoWorkoutRepository) GetEntryByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutEntry, error) {
	var entry domain.WorkoutEntry
	err := r.entries.FindOne(ctx, bson.M{"_id": id}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// GetEntriesByWorkoutID retrieves a workout's entries sorted by order ascending.
func (r *mongoWorkoutRepository) GetEntriesByWorkoutID(ctx context.Context, workoutID primitive.ObjectID) ([]domain.WorkoutEntry, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})

	cursor, err := r.entries.Find(ctx, bson.M{"workoutId": workoutID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := []domain.WorkoutEntry{}
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// UpdateEntry replaces the mutable fields of an entry.
func (r *mongoWorkoutRepository) UpdateEntry(ctx context.Context, entry *domain.WorkoutEntry) error {
	update := bson.M{"$set": bson.M{
		"sets":     entry.Sets,
		"reps":     entry.Reps,
		"weight":   entry.Weight,
		"duration": entry.Duration,
		"distance": entry.Distance,
		"notes":    entry.Notes,
		"order":    entry.Order,
	}}

	result, err := r.entries.UpdateOne(ctx, bson.M{"_id": entry.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteEntry removes a single entry.
func (r *mongoWorkoutRepository) DeleteEntry(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.entries.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureWorkoutIndexes creates necessary indexes for the workouts collection.
func EnsureWorkoutIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}

// EnsureEntryIndexes creates necessary indexes for the workout_entries collection.
func EnsureEntryIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "workoutId", Value: 1}, {Key: "order", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
