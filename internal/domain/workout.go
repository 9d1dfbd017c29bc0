package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutType categorizes a logged workout session.
type WorkoutType string

const (
	WorkoutStrength    WorkoutType = "strength"
	WorkoutCardio      WorkoutType = "cardio"
	WorkoutHIIT        WorkoutType = "hiit"
	WorkoutFlexibility WorkoutType = "flexibility"
	WorkoutOther       WorkoutType = "other"
)

// Workout is a single logged session owned by exactly one user. Its exercise
// entries live in their own collection and are cascaded on delete.
type Workout struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID `bson:"userId" json:"userId"` // Owning user; every read/write is checked against this
	Name           string             `bson:"name" json:"name"`
	Date           time.Time          `bson:"date" json:"date"`
	Duration       *int               `bson:"duration,omitempty" json:"duration,omitempty"` // Minutes
	Type           WorkoutType        `bson:"type,omitempty" json:"type,omitempty"`
	Notes          string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CaloriesBurned *int               `bson:"caloriesBurned,omitempty" json:"caloriesBurned,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// WorkoutEntry records one exercise performed within a workout. It belongs to
// exactly one workout and references (never owns) a catalog exercise.
// Retrieval is always sorted by Order ascending; Order is a stable sort key,
// not required to be unique.
type WorkoutEntry struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WorkoutID  primitive.ObjectID `bson:"workoutId" json:"workoutId"`
	ExerciseID primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	Sets       *int               `bson:"sets,omitempty" json:"sets,omitempty"`
	Reps       *int               `bson:"reps,omitempty" json:"reps,omitempty"`
	Weight     *float64           `bson:"weight,omitempty" json:"weight,omitempty"`
	Duration   *int               `bson:"duration,omitempty" json:"duration,omitempty"` // Seconds
	Distance   *float64           `bson:"distance,omitempty" json:"distance,omitempty"`
	Notes      string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Order      int                `bson:"order" json:"order"`
}
