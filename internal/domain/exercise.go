package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exercise is a catalog entry shared by all users. It is not owned by anyone:
// any authenticated user may manage the catalog, and workout entries reference
// exercises without affecting their lifecycle.
type Exercise struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	MuscleGroups string             `bson:"muscleGroups,omitempty" json:"muscleGroups,omitempty"` // Comma-delimited, e.g. "Chest, Triceps, Shoulders"
	Equipment    string             `bson:"equipment,omitempty" json:"equipment,omitempty"`
	ImageURL     string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	ImageKey     string             `bson:"imageKey,omitempty" json:"-"` // Object storage key when the image lives in S3
	Difficulty   string             `bson:"difficulty,omitempty" json:"difficulty,omitempty"` // e.g. "Beginner", "Intermediate", "Advanced"
	Instructions string             `bson:"instructions,omitempty" json:"instructions,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
