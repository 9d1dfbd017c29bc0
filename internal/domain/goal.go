package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GoalType categorizes what a goal measures.
type GoalType string

const (
	GoalStrength GoalType = "strength"
	GoalCardio   GoalType = "cardio"
	GoalWeight   GoalType = "weight"
	GoalHabit    GoalType = "habit"
	GoalOther    GoalType = "other"
)

// Goal is a numeric target owned by exactly one user.
//
// Completed is derived but stored: every write path that changes CurrentValue
// or TargetValue must keep it in sync via RecomputeCompleted. ToggleCompletion
// on the service is the one deliberate exception (manual override).
type Goal struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	Name         string             `bson:"name" json:"name"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	Type         GoalType           `bson:"type,omitempty" json:"type,omitempty"`
	TargetValue  float64            `bson:"targetValue" json:"targetValue"`
	CurrentValue float64            `bson:"currentValue" json:"currentValue"`
	Unit         string             `bson:"unit,omitempty" json:"unit,omitempty"` // e.g. "kg", "minutes", "km"
	StartDate    time.Time          `bson:"startDate" json:"startDate"`
	EndDate      *time.Time         `bson:"endDate,omitempty" json:"endDate,omitempty"`
	Completed    bool               `bson:"completed" json:"completed"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// RecomputeCompleted re-derives the stored completion flag from the current
// and target values. A zero or unset target never auto-completes.
func (g *Goal) RecomputeCompleted() {
	g.Completed = g.TargetValue > 0 && g.CurrentValue >= g.TargetValue
}

// Progress returns completion as a percentage of the target, or 0 when the
// target is zero/unset. Computed at read time, never persisted.
func (g *Goal) Progress() float64 {
	if g.TargetValue == 0 {
		return 0
	}
	return g.CurrentValue / g.TargetValue * 100
}
