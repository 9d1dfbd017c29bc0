// Package seed bootstraps the exercise catalog with a fixed reference set.
// It runs once during process initialization and is a no-op once the catalog
// has any rows, so repeated startups never duplicate data.
package seed

import (
	"context"
	"fmt"

	"fittrack/fitness-tracker/internal/domain"
	"fittrack/fitness-tracker/internal/repository"
)

// Exercises returns the reference catalog inserted on first startup.
func Exercises() []domain.Exercise {
	return []domain.Exercise{
		{
			Name:         "Bench Press",
			Description:  "A compound exercise that primarily targets the chest muscles.",
			MuscleGroups: "Chest, Triceps, Shoulders",
			Equipment:    "Barbell, Bench",
			ImageURL:     "https://images.unsplash.com/photo-1571019613454-1cb2f99b2d8b?w=600&auto=format&fit=crop&q=80",
			Difficulty:   "Intermediate",
			Instructions: "Lie on a bench, grip the bar, lower it to your chest, then press up.",
		},
		{
			Name:         "Deadlift",
			Description:  "A compound exercise that works multiple muscle groups including the back, legs, and core.",
			MuscleGroups: "Back, Legs, Core",
			Equipment:    "Barbell",
			ImageURL:     "https://images.unsplash.com/photo-1598575285675-d0d3d0358e55?w=600&auto=format&fit=crop&q=80",
			Difficulty:   "Advanced",
			Instructions: "Stand with feet shoulder-width apart, bend at hips and knees, grip the bar, then stand up.",
		},
		{
			Name:         "Squat",
			Description:  "A fundamental compound exercise that targets the legs and glutes.",
			MuscleGroups: "Quadriceps, Hamstrings, Glutes",
			Equipment:    "Barbell, Squat Rack",
			ImageURL:     "https://images.unsplash.com/photo-1574680096145-d58b7ac5f611?w=600&auto=format&fit=crop&q=80",
			Difficulty:   "Intermediate",
			Instructions: "Position bar on shoulders, feet shoulder-width apart, bend knees and hips, lower until thighs are parallel to ground, then stand up.",
		},
		{
			Name:         "Pull-up",
			Description:  "An upper body exercise that targets the back and biceps.",
			MuscleGroups: "Back, Biceps",
			Equipment:    "Pull-up Bar",
			ImageURL:     "https://images.unsplash.com/photo-1598971639058-efc302d5704b?w=600&auto=format&fit=crop&q=80",
			Difficulty:   "Intermediate",
			Instructions: "Grip the bar with hands shoulder-width apart, pull yourself up until chin is over the bar, then lower.",
		},
		{
			Name:         "Overhead Press",
			Description:  "A shoulder exercise that also engages the triceps and upper chest.",
			MuscleGroups: "Shoulders, Triceps",
			Equipment:    "Barbell, Dumbbells",
			ImageURL:     "https://images.unsplash.com/photo-1541534741688-6078c6bfb5c5?w=600&auto=format&fit=crop&q=80",
			Difficulty:   "Intermediate",
			Instructions: "Stand with feet shoulder-width apart, hold weight at shoulder level, press overhead, then lower.",
		},
		{
			Name:         "Dumbbell Row",
			Description:  "A back exercise that also works the biceps and shoulders.",
			MuscleGroups: "Back, Biceps",
			Equipment:    "Dumbbells, Bench",
			ImageURL:     "https://images.unsplash.com/photo-1603287681836-b174ce5074c2?w=600&auto=format&fit=crop&q=80",
			Difficulty:   "Beginner",
			Instructions: "Place one knee and hand on bench, other foot on floor, pull dumbbell up to side, then lower.",
		},
		{
			Name:         "Lunges",
			Description:  "A leg exercise that targets the quadriceps, hamstrings, and glutes.",
			MuscleGroups: "Quadriceps, Hamstrings, Glutes",
			Equipment:    "None, Dumbbells (optional)",
			ImageURL:     "https://images.unsplash.com/photo-1434682881908-b43d0467b798?w=600&auto=format&fit=crop&q=80",
			Difficulty:   "Beginner",
			Instructions: "Stand with feet together, step forward with one leg, lower until both knees are bent at 90 degrees, then push back up.",
		},
		{
			Name:         "Plank",
			Description:  "A core exercise that also engages the shoulders and back.",
			MuscleGroups: "Core, Shoulders",
			Equipment:    "None",
			ImageURL:     "https://images.unsplash.com/photo-1566241134883-13eb2393a3cc?w=600&auto=format&fit=crop&q=80",
			Difficulty:   "Beginner",
			Instructions: "Position forearms on ground, elbows under shoulders, feet hip-width apart, hold body in straight line.",
		},
	}
}

// Run inserts the reference exercises when the catalog is empty. The
// check-then-insert guard makes repeated startups idempotent; it is not
// strictly race-free across concurrently starting instances, which is
// acceptable for a one-time bootstrap.
func Run(ctx context.Context, exerciseRepo repository.ExerciseRepository) (int, error) {
	count, err := exerciseRepo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count exercises: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	inserted := 0
	for _, exercise := range Exercises() {
		exercise := exercise
		if _, err := exerciseRepo.Create(ctx, &exercise); err != nil {
			return inserted, fmt.Errorf("seed exercise %q: %w", exercise.Name, err)
		}
		inserted++
	}
	return inserted, nil
}
