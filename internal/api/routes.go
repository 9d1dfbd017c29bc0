package api

import (
	"net/http"

	"fittrack/fitness-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires all HTTP endpoints onto the router. Reading the exercise
// catalog is public; everything else requires a bearer token.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	exerciseService service.ExerciseService,
	workoutService service.WorkoutService,
	goalService service.GoalService,
) {

	authHandler := NewAuthHandler(authService)
	exerciseHandler := NewExerciseHandler(exerciseService)
	workoutHandler := NewWorkoutHandler(workoutService)
	goalHandler := NewGoalHandler(goalService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		// Catalog reads are public.
		api.GET("/exercises", exerciseHandler.ListExercises)
		api.GET("/exercises/:id", exerciseHandler.GetExercise)
	}

	protected := api.Group("")
	protected.Use(authMiddleware)
	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/auth/user", authHandler.CurrentUser)
		protected.DELETE("/auth/user", authHandler.DeleteAccount)

		// --- Exercise Catalog (writes) ---
		protected.POST("/exercises", exerciseHandler.CreateExercise)
		protected.PUT("/exercises/:id", exerciseHandler.UpdateExercise)
		protected.PATCH("/exercises/:id", exerciseHandler.UpdateExercise)
		protected.DELETE("/exercises/:id", exerciseHandler.DeleteExercise)
		protected.POST("/exercises/:id/image", exerciseHandler.RequestImageUpload)
		protected.GET("/exercises/:id/image", exerciseHandler.GetImage)

		// --- Workout Ledger ---
		workoutGroup := protected.Group("/workouts")
		{
			workoutGroup.GET("", workoutHandler.ListWorkouts)
			workoutGroup.POST("", workoutHandler.CreateWorkout)
			workoutGroup.GET("/:id", workoutHandler.GetWorkout)
			workoutGroup.PUT("/:id", workoutHandler.UpdateWorkout)
			workoutGroup.PATCH("/:id", workoutHandler.UpdateWorkout)
			workoutGroup.DELETE("/:id", workoutHandler.DeleteWorkout)
			workoutGroup.GET("/:id/exercises", workoutHandler.ListEntries)
		}

		// Entries addressed by their own id; ownership resolves through the
		// parent workout.
		protected.POST("/workout-exercises", workoutHandler.CreateEntry)
		protected.PUT("/workout-exercises/:id", workoutHandler.UpdateEntry)
		protected.PATCH("/workout-exercises/:id", workoutHandler.UpdateEntry)
		protected.DELETE("/workout-exercises/:id", workoutHandler.DeleteEntry)

		// Per-user aliases of the list endpoints; the path id must be the
		// principal's own.
		protected.GET("/users/:id/workouts", workoutHandler.ListWorkoutsForUser)
		protected.GET("/users/:id/goals", goalHandler.ListGoalsForUser)

		// --- Goals ---
		goalGroup := protected.Group("/goals")
		{
			goalGroup.GET("", goalHandler.ListGoals)
			goalGroup.POST("", goalHandler.CreateGoal)
			goalGroup.GET("/:id", goalHandler.GetGoal)
			goalGroup.PUT("/:id", goalHandler.UpdateGoal)
			goalGroup.PATCH("/:id", goalHandler.UpdateGoal)
			goalGroup.DELETE("/:id", goalHandler.DeleteGoal)
			goalGroup.POST("/:id/toggle", goalHandler.ToggleCompletion)
		}
	}
}
