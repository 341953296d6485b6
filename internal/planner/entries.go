package planner

import (
	"time"

	"fitness-planner/internal/shared"
)

// DaysPerWeek is the number of days every generated plan must cover.
const DaysPerWeek = 7

// DietEntry is a single meal of a generated weekly diet plan.
type DietEntry struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"user_id"`
	Goal        Goal      `json:"goal"`
	DayOfWeek   int       `json:"day_of_week"`
	MealName    string    `json:"meal_name"`
	MealTime    string    `json:"meal_time"`
	Description string    `json:"description"`
	Calories    *int      `json:"calories"`
	CreatedAt   time.Time `json:"created_at"`
}

// WorkoutEntry is a single exercise of a generated weekly workout plan.
type WorkoutEntry struct {
	ID              string    `json:"id"`
	OwnerID         string    `json:"user_id"`
	Goal            Goal      `json:"goal"`
	DayOfWeek       int       `json:"day_of_week"`
	ExerciseName    string    `json:"exercise_name"`
	ExerciseTime    string    `json:"exercise_time"`
	Sets            *int      `json:"sets"`
	Reps            *int      `json:"reps"`
	DurationMinutes *int      `json:"duration_minutes"`
	Description     string    `json:"description,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Result summarises a successful generation.
type Result struct {
	Goal         Goal
	DietCount    int
	WorkoutCount int
	// Metas holds usage for every model call that returned, including on failure.
	Metas []shared.AgentMeta
}
