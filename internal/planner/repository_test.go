package planner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func TestRepository_ReplaceRollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	diet, err := ParseDietPlan(weeklyDietJSON(t), "member-1", GoalLoseWeight)
	require.NoError(t, err)
	workout, err := ParseWorkoutPlan(weeklyWorkoutJSON(t), "member-1", GoalLoseWeight)
	require.NoError(t, err)
	require.NoError(t, repo.Replace(ctx, "member-1", GoalLoseWeight, diet, workout))

	// day_of_week 9 violates the table check, so the whole replacement must fail.
	badWorkout := []WorkoutEntry{{DayOfWeek: 9, ExerciseName: "Jump", ExerciseTime: "06:00"}}
	newDiet := []DietEntry{{DayOfWeek: 1, MealName: "B", MealTime: "07:00", Description: "d"}}
	err = repo.Replace(ctx, "member-1", GoalGainWeight, newDiet, badWorkout)
	require.Error(t, err)

	gotDiet, err := repo.ListDietPlans(ctx, "member-1")
	require.NoError(t, err)
	assert.Len(t, gotDiet, 35)
	assert.Equal(t, GoalLoseWeight, gotDiet[0].Goal)

	gotWorkout, err := repo.ListWorkoutPlans(ctx, "member-1")
	require.NoError(t, err)
	assert.Len(t, gotWorkout, 35)
}

func TestRepository_NullableColumns(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	require.NoError(t, repo.InsertDietPlans(ctx, "member-1", GoalBuildMuscle, []DietEntry{
		{DayOfWeek: 2, MealName: "Lunch", MealTime: "13:00", Description: "Chicken", Calories: intPtr(650)},
		{DayOfWeek: 1, MealName: "Breakfast", MealTime: "07:00", Description: "Oats"},
	}))
	require.NoError(t, repo.InsertWorkoutPlans(ctx, "member-1", GoalBuildMuscle, []WorkoutEntry{
		{DayOfWeek: 1, ExerciseName: "Run", ExerciseTime: "06:30", DurationMinutes: intPtr(20)},
		{DayOfWeek: 1, ExerciseName: "Squat", ExerciseTime: "06:00", Sets: intPtr(4), Reps: intPtr(8), Description: "Deep"},
	}))

	diet, err := repo.ListDietPlans(ctx, "member-1")
	require.NoError(t, err)
	require.Len(t, diet, 2)
	assert.Equal(t, "Breakfast", diet[0].MealName)
	assert.Nil(t, diet[0].Calories)
	require.NotNil(t, diet[1].Calories)
	assert.Equal(t, 650, *diet[1].Calories)
	assert.False(t, diet[0].CreatedAt.IsZero())

	workout, err := repo.ListWorkoutPlans(ctx, "member-1")
	require.NoError(t, err)
	require.Len(t, workout, 2)
	assert.Equal(t, "Squat", workout[0].ExerciseName)
	assert.Equal(t, "Deep", workout[0].Description)
	assert.Nil(t, workout[1].Sets)
	assert.Empty(t, workout[1].Description)
	require.NotNil(t, workout[1].DurationMinutes)
	assert.Equal(t, 20, *workout[1].DurationMinutes)

	n, err := repo.DeleteDietPlans(ctx, "member-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	n, err = repo.DeleteWorkoutPlans(ctx, "member-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestRepository_Goals(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	_, err := repo.GetGoal(ctx, "member-1")
	require.ErrorIs(t, err, ErrGoalNotFound)

	require.NoError(t, repo.SetGoal(ctx, "member-1", GoalLoseWeight))
	require.NoError(t, repo.SetGoal(ctx, "member-1", GoalBuildMuscle))

	goal, err := repo.GetGoal(ctx, "member-1")
	require.NoError(t, err)
	assert.Equal(t, GoalBuildMuscle, goal.Goal)
	assert.Equal(t, "member-1", goal.OwnerID)
}
