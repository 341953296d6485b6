package planner

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanResponse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", `[{"a":1}]`, `[{"a":1}]`},
		{"json fence", "```json\n[{\"a\":1}]\n```", `[{"a":1}]`},
		{"bare fence", "```\n[{\"a\":1}]\n```", `[{"a":1}]`},
		{"upper fence", "```JSON\n[{\"a\":1}]\n```", `[{"a":1}]`},
		{"surrounding prose kept", "Here is your plan:\n[{\"a\":1}]\nEnjoy!", "Here is your plan:\n[{\"a\":1}]\nEnjoy!"},
		{"fence inside string", "```json\n[{\"d\":\"use ```code``` here\"}]\n```", `[{"d":"use ` + "```code```" + ` here"}]`},
		{"whitespace", "  \n[1, 2]\n\t", `[1, 2]`},
		{"refusal", "I cannot help with that.", "I cannot help with that."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanResponse(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, CleanResponse(got), "cleaning must be idempotent")
		})
	}
}

func TestParseDietPlan_KeepsFenceInsideDescription(t *testing.T) {
	var meals []string
	for d := 1; d <= 7; d++ {
		meals = append(meals, fmt.Sprintf(`{"day_of_week": %d, "meal_name": "Oats", "meal_time": "07:00", "description": "mix with `+"```"+`whey`+"```"+`"}`, d))
	}
	content := "```json\n[" + strings.Join(meals, ",") + "]\n```"

	entries, err := ParseDietPlan(content, "owner-1", GoalLoseWeight)
	require.NoError(t, err)
	require.Len(t, entries, 7)
	assert.Equal(t, "mix with ```whey```", entries[0].Description)
}

func TestParseDietPlan_FencedAndPlainMatch(t *testing.T) {
	plain := weeklyDietJSON(t)

	fromPlain, err := ParseDietPlan(plain, "owner-1", GoalLoseWeight)
	require.NoError(t, err)
	fromFenced, err := ParseDietPlan("```json\n"+plain+"\n```", "owner-1", GoalLoseWeight)
	require.NoError(t, err)

	assert.Len(t, fromPlain, 35)
	assert.Equal(t, fromPlain, fromFenced)
}

func TestParseDietPlan_Normalises(t *testing.T) {
	content := `[
		{"day_of_week": 1, "meal_name": " Breakfast ", "meal_time": "7:00", "description": "Oats", "calories": 400.4},
		{"day_of_week": 2, "meal_name": "Lunch", "meal_time": "13:00:00", "description": "Rice", "calories": null},
		{"day_of_week": 3, "meal_name": "Lunch", "meal_time": "13:00", "description": "Rice"},
		{"day_of_week": 4, "meal_name": "Lunch", "meal_time": "13:00", "description": "Rice", "calories": 0},
		{"day_of_week": 5, "meal_name": "Lunch", "meal_time": "13:00", "description": "Rice", "calories": 500},
		{"day_of_week": 6, "meal_name": "Lunch", "meal_time": "13:00", "description": "Rice", "calories": 500},
		{"day_of_week": 7, "meal_name": "Lunch", "meal_time": "13:00", "description": "Rice", "calories": 500}
	]`

	entries, err := ParseDietPlan(content, "owner-1", GoalGainWeight)
	require.NoError(t, err)
	require.Len(t, entries, 7)

	assert.Equal(t, "Breakfast", entries[0].MealName)
	assert.Equal(t, "07:00", entries[0].MealTime)
	require.NotNil(t, entries[0].Calories)
	assert.Equal(t, 400, *entries[0].Calories)
	assert.Equal(t, "13:00", entries[1].MealTime)
	assert.Nil(t, entries[1].Calories)
	assert.Nil(t, entries[2].Calories)
	require.NotNil(t, entries[3].Calories)
	assert.Equal(t, 0, *entries[3].Calories)
	assert.Equal(t, GoalGainWeight, entries[0].Goal)
	assert.Equal(t, "owner-1", entries[0].OwnerID)
}

func TestParseDietPlan_Rejects(t *testing.T) {
	week := func(first string) string {
		return `[` + first + `,
			{"day_of_week": 2, "meal_name": "L", "meal_time": "12:00", "description": "d"},
			{"day_of_week": 3, "meal_name": "L", "meal_time": "12:00", "description": "d"},
			{"day_of_week": 4, "meal_name": "L", "meal_time": "12:00", "description": "d"},
			{"day_of_week": 5, "meal_name": "L", "meal_time": "12:00", "description": "d"},
			{"day_of_week": 6, "meal_name": "L", "meal_time": "12:00", "description": "d"},
			{"day_of_week": 7, "meal_name": "L", "meal_time": "12:00", "description": "d"}]`
	}

	tests := []struct {
		name    string
		content string
		errPart string
	}{
		{"refusal", "I cannot help with that.", "not a JSON array"},
		{"empty", "", "empty response"},
		{"empty array", "[]", "no entries"},
		{"object", `{"day_of_week": 1}`, "not a JSON array"},
		{"object wrapped", `{"plan": ` + week(`{"day_of_week": 1, "meal_name": "B", "meal_time": "07:00", "description": "d"}`) + `}`, "not a JSON array"},
		{"prose wrapped", "Sure! Here is your plan: " + week(`{"day_of_week": 1, "meal_name": "B", "meal_time": "07:00", "description": "d"}`) + " Enjoy!", "not a JSON array"},
		{"day zero", week(`{"day_of_week": 0, "meal_name": "B", "meal_time": "07:00", "description": "d"}`), "day_of_week"},
		{"day eight", week(`{"day_of_week": 8, "meal_name": "B", "meal_time": "07:00", "description": "d"}`), "day_of_week"},
		{"day as string", week(`{"day_of_week": "1", "meal_name": "B", "meal_time": "07:00", "description": "d"}`), "meal 0"},
		{"missing name", week(`{"day_of_week": 1, "meal_time": "07:00", "description": "d"}`), "meal_name"},
		{"bad time", week(`{"day_of_week": 1, "meal_name": "B", "meal_time": "25:00", "description": "d"}`), "meal_time"},
		{"text time", week(`{"day_of_week": 1, "meal_name": "B", "meal_time": "morning", "description": "d"}`), "meal_time"},
		{"missing description", week(`{"day_of_week": 1, "meal_name": "B", "meal_time": "07:00"}`), "description"},
		{"negative calories", week(`{"day_of_week": 1, "meal_name": "B", "meal_time": "07:00", "description": "d", "calories": -5}`), "calories"},
		{"huge calories", week(`{"day_of_week": 1, "meal_name": "B", "meal_time": "07:00", "description": "d", "calories": 1e20}`), "calories"},
		{"missing day", `[{"day_of_week": 1, "meal_name": "B", "meal_time": "07:00", "description": "d"}]`, "missing days [2 3 4 5 6 7]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDietPlan(tt.content, "owner-1", GoalLoseWeight)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}

func TestParseDietPlan_RepairsNearJSON(t *testing.T) {
	content := `[
		{"day_of_week": 1, "meal_name": "B", "meal_time": "07:00", "description": "d"},
		{"day_of_week": 2, "meal_name": "B", "meal_time": "07:00", "description": "d"},
		{"day_of_week": 3, "meal_name": "B", "meal_time": "07:00", "description": "d"},
		{"day_of_week": 4, "meal_name": "B", "meal_time": "07:00", "description": "d"},
		{"day_of_week": 5, "meal_name": "B", "meal_time": "07:00", "description": "d"},
		{"day_of_week": 6, "meal_name": "B", "meal_time": "07:00", "description": "d"},
		{"day_of_week": 7, "meal_name": "B", "meal_time": "07:00", "description": "d"},
	]`

	entries, err := ParseDietPlan(content, "owner-1", GoalLoseWeight)
	require.NoError(t, err)
	assert.Len(t, entries, 7)
}

func TestParseWorkoutPlan(t *testing.T) {
	entries, err := ParseWorkoutPlan(weeklyWorkoutJSON(t), "owner-1", GoalBuildMuscle)
	require.NoError(t, err)
	require.Len(t, entries, 35)

	first := entries[0]
	assert.Equal(t, 1, first.DayOfWeek)
	require.NotNil(t, first.Sets)
	require.NotNil(t, first.Reps)
	assert.Equal(t, 3, *first.Sets)
	assert.Equal(t, 12, *first.Reps)
	assert.Nil(t, first.DurationMinutes)

	rest := entries[15] // day 4
	assert.Equal(t, 4, rest.DayOfWeek)
	assert.Nil(t, rest.Sets)
	require.NotNil(t, rest.DurationMinutes)
	assert.Equal(t, 10, *rest.DurationMinutes)
}

func TestParseWorkoutPlan_Counts(t *testing.T) {
	build := func(first string) string {
		s := `[` + first
		for d := 2; d <= 7; d++ {
			s += `, {"day_of_week": ` + string(rune('0'+d)) + `, "exercise_name": "Walk", "exercise_time": "06:00"}`
		}
		return s + `]`
	}

	entries, err := ParseWorkoutPlan(build(`{"day_of_week": 1, "exercise_name": "Plank", "exercise_time": "06:00", "sets": 0, "reps": 0, "duration_minutes": 2}`), "o", GoalLoseWeight)
	require.NoError(t, err)
	assert.Nil(t, entries[0].Sets, "zero sets is treated as absent")
	assert.Nil(t, entries[0].Reps)
	assert.Empty(t, entries[1].Description)

	_, err = ParseWorkoutPlan(build(`{"day_of_week": 1, "exercise_name": "Plank", "exercise_time": "06:00", "sets": -1}`), "o", GoalLoseWeight)
	assert.ErrorContains(t, err, "sets")

	_, err = ParseWorkoutPlan(build(`{"day_of_week": 1, "exercise_name": "Plank", "exercise_time": "06:00", "reps": 2.5}`), "o", GoalLoseWeight)
	assert.ErrorContains(t, err, "reps")

	_, err = ParseWorkoutPlan(build(`{"day_of_week": 1, "exercise_name": "Plank", "exercise_time": "06:00", "sets": 1e20}`), "o", GoalLoseWeight)
	assert.ErrorContains(t, err, "sets")

	_, err = ParseWorkoutPlan(build(`{"day_of_week": 1, "exercise_time": "06:00"}`), "o", GoalLoseWeight)
	assert.ErrorContains(t, err, "exercise_name")
}

func TestGoal(t *testing.T) {
	for _, g := range Goals() {
		parsed, err := ParseGoal(string(g))
		require.NoError(t, err)
		assert.Equal(t, g, parsed)
		assert.NotEmpty(t, g.Description())
	}

	_, err := ParseGoal("get_rich")
	assert.ErrorIs(t, err, ErrInvalidGoal)
	assert.Equal(t, "weight loss with calorie deficit, high protein, and cardio-focused exercises", GoalLoseWeight.Description())
}

func TestPrompts(t *testing.T) {
	diet, err := buildDietPrompt(GoalGainWeight)
	require.NoError(t, err)
	assert.Contains(t, diet, "Generate a 7-day diet plan for muscle gain with calorie surplus")
	assert.Contains(t, diet, "exactly 5 meals")
	assert.Contains(t, diet, `"meal_time": "07:00"`)

	workout, err := buildWorkoutPrompt(GoalBuildMuscle)
	require.NoError(t, err)
	assert.Contains(t, workout, "progressive overload")
	assert.Contains(t, workout, "rest days (day 4 and 7)")
	assert.Contains(t, workout, `"duration_minutes": null`)
}
