package planner

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/kaptinlin/jsonrepair"
)

// CleanResponse trims whitespace and a single surrounding markdown code fence
// from a model response. Text inside the fence is left untouched. It is
// idempotent.
func CleanResponse(content string) string {
	cleaned := strings.TrimSpace(content)
	if rest, ok := strings.CutPrefix(cleaned, "```"); ok {
		if len(rest) >= 4 && strings.EqualFold(rest[:4], "json") {
			rest = rest[4:]
		}
		cleaned = strings.TrimSuffix(strings.TrimSpace(rest), "```")
	}
	return strings.TrimSpace(cleaned)
}

// decodeArray parses a cleaned response as a JSON array. Responses that look
// like an array but carry small syntax slips (trailing commas, single quotes)
// get one pass through jsonrepair.
func decodeArray(content string) ([]json.RawMessage, error) {
	cleaned := CleanResponse(content)
	if cleaned == "" {
		return nil, errors.New("empty response")
	}

	if !strings.HasPrefix(cleaned, "[") {
		return nil, errors.New("response is not a JSON array")
	}

	var items []json.RawMessage
	err := json.Unmarshal([]byte(cleaned), &items)
	if err == nil {
		return items, nil
	}

	repaired, rerr := jsonrepair.JSONRepair(cleaned)
	if rerr != nil {
		return nil, fmt.Errorf("failed to parse JSON array: %w", err)
	}
	if err := json.Unmarshal([]byte(repaired), &items); err != nil {
		return nil, fmt.Errorf("failed to parse repaired JSON array: %w", err)
	}
	return items, nil
}

type rawMeal struct {
	DayOfWeek   *float64 `json:"day_of_week"`
	MealName    *string  `json:"meal_name"`
	MealTime    *string  `json:"meal_time"`
	Description *string  `json:"description"`
	Calories    *float64 `json:"calories"`
}

type rawExercise struct {
	DayOfWeek       *float64 `json:"day_of_week"`
	ExerciseName    *string  `json:"exercise_name"`
	ExerciseTime    *string  `json:"exercise_time"`
	Sets            *float64 `json:"sets"`
	Reps            *float64 `json:"reps"`
	DurationMinutes *float64 `json:"duration_minutes"`
	Description     *string  `json:"description"`
}

// ParseDietPlan validates a nutritionist response and converts it into
// entries for the given owner and goal.
func ParseDietPlan(content, ownerID string, goal Goal) ([]DietEntry, error) {
	items, err := decodeArray(content)
	if err != nil {
		return nil, err
	}

	entries := make([]DietEntry, 0, len(items))
	for i, item := range items {
		var m rawMeal
		if err := json.Unmarshal(item, &m); err != nil {
			return nil, fmt.Errorf("meal %d: %w", i, err)
		}
		day, err := parseDay(m.DayOfWeek)
		if err != nil {
			return nil, fmt.Errorf("meal %d: %w", i, err)
		}
		name, err := requiredText("meal_name", m.MealName)
		if err != nil {
			return nil, fmt.Errorf("meal %d: %w", i, err)
		}
		at, err := parseClock("meal_time", m.MealTime)
		if err != nil {
			return nil, fmt.Errorf("meal %d: %w", i, err)
		}
		desc, err := requiredText("description", m.Description)
		if err != nil {
			return nil, fmt.Errorf("meal %d: %w", i, err)
		}
		calories, err := parseCalories(m.Calories)
		if err != nil {
			return nil, fmt.Errorf("meal %d: %w", i, err)
		}

		entries = append(entries, DietEntry{
			OwnerID:     ownerID,
			Goal:        goal,
			DayOfWeek:   day,
			MealName:    name,
			MealTime:    at,
			Description: desc,
			Calories:    calories,
		})
	}

	if err := checkCoverage(len(entries), func(i int) int { return entries[i].DayOfWeek }); err != nil {
		return nil, err
	}
	return entries, nil
}

// ParseWorkoutPlan validates a trainer response and converts it into entries
// for the given owner and goal.
func ParseWorkoutPlan(content, ownerID string, goal Goal) ([]WorkoutEntry, error) {
	items, err := decodeArray(content)
	if err != nil {
		return nil, err
	}

	entries := make([]WorkoutEntry, 0, len(items))
	for i, item := range items {
		var x rawExercise
		if err := json.Unmarshal(item, &x); err != nil {
			return nil, fmt.Errorf("exercise %d: %w", i, err)
		}
		day, err := parseDay(x.DayOfWeek)
		if err != nil {
			return nil, fmt.Errorf("exercise %d: %w", i, err)
		}
		name, err := requiredText("exercise_name", x.ExerciseName)
		if err != nil {
			return nil, fmt.Errorf("exercise %d: %w", i, err)
		}
		at, err := parseClock("exercise_time", x.ExerciseTime)
		if err != nil {
			return nil, fmt.Errorf("exercise %d: %w", i, err)
		}
		sets, err := optionalCount("sets", x.Sets)
		if err != nil {
			return nil, fmt.Errorf("exercise %d: %w", i, err)
		}
		reps, err := optionalCount("reps", x.Reps)
		if err != nil {
			return nil, fmt.Errorf("exercise %d: %w", i, err)
		}
		duration, err := optionalCount("duration_minutes", x.DurationMinutes)
		if err != nil {
			return nil, fmt.Errorf("exercise %d: %w", i, err)
		}

		var desc string
		if x.Description != nil {
			desc = strings.TrimSpace(*x.Description)
		}

		entries = append(entries, WorkoutEntry{
			OwnerID:         ownerID,
			Goal:            goal,
			DayOfWeek:       day,
			ExerciseName:    name,
			ExerciseTime:    at,
			Sets:            sets,
			Reps:            reps,
			DurationMinutes: duration,
			Description:     desc,
		})
	}

	if err := checkCoverage(len(entries), func(i int) int { return entries[i].DayOfWeek }); err != nil {
		return nil, err
	}
	return entries, nil
}

func parseDay(v *float64) (int, error) {
	if v == nil {
		return 0, errors.New("day_of_week is required")
	}
	if *v != math.Trunc(*v) || *v < 1 || *v > DaysPerWeek {
		return 0, fmt.Errorf("day_of_week %v out of range 1-%d", *v, DaysPerWeek)
	}
	return int(*v), nil
}

func requiredText(field string, v *string) (string, error) {
	if v == nil || strings.TrimSpace(*v) == "" {
		return "", fmt.Errorf("%s is required", field)
	}
	return strings.TrimSpace(*v), nil
}

// parseClock accepts "H:MM", "HH:MM" and "HH:MM:SS" and normalises to "HH:MM".
func parseClock(field string, v *string) (string, error) {
	if v == nil {
		return "", fmt.Errorf("%s is required", field)
	}
	raw := strings.TrimSpace(*v)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("15:04"), nil
		}
	}
	return "", fmt.Errorf("%s %q is not a 24-hour HH:MM time", field, raw)
}

// Upper bounds for numeric fields; anything larger is a model slip.
const (
	maxCalories = 20000
	maxCount    = 1000
)

func parseCalories(v *float64) (*int, error) {
	if v == nil {
		return nil, nil
	}
	if *v < 0 || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil, fmt.Errorf("calories %v must be non-negative", *v)
	}
	if *v > maxCalories {
		return nil, fmt.Errorf("calories %v exceeds %d", *v, maxCalories)
	}
	n := int(math.Round(*v))
	return &n, nil
}

// optionalCount treats null and zero as absent.
func optionalCount(field string, v *float64) (*int, error) {
	if v == nil || *v == 0 {
		return nil, nil
	}
	if *v < 0 || *v != math.Trunc(*v) {
		return nil, fmt.Errorf("%s %v must be a positive integer", field, *v)
	}
	if *v > maxCount {
		return nil, fmt.Errorf("%s %v exceeds %d", field, *v, maxCount)
	}
	n := int(*v)
	return &n, nil
}

func checkCoverage(n int, dayAt func(int) int) error {
	if n == 0 {
		return errors.New("plan has no entries")
	}
	var seen [DaysPerWeek + 1]bool
	for i := 0; i < n; i++ {
		seen[dayAt(i)] = true
	}
	var missing []int
	for d := 1; d <= DaysPerWeek; d++ {
		if !seen[d] {
			missing = append(missing, d)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("plan is missing days %v", missing)
	}
	return nil
}
