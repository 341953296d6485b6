package planner

import (
	"fmt"
	"strings"
)

// Goal is a member's fitness goal.
type Goal string

const (
	GoalLoseWeight  Goal = "lose_weight"
	GoalGainWeight  Goal = "gain_weight"
	GoalBuildMuscle Goal = "build_muscle"
)

var goalDescriptions = map[Goal]string{
	GoalLoseWeight:  "weight loss with calorie deficit, high protein, and cardio-focused exercises",
	GoalGainWeight:  "muscle gain with calorie surplus, high protein, and strength training",
	GoalBuildMuscle: "muscle building with balanced macros and progressive overload training",
}

// Goals lists the supported goals in display order.
func Goals() []Goal {
	return []Goal{GoalLoseWeight, GoalGainWeight, GoalBuildMuscle}
}

// ParseGoal converts a raw goal literal into a Goal.
func ParseGoal(raw string) (Goal, error) {
	g := Goal(strings.TrimSpace(raw))
	if !g.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidGoal, raw)
	}
	return g, nil
}

// Valid reports whether g is one of the supported goals.
func (g Goal) Valid() bool {
	_, ok := goalDescriptions[g]
	return ok
}

// Description is the phrase used to steer the model prompts.
func (g Goal) Description() string {
	return goalDescriptions[g]
}

// Label is a short human readable name.
func (g Goal) Label() string {
	switch g {
	case GoalLoseWeight:
		return "Lose Weight"
	case GoalGainWeight:
		return "Gain Weight"
	case GoalBuildMuscle:
		return "Build Muscle"
	}
	return string(g)
}
