package planner

import (
	"bytes"
	_ "embed"
	"text/template"
)

const (
	nutritionistSystem = "You are a certified nutritionist. Return only valid JSON arrays without markdown formatting."
	trainerSystem      = "You are a certified fitness trainer. Return only valid JSON arrays without markdown formatting."
)

//go:embed nutritionist_prompt.md
var nutritionistPrompt string

//go:embed trainer_prompt.md
var trainerPrompt string

var (
	nutritionistTmpl = template.Must(template.New("Nutritionist").Parse(nutritionistPrompt))
	trainerTmpl      = template.Must(template.New("Trainer").Parse(trainerPrompt))
)

type promptData struct {
	GoalDescription string
}

func buildDietPrompt(goal Goal) (string, error) {
	return render(nutritionistTmpl, goal)
}

func buildWorkoutPrompt(goal Goal) (string, error) {
	return render(trainerTmpl, goal)
}

func render(tmpl *template.Template, goal Goal) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, promptData{GoalDescription: goal.Description()}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
