package app

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"fitness-planner/internal/planner"
)

// GeneratePlans runs the onboarding flow for ownerID and prints a summary.
func (a *App) GeneratePlans(ctx context.Context, goal planner.Goal, ownerID string, w io.Writer) error {
	fmt.Fprintf(w, "Generating %s plans for %s...\n", goal.Label(), ownerID)

	res, err := a.Planner.SelectGoal(ctx, goal, ownerID)
	if err != nil {
		return fmt.Errorf("failed to generate plans: %w", err)
	}

	fmt.Fprintf(w, "Saved %d meals and %d exercises.\n", res.DietCount, res.WorkoutCount)
	for _, meta := range res.Metas {
		fmt.Fprintf(w, "  %s\n", meta)
	}
	return nil
}

// ShowPlans prints the stored diet and workout plans of ownerID.
func (a *App) ShowPlans(ctx context.Context, ownerID string, w io.Writer) error {
	diet, err := a.Plans.ListDietPlans(ctx, ownerID)
	if err != nil {
		return err
	}
	workout, err := a.Plans.ListWorkoutPlans(ctx, ownerID)
	if err != nil {
		return err
	}
	if len(diet) == 0 && len(workout) == 0 {
		fmt.Fprintf(w, "No plans for %s yet.\n", ownerID)
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DAY\tTIME\tMEAL\tKCAL\tDESCRIPTION")
	for _, d := range diet {
		kcal := "-"
		if d.Calories != nil {
			kcal = fmt.Sprint(*d.Calories)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", d.DayOfWeek, d.MealTime, d.MealName, kcal, d.Description)
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "DAY\tTIME\tEXERCISE\tVOLUME\tDESCRIPTION")
	for _, x := range workout {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", x.DayOfWeek, x.ExerciseTime, x.ExerciseName, Volume(x), x.Description)
	}
	return tw.Flush()
}

// Volume renders sets/reps or duration of an exercise.
func Volume(x planner.WorkoutEntry) string {
	switch {
	case x.Sets != nil && x.Reps != nil:
		return fmt.Sprintf("%dx%d", *x.Sets, *x.Reps)
	case x.DurationMinutes != nil:
		return fmt.Sprintf("%d min", *x.DurationMinutes)
	case x.Sets != nil:
		return fmt.Sprintf("%d sets", *x.Sets)
	case x.Reps != nil:
		return fmt.Sprintf("%d reps", *x.Reps)
	}
	return "-"
}

// PrintUsage prints model token usage for the last days.
func (a *App) PrintUsage(ctx context.Context, days int, w io.Writer) error {
	usage, err := a.Metrics.GetDailyUsage(ctx, days)
	if err != nil {
		return err
	}
	if len(usage) == 0 {
		fmt.Fprintf(w, "No model usage in the last %d days.\n", days)
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tCALLS\tPROMPT\tCOMPLETION")
	for _, u := range usage {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", u.Date, u.TotalExecution, u.TotalPrompt, u.TotalCompletion)
	}
	return tw.Flush()
}

// CleanupMetrics removes usage records older than days.
func (a *App) CleanupMetrics(ctx context.Context, days int, w io.Writer) error {
	affected, err := a.Metrics.Cleanup(ctx, days)
	if err != nil {
		return fmt.Errorf("cleanup failed: %w", err)
	}
	fmt.Fprintf(w, "Successfully removed %d old metric records.\n", affected)
	return nil
}
