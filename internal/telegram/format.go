package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"fitness-planner/internal/metrics"
	"fitness-planner/internal/planner"
	"fitness-planner/internal/progress"
)

// Telegram rejects messages longer than 4096 characters.
const maxMessageLen = 4000

var dayNames = [...]string{"", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func esc(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

func goalKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, g := range planner.Goals() {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(goalEmoji(g)+" "+g.Label(), "goal|"+string(g)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func goalEmoji(g planner.Goal) string {
	switch g {
	case planner.GoalLoseWeight:
		return "🔥"
	case planner.GoalGainWeight:
		return "🍽"
	default:
		return "💪"
	}
}

// formatDietPlan renders one section per day.
func formatDietPlan(entries []planner.DietEntry) []string {
	byDay := make(map[int][]planner.DietEntry)
	for _, e := range entries {
		byDay[e.DayOfWeek] = append(byDay[e.DayOfWeek], e)
	}

	var sections []string
	for day := 1; day <= planner.DaysPerWeek; day++ {
		meals := byDay[day]
		if len(meals) == 0 {
			continue
		}
		var sb strings.Builder
		total := 0
		fmt.Fprintf(&sb, "*%s*\n", dayNames[day])
		for _, m := range meals {
			fmt.Fprintf(&sb, "`%s` %s", m.MealTime, esc(m.MealName))
			if m.Calories != nil {
				total += *m.Calories
				fmt.Fprintf(&sb, " (%d kcal)", *m.Calories)
			}
			fmt.Fprintf(&sb, "\n_%s_\n", esc(m.Description))
		}
		if total > 0 {
			fmt.Fprintf(&sb, "Total: %d kcal\n", total)
		}
		sections = append(sections, sb.String())
	}
	return sections
}

// formatWorkoutPlan renders one section per day.
func formatWorkoutPlan(entries []planner.WorkoutEntry) []string {
	byDay := make(map[int][]planner.WorkoutEntry)
	for _, e := range entries {
		byDay[e.DayOfWeek] = append(byDay[e.DayOfWeek], e)
	}

	var sections []string
	for day := 1; day <= planner.DaysPerWeek; day++ {
		exercises := byDay[day]
		if len(exercises) == 0 {
			continue
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "*%s*\n", dayNames[day])
		for _, x := range exercises {
			fmt.Fprintf(&sb, "`%s` %s", x.ExerciseTime, esc(x.ExerciseName))
			if v := volume(x); v != "" {
				fmt.Fprintf(&sb, " (%s)", v)
			}
			sb.WriteString("\n")
			if x.Description != "" {
				fmt.Fprintf(&sb, "_%s_\n", esc(x.Description))
			}
		}
		sections = append(sections, sb.String())
	}
	return sections
}

func volume(x planner.WorkoutEntry) string {
	switch {
	case x.Sets != nil && x.Reps != nil:
		return fmt.Sprintf("%d×%d", *x.Sets, *x.Reps)
	case x.DurationMinutes != nil:
		return fmt.Sprintf("%d min", *x.DurationMinutes)
	}
	return ""
}

// chunkMessages joins sections into as few messages as fit the size limit.
func chunkMessages(header string, sections []string, limit int) []string {
	var (
		out []string
		cur strings.Builder
	)
	cur.WriteString(header)
	for _, s := range sections {
		if cur.Len() > 0 && cur.Len()+len(s)+1 > limit {
			out = append(out, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteString("\n")
		}
		cur.WriteString(s)
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}

// formatToday renders today's plan with one toggle button per item.
func formatToday(day progress.Day) (string, tgbotapi.InlineKeyboardMarkup) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 *Today: %s*\n\n", dayNames[day.DayOfWeek])

	var rows [][]tgbotapi.InlineKeyboardButton
	fmt.Fprintf(&sb, "🥗 Meals: %d/%d done\n", day.DietCompleted, len(day.Diet))
	for _, d := range day.Diet {
		fmt.Fprintf(&sb, "%s `%s` %s\n", check(d.Completed), d.MealTime, esc(d.MealName))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(
			check(!d.Completed)+" "+d.MealTime+" "+d.MealName,
			toggleData(progress.ItemDiet, d.ID, !d.Completed),
		)))
	}
	fmt.Fprintf(&sb, "\n🏋️ Exercises: %d/%d done\n", day.WorkoutCompleted, len(day.Workout))
	for _, w := range day.Workout {
		fmt.Fprintf(&sb, "%s `%s` %s\n", check(w.Completed), w.ExerciseTime, esc(w.ExerciseName))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(
			check(!w.Completed)+" "+w.ExerciseTime+" "+w.ExerciseName,
			toggleData(progress.ItemWorkout, w.ID, !w.Completed),
		)))
	}
	if len(day.Diet) == 0 && len(day.Workout) == 0 {
		sb.WriteString("\n_No plan yet. Send /start to pick a goal._")
	}
	return sb.String(), tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func check(done bool) string {
	if done {
		return "✅"
	}
	return "⬜"
}

// Callback data is limited to 64 bytes; a UUID item id fits.
func toggleData(t progress.ItemType, id string, completed bool) string {
	flag := "0"
	if completed {
		flag = "1"
	}
	return fmt.Sprintf("done|%s|%s|%s", t, id, flag)
}

type callback struct {
	action    string
	goal      planner.Goal
	itemType  progress.ItemType
	itemID    string
	completed bool
}

func parseCallback(data string) (callback, error) {
	parts := strings.Split(data, "|")
	switch {
	case len(parts) == 2 && parts[0] == "goal":
		g, err := planner.ParseGoal(parts[1])
		if err != nil {
			return callback{}, err
		}
		return callback{action: "goal", goal: g}, nil
	case len(parts) == 4 && parts[0] == "done":
		return callback{
			action:    "done",
			itemType:  progress.ItemType(parts[1]),
			itemID:    parts[2],
			completed: parts[3] == "1",
		}, nil
	}
	return callback{}, fmt.Errorf("unknown callback %q", data)
}

func formatGenerationResult(goal planner.Goal, res planner.Result) string {
	return fmt.Sprintf("✅ *Your %s plan is ready!*\n\n🥗 %d meals and 🏋️ %d exercises for the week.\n\nUse /today, /diet or /workout to see them.",
		esc(goal.Label()), res.DietCount, res.WorkoutCount)
}

func formatGenerationError(err error) string {
	return fmt.Sprintf("❌ *Could not create your plan*\n%s\n\nPick a goal to try again.", esc(planner.Classify(err).Message))
}

func formatMetricsReport(usage []metrics.DailyUsage, health metrics.SysHealth) string {
	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent Model Activity*\n")
	if len(usage) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range usage {
		fmt.Fprintf(&sb, "• *%s*: %d tokens (%d calls)\n", d.Date, d.TotalPrompt+d.TotalCompletion, d.TotalExecution)
	}

	sb.WriteString("\n🧠 *System Health*\n")
	fmt.Fprintf(&sb, "• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB)
	fmt.Fprintf(&sb, "• Goroutines: %d\n", health.Goroutines)
	fmt.Fprintf(&sb, "• Database: %s\n", health.DatabaseSize)
	fmt.Fprintf(&sb, "• Uptime: %s\n", health.Uptime)
	return sb.String()
}
