package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"fitness-planner/internal/logging"
	"fitness-planner/internal/planner"
	"fitness-planner/internal/progress/progress_db"
)

// DateLayout is the storage format of progress dates.
const DateLayout = "2006-01-02"

// ItemType distinguishes diet and workout entries.
type ItemType string

const (
	ItemDiet    ItemType = "diet"
	ItemWorkout ItemType = "workout"
)

var (
	ErrInvalidItemType = errors.New("item type must be diet or workout")
	ErrItemNotFound    = errors.New("plan item not found")
)

// Entry is the completion state of one plan item on one date.
type Entry struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"user_id"`
	Date      string    `json:"date"`
	ItemType  ItemType  `json:"item_type"`
	ItemID    string    `json:"item_id"`
	Completed bool      `json:"completed"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Repository is a database-backed store for daily progress.
type Repository struct {
	queries *progress_db.Queries
	db      *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{
		queries: progress_db.New(d),
		db:      d,
	}
}

// Upsert stores the completion state keyed by owner, date and item.
func (r *Repository) Upsert(ctx context.Context, e Entry) error {
	now := time.Now().UTC()
	err := r.queries.UpsertProgress(ctx, progress_db.UpsertProgressParams{
		ID:        uuid.NewString(),
		UserID:    e.OwnerID,
		Date:      e.Date,
		ItemType:  string(e.ItemType),
		ItemID:    e.ItemID,
		Completed: e.Completed,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return fmt.Errorf("failed to save progress for user %s: %w", e.OwnerID, err)
	}
	return nil
}

// ListForDate returns every progress entry of ownerID on date.
func (r *Repository) ListForDate(ctx context.Context, ownerID, date string) ([]Entry, error) {
	rows, err := r.queries.ListProgressByUserAndDate(ctx, progress_db.ListProgressByUserAndDateParams{
		UserID: ownerID,
		Date:   date,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list progress for user %s: %w", ownerID, err)
	}
	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, Entry{
			ID:        row.ID,
			OwnerID:   row.UserID,
			Date:      row.Date,
			ItemType:  ItemType(row.ItemType),
			ItemID:    row.ItemID,
			Completed: row.Completed,
			UpdatedAt: row.UpdatedAt,
		})
	}
	return entries, nil
}

// PlanReader lists an owner's generated plans.
type PlanReader interface {
	ListDietPlans(ctx context.Context, ownerID string) ([]planner.DietEntry, error)
	ListWorkoutPlans(ctx context.Context, ownerID string) ([]planner.WorkoutEntry, error)
}

// DietItem is a meal scheduled for a day with its completion state.
type DietItem struct {
	planner.DietEntry
	Completed bool `json:"completed"`
}

// WorkoutItem is an exercise scheduled for a day with its completion state.
type WorkoutItem struct {
	planner.WorkoutEntry
	Completed bool `json:"completed"`
}

// Day is the plan of a single date together with its progress.
type Day struct {
	Date             string        `json:"date"`
	DayOfWeek        int           `json:"day_of_week"`
	Diet             []DietItem    `json:"diet"`
	Workout          []WorkoutItem `json:"workout"`
	DietCompleted    int           `json:"diet_completed"`
	WorkoutCompleted int           `json:"workout_completed"`
}

// Tracker combines generated plans with daily progress.
type Tracker struct {
	plans  PlanReader
	repo   *Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewTracker creates a new Tracker.
func NewTracker(plans PlanReader, repo *Repository, logger *slog.Logger) *Tracker {
	return &Tracker{
		plans:  plans,
		repo:   repo,
		logger: logging.OrDiscard(logger),
		now:    time.Now,
	}
}

// DayOfWeek maps t to 1 (Monday) through 7 (Sunday).
func DayOfWeek(t time.Time) int {
	if wd := int(t.Weekday()); wd != 0 {
		return wd
	}
	return 7
}

// Toggle records whether ownerID completed an item of their plan on date.
func (tr *Tracker) Toggle(ctx context.Context, ownerID string, date time.Time, itemType ItemType, itemID string, completed bool) (Entry, error) {
	if err := tr.ensureOwned(ctx, ownerID, itemType, itemID); err != nil {
		return Entry{}, err
	}
	e := Entry{
		OwnerID:   ownerID,
		Date:      date.Format(DateLayout),
		ItemType:  itemType,
		ItemID:    itemID,
		Completed: completed,
	}
	if err := tr.repo.Upsert(ctx, e); err != nil {
		return Entry{}, err
	}
	tr.logger.Debug("progress updated", "owner", ownerID, "item", itemID, "completed", completed)
	return e, nil
}

// Today returns the plan items of the current weekday with their progress.
func (tr *Tracker) Today(ctx context.Context, ownerID string) (Day, error) {
	return tr.ForDate(ctx, ownerID, tr.now())
}

// ForDate returns the plan items scheduled on date's weekday with progress.
func (tr *Tracker) ForDate(ctx context.Context, ownerID string, date time.Time) (Day, error) {
	day := Day{
		Date:      date.Format(DateLayout),
		DayOfWeek: DayOfWeek(date),
		Diet:      []DietItem{},
		Workout:   []WorkoutItem{},
	}

	diet, err := tr.plans.ListDietPlans(ctx, ownerID)
	if err != nil {
		return Day{}, err
	}
	workout, err := tr.plans.ListWorkoutPlans(ctx, ownerID)
	if err != nil {
		return Day{}, err
	}
	entries, err := tr.repo.ListForDate(ctx, ownerID, day.Date)
	if err != nil {
		return Day{}, err
	}

	done := make(map[string]bool, len(entries))
	for _, e := range entries {
		done[e.ItemID] = e.Completed
	}

	for _, d := range diet {
		if d.DayOfWeek != day.DayOfWeek {
			continue
		}
		item := DietItem{DietEntry: d, Completed: done[d.ID]}
		if item.Completed {
			day.DietCompleted++
		}
		day.Diet = append(day.Diet, item)
	}
	for _, w := range workout {
		if w.DayOfWeek != day.DayOfWeek {
			continue
		}
		item := WorkoutItem{WorkoutEntry: w, Completed: done[w.ID]}
		if item.Completed {
			day.WorkoutCompleted++
		}
		day.Workout = append(day.Workout, item)
	}
	return day, nil
}

func (tr *Tracker) ensureOwned(ctx context.Context, ownerID string, itemType ItemType, itemID string) error {
	switch itemType {
	case ItemDiet:
		diet, err := tr.plans.ListDietPlans(ctx, ownerID)
		if err != nil {
			return err
		}
		for _, d := range diet {
			if d.ID == itemID {
				return nil
			}
		}
	case ItemWorkout:
		workout, err := tr.plans.ListWorkoutPlans(ctx, ownerID)
		if err != nil {
			return err
		}
		for _, w := range workout {
			if w.ID == itemID {
				return nil
			}
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidItemType, itemType)
	}
	return fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
}
