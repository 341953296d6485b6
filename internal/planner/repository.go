package planner

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fitness-planner/internal/planner/plan_db"
)

// ErrGoalNotFound is returned when a member has not selected a goal yet.
var ErrGoalNotFound = errors.New("goal not found")

// MemberGoal is a member's active goal.
type MemberGoal struct {
	OwnerID   string    `json:"user_id"`
	Goal      Goal      `json:"goal"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Repository is a database-backed store for generated plans and member goals.
type Repository struct {
	queries *plan_db.Queries
	db      *sql.DB
	now     func() time.Time
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{
		queries: plan_db.New(d),
		db:      d,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Replace deletes every generated plan of ownerID and inserts the given ones
// in a single transaction.
func (r *Repository) Replace(ctx context.Context, ownerID string, goal Goal, diet []DietEntry, workout []WorkoutEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	if _, err := q.DeleteDietPlansByUser(ctx, ownerID); err != nil {
		return fmt.Errorf("failed to delete diet plans for user %s: %w", ownerID, err)
	}
	if _, err := q.DeleteWorkoutPlansByUser(ctx, ownerID); err != nil {
		return fmt.Errorf("failed to delete workout plans for user %s: %w", ownerID, err)
	}
	if err := r.insertDiet(ctx, q, ownerID, goal, diet); err != nil {
		return err
	}
	if err := r.insertWorkout(ctx, q, ownerID, goal, workout); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit plan replacement: %w", err)
	}
	return nil
}

// DeleteDietPlans removes every generated diet entry of ownerID.
func (r *Repository) DeleteDietPlans(ctx context.Context, ownerID string) (int64, error) {
	return r.queries.DeleteDietPlansByUser(ctx, ownerID)
}

// DeleteWorkoutPlans removes every generated workout entry of ownerID.
func (r *Repository) DeleteWorkoutPlans(ctx context.Context, ownerID string) (int64, error) {
	return r.queries.DeleteWorkoutPlansByUser(ctx, ownerID)
}

// InsertDietPlans appends diet entries for ownerID without removing old ones.
func (r *Repository) InsertDietPlans(ctx context.Context, ownerID string, goal Goal, diet []DietEntry) error {
	return r.inTx(ctx, func(q *plan_db.Queries) error {
		return r.insertDiet(ctx, q, ownerID, goal, diet)
	})
}

// InsertWorkoutPlans appends workout entries for ownerID without removing old ones.
func (r *Repository) InsertWorkoutPlans(ctx context.Context, ownerID string, goal Goal, workout []WorkoutEntry) error {
	return r.inTx(ctx, func(q *plan_db.Queries) error {
		return r.insertWorkout(ctx, q, ownerID, goal, workout)
	})
}

// ListDietPlans returns the owner's diet entries ordered by day and time.
func (r *Repository) ListDietPlans(ctx context.Context, ownerID string) ([]DietEntry, error) {
	rows, err := r.queries.ListDietPlansByUser(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list diet plans for user %s: %w", ownerID, err)
	}
	entries := make([]DietEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, DietEntry{
			ID:          row.ID,
			OwnerID:     row.UserID,
			Goal:        Goal(row.Goal),
			DayOfWeek:   int(row.DayOfWeek),
			MealName:    row.MealName,
			MealTime:    row.MealTime,
			Description: row.Description,
			Calories:    fromNullInt(row.Calories),
			CreatedAt:   row.CreatedAt,
		})
	}
	return entries, nil
}

// ListWorkoutPlans returns the owner's workout entries ordered by day and time.
func (r *Repository) ListWorkoutPlans(ctx context.Context, ownerID string) ([]WorkoutEntry, error) {
	rows, err := r.queries.ListWorkoutPlansByUser(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workout plans for user %s: %w", ownerID, err)
	}
	entries := make([]WorkoutEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, WorkoutEntry{
			ID:              row.ID,
			OwnerID:         row.UserID,
			Goal:            Goal(row.Goal),
			DayOfWeek:       int(row.DayOfWeek),
			ExerciseName:    row.ExerciseName,
			ExerciseTime:    row.ExerciseTime,
			Sets:            fromNullInt(row.Sets),
			Reps:            fromNullInt(row.Reps),
			DurationMinutes: fromNullInt(row.DurationMinutes),
			Description:     row.Description.String,
			CreatedAt:       row.CreatedAt,
		})
	}
	return entries, nil
}

// GetGoal returns the owner's active goal or ErrGoalNotFound.
func (r *Repository) GetGoal(ctx context.Context, ownerID string) (MemberGoal, error) {
	row, err := r.queries.GetMemberGoal(ctx, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return MemberGoal{}, ErrGoalNotFound
	}
	if err != nil {
		return MemberGoal{}, fmt.Errorf("failed to get goal for user %s: %w", ownerID, err)
	}
	return MemberGoal{OwnerID: row.UserID, Goal: Goal(row.Goal), UpdatedAt: row.UpdatedAt}, nil
}

// SetGoal stores goal as the owner's only active goal.
func (r *Repository) SetGoal(ctx context.Context, ownerID string, goal Goal) error {
	now := r.now()
	err := r.queries.UpsertMemberGoal(ctx, plan_db.UpsertMemberGoalParams{
		UserID:    ownerID,
		Goal:      string(goal),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return fmt.Errorf("failed to save goal for user %s: %w", ownerID, err)
	}
	return nil
}

func (r *Repository) inTx(ctx context.Context, fn func(q *plan_db.Queries) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()
	if err := fn(r.queries.WithTx(tx)); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *Repository) insertDiet(ctx context.Context, q *plan_db.Queries, ownerID string, goal Goal, diet []DietEntry) error {
	now := r.now()
	for i := range diet {
		e := &diet[i]
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		e.OwnerID, e.Goal, e.CreatedAt = ownerID, goal, now
		err := q.InsertDietPlan(ctx, plan_db.InsertDietPlanParams{
			ID:          e.ID,
			UserID:      ownerID,
			Goal:        string(goal),
			DayOfWeek:   int64(e.DayOfWeek),
			MealName:    e.MealName,
			MealTime:    e.MealTime,
			Description: e.Description,
			Calories:    toNullInt(e.Calories),
			CreatedAt:   now,
		})
		if err != nil {
			return fmt.Errorf("failed to insert diet entry %d for user %s: %w", i, ownerID, err)
		}
	}
	return nil
}

func (r *Repository) insertWorkout(ctx context.Context, q *plan_db.Queries, ownerID string, goal Goal, workout []WorkoutEntry) error {
	now := r.now()
	for i := range workout {
		e := &workout[i]
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		e.OwnerID, e.Goal, e.CreatedAt = ownerID, goal, now
		err := q.InsertWorkoutPlan(ctx, plan_db.InsertWorkoutPlanParams{
			ID:              e.ID,
			UserID:          ownerID,
			Goal:            string(goal),
			DayOfWeek:       int64(e.DayOfWeek),
			ExerciseName:    e.ExerciseName,
			ExerciseTime:    e.ExerciseTime,
			Sets:            toNullInt(e.Sets),
			Reps:            toNullInt(e.Reps),
			DurationMinutes: toNullInt(e.DurationMinutes),
			Description:     sql.NullString{String: e.Description, Valid: e.Description != ""},
			CreatedAt:       now,
		})
		if err != nil {
			return fmt.Errorf("failed to insert workout entry %d for user %s: %w", i, ownerID, err)
		}
	}
	return nil
}

func toNullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func fromNullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
