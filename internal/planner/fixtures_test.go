package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fitness-planner/internal/database"
	"fitness-planner/internal/llm"
	"fitness-planner/internal/shared"
)

var mealSlots = []struct{ name, at string }{
	{"Breakfast", "07:00"},
	{"Mid-Morning Snack", "10:00"},
	{"Lunch", "13:00"},
	{"Afternoon Snack", "16:00"},
	{"Dinner", "19:00"},
}

func weeklyDietJSON(t *testing.T) string {
	t.Helper()
	var items []map[string]any
	for day := 1; day <= DaysPerWeek; day++ {
		for i, slot := range mealSlots {
			items = append(items, map[string]any{
				"day_of_week": day,
				"meal_name":   slot.name,
				"meal_time":   slot.at,
				"description": fmt.Sprintf("Day %d meal %d with portions", day, i+1),
				"calories":    300 + i*50,
			})
		}
	}
	b, err := json.Marshal(items)
	require.NoError(t, err)
	return string(b)
}

func weeklyWorkoutJSON(t *testing.T) string {
	t.Helper()
	var items []map[string]any
	for day := 1; day <= DaysPerWeek; day++ {
		for i := 0; i < 5; i++ {
			item := map[string]any{
				"day_of_week":   day,
				"exercise_name": fmt.Sprintf("Exercise %d", i+1),
				"exercise_time": fmt.Sprintf("06:%02d", i*10),
				"description":   "Keep a steady pace",
			}
			if day == 4 || day == 7 {
				item["exercise_name"] = "Light stretching"
				item["duration_minutes"] = 10
				item["sets"] = nil
				item["reps"] = nil
			} else {
				item["sets"] = 3
				item["reps"] = 12
				item["duration_minutes"] = nil
			}
			items = append(items, item)
		}
	}
	b, err := json.Marshal(items)
	require.NoError(t, err)
	return string(b)
}

type stubReply struct {
	content string
	err     error
}

// stubModel answers nutritionist and trainer prompts with canned replies.
type stubModel struct {
	diet    stubReply
	workout stubReply
	delay   time.Duration
	// dietDelay holds back only the nutritionist reply.
	dietDelay time.Duration
	// barrier, when set, makes every call wait until both calls of a
	// generation are in flight.
	barrier *sync.WaitGroup

	calls       atomic.Int32
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func (m *stubModel) Complete(ctx context.Context, req llm.ChatRequest) (llm.ContentResponse, error) {
	m.calls.Add(1)
	n := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		cur := m.maxInFlight.Load()
		if n <= cur || m.maxInFlight.CompareAndSwap(cur, n) {
			break
		}
	}

	if m.barrier != nil {
		m.barrier.Done()
		done := make(chan struct{})
		go func() { m.barrier.Wait(); close(done) }()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			return llm.ContentResponse{}, fmt.Errorf("model calls were not concurrent")
		}
	}

	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return llm.ContentResponse{}, ctx.Err()
		}
	}

	reply := m.workout
	if strings.Contains(req.System, "nutritionist") {
		reply = m.diet
		if m.dietDelay > 0 {
			time.Sleep(m.dietDelay)
		}
	}
	if reply.err != nil {
		return llm.ContentResponse{}, reply.err
	}
	return llm.ContentResponse{
		Content: reply.content,
		Usage:   shared.TokenUsage{PromptTokens: 100, CompletionTokens: 200, TotalTokens: 300, Model: req.Model},
	}, nil
}

// spyStore counts writes before delegating to the real repository.
type spyStore struct {
	*Repository
	replaces atomic.Int32
	setGoals atomic.Int32
}

func (s *spyStore) Replace(ctx context.Context, ownerID string, goal Goal, diet []DietEntry, workout []WorkoutEntry) error {
	s.replaces.Add(1)
	return s.Repository.Replace(ctx, ownerID, goal, diet, workout)
}

func (s *spyStore) SetGoal(ctx context.Context, ownerID string, goal Goal) error {
	s.setGoals.Add(1)
	return s.Repository.SetGoal(ctx, ownerID, goal)
}

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "planner.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db.SQL)
}

type recordingRecorder struct {
	mu    sync.Mutex
	metas []shared.AgentMeta
}

func (r *recordingRecorder) RecordMeta(meta shared.AgentMeta) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metas = append(r.metas, meta)
	return nil
}

type recordingObserver struct {
	mu       sync.Mutex
	outcomes []string
	calls    int
}

func (o *recordingObserver) ObserveGeneration(goal, kind string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, goal+":"+kind)
}

func (o *recordingObserver) ObserveModelCall(string, time.Duration, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls++
}
