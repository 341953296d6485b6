package planner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"fitness-planner/internal/llm"
	"fitness-planner/internal/logging"
	"fitness-planner/internal/shared"
)

const (
	nutritionistAgent = "Nutritionist"
	trainerAgent      = "Trainer"
)

// PlanStore persists generated plans and member goals.
type PlanStore interface {
	Replace(ctx context.Context, ownerID string, goal Goal, diet []DietEntry, workout []WorkoutEntry) error
	SetGoal(ctx context.Context, ownerID string, goal Goal) error
}

// UsageRecorder stores per-call token usage.
type UsageRecorder interface {
	RecordMeta(meta shared.AgentMeta) error
}

// OutcomeObserver receives generation outcomes and model call timings.
type OutcomeObserver interface {
	ObserveGeneration(goal string, kind string, elapsed time.Duration)
	ObserveModelCall(agent string, elapsed time.Duration, err error)
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logging.OrDiscard(logger) }
}

// WithUsageRecorder records token usage of every model call.
func WithUsageRecorder(r UsageRecorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithOutcomeObserver reports outcomes, e.g. to Prometheus.
func WithOutcomeObserver(o OutcomeObserver) Option {
	return func(s *Service) { s.observer = o }
}

// Service generates and stores weekly diet and workout plans.
type Service struct {
	model    llm.ChatCompleter
	store    PlanStore
	modelID  string
	logger   *slog.Logger
	recorder UsageRecorder
	observer OutcomeObserver
	locks    *ownerLocks
	now      func() time.Time
}

// NewService creates a new Service instance.
func NewService(model llm.ChatCompleter, store PlanStore, modelID string, opts ...Option) *Service {
	s := &Service{
		model:   model,
		store:   store,
		modelID: modelID,
		logger:  logging.Discard(),
		locks:   newOwnerLocks(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SelectGoal records the member's goal and then generates plans for it.
// The stored goal survives a failed generation so the caller can retry.
func (s *Service) SelectGoal(ctx context.Context, goal Goal, ownerID string) (Result, error) {
	if err := validateRequest(goal, ownerID); err != nil {
		return Result{Goal: goal}, err
	}
	if err := s.store.SetGoal(ctx, ownerID, goal); err != nil {
		return Result{Goal: goal}, fmt.Errorf("%w: save goal: %w", ErrPersistence, err)
	}
	return s.Generate(ctx, goal, ownerID)
}

// Generate asks the model for a diet and a workout plan for goal and replaces
// every previously generated plan of ownerID. Storage is only touched once
// both responses validate.
func (s *Service) Generate(ctx context.Context, goal Goal, ownerID string) (Result, error) {
	start := s.now()
	res, err := s.generate(ctx, goal, ownerID)

	s.recordUsage(res.Metas)
	if s.observer != nil {
		kind := "success"
		if err != nil {
			kind = string(Classify(err).Kind)
		}
		label := string(goal)
		if !goal.Valid() {
			label = "unknown"
		}
		s.observer.ObserveGeneration(label, kind, s.now().Sub(start))
	}

	if err != nil {
		s.logger.Warn("plan generation failed",
			"owner", ownerID, "goal", goal, "kind", Classify(err).Kind, "error", err)
		return res, err
	}
	s.logger.Info("plans generated",
		"owner", ownerID, "goal", goal, "diet", res.DietCount, "workout", res.WorkoutCount,
		"elapsed", s.now().Sub(start))
	return res, nil
}

func (s *Service) generate(ctx context.Context, goal Goal, ownerID string) (Result, error) {
	res := Result{Goal: goal}
	if err := validateRequest(goal, ownerID); err != nil {
		return res, err
	}

	unlock, err := s.locks.acquire(ctx, ownerID)
	if err != nil {
		return res, fmt.Errorf("waiting for pending generation: %w", err)
	}
	defer unlock()

	dietPrompt, err := buildDietPrompt(goal)
	if err != nil {
		return res, fmt.Errorf("failed to build diet prompt: %w", err)
	}
	workoutPrompt, err := buildWorkoutPrompt(goal)
	if err != nil {
		return res, fmt.Errorf("failed to build workout prompt: %w", err)
	}

	var (
		diet    []DietEntry
		workout []WorkoutEntry
		metas   [2]*shared.AgentMeta
	)

	// Each call keeps its own error and neither cancels the other, so the
	// reported failure is the diet one whenever both fail.
	var (
		g                   errgroup.Group
		dietErr, workoutErr error
	)
	g.Go(func() error {
		content, meta, err := s.complete(ctx, nutritionistAgent, nutritionistSystem, dietPrompt)
		metas[0] = meta
		if err != nil {
			dietErr = err
			return nil
		}
		diet, err = ParseDietPlan(content, ownerID, goal)
		if err != nil {
			s.logMalformed(nutritionistAgent, ownerID, content, err)
			dietErr = fmt.Errorf("%w: diet plan: %v", ErrMalformedResponse, err)
		}
		return nil
	})
	g.Go(func() error {
		content, meta, err := s.complete(ctx, trainerAgent, trainerSystem, workoutPrompt)
		metas[1] = meta
		if err != nil {
			workoutErr = err
			return nil
		}
		workout, err = ParseWorkoutPlan(content, ownerID, goal)
		if err != nil {
			s.logMalformed(trainerAgent, ownerID, content, err)
			workoutErr = fmt.Errorf("%w: workout plan: %v", ErrMalformedResponse, err)
		}
		return nil
	})
	g.Wait()
	for _, m := range metas {
		if m != nil {
			res.Metas = append(res.Metas, *m)
		}
	}
	if dietErr != nil {
		return res, dietErr
	}
	if workoutErr != nil {
		return res, workoutErr
	}

	// Persistence runs to completion or rolls back even if the caller goes away.
	if err := s.store.Replace(context.WithoutCancel(ctx), ownerID, goal, diet, workout); err != nil {
		return res, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	res.DietCount = len(diet)
	res.WorkoutCount = len(workout)
	return res, nil
}

// complete calls the model once. The returned meta is nil when the call failed
// before producing a response.
func (s *Service) complete(ctx context.Context, agent, system, prompt string) (string, *shared.AgentMeta, error) {
	start := s.now()
	resp, err := s.model.Complete(ctx, llm.ChatRequest{
		Model:  s.modelID,
		System: system,
		User:   prompt,
	})
	elapsed := s.now().Sub(start)
	if s.observer != nil {
		s.observer.ObserveModelCall(agent, elapsed, err)
	}

	if err != nil {
		if llm.IsRateLimited(err) {
			return "", nil, fmt.Errorf("%w: %s call: %w", ErrRateLimited, strings.ToLower(agent), err)
		}
		if ctx.Err() != nil {
			return "", nil, fmt.Errorf("%s call canceled: %w", strings.ToLower(agent), err)
		}
		return "", nil, fmt.Errorf("%w: %s call: %w", ErrProviderFailure, strings.ToLower(agent), err)
	}

	usage := resp.Usage
	if usage.Model == "" {
		usage.Model = s.modelID
	}
	return resp.Content, &shared.AgentMeta{
		AgentName: agent,
		Usage:     usage,
		Latency:   elapsed,
	}, nil
}

func (s *Service) logMalformed(agent, ownerID, content string, err error) {
	s.logger.Error("malformed model response",
		"agent", agent, "owner", ownerID, "error", err, "content", content)
}

func (s *Service) recordUsage(metas []shared.AgentMeta) {
	if s.recorder == nil {
		return
	}
	for _, meta := range metas {
		if err := s.recorder.RecordMeta(meta); err != nil {
			s.logger.Warn("failed to record usage", "agent", meta.AgentName, "error", err)
		}
	}
}

func validateRequest(goal Goal, ownerID string) error {
	if !goal.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidGoal, string(goal))
	}
	if strings.TrimSpace(ownerID) == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidRequest)
	}
	return nil
}
