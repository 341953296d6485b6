package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fitness-planner/internal/logging"
	"fitness-planner/internal/planner"
	"fitness-planner/internal/progress"
)

// Generator runs plan generation.
type Generator interface {
	Generate(ctx context.Context, goal planner.Goal, ownerID string) (planner.Result, error)
	SelectGoal(ctx context.Context, goal planner.Goal, ownerID string) (planner.Result, error)
}

// PlanReader reads stored plans and goals.
type PlanReader interface {
	ListDietPlans(ctx context.Context, ownerID string) ([]planner.DietEntry, error)
	ListWorkoutPlans(ctx context.Context, ownerID string) ([]planner.WorkoutEntry, error)
	GetGoal(ctx context.Context, ownerID string) (planner.MemberGoal, error)
	SetGoal(ctx context.Context, ownerID string, goal planner.Goal) error
}

// ProgressTracker toggles and reports daily progress.
type ProgressTracker interface {
	Toggle(ctx context.Context, ownerID string, date time.Time, itemType progress.ItemType, itemID string, completed bool) (progress.Entry, error)
	Today(ctx context.Context, ownerID string) (progress.Day, error)
	ForDate(ctx context.Context, ownerID string, date time.Time) (progress.Day, error)
}

// Config holds the dependencies of a Server.
type Config struct {
	Generator    Generator
	Plans        PlanReader
	Progress     ProgressTracker
	Gatherer     prometheus.Gatherer
	JWTSecret    string
	DatabasePath string
	Logger       *slog.Logger
}

// Server exposes plan generation and plan data over HTTP.
type Server struct {
	generator    Generator
	plans        PlanReader
	progress     ProgressTracker
	gatherer     prometheus.Gatherer
	jwtSecret    []byte
	databasePath string
	logger       *slog.Logger
}

// New creates a new Server.
func New(cfg Config) *Server {
	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Server{
		generator:    cfg.Generator,
		plans:        cfg.Plans,
		progress:     cfg.Progress,
		gatherer:     gatherer,
		jwtSecret:    []byte(cfg.JWTSecret),
		databasePath: cfg.DatabasePath,
		logger:       logging.OrDiscard(cfg.Logger),
	}
}

// Handler returns the routed HTTP handler with CORS applied.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("POST /generate-plans", s.handleGeneratePlans)
	api.HandleFunc("GET /users/{id}/goal", s.handleGetGoal)
	api.HandleFunc("PUT /users/{id}/goal", s.handlePutGoal)
	api.HandleFunc("GET /users/{id}/diet-plans", s.handleDietPlans)
	api.HandleFunc("GET /users/{id}/workout-plans", s.handleWorkoutPlans)
	api.HandleFunc("GET /users/{id}/progress/today", s.handleProgressToday)
	api.HandleFunc("POST /users/{id}/progress", s.handleToggleProgress)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	mux.Handle("/", s.authenticate(api))
	return withCORS(mux)
}

var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "authorization, x-client-info, apikey, content-type",
	"Access-Control-Allow-Methods": "GET, POST, PUT, OPTIONS",
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for k, v := range corsHeaders {
			w.Header().Set(k, v)
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, kind, msg string) {
	s.writeJSON(w, status, errorBody{Error: msg, Kind: kind})
}

// writeGenerationError maps planner errors to the response contract.
func (s *Server) writeGenerationError(w http.ResponseWriter, err error) {
	c := planner.Classify(err)
	s.writeError(w, c.Status, string(c.Kind), c.Message)
}

func (s *Server) writeInternal(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	s.writeError(w, http.StatusInternalServerError, string(planner.KindInternal), "internal error")
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	if err := dec.Decode(v); err != nil {
		return errors.New("request body must be valid JSON")
	}
	return nil
}
