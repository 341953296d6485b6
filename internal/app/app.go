package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"fitness-planner/internal/config"
	"fitness-planner/internal/database"
	"fitness-planner/internal/llm"
	"fitness-planner/internal/logging"
	"fitness-planner/internal/metrics"
	"fitness-planner/internal/planner"
	"fitness-planner/internal/progress"
)

// App holds the application's dependencies.
type App struct {
	Config     *config.Config
	Logger     *slog.Logger
	DB         *database.DB
	Plans      *planner.Repository
	Planner    *planner.Service
	Progress   *progress.Tracker
	Metrics    *metrics.Store
	Collectors *metrics.Collectors
	Registry   *prometheus.Registry

	closers []llm.Closer
}

// New opens the database, builds the configured model client and wires the
// services together.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	logger = logging.OrDiscard(logger)

	model, closer, err := NewModelClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	a := Assemble(cfg, db, model, logger)
	if closer != nil {
		a.closers = append(a.closers, closer)
	}
	return a, nil
}

// NewModelClient returns the provider selected by cfg wrapped with the local
// rate limiter, plus a closer when the provider holds resources.
func NewModelClient(ctx context.Context, cfg *config.Config) (llm.ChatCompleter, llm.Closer, error) {
	switch cfg.ModelProvider {
	case config.ProviderGemini:
		client, err := llm.NewGeminiClient(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return llm.WithRateLimit(client, cfg.RateLimitRPM, cfg.RateLimitBurst), client, nil
	case config.ProviderGateway:
		client := llm.NewGatewayClient(cfg)
		return llm.WithRateLimit(client, cfg.RateLimitRPM, cfg.RateLimitBurst), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown model provider %q", cfg.ModelProvider)
	}
}

// Assemble wires repositories and services around an open database and a
// ready model client.
func Assemble(cfg *config.Config, db *database.DB, model llm.ChatCompleter, logger *slog.Logger) *App {
	logger = logging.OrDiscard(logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promCollectors := metrics.MustNewCollectors(registry)

	plans := planner.NewRepository(db.SQL)
	metricsStore := metrics.NewStore(db.SQL)
	service := planner.NewService(model, plans, cfg.PlanModel,
		planner.WithLogger(logger.With("component", "planner")),
		planner.WithUsageRecorder(metricsStore),
		planner.WithOutcomeObserver(promCollectors),
	)
	tracker := progress.NewTracker(plans, progress.NewRepository(db.SQL), logger.With("component", "progress"))

	return &App{
		Config:     cfg,
		Logger:     logger,
		DB:         db,
		Plans:      plans,
		Planner:    service,
		Progress:   tracker,
		Metrics:    metricsStore,
		Collectors: promCollectors,
		Registry:   registry,
	}
}

// Close releases the model client and the database.
func (a *App) Close() error {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.Logger.Warn("failed to close model client", "error", err)
		}
	}
	return a.DB.Close()
}
