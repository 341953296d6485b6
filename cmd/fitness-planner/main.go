package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"fitness-planner/internal/app"
	"fitness-planner/internal/config"
	"fitness-planner/internal/logging"
	"fitness-planner/internal/planner"
	"fitness-planner/internal/server"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "fitness-planner",
		Short:        "Generate weekly diet and workout plans with a language model",
		SilenceUsage: true,
	}
	root.AddCommand(
		newServeCmd(),
		newGenerateCmd(),
		newShowCmd(),
		newUsageCmd(),
		newCleanupCmd(),
	)
	return root
}

// loadApp reads configuration from the environment and wires the application.
func loadApp(ctx context.Context) (*app.App, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}
	cfg, err := config.NewFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	return app.New(ctx, cfg, logger)
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			application, err := loadApp(ctx)
			if err != nil {
				return err
			}
			defer application.Close()

			if application.Config.JWTSecret == "" {
				application.Logger.Warn("JWT_SECRET not set, API requests are not authenticated")
			}

			api := server.New(server.Config{
				Generator:    application.Planner,
				Plans:        application.Plans,
				Progress:     application.Progress,
				Gatherer:     application.Registry,
				JWTSecret:    application.Config.JWTSecret,
				DatabasePath: application.Config.DatabasePath,
				Logger:       application.Logger.With("component", "http"),
			})

			srv := &http.Server{
				Addr:              ":" + application.Config.Port,
				Handler:           api.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				application.Logger.Info("http server listening", "port", application.Config.Port)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("server failed: %w", err)
				}
			case <-ctx.Done():
			}

			application.Logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

func newGenerateCmd() *cobra.Command {
	var goal, user string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Select a goal for a user and generate their weekly plans",
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := planner.ParseGoal(goal)
			if err != nil {
				return err
			}
			application, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer application.Close()
			return application.GeneratePlans(cmd.Context(), g, user, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&goal, "goal", "", "lose_weight, gain_weight or build_muscle")
	cmd.Flags().StringVar(&user, "user", "", "owner id of the plans")
	cmd.MarkFlagRequired("goal")
	cmd.MarkFlagRequired("user")
	return cmd
}

func newShowCmd() *cobra.Command {
	var user string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the stored plans of a user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer application.Close()
			return application.ShowPlans(cmd.Context(), user, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "owner id of the plans")
	cmd.MarkFlagRequired("user")
	return cmd
}

func newUsageCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Print daily model token usage",
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer application.Close()
			return application.PrintUsage(cmd.Context(), days, cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, "Report the last N days")
	return cmd
}

func newCleanupCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "metrics-cleanup",
		Short: "Remove old metric records",
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer application.Close()
			return application.CleanupMetrics(cmd.Context(), days, cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVar(&days, "days", 30, "Keep records for the last N days")
	return cmd
}
