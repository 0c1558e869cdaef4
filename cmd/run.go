package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/skillforge/internal/app"
	"github.com/abhisek/skillforge/internal/learning"
	"github.com/abhisek/skillforge/internal/llm"
	"github.com/abhisek/skillforge/internal/orchestrator"
	"github.com/abhisek/skillforge/internal/store"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()

	profile, err := resolveProfile(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cmd)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	opts := app.Options{
		Tracker: learning.NewTracker(profile, nil),
		Logger:  logger,
	}

	profiles, cfg, err := llm.NewProfilesFromEnv(ctx, st.EventRepo(), logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "AI features will be unavailable.")
		logger.Warn("llm not configured", zap.Error(err))
	} else {
		logger.Info("llm configured",
			zap.String("provider", cfg.Provider),
			zap.String("fast", profiles.Fast.ModelID()),
			zap.String("reasoning", profiles.Reasoning.ModelID()),
			zap.String("image", profiles.Image.ModelID()),
		)
		opts.Orchestrator = orchestrator.New(profiles, orchestrator.ConfigFrom(cfg), logger)
	}

	return app.Run(opts)
}

// newOrchestrator builds an orchestrator for one-shot subcommands. Unlike
// the TUI, a missing backend is an error here. Tests replace it to serve
// canned replies.
var newOrchestrator = func(cmd *cobra.Command, st *store.Store, logger *zap.Logger) (*orchestrator.Orchestrator, error) {
	profiles, cfg, err := llm.NewProfilesFromEnv(cmd.Context(), st.EventRepo(), logger)
	if err != nil {
		return nil, fmt.Errorf("configure LLM: %w", err)
	}
	return orchestrator.New(profiles, orchestrator.ConfigFrom(cfg), logger), nil
}
