// Package cli provides the lineagectl command-line interface.
package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/ashureev/sproc-lineage/internal/app"
	"github.com/ashureev/sproc-lineage/internal/config"
	"github.com/ashureev/sproc-lineage/internal/domain"
	"github.com/ashureev/sproc-lineage/internal/interaction"
	"github.com/ashureev/sproc-lineage/internal/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version information (set at build time).
var Version = "0.1.0"

// Runner executes one analysis run.
type Runner interface {
	Run(ctx context.Context, sess interaction.Session, req domain.AnalysisRequest, n interaction.Notifier) (domain.InteractionRecord, error)
}

// RunnerFactory builds a Runner and a cleanup func for one invocation.
type RunnerFactory func() (Runner, func(), error)

// NewRootCmd creates the root command wired to the environment configuration.
func NewRootCmd() *cobra.Command {
	return newRootCmd(envRunner)
}

func newRootCmd(factory RunnerFactory) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lineagectl",
		Short: "Ask lineage questions about stored procedures",
		Long: `lineagectl fetches a stored procedure from the configured catalog,
saves its source and asks the configured model how a column is derived.

Configuration is read from the environment (and a .env file, if present).`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newAnalyzeCommand(factory))
	rootCmd.AddCommand(newVersionCommand(Version))
	return rootCmd
}

// envRunner loads configuration from the environment and wires the pipeline.
func envRunner() (Runner, func(), error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	// Logs go to stderr so stdout carries only the answer.
	log := logger.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(log)

	pipeline, err := app.New(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return pipeline.Controller, func() { _ = pipeline.Close() }, nil
}
