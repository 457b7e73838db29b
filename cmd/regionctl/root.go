package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/sharda-atlas/internal/app"
	"github.com/couchcryptid/sharda-atlas/internal/config"
	"github.com/couchcryptid/sharda-atlas/internal/observability"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:          "regionctl",
	Short:        "Retrieve AI-generated profiles of Indian states and union territories",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")
	rootCmd.AddCommand(regionsCmd, getCmd, prefetchCmd, exploreCmd)
}

func Execute() error {
	return rootCmd.Execute()
}

// cliLogger logs to stderr so stdout stays clean for JSON output.
func cliLogger() *slog.Logger {
	level := "warn"
	if verbose {
		level = "debug"
	}
	return observability.NewLoggerTo(os.Stderr, level, "text")
}

// buildApp loads configuration from the environment and wires the services.
func buildApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return app.Build(ctx, cfg, cliLogger(), observability.NewMetricsWith(prometheus.NewRegistry()))
}
