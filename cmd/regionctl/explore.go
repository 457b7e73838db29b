package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/sharda-atlas/internal/domain"
	"github.com/couchcryptid/sharda-atlas/internal/observability"
	"github.com/couchcryptid/sharda-atlas/internal/retrieval"
)

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Select regions interactively, one name per line; a blank line deselects",
	Long: `explore reads region names from stdin and prints every state change of the
selection: idle, loading, success, or error. Selecting a new region while one
is still loading discards the older result when it arrives.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		a, err := buildApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		metrics := observability.NewMetricsWith(prometheus.NewRegistry())
		return runExplore(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), a.Regions, cliLogger(), metrics)
	},
}

// runExplore drives an Explorer from line input until EOF or "quit", then
// waits for pending retrievals so their results still reach the cache.
func runExplore(
	ctx context.Context,
	in io.Reader,
	out io.Writer,
	r retrieval.Retriever,
	logger *slog.Logger,
	metrics *observability.Metrics,
) error {
	e := retrieval.NewExplorer(r, logger, metrics, retrieval.WithOnChange(func(s retrieval.Snapshot) {
		fmt.Fprintln(out, describe(s))
	}))

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "quit" || line == "exit" {
			break
		}
		e.Select(ctx, line)
	}
	e.Wait()
	return scanner.Err()
}

func describe(s retrieval.Snapshot) string {
	switch s.State {
	case retrieval.StateSuccess:
		return fmt.Sprintf("[%d] %s %s: capital %s, %d highlights",
			s.Generation, s.State, s.Region, s.Record.Capital, len(s.Record.Highlights))
	case retrieval.StateError:
		return fmt.Sprintf("[%d] %s %s: %s failure", s.Generation, s.State, s.Region, domain.FailureKind(s.Err))
	case retrieval.StateLoading:
		return fmt.Sprintf("[%d] %s %s", s.Generation, s.State, s.Region)
	default:
		return fmt.Sprintf("[%d] %s", s.Generation, s.State)
	}
}
