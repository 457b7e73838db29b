package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/sharda-atlas/internal/domain"
)

var prefetchConcurrency int

var prefetchCmd = &cobra.Command{
	Use:   "prefetch [region...]",
	Short: "Warm the region cache; with no arguments, every catalog region",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		a, err := buildApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		names := args
		if len(names) == 0 {
			for _, r := range domain.IndiaRegions {
				names = append(names, r.Name)
			}
		}
		return runPrefetch(ctx, cmd.OutOrStdout(), a.Regions, names, prefetchConcurrency)
	},
}

func init() {
	prefetchCmd.Flags().IntVarP(&prefetchConcurrency, "concurrency", "c", 4, "Maximum concurrent generation calls")
}

// runPrefetch retrieves every name, continuing past failures, and returns an
// error summarizing how many failed.
func runPrefetch(ctx context.Context, out io.Writer, r recordRetriever, names []string, concurrency int) error {
	if concurrency < 1 {
		concurrency = 1
	}

	var (
		mu     sync.Mutex
		failed int
	)
	var g errgroup.Group
	g.SetLimit(concurrency)
	for _, name := range names {
		g.Go(func() error {
			_, err := r.Retrieve(ctx, name)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				fmt.Fprintf(out, "FAIL  %s: %s\n", name, domain.FailureKind(err))
				return nil
			}
			fmt.Fprintf(out, "OK    %s\n", name)
			return nil
		})
	}
	_ = g.Wait()

	fmt.Fprintf(out, "%d/%d regions cached\n", len(names)-failed, len(names))
	if failed > 0 {
		return fmt.Errorf("%d regions failed", failed)
	}
	return ctx.Err()
}
