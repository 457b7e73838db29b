package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/sharda-atlas/internal/domain"
)

var getCmd = &cobra.Command{
	Use:   "get <region>",
	Short: "Retrieve one region record and print it as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		a, err := buildApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		return runGet(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), a.Regions, args[0])
	},
}

type recordRetriever interface {
	Retrieve(ctx context.Context, name string) (domain.RegionRecord, error)
}

func runGet(ctx context.Context, out, errOut io.Writer, r recordRetriever, name string) error {
	if _, ok := domain.FindRegion(name); !ok {
		fmt.Fprintf(errOut, "warning: %q is not in the region catalog; names are matched exactly\n", name)
	}
	rec, err := r.Retrieve(ctx, name)
	if err != nil {
		return fmt.Errorf("retrieve %s (%s failure): %w", name, domain.FailureKind(err), err)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}
