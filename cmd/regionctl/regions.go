package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/sharda-atlas/internal/domain"
)

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "List the selectable states and union territories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return printRegions(cmd.OutOrStdout(), domain.IndiaRegions)
	},
}

func printRegions(w io.Writer, regions []domain.Region) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME")
	for _, r := range regions {
		fmt.Fprintf(tw, "%s\t%s\n", r.ID, r.Name)
	}
	return tw.Flush()
}
