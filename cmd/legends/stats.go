package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ersonp/legends-core/internal/domain/entities"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show what the imported database contains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd)
		},
	}
}

func runStats(cmd *cobra.Command) error {
	ctx := cmd.Context()

	return withDeps(func(d *deps) error {
		stats, err := d.StatsHandler.Handle(ctx)
		if err != nil {
			return fmt.Errorf("reading stats: %w", err)
		}

		fmt.Printf("Database: %s\n", stats.Path)
		if stats.World != nil && stats.World.Name != nil {
			name := *stats.World.Name
			if stats.World.AltName != nil {
				name += ", " + *stats.World.AltName
			}
			fmt.Printf("World: %s\n", name)
		}

		var total int64
		for _, kind := range entities.Kinds {
			n := stats.Counts[kind.Table()]
			total += n
			fmt.Printf("  %-20s %s\n", kind.Table(), humanize.Comma(n))
		}
		fmt.Printf("Total records: %s\n", humanize.Comma(total))

		return nil
	})
}
