package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ersonp/legends-core/internal/domain/entities"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>...",
		Short: "Import legends export files",
		Long: "Imports one or more legends XML exports into the database. " +
			"Pass both the base and the legends_plus file of the same world " +
			"to get the full picture; any previous import is replaced.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args)
		},
	}
}

func runImport(cmd *cobra.Command, paths []string) error {
	ctx := cmd.Context()

	return withDeps(func(d *deps) error {
		report, err := d.ImportHandler.Handle(ctx, paths)
		if err != nil {
			return fmt.Errorf("importing: %w", err)
		}

		if report.WorldName != nil {
			name := *report.WorldName
			if report.WorldAltName != nil {
				name += ", " + *report.WorldAltName
			}
			fmt.Printf("World: %s\n", name)
		}

		for _, kind := range entities.Kinds {
			n := report.Counts[kind.Table()]
			if n > 0 {
				fmt.Printf("  %-20s %s\n", kind.Table(), humanize.Comma(n))
			}
		}
		fmt.Printf("Rows written: %s\n", humanize.Comma(report.Written))

		if report.Malformed > 0 || report.Dangling > 0 || report.Violations > 0 {
			fmt.Printf("Skipped: %d malformed, %d dangling references, %d constraint violations (run with -v for details)\n",
				report.Malformed, report.Dangling, report.Violations)
		}
		if report.Truncated {
			fmt.Printf("Warning: input truncated at byte %s, import is partial\n",
				humanize.Comma(report.TruncatedAt))
		}

		return nil
	})
}
