package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"bromide/internal"
)

var recursiveFlag bool

var importCmd = &cobra.Command{
	Use:   "import [files or folders]",
	Short: "Import photos into the archive",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		archive, err := openArchive()
		if err != nil {
			return err
		}
		defer archive.Close()

		report := archive.ImportBatch(args, recursiveFlag)

		for _, r := range report.Results {
			switch {
			case r.State == internal.StateSkipped:
				fmt.Printf("Skipping duplicate: %s (already %s)\n", r.Source, internal.FormatID(r.ID))
			case r.Err != nil:
				fmt.Printf("Error processing %s: %v\n", r.Source, r.Err)
			default:
				fmt.Printf("Imported %s → %s [%s]\n", r.Source, internal.FormatID(r.ID), r.Fingerprint)
			}
		}

		fmt.Printf("\n%d imported, %d duplicates, %d errors\n",
			report.Imported, report.Duplicates, report.Errors)

		if report.Aborted != "" {
			return fmt.Errorf("import aborted: %s", report.Aborted)
		}
		if report.Errors > 0 {
			fmt.Print(report.Stats.GenerateReport())
			return fmt.Errorf("%d of %d items failed", report.Errors, len(report.Results))
		}
		return nil
	},
}

func init() {
	importCmd.Flags().BoolVarP(&recursiveFlag, "recursive", "r", false, "Recurse into directories")

	rootCmd.AddCommand(importCmd)
}
