package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"bromide/internal"
)

var (
	checkRecursiveFlag bool
	adoptFlag          bool
)

var checkCmd = &cobra.Command{
	Use:   "check [files or folders]",
	Short: "Reconcile files against catalog, master store and journal",
	Long: `Check hashes each file and reports which archive layers know it:
the catalog, the content-addressed master store, and the master journal.
A file present in store and journal but missing from the catalog is
recoverable; pass --adopt to re-create its catalog row under the
journaled id.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		archive, err := openArchive()
		if err != nil {
			return err
		}
		defer archive.Close()

		results := archive.Check(args, checkRecursiveFlag, adoptFlag)

		inconsistent := 0
		for _, r := range results {
			if r.Err != nil && r.Status == "" {
				fmt.Printf("%-14s %s: %v\n", "error", r.Source, r.Err)
				inconsistent++
				continue
			}
			line := fmt.Sprintf("%-14s %s", r.Status, r.Source)
			if r.ID != 0 {
				line += fmt.Sprintf(" (id %s)", internal.FormatID(r.ID))
			}
			if r.Adopted {
				line += " [re-linked]"
			}
			fmt.Println(line)
			if r.Status == internal.CheckInconsistent {
				inconsistent++
			}
		}

		if inconsistent > 0 {
			return fmt.Errorf("%d inconsistent items", inconsistent)
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().BoolVarP(&checkRecursiveFlag, "recursive", "r", false, "Recurse into directories")
	checkCmd.Flags().BoolVar(&adoptFlag, "adopt", false, "Re-link recoverable files using the journal mapping")

	rootCmd.AddCommand(checkCmd)
}
