package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"bromide/internal"
)

var forceFlag bool

var previewsCmd = &cobra.Command{
	Use:   "previews [ids]",
	Short: "Generate previews (all photos when no ids given)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}

		archive, err := openArchive()
		if err != nil {
			return err
		}
		defer archive.Close()

		results, err := archive.GeneratePreviews(ids, forceFlag)
		if err != nil {
			return err
		}

		written, skipped, failed := 0, 0, 0
		for _, r := range results {
			switch {
			case r.Err != nil:
				failed++
				fmt.Printf("Error for %s: %v\n", internal.FormatID(r.ID), r.Err)
			case r.Status == internal.PreviewSkipped:
				skipped++
			default:
				written++
				if r.Stale != "" {
					fmt.Printf("%s → %s (removed stale %s)\n", internal.FormatID(r.ID), r.Path, r.Stale)
				} else {
					fmt.Printf("%s → %s\n", internal.FormatID(r.ID), r.Path)
				}
			}
		}

		fmt.Printf("\n%d written, %d skipped, %d errors\n", written, skipped, failed)
		if failed > 0 {
			return fmt.Errorf("%d previews failed", failed)
		}
		return nil
	},
}

// parseIDs resolves id arguments through the typed key parser, rejecting
// fingerprints: preview selection is id-based.
func parseIDs(args []string) ([]int64, error) {
	var ids []int64
	for _, arg := range args {
		k, err := internal.ParseKey(arg)
		if err != nil {
			return nil, err
		}
		if k.Kind != internal.KeyID {
			return nil, fmt.Errorf("previews selects by id, not fingerprint: %s", arg)
		}
		ids = append(ids, k.ID)
	}
	return ids, nil
}

func init() {
	previewsCmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "Delete and regenerate existing previews")

	rootCmd.AddCommand(previewsCmd)
}
