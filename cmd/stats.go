package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show archive statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		archive, err := openArchive()
		if err != nil {
			return err
		}
		defer archive.Close()

		stats, err := archive.Stats()
		if err != nil {
			return err
		}
		fmt.Print(stats.Render())
		return nil
	},
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Build a date-organized hardlink tree over the master store",
	RunE: func(cmd *cobra.Command, args []string) error {
		archive, err := openArchive()
		if err != nil {
			return err
		}
		defer archive.Close()

		linked, err := archive.BuildBrowse()
		if err != nil {
			return err
		}
		fmt.Printf("Created %d hardlinks under %s/browse\n", linked, archive.Config.Library)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(browseCmd)
}
