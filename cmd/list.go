package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list [ids]",
	Short: "List cataloged photos (all when no ids given)",
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

		photos, err := archive.Catalog.List(ids...)
		if err != nil {
			return err
		}

		for _, p := range photos {
			fmt.Printf("%s  %s  %s  %dx%d  %+d\n",
				p.FID(), p.Fingerprint, p.Taken, p.Width, p.Height, p.Rotation)
		}
		return nil
	},
}

var recentCmd = &cobra.Command{
	Use:   "recent [n]",
	Short: "Show the n most recently assigned ids (oldest of the selection first)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n := 10
		if len(args) == 1 {
			if _, err := fmt.Sscanf(args[0], "%d", &n); err != nil || n <= 0 {
				return fmt.Errorf("invalid count: %s", args[0])
			}
		}

		archive, err := openArchive()
		if err != nil {
			return err
		}
		defer archive.Close()

		ids, err := archive.Catalog.MostRecent(n)
		if err != nil {
			return err
		}
		photos, err := archive.Catalog.List(ids...)
		if err != nil {
			return err
		}
		for _, p := range photos {
			fmt.Printf("%s  %s  %dx%d\n", p.FID(), p.Taken, p.Width, p.Height)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(recentCmd)
}
