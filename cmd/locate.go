package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"bromide/internal"
)

var locateCmd = &cobra.Command{
	Use:   "locate [master|preview] [key]",
	Short: "Print the path for a photo by id or fingerprint",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := args[0]
		key, err := internal.ParseKey(args[1])
		if err != nil {
			return err
		}

		archive, err := openArchive()
		if err != nil {
			return err
		}
		defer archive.Close()

		var path string
		switch kind {
		case "master":
			path, err = archive.LocateMaster(key)
		case "preview":
			path, err = archive.LocatePreview(key)
		default:
			return fmt.Errorf("unknown target %q (want master or preview)", kind)
		}
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(locateCmd)
}
