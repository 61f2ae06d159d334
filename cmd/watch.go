package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"bromide/internal"
)

var watchCmd = &cobra.Command{
	Use:   "watch [inbox]",
	Short: "Watch an inbox folder and import new photos as they appear",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inbox := args[0]
		if fi, err := os.Stat(inbox); err != nil || !fi.IsDir() {
			return fmt.Errorf("inbox does not exist or is not a directory: %s", inbox)
		}

		archive, err := openArchive()
		if err != nil {
			return err
		}
		defer archive.Close()

		watcher, err := internal.NewInboxWatcher(inbox, archive.Config)
		if err != nil {
			return err
		}
		defer watcher.Close()

		fmt.Printf("Watching %s (Ctrl-C to stop)\n", inbox)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		for {
			select {
			case path := <-watcher.Files():
				res := archive.ImportFile(path)
				switch {
				case res.State == internal.StateSkipped:
					fmt.Printf("Skipping duplicate: %s\n", path)
				case res.Err != nil:
					fmt.Printf("Error processing %s: %v\n", path, res.Err)
				default:
					fmt.Printf("Imported %s → %s\n", path, internal.FormatID(res.ID))
				}
			case err := <-watcher.Errors():
				fmt.Printf("Watcher error: %v\n", err)
			case <-sigCh:
				fmt.Println("\nStopping watcher")
				return nil
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
