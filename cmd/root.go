package cmd

import (
	"github.com/spf13/cobra"

	"bromide/internal"
)

// Version is overridden by the embedded VERSION file at startup.
var Version = "dev"

var (
	libraryFlag  string
	exiftoolFlag bool
)

var rootCmd = &cobra.Command{
	Use:     "bromide",
	Short:   "Bromide photo archive - content-addressed masters, sqlite catalog, derived previews",
	Version: Version,
}

func Execute() error {
	return rootCmd.Execute()
}

// ApplyVersion re-applies Version to the root command after embedding.
func ApplyVersion() {
	rootCmd.Version = Version
}

// openArchive loads the config, applies global flag overrides and opens
// the library.
func openArchive() (*internal.Archive, error) {
	cfg, err := internal.LoadConfig()
	if err != nil {
		return nil, err
	}
	if libraryFlag != "" {
		cfg.Library = libraryFlag
	}
	if exiftoolFlag {
		cfg.UseExiftool = true
	}
	return internal.OpenArchive(cfg)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&libraryFlag, "library", "", "Archive library root")
	rootCmd.PersistentFlags().BoolVar(&exiftoolFlag, "exiftool", false, "Force use of the exiftool binary")
}
