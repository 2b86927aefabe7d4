package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	dataPath   string
	verbose    bool
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "elisectl",
	Short: "Maintenance tool for an Elise Reads data directory",
	Long: `elisectl works directly on the database and search index of an
Elise Reads installation. Stop the server before running commands that write.

Examples:
  elisectl orphans check --user usr-abc123
  elisectl search reindex --data-path /var/lib/elisereads
  elisectl seed --file seed.yaml`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataPath, "data-path", "", "Data directory (default: DATA_PATH or ~/EliseReads/data)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}
