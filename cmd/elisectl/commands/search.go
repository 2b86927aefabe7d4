package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/elisereads/elisereads-server/cmd/elisectl/output"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Manage the search index",
}

var searchReindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the search index from the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		start := time.Now()
		count, err := a.search.Reindex(cmd.Context())
		if err != nil {
			return err
		}
		took := time.Since(start)

		if jsonOutput {
			return output.JSON(map[string]any{
				"documents": count,
				"tookMs":    took.Milliseconds(),
			})
		}
		output.Success("Indexed %d documents in %s", count, took.Round(time.Millisecond))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.AddCommand(searchReindexCmd)
}
