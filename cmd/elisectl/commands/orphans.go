package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/elisereads/elisereads-server/cmd/elisectl/output"
)

var orphansUser string

var orphansCmd = &cobra.Command{
	Use:   "orphans",
	Short: "Inspect and claim content owned by accounts that no longer exist",
}

var orphansCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Count records not owned by the given user",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		report, err := a.migrations.CheckOrphans(cmd.Context(), orphansUser)
		if err != nil {
			return err
		}
		if jsonOutput {
			return output.JSON(report)
		}

		output.KeyValue("User", report.CurrentUserID)
		output.KeyValue("Books", fmtOrphans(report.OrphanedBooks, report.TotalBooks))
		output.KeyValue("Artworks", fmtOrphans(report.OrphanedArtworks, report.TotalArtworks))
		output.KeyValue("Series", fmtOrphans(report.OrphanedSeries, report.TotalSeries))
		if verbose {
			for _, b := range report.OrphanedBookIDs {
				output.Muted("  %s  %s (owner %s)", b.ID, b.Title, b.OldUserID)
			}
		}
		return nil
	},
}

var orphansClaimCmd = &cobra.Command{
	Use:   "claim",
	Short: "Reassign every orphaned record to the given user",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.migrations.ClaimOrphans(cmd.Context(), orphansUser)
		if err != nil {
			return err
		}
		if jsonOutput {
			return output.JSON(result)
		}

		output.Success("Claimed %d books, %d artworks and %d series for %s",
			result.BooksUpdated, result.ArtworksUpdated, result.SeriesUpdated, result.NewUserID)
		return nil
	},
}

func fmtOrphans(orphaned, total int) string {
	return fmt.Sprintf("%d orphaned of %d", orphaned, total)
}

func init() {
	rootCmd.AddCommand(orphansCmd)
	orphansCmd.AddCommand(orphansCheckCmd, orphansClaimCmd)

	orphansCmd.PersistentFlags().StringVar(&orphansUser, "user", "", "User ID that should own the content (required)")
	_ = orphansCmd.MarkPersistentFlagRequired("user")
}
