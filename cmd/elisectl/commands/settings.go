package commands

import (
	"github.com/spf13/cobra"

	"github.com/elisereads/elisereads-server/cmd/elisectl/output"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Inspect site settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective site settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		st, err := a.settings.Get(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return output.JSON(st)
		}

		output.KeyValue("Site name", st.SiteName)
		output.KeyValue("Hero title", st.HeroTitle)
		output.KeyValue("Hero subtitle", st.HeroSubtitle)
		output.KeyValue("Hero description", st.HeroDescription)
		output.KeyValue("Hero image", st.HeroImageURL)
		if st.UpdatedAt.IsZero() {
			output.Muted("Defaults, never saved")
		} else {
			output.KeyValue("Updated", st.UpdatedAt.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsShowCmd)
}
