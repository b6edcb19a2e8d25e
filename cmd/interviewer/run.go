package main

import (
	"github.com/aretw0/interviewer/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an interactive interview in the terminal",
	Long: `Starts an interview over stdin/stdout. Type one of the stop keywords or press
Ctrl+C to finish early; the feedback report is produced either way.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd)
		if err != nil {
			return err
		}
		jsonMode, _ := cmd.Flags().GetBool("json")
		noBanner, _ := cmd.Flags().GetBool("no-banner")
		debug, _ := cmd.Flags().GetBool("debug")

		return app.RunInterview(cmd.Context(), cli.RunOptions{
			JSON:     jsonMode,
			Debug:    debug,
			NoBanner: noBanner,
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	addProfileFlags(runCmd)
	runCmd.Flags().Bool("json", false, "Run in JSON mode (NDJSON input/output)")
	runCmd.Flags().Bool("no-banner", false, "Do not print the banner")
}
