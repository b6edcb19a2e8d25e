package main

import (
	"github.com/spf13/cobra"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Inspect persisted interview logs",
}

var logsListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List interview log ids",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd)
		if err != nil {
			return err
		}
		return app.ListLogs(cmd.Context())
	},
}

var logsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one interview log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd)
		if err != nil {
			return err
		}
		raw, _ := cmd.Flags().GetBool("json")
		return app.ShowLog(cmd.Context(), args[0], raw)
	},
}

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.AddCommand(logsListCmd, logsShowCmd)
	logsShowCmd.Flags().Bool("json", false, "Print the raw JSON document")
}
