package main

import (
	"github.com/aretw0/interviewer/internal/cli"
	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run an interview against an LLM-played candidate",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd)
		if err != nil {
			return err
		}
		persona, _ := cmd.Flags().GetString("persona")
		answers, _ := cmd.Flags().GetInt("answers")

		return app.Simulate(cmd.Context(), cli.SimulateOptions{
			Persona:    persona,
			MaxAnswers: answers,
		})
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	addProfileFlags(simulateCmd)
	simulateCmd.Flags().String("persona", "", "Candidate persona description (defaults to the profile)")
	simulateCmd.Flags().Int("answers", 0, "Stop after this many answers (0 = until the turn cap)")
}
