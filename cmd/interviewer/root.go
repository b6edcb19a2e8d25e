package main

import (
	"fmt"
	"os"

	"github.com/aretw0/interviewer/internal/cli"
	"github.com/aretw0/interviewer/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var rootCmd = &cobra.Command{
	Use:   "interviewer",
	Short: "Interviewer conducts technical interviews driven by an LLM",
	Long: `Interviewer runs a mock technical interview: it asks questions, classifies the
candidate's answers, adapts the difficulty and writes a feedback report to a log.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the YAML config file (default interviewer.yaml if present)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("sink", "", "Log sink: file, memory, redis, s3, postgres or sqlite")
	rootCmd.PersistentFlags().String("model", "", "LLM model name")

	rootCmd.SilenceErrors = true
}

// loadApp resolves configuration for cmd and builds the CLI application.
func loadApp(cmd *cobra.Command) (*cli.App, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	applyFlags(cmd.Flags(), cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	debug, _ := cmd.Flags().GetBool("debug")
	return cli.NewApp(cfg, cli.NewLogger(cfg, debug)), nil
}

// applyFlags overrides cfg with flags set on the command line.
func applyFlags(flags *pflag.FlagSet, cfg *config.Config) {
	str := func(name string, dst *string) {
		if flags.Lookup(name) != nil && flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	str("sink", &cfg.Sink.Kind)
	str("model", &cfg.LLM.Model)
	str("name", &cfg.Interview.ParticipantName)
	str("position", &cfg.Interview.Position)
	str("grade", &cfg.Interview.TargetGrade)
	str("experience", &cfg.Interview.Experience)
	str("addr", &cfg.HTTP.Addr)

	if flags.Lookup("max-turns") != nil && flags.Changed("max-turns") {
		cfg.Interview.MaxTurns, _ = flags.GetInt("max-turns")
	}
}

// addProfileFlags registers the interview profile flags on cmd.
func addProfileFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "Participant name")
	cmd.Flags().String("position", "", "Position being interviewed for")
	cmd.Flags().String("grade", "", "Target grade (Junior, Middle, Senior)")
	cmd.Flags().String("experience", "", "Short description of the candidate's experience")
	cmd.Flags().Int("max-turns", 0, "Turn cap")
}
