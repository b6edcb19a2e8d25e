package main

import (
	"fmt"

	"github.com/aretw0/interviewer"
	"github.com/aretw0/interviewer/internal/presentation/graph"
	"github.com/aretw0/interviewer/pkg/domain"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the interview flow as a Mermaid diagram",
	Long:  `Outputs a Mermaid diagram (graph TD) of the interview nodes and their transitions.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		current, _ := cmd.Flags().GetString("current")

		var overlay *graph.GraphOverlay
		if current != "" {
			overlay = &graph.GraphOverlay{CurrentNode: domain.NodeID(current)}
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(interviewer.GraphEdges(), domain.NodeGreeting, overlay))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("current", "", "Highlight this node")
}
