package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/solacelabs/arbor/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [template.yaml]",
	Short: "Export the template flow visualization",
	Long:  `Inspects a template and outputs a Mermaid diagram (graph TD) representing its question flow, including branch edges and the final mood capture step.`,
	Run: func(cmd *cobra.Command, args []string) {
		template, err := resolveTemplate(cmd, args)
		if err != nil {
			fmt.Printf("Error loading template: %v\n", err)
			os.Exit(1)
		}

		// Generate and print Mermaid graph
		output := graph.GenerateMermaid(template, nil)
		fmt.Print(output)
	},
}

func init() {
	graphCmd.Flags().String("id", "", "Render a stored template by id instead of a file")
	rootCmd.AddCommand(graphCmd)
}
