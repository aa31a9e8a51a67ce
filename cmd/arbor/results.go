package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/solacelabs/arbor/pkg/domain"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Inspect completed session results",
}

var resultsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored results",
	Run: func(cmd *cobra.Command, args []string) {
		lib, closeStore, err := newLibrary(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		defer closeStore()

		results, err := lib.ListResults(cmd.Context())
		if err != nil {
			fmt.Printf("Error listing results: %v\n", err)
			os.Exit(1)
		}

		if len(results) == 0 {
			fmt.Println("No results found.")
			return
		}

		fmt.Println("Results:")
		for _, r := range results {
			mood := r.Answers[domain.MoodAnswerKey]
			fmt.Printf("- %s: %s at %s (mood %v, %d questions)\n",
				r.SessionID, r.TemplateTitle, r.CompletedAt.Format("2006-01-02 15:04"), mood, len(r.PathTaken))
		}
	},
}

var resultsShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Inspect a session result",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		lib, closeStore, err := newLibrary(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		defer closeStore()

		result, err := lib.GetResult(cmd.Context(), args[0])
		if err != nil {
			fmt.Printf("Error loading result '%s': %v\n", args[0], err)
			os.Exit(1)
		}

		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			fmt.Printf("Error marshaling result: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
	},
}

func init() {
	rootCmd.AddCommand(resultsCmd)
	resultsCmd.AddCommand(resultsLsCmd)
	resultsCmd.AddCommand(resultsShowCmd)
}
