package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/solacelabs/arbor/internal/adapters/templatefile"
	"github.com/solacelabs/arbor/internal/validator"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Manage the template library",
	Long:  `List, inspect, import, and remove questionnaire templates in the store.`,
}

var templatesLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored templates",
	Run: func(cmd *cobra.Command, args []string) {
		lib, closeStore, err := newLibrary(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		defer closeStore()

		templates, err := lib.ListTemplates(cmd.Context())
		if err != nil {
			fmt.Printf("Error listing templates: %v\n", err)
			os.Exit(1)
		}

		if len(templates) == 0 {
			fmt.Println("No templates found.")
			return
		}

		fmt.Println("Templates:")
		for _, t := range templates {
			fmt.Printf("- %s: %s (%d questions)\n", t.ID, t.Title, len(t.Questions))
		}
	},
}

var templatesShowCmd = &cobra.Command{
	Use:   "show <template-id>",
	Short: "Inspect a stored template",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		lib, closeStore, err := newLibrary(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		defer closeStore()

		template, err := lib.GetTemplate(cmd.Context(), args[0])
		if err != nil {
			fmt.Printf("Error loading template '%s': %v\n", args[0], err)
			os.Exit(1)
		}

		data, err := json.MarshalIndent(template, "", "  ")
		if err != nil {
			fmt.Printf("Error marshaling template: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
	},
}

var templatesImportCmd = &cobra.Command{
	Use:   "import <file-or-dir>...",
	Short: "Import YAML templates into the store",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		lib, closeStore, err := newLibrary(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		defer closeStore()

		for _, path := range args {
			info, err := os.Stat(path)
			if err != nil {
				fmt.Printf("Error reading '%s': %v\n", path, err)
				os.Exit(1)
			}

			if info.IsDir() {
				if err := importTemplates(cmd.Context(), lib, path); err != nil {
					fmt.Printf("Error: %v\n", err)
					os.Exit(1)
				}
				continue
			}

			template, err := templatefile.Load(path)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}
			if err := validator.ValidateTemplate(template); err != nil {
				fmt.Printf("Template '%s' failed validation: %v\n", template.ID, err)
				os.Exit(1)
			}
			if err := lib.SaveTemplate(cmd.Context(), template); err != nil {
				fmt.Printf("Error storing '%s': %v\n", template.ID, err)
				os.Exit(1)
			}
			fmt.Printf("Imported template '%s'\n", template.ID)
		}
	},
}

var templatesRmCmd = &cobra.Command{
	Use:   "rm <template-id>...",
	Short: "Remove one or more templates",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		lib, closeStore, err := newLibrary(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		defer closeStore()

		hasError := false
		for _, id := range args {
			if err := lib.DeleteTemplate(cmd.Context(), id); err != nil {
				fmt.Printf("Error removing '%s': %v\n", id, err)
				hasError = true
			} else {
				fmt.Printf("Removed template '%s'\n", id)
			}
		}
		if hasError {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(templatesCmd)
	templatesCmd.AddCommand(templatesLsCmd)
	templatesCmd.AddCommand(templatesShowCmd)
	templatesCmd.AddCommand(templatesImportCmd)
	templatesCmd.AddCommand(templatesRmCmd)
}
