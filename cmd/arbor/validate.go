package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/solacelabs/arbor/internal/adapters/templatefile"
	"github.com/solacelabs/arbor/internal/validator"
)

var validateCmd = &cobra.Command{
	Use:   "validate <template.yaml|dir>...",
	Short: "Check templates for consistency",
	Long:  `Loads one or more template files (or directories of templates) and reports structural problems such as unknown question types, dead branch targets or missing options.`,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(args); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Templates are valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(args []string) error {
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return err
		}

		if info.IsDir() {
			templates, err := templatefile.LoadDir(arg)
			if err != nil {
				return err
			}
			for _, t := range templates {
				if err := validator.ValidateTemplate(t); err != nil {
					return fmt.Errorf("template '%s': %w", t.ID, err)
				}
			}
			continue
		}

		t, err := templatefile.Load(arg)
		if err != nil {
			return err
		}
		if err := validator.ValidateTemplate(t); err != nil {
			return fmt.Errorf("%s: %w", filepath.Base(arg), err)
		}
	}
	return nil
}
