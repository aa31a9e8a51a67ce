package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/solacelabs/arbor"
	"github.com/solacelabs/arbor/internal/adapters/templatefile"
	"github.com/solacelabs/arbor/internal/presentation/tui"
	"github.com/solacelabs/arbor/internal/validator"
	"github.com/solacelabs/arbor/pkg/domain"
	"github.com/solacelabs/arbor/pkg/runner"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [template.yaml]",
	Short: "Run a questionnaire session interactively",
	Long: `Starts an interactive session for a template. The template is read from
a YAML file, or from the store when --id is used. Completed sessions are
persisted unless --preview is set.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSession(cmd, args); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("id", "", "Run a template stored in the library instead of a file")
	runCmd.Flags().Bool("preview", false, "Run the session without saving the result")
	runCmd.Flags().Bool("plain", false, "Disable markdown rendering and the banner")
}

func runSession(cmd *cobra.Command, args []string) error {
	template, err := resolveTemplate(cmd, args)
	if err != nil {
		return err
	}

	if err := validator.ValidateTemplate(template); err != nil {
		return fmt.Errorf("template '%s' failed validation: %w", template.ID, err)
	}

	logger := newLogger(cmd)
	lib, closeStore, err := newLibrary(cmd)
	if err != nil {
		return err
	}
	defer closeStore()

	preview, _ := cmd.Flags().GetBool("preview")
	plain, _ := cmd.Flags().GetBool("plain")

	opts := []runner.Option{
		runner.WithLogger(logger),
		runner.WithLibrary(lib),
		runner.WithPreview(preview),
	}
	if !plain {
		tui.PrintBanner()
		opts = append(opts, runner.WithRenderer(tui.NewRenderer()))
	}

	engine := arbor.New(arbor.WithLogger(logger))
	r := runner.NewRunner(opts...)

	result, err := r.Run(cmd.Context(), engine, template)
	if err != nil {
		return err
	}
	if result == nil {
		fmt.Println("Session ended without completing.")
		return nil
	}

	fmt.Printf("\nSession %s completed (%d questions answered).\n", result.SessionID, len(result.PathTaken))
	if preview {
		fmt.Println("Preview mode: result was not saved.")
	}
	return nil
}

func resolveTemplate(cmd *cobra.Command, args []string) (*domain.Template, error) {
	templateID, _ := cmd.Flags().GetString("id")

	if templateID != "" {
		lib, closeStore, err := newLibrary(cmd)
		if err != nil {
			return nil, err
		}
		defer closeStore()
		return lib.GetTemplate(cmd.Context(), templateID)
	}

	if len(args) == 0 {
		return nil, fmt.Errorf("provide a template file or --id")
	}
	return templatefile.Load(args[0])
}
