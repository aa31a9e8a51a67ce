package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/solacelabs/arbor"
	"github.com/solacelabs/arbor/internal/adapters/templatefile"
	"github.com/solacelabs/arbor/internal/validator"
	httpadapter "github.com/solacelabs/arbor/pkg/adapters/http"
	"github.com/solacelabs/arbor/pkg/library"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the stateless HTTP server",
	Long: `Starts the questionnaire engine in stateless server mode. Session state
travels with each request; the server stores templates and completed results.`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")
		templatesDir, _ := cmd.Flags().GetString("templates")

		logger := newLogger(cmd)
		lib, closeStore, err := newLibrary(cmd)
		if err != nil {
			fmt.Printf("Error initializing store: %v\n", err)
			os.Exit(1)
		}
		defer closeStore()

		if templatesDir != "" {
			if err := importTemplates(cmd.Context(), lib, templatesDir); err != nil {
				fmt.Printf("Error loading templates: %v\n", err)
				os.Exit(1)
			}
		}

		engine := arbor.New(arbor.WithLogger(logger))
		handler := httpadapter.NewHandler(engine, lib, httpadapter.WithLogger(logger))

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: handler,
		}

		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Arbor server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Arbor server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("templates", "", "Directory of template YAML files to import at startup")
}

// importTemplates loads a directory of YAML templates into the store,
// skipping (and reporting) any that fail validation.
func importTemplates(ctx context.Context, lib *library.Manager, dir string) error {
	templates, err := templatefile.LoadDir(dir)
	if err != nil {
		return err
	}

	for _, template := range templates {
		if err := validator.ValidateTemplate(template); err != nil {
			return fmt.Errorf("template '%s': %w", template.ID, err)
		}
		if err := lib.SaveTemplate(ctx, template); err != nil {
			return fmt.Errorf("failed to store template '%s': %w", template.ID, err)
		}
	}
	fmt.Printf("Imported %d templates from %s\n", len(templates), dir)
	return nil
}
