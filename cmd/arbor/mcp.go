package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/solacelabs/arbor"
	mcpadapter "github.com/solacelabs/arbor/pkg/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the questionnaire engine as an MCP server so AI agents can run
sessions as tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Run: func(cmd *cobra.Command, args []string) {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")
		templatesDir, _ := cmd.Flags().GetString("templates")

		logger := newLogger(cmd)
		lib, closeStore, err := newLibrary(cmd)
		if err != nil {
			log.Fatalf("Error initializing store: %v", err)
		}
		defer closeStore()

		if templatesDir != "" {
			if err := importTemplates(cmd.Context(), lib, templatesDir); err != nil {
				log.Fatalf("Error loading templates: %v", err)
			}
		}

		engine := arbor.New(arbor.WithLogger(logger))
		srv := mcpadapter.NewServer(engine, lib, mcpadapter.WithLogger(logger))

		switch transport {
		case "stdio":
			// Keep logs off Stdout so JSON-RPC framing stays intact.
			log.SetOutput(os.Stderr)
			if err := srv.ServeStdio(); err != nil {
				logger.Error("MCP server execution failed", "error", err)
				os.Exit(1)
			}
		case "sse":
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.ServeSSE(ctx, port); err != nil {
				if err != http.ErrServerClosed {
					logger.Error("MCP server execution failed", "error", err)
					os.Exit(1)
				}
			}
			fmt.Println("MCP server stopped gracefully")
		default:
			log.Fatalf("Unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
	mcpCmd.Flags().String("templates", "", "Directory of template YAML files to import at startup")
}
