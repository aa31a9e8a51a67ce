package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/solacelabs/arbor/internal/logging"
	"github.com/solacelabs/arbor/pkg/adapters/file"
	"github.com/solacelabs/arbor/pkg/adapters/memory"
	redisadapter "github.com/solacelabs/arbor/pkg/adapters/redis"
	"github.com/solacelabs/arbor/pkg/library"
	"github.com/solacelabs/arbor/pkg/ports"
)

var rootCmd = &cobra.Command{
	Use:   "arbor",
	Short: "Arbor runs branching questionnaire sessions",
	Long: `Arbor is a template-driven questionnaire engine for guided check-ins.
Templates define ordered questions with optional branch rules; sessions walk
them interactively or over HTTP/MCP, ending in a mood capture.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("store", "file", "Storage backend: memory, file, or redis")
	rootCmd.PersistentFlags().String("data-dir", ".arbor", "Base directory for the file store")
	rootCmd.PersistentFlags().String("redis-addr", "localhost:6379", "Redis address (store=redis)")
	rootCmd.PersistentFlags().String("redis-password", "", "Redis password (store=redis)")
	rootCmd.PersistentFlags().Int("redis-db", 0, "Redis database (store=redis)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn, error")
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	levelStr, _ := cmd.Flags().GetString("log-level")
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		level = slog.LevelWarn
	}
	return logging.New(level)
}

// newLibrary builds the template/result storage from the persistent
// flags. The returned closer is a no-op for memory and file stores.
func newLibrary(cmd *cobra.Command) (*library.Manager, func(), error) {
	backend, _ := cmd.Flags().GetString("store")

	switch backend {
	case "memory":
		return library.NewManager(memory.NewStore()), func() {}, nil

	case "file":
		dataDir, _ := cmd.Flags().GetString("data-dir")
		return library.NewManager(file.New(dataDir)), func() {}, nil

	case "redis":
		addr, _ := cmd.Flags().GetString("redis-addr")
		password, _ := cmd.Flags().GetString("redis-password")
		db, _ := cmd.Flags().GetInt("redis-db")

		store := redisadapter.New(addr, password, db)
		var locker ports.DistributedLocker = redisadapter.NewLocker(store.Client(), "arbor:")
		lib := library.NewManager(store, library.WithLocker(locker))
		return lib, func() { _ = store.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q (supported: memory, file, redis)", backend)
	}
}
