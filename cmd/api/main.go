// Package main is the entry point for the Priority-To-Do server.
// Its sole responsibility is wiring dependencies together and starting the
// server or the migration tool. No business logic belongs here.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pkordes/priority-todo/internal/config"
)

// Flags shared by every subcommand. Each one, when set, overrides the
// matching environment variable.
var (
	logLevel   string
	storeFlag  string
	sqlitePath string
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "api",
	Short: "Priority-To-Do web server",
	Long: `Priority-To-Do serves server-rendered to-do lists.

Configuration comes from environment variables (PORT, STORE_DRIVER,
DATABASE_URL, SQLITE_PATH, LOG_LEVEL, CORS_ORIGINS, MAX_BODY_BYTES,
DB_CONNECT_TIMEOUT, AUTO_MIGRATE). Flags override them.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Minimum log level: debug, info, warn, error (env LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&storeFlag, "store", "", "Store driver: postgres or sqlite (env STORE_DRIVER)")
	rootCmd.PersistentFlags().StringVar(&sqlitePath, "sqlite-path", "", "SQLite database file (env SQLITE_PATH)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		// cobra has already printed the error; log it for aggregators too.
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// loadConfig reads the environment and applies flags that were set on cmd.
func loadConfig(cmd *cobra.Command, extra ...config.Override) (config.Config, error) {
	flags := cmd.Flags()
	overrides := []config.Override{func(c *config.Config) {
		if flags.Changed("log-level") {
			c.LogLevel = logLevel
		}
		if flags.Changed("store") {
			c.StoreDriver = storeFlag
		}
		if flags.Changed("sqlite-path") {
			c.SQLitePath = sqlitePath
		}
	}}
	return config.Load(append(overrides, extra...)...)
}

// newLogger builds the JSON logger used by every command and installs it as
// the slog default.
func newLogger(level string) *slog.Logger {
	// JSON handler writes machine-readable output suitable for log aggregators.
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: lvl,
	}))
	slog.SetDefault(logger)
	return logger
}
