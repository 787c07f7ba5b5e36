package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tuannm99/ditabase"
	"github.com/tuannm99/ditabase/internal"
)

var version = "dev"

func main() {
	var configFlag string

	rootCmd := &cobra.Command{
		Use:     "ditabase",
		Short:   "An embedded typed record store with its own statement language",
		Version: version,
		Long: `ditabase maintains typed, constraint-checked tables and persists
them to a compact binary file (.dtb). Statements are written in the
Ditabase language (.ditabs source files).

Examples:
  ditabase compile schema.ditabs app.dtb   # run a source file into a database
  ditabase shell app.dtb                   # open an interactive shell`,
	}

	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file (yaml)")

	loadConfig := func() *internal.DitabaseConfig {
		if configFlag == "" {
			return internal.DefaultConfig()
		}
		cfg, err := internal.LoadConfig(configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not load config: %v\n", err)
			return internal.DefaultConfig()
		}
		return cfg
	}

	compileCmd := &cobra.Command{
		Use:   "compile <input.ditabs> <output.dtb>",
		Short: "Execute a source file against a database file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(loadConfig())
			if err := ditabase.Compile(args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[1])
			return nil
		},
	}

	shellCmd := &cobra.Command{
		Use:   "shell <database.dtb>",
		Short: "Open an interactive shell over a database file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			setupLogging(cfg)
			return runShell(args[0], cfg)
		},
	}

	rootCmd.AddCommand(compileCmd, shellCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging(cfg *internal.DitabaseConfig) {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
