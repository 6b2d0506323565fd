package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"restaurant-availability-backend/config"
	"restaurant-availability-backend/internal/logging"
)

var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "tablesd",
		Short:         "Restaurant table availability and reservation service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to the YAML config (default $CONFIG_PATH or ./config/config.yaml)")

	load := func() (*config.Config, error) {
		return loadConfig(configPath)
	}
	root.AddCommand(newServeCmd(load))
	root.AddCommand(newSlotsCmd(load))
	root.AddCommand(newVersionCmd())
	return root
}

// loadConfig reads .env when present, resolves the config path and installs
// the process logger.
func loadConfig(path string) (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration from %s: %w", path, err)
	}
	logging.Setup(os.Stderr, logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	slog.Debug("configuration loaded", slog.String("path", path))
	return cfg, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tablesd %s (commit=%s, built=%s)\n", Version, CommitSHA, BuildDate)
		},
	}
}
