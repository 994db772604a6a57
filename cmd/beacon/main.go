package main

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nodebeacon/beacon/internal/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

type rootFlags struct {
	configPath string
	logLevel   string
}

func main() {
	os.Exit(run(newRootCmd()))
}

// run executes cmd and reports a failure on the command's error stream.
func run(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), nil)).Error("beacon failed", "err", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "beacon",
		Short:         "Hive RPC node monitor",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			setupLogger(cmd.ErrOrStderr(), flags.logLevel)
			return config.LoadDotenv()
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "path to config file (built-in defaults when empty)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "debug | info | warn | error")

	cmd.AddCommand(newServeCmd(flags))
	cmd.AddCommand(newScanCmd(flags))
	cmd.AddCommand(newChecksCmd(flags))
	return cmd
}

func setupLogger(w io.Writer, level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
}

func loadConfig(flags *rootFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		slog.Error("failed to load config", "path", flags.configPath, "err", err)
		return nil, err
	}
	slog.Info("config loaded",
		"nodes", len(cfg.Nodes),
		"interval", cfg.Scanner.Interval,
		"http_port", cfg.Server.HTTPPort,
		"custom_battery", len(cfg.Battery.Checks) > 0,
	)
	return cfg, nil
}
