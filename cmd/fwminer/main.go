package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"firewalld-traffic-miner/internal/config"
	"firewalld-traffic-miner/internal/firewalld"
	"firewalld-traffic-miner/internal/model"

	"github.com/spf13/cobra"
)

var (
	logLevel string
	logFile  string
	modeFlag string
	dryRun   bool

	// Loaded config
	cfg *config.Config
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fwminer",
		Short: "Mine firewall kernel logs and turn connection attempts into accept rules",
		Long: `fwminer reads netfilter kernel log entries, extracts the connection
	attempts they describe and converts selected ones into firewalld rich
	accept rules. It can also toggle a log-everything diagnostic mode.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogger(logLevel, logFile)
			slog.SetDefault(logger)

			var err error
			cfg, err = config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "INFO", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Log file path (default: stderr)")
	rootCmd.PersistentFlags().StringVar(&modeFlag, "mode", "auto", "Firewalld mode: 'auto' (probe service state), 'online' or 'offline'")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Print the external commands instead of executing them")

	rootCmd.AddCommand(newMineCmd())
	rootCmd.AddCommand(newRuleCmd())
	rootCmd.AddCommand(newLoggingCmd())
	rootCmd.AddCommand(newListCmd())

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogger(level, logFilePath string) *slog.Logger {
	var logWriter io.Writer = os.Stderr
	if logFilePath != "" {
		f, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err == nil {
			logWriter = f
		}
		// We don't log an error here because the logger isn't set up yet.
		// It will just fall back to stderr.
	}

	var lvl slog.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		lvl = slog.LevelDebug
	case "INFO":
		lvl = slog.LevelInfo
	case "WARN":
		lvl = slog.LevelWarn
	case "ERROR":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(logWriter, &slog.HandlerOptions{Level: lvl}))
}

// resolveMode maps the --mode flag to a firewalld mode, probing the
// service state for "auto".
func resolveMode(client *firewalld.Client) (model.Mode, error) {
	switch strings.ToLower(modeFlag) {
	case "online":
		return model.ModeOnline, nil
	case "offline":
		return model.ModeOffline, nil
	case "auto":
		mode, err := client.DetectMode()
		if err != nil {
			return "", err
		}
		slog.Debug("detected firewalld mode", "mode", mode)
		return mode, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want auto, online or offline)", modeFlag)
	}
}
