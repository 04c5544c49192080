package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/romeonoobcode/Trip-daddy-paywall/internal/config"
	"github.com/romeonoobcode/Trip-daddy-paywall/internal/events"
	"github.com/romeonoobcode/Trip-daddy-paywall/internal/paywall"
)

var (
	configPath string
	logFile    string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "tripdaddy",
	Short: "Trip Daddy - a swipe-driven trip planning wizard",
	Long: `Trip Daddy walks you from a destination to a full day-by-day
itinerary: a few quick forms, a deck of yes/no questions you answer by
swiping, and a generated plan you can edit slot by slot.

Run without a subcommand to start planning a new trip. Use "resume" to
reopen a shared plan by its link.`,
	PersistentPreRunE: loadConfig,
	SilenceUsage:      true,
	SilenceErrors:     true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runWizard(cmd.Context(), paywall.EntryContext{})
	},
}

// Execute runs the root command with signal handling.
func Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "config file")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "help" || cmd.Name() == "version" {
		return nil
	}

	loaded, err := config.LoadWithDefaults(configPath)
	if err != nil {
		return err
	}
	cfg = loaded

	if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0o755); err != nil {
		return fmt.Errorf("could not create data directory: %w", err)
	}

	logger, err := newLogger(cfg.Logging)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	return nil
}

// newLogger builds the process logger. When the wizard runs in a
// terminal, logs go to a file (or are discarded) so they do not tear
// the TUI.
func newLogger(lc config.LoggingConfig) (*slog.Logger, error) {
	var level slog.Level
	switch lc.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	out := os.Stderr
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("could not open log file: %w", err)
		}
		out = f
	} else if isInteractive() {
		f, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
		if err != nil {
			return nil, err
		}
		out = f
	}

	opts := &slog.HandlerOptions{Level: level}
	if lc.Format == "json" {
		return slog.New(slog.NewJSONHandler(out, opts)), nil
	}
	return slog.New(slog.NewTextHandler(out, opts)), nil
}

func isInteractive() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// newBus creates the event bus with the structured-log observer attached
// for the lifetime of ctx.
func newBus(ctx context.Context, logger *slog.Logger) events.Bus {
	bus := events.NewBus()
	events.LogEvents(ctx, bus, logger)
	return bus
}
