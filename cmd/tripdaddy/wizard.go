package main

import (
	"context"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/romeonoobcode/Trip-daddy-paywall/internal/genai"
	"github.com/romeonoobcode/Trip-daddy-paywall/internal/payments"
	"github.com/romeonoobcode/Trip-daddy-paywall/internal/paywall"
	"github.com/romeonoobcode/Trip-daddy-paywall/internal/store"
	"github.com/romeonoobcode/Trip-daddy-paywall/internal/tui"
	"github.com/romeonoobcode/Trip-daddy-paywall/internal/wizard"
)

// runWizard wires the full planning stack and hands the terminal to the
// TUI. entry decides whether we start fresh, resume a saved plan, or
// verify a payment return before showing anything.
func runWizard(ctx context.Context, entry paywall.EntryContext) error {
	logger := slog.Default()

	db, err := store.Open(cfg.Store.Path, cfg.Paywall.FreeDays, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	model, err := genai.NewModel(cfg.Generation.Provider, cfg.Generation.Model, cfg.Generation.APIKey)
	if err != nil {
		return err
	}

	opts := []genai.Option{
		genai.WithStore(db),
		genai.WithRateLimit(cfg.Generation.RateLimit, cfg.Generation.Burst),
		genai.WithLogger(logger),
	}
	if cfg.Images.Enabled {
		opts = append(opts, genai.WithImageClient(
			genai.NewOpenAIImages(cfg.Images.APIKey, cfg.Images.BaseURL, cfg.Images.Model)))
	}
	svc := genai.NewService(model, opts...)

	pay := payments.NewClient(cfg.Payments.BaseURL, cfg.Payments.Timeout, logger)

	bus := newBus(ctx, logger)
	defer bus.Close()

	orch := wizard.New(wizard.Deps{
		Validator: svc,
		Questions: svc,
		Generator: svc,
		Store:     db,
		Payments:  pay,
		Email:     db,
		Bus:       bus,
		Logger:    logger,
	}, wizard.Options{
		SwipeThreshold: cfg.Swipe.Threshold,
		AnimationLock:  cfg.Swipe.AnimationLock,
		FreeDays:       cfg.Paywall.FreeDays,
	})

	if err := orch.Resume(ctx, entry); err != nil {
		return fmt.Errorf("could not open session %q: %w", entry.Locator, err)
	}

	program := tea.NewProgram(tui.NewApp(ctx, orch), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = program.Run()
	return err
}
