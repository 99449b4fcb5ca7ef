package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"budget/internal/cli"
	"budget/internal/coordinator"
	"budget/internal/ledger"
	"budget/internal/log"
	"budget/internal/view/termview"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		return err
	}

	// The terminal owns stdout; logs go to LOG_FILE or nowhere.
	logger, closeLog, err := cli.SetupFileLogger(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()
	logger = logger.WithComponent(log.ComponentTerminal)

	ctx, stop := cli.SignalContext()
	defer stop()

	opts, closeEvents, err := cli.ConnectEvents(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeEvents()

	l := ledger.New()
	v := termview.NewView(time.Now)
	coord := coordinator.New(l, v, append(opts, coordinator.WithLogger(logger))...)
	coord.Init(ctx)

	p := tea.NewProgram(termview.New(ctx, v, coord), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("terminal ui: %w", err)
	}
	logger.Info("Terminal UI stopped", log.FieldOperation, log.OpShutdown)
	return nil
}
