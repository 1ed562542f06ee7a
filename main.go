package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/tablerohq/tablero/internal/config"
	"github.com/tablerohq/tablero/internal/logging"
	"github.com/tablerohq/tablero/internal/policy"
	"github.com/tablerohq/tablero/internal/remote"
	"github.com/tablerohq/tablero/internal/tui"
	"github.com/tablerohq/tablero/internal/types"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "tablero: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// The log file is the only place logs can go once the TUI owns the
	// terminal
	if err := logging.Init("tablero"); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	pol := policy.Default()
	if cfg.PolicyFile != "" {
		pol, err = policy.LoadFile(cfg.PolicyFile)
		if err != nil {
			return fmt.Errorf("failed to load policy: %w", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	projectID := types.ProjectID(cfg.ProjectID)
	client := remote.NewClient(cfg.DaemonURL)
	if err := client.Health(ctx); err != nil {
		return fmt.Errorf("daemon is not running at %s: %w", cfg.DaemonURL, err)
	}

	subscriber := remote.NewSubscriber(cfg.DaemonURL, projectID)
	go subscriber.Listen(ctx)

	model := tui.InitialModel(ctx, projectID, client, pol, subscriber.Events())

	p := tea.NewProgram(model)
	if _, err := p.Run(); err != nil {
		slog.Error("program error", "error", err)
		return err
	}
	return nil
}
