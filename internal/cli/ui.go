package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/opsdeck/opsdeck/internal/config"
	"github.com/opsdeck/opsdeck/internal/logfeed"
	"github.com/opsdeck/opsdeck/internal/tui"
	"github.com/opsdeck/opsdeck/internal/upstream"
)

// UICmd launches the interactive dashboard
type UICmd struct {
	Layout string `short:"l" enum:"hierarchical,circular,grid,force," help:"Initial positioning algorithm (overrides saved state)"`
	Live   bool   `help:"Start with the live log feed enabled"`
}

// Run executes the ui command
func (c *UICmd) Run(globals *Globals) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return outputError(globals, CodeInvalidFlag,
			"the dashboard needs an interactive terminal",
			"use 'opsdeck graph' or 'opsdeck logs' for scripted output")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	cfg := globals.Config

	statePath, err := config.StatePath()
	if err != nil {
		globals.Debug("state path unavailable: %v", err)
	}
	state := config.LoadState(statePath)
	if c.Layout != "" {
		state.Layout = c.Layout
	}
	if c.Live {
		state.Live = true
	}

	client := upstream.NewClient(cfg.Upstream.URL, cfg.Upstream.Timeout)
	source := upstream.NewSource(client, cfg.Upstream.LogLimit, globals.Logger)
	feed := logfeed.NewFeed(source.FetchLogs, cfg.Dashboard.LiveInterval, nil, globals.Logger)
	defer feed.Stop()

	model := tui.New(cfg, state, source, feed, nil, globals.Logger)

	globals.Debug("Starting dashboard against %s", cfg.Upstream.URL)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard error: %w", err)
	}
	return nil
}
