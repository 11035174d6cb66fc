package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zappabad/pctmarket/internal/chart"
	"github.com/zappabad/pctmarket/internal/client"
	"github.com/zappabad/pctmarket/internal/config"
	"github.com/zappabad/pctmarket/internal/logger"
	"github.com/zappabad/pctmarket/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Log.File == "" {
		cfg.Log.File = "pctmarket-terminal.log"
	}

	log, err := client.NewLogger(cfg.Log, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	c := client.New(client.FromEnv(cfg), log)
	defer c.Close()

	go func() {
		if err := c.Run(ctx); err != nil {
			log.Error(err)
		}
	}()

	log.Info("terminal client started",
		logger.NewField("participant", cfg.Participant.ID),
		logger.NewField("backend", cfg.Backend.URL),
		logger.NewField("session", c.Session.ID()),
	)

	p := tea.NewProgram(tui.NewModel(c.Session, chart.AssetNoun(cfg.Market.Framing)), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		log.Error(err)
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
