package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/quantdesk/quantdesk/internal/client"
	"github.com/quantdesk/quantdesk/internal/client/labserver"
	"github.com/quantdesk/quantdesk/internal/config"
	"github.com/quantdesk/quantdesk/internal/logger"
	"github.com/quantdesk/quantdesk/internal/workspace"
)

// workbenchAction wires the config, lab client, and workspace controller
// together and runs the Bubble Tea program.
func workbenchAction(_ context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Flags override the config file.
	if server := cmd.String("server"); server != "" {
		cfg.ServerURL = server
	}

	if interval := cmd.Duration("poll-interval"); interval > 0 {
		cfg.PollInterval = interval
	}

	if favorites := cmd.String("favorites"); favorites != "" {
		cfg.FavoritesPath = favorites
	}

	l, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	// Demo mode runs an in-process lab backend with seeded strategies.
	if cmd.Bool("demo") {
		demo := labserver.NewServer()
		if err := demo.Start(); err != nil {
			return fmt.Errorf("failed to start demo backend: %w", err)
		}
		defer func() {
			if err := demo.Stop(); err != nil {
				l.Error("failed to stop demo backend", zap.Error(err))
			}
		}()

		cfg.ServerURL = demo.URL()
	}

	remote, err := client.NewClient(client.ClientConfig{
		BaseURL: cfg.ServerURL,
		Timeout: cfg.HTTPTimeout,
	}, l)
	if err != nil {
		return fmt.Errorf("failed to create lab client: %w", err)
	}

	favorites, err := workspace.LoadFavorites(cfg.FavoritesPath)
	if err != nil {
		return fmt.Errorf("failed to load favorites: %w", err)
	}

	ws := workspace.NewController(remote, favorites, cfg.PollInterval, l)
	defer ws.Close()

	model := NewModel(ws)
	program := tea.NewProgram(&model, tea.WithAltScreen())
	model.SetProgram(program)

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run workbench: %w", err)
	}

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "workbench",
		Usage: "Terminal workbench for editing, backtesting, tuning, and paper trading strategies",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML config file",
			},
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Usage:   "Base URL of the strategy lab backend",
			},
			&cli.DurationFlag{
				Name:  "poll-interval",
				Usage: "Live paper-session refresh interval",
				Value: 0 * time.Second,
			},
			&cli.StringFlag{
				Name:  "favorites",
				Usage: "Path to the starred-strategy file",
			},
			&cli.BoolFlag{
				Name:  "demo",
				Usage: "Run against an in-process demo backend with seeded strategies",
			},
		},
		Action: workbenchAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
