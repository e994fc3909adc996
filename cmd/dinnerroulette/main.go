// Package main provides the dinner roulette terminal picker.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/cory-johannsen/dinnerroulette/internal/config"
	"github.com/cory-johannsen/dinnerroulette/internal/frontend/tui"
	"github.com/cory-johannsen/dinnerroulette/internal/observability"
	"github.com/cory-johannsen/dinnerroulette/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (empty = defaults and environment)")
	envFile := flag.String("env-file", ".env", "optional dotenv file loaded before configuration")
	seed := flag.Uint64("seed", 0, "seed for reproducible draws (0 = crypto/rand)")
	flag.Parse()

	if err := run(*configPath, *envFile, *seed); err != nil {
		log.Fatalf("dinner roulette: %v", err)
	}
}

func run(configPath, envFile string, seed uint64) error {
	start := time.Now()

	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", envFile, err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if seed != 0 {
		cfg.Roulette.Seed = seed
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	app, cleanup, err := initializeApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("initializing app", zap.Error(err))
		return err
	}
	defer cleanup()

	app.Controller.Restore(ctx)
	logger.Info("dinner roulette ready",
		zap.String("store", cfg.Store.Backend),
		zap.Duration("startup", time.Since(start)),
	)

	model := tui.New(app.Controller, app.Decoration, logger)
	var opts []tea.ProgramOption
	if cfg.UI.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(model, opts...)

	lc := server.NewLifecycle(logger)
	if app.Decoration != nil {
		quit := make(chan struct{})
		stopped := make(chan struct{})
		lc.Add("backdrop", &server.FuncService{
			StartFn: func() error {
				stop := app.Decoration.Start()
				<-quit
				stop()
				close(stopped)
				return nil
			},
			StopFn: func() {
				close(quit)
				<-stopped
			},
		})
	}
	lc.Add("ui", &server.FuncService{
		StartFn: func() error {
			_, err := program.Run()
			return err
		},
		StopFn: func() {
			program.Quit()
			model.Detach()
		},
	})

	if err := lc.Run(ctx); err != nil {
		return err
	}

	if snap := app.Controller.Snapshot(); snap.HasSelection() {
		fmt.Printf("How about %s?\n", snap.Selected)
	}
	return nil
}
