package main

import (
	"context"
	"os"
	"time"

	"github.com/embracefm/embrace/internal/audio"
	"github.com/embracefm/embrace/internal/catalog"
	"github.com/embracefm/embrace/internal/identity"
	"github.com/embracefm/embrace/internal/playback"
	"github.com/embracefm/embrace/internal/repositories"
	"github.com/embracefm/embrace/internal/services"
	"github.com/embracefm/embrace/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		logger.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if config.Database.Path != ":memory:" {
		shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
	}

	if err := shared.RunMigrations(db); err != nil {
		logger.Fatalf("failed to run migrations: %v", err)
	}

	// Plant the label's demo roster; Seed skips a database that already
	// holds musicians, so file-backed catalogs keep their state.
	if err := repositories.Seed(db); err != nil {
		logger.Fatalf("failed to seed catalog: %v", err)
	}

	var drafter services.BioDrafter
	if svc, err := services.NewGeminiService(config.Credentials.Gemini); err == nil {
		drafter = svc
	}

	cat := catalog.New(db, logger)
	session := identity.New(db, cat, drafter, logger)

	tick := time.Duration(config.Playback.TickMS) * time.Millisecond
	driver := audio.NewClockDriver(tick)
	player := playback.NewSession(driver, cat, logger)
	defer player.Close()

	runner := NewRunner(RunnerOpts{
		Config:  config,
		DB:      db,
		Catalog: cat,
		Session: session,
		Player:  player,
		Drafter: drafter,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "embrace",
		Usage:    "Browse, play, and support the embrace label catalog",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
