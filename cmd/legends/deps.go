package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ersonp/legends-core/internal/application/handlers"
	"github.com/ersonp/legends-core/internal/domain/services"
	"github.com/ersonp/legends-core/internal/infrastructure/config"
	"github.com/ersonp/legends-core/internal/infrastructure/relationaldb/sqlite"
)

// deps holds high-level dependencies for commands. Only handlers are
// exposed; services and the repository stay internal.
type deps struct {
	Config        *config.Config
	ImportHandler *handlers.ImportHandler
	StatsHandler  *handlers.StatsHandler
}

// withDeps loads config and builds dependencies, then calls the provided
// function. It handles cleanup automatically.
func withDeps(fn func(*deps) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := sqlite.NewRepository(cfg.SQLite)
	if err != nil {
		return fmt.Errorf("creating sqlite repository: %w", err)
	}
	defer store.Close()

	importService := services.NewImportService(store, slog.Default(), services.ImportOptions{
		BatchSize:     cfg.Import.BatchSize,
		MaxPending:    cfg.Import.MaxPending,
		ProgressEvery: cfg.Import.ProgressEvery,
	})

	return fn(&deps{
		Config:        cfg,
		ImportHandler: handlers.NewImportHandler(importService),
		StatsHandler:  handlers.NewStatsHandler(store),
	})
}
