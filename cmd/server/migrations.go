package main

import (
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"

	"github.com/tbonnaire/mnemo-api/internal/config"
	"github.com/tbonnaire/mnemo-api/migrations"
)

// handleMigrations executes the requested goose command against the
// configured database and returns. Only meaningful with the postgres
// store backend.
func handleMigrations(cfg *config.Config, command string) error {
	if cfg.Store.Backend != "postgres" {
		return fmt.Errorf("migrations require the postgres store backend, got %q", cfg.Store.Backend)
	}

	db, err := setupAppDatabase(cfg, slog.Default())
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	slog.Info("Executing migrations", "command", command)

	switch command {
	case "up":
		return goose.Up(db, ".")
	case "down":
		return goose.Down(db, ".")
	case "status":
		return goose.Status(db, ".")
	default:
		return fmt.Errorf("unknown migration command %q (expected up, down, or status)", command)
	}
}
