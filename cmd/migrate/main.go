package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/cmlabs-hris/biometric-sync/internal/config"
	"github.com/cmlabs-hris/biometric-sync/internal/pkg/database"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return 1
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{MaxConns: 2})
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		return 1
	}
	defer db.Close()

	applied, err := database.Migrate(ctx, db)
	if err != nil {
		slog.Error("Migration failed", "applied", applied, "error", err)
		return 1
	}

	slog.Info("Migrations complete", "applied", applied)
	return 0
}
