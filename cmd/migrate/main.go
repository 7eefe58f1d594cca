// Command migrate applies the database schema outside the server process.
// Production deployments run this instead of relying on startup AutoMigrate.
package main

import (
	"os"

	"threads/internal/config"
	"threads/internal/database"
	"threads/internal/middleware"
)

func main() {
	logger := middleware.Logger

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(db); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}

	logger.Info("migration completed", "database", cfg.DBName)
}
