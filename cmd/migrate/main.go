package main

// Run database migrations:
//   go run ./cmd/migrate

import (
	"context"
	"log"
	"os"

	"resume-ats-backend/internal/shared/config"
	"resume-ats-backend/internal/shared/storage/db"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	if cfg.DatabasePath == "" {
		log.Printf("DATABASE_PATH is not set; nothing to migrate")
		os.Exit(1)
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabasePath, db.DefaultOptions())
	if err != nil {
		log.Printf("failed to open database: %v", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		log.Printf("failed to run migrations: %v", err)
		os.Exit(1)
	}
	log.Printf("migrations applied to %s", cfg.DatabasePath)
}
