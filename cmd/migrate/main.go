package main

// Stand up local reference schemas for every relational source:
//   go run ./cmd/migrate

import (
	"context"
	"log"
	"os"

	"users-report/internal/shared/config"
	"users-report/internal/shared/storage/db"
	"users-report/internal/shared/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("load config: %v", err)
		os.Exit(1)
	}
	if err := telemetry.Init(telemetry.Options{Level: cfg.LogLevel, File: cfg.LogFile}); err != nil {
		log.Printf("init logger: %v", err)
		os.Exit(1)
	}
	defer telemetry.Sync()

	ctx := context.Background()
	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())

	for _, source := range db.Sources {
		if err := migrate(ctx, cfg.DatabaseURL(string(source)), source, opts); err != nil {
			telemetry.Error("migration failed", map[string]any{"source": source, "err": err})
			telemetry.Sync()
			os.Exit(1)
		}
		telemetry.Info("migrations applied", map[string]any{"source": source})
	}
}

func migrate(ctx context.Context, url string, source db.Source, opts db.Options) error {
	sqlDB, err := db.Connect(ctx, string(source), url, opts)
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	return db.RunMigrations(ctx, sqlDB, source)
}
