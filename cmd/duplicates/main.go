package main

// Print users whose emails collide case-insensitively:
//   go run ./cmd/duplicates > duplicates.json

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"os"

	"users-report/internal/shared/config"
	"users-report/internal/shared/storage/db"
	"users-report/internal/shared/telemetry"
	"users-report/internal/users"
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
	sqlDB, err := db.Connect(ctx, "api", cfg.APIDatabaseURL, db.OptionsFromEnv(db.DefaultReportOptions()))
	if err != nil {
		telemetry.Error("connect failed", map[string]any{"err": err})
		telemetry.Sync()
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := run(ctx, &users.PGRepo{DB: sqlDB}, os.Stdout); err != nil {
		telemetry.Error("duplicate lookup failed", map[string]any{"err": err})
		telemetry.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, repo users.Repo, out io.Writer) error {
	pairs, err := repo.FindDuplicateEmails(ctx)
	if err != nil {
		return err
	}
	if pairs == nil {
		pairs = []users.DuplicatePair{}
	}
	telemetry.Info("duplicates found", map[string]any{"pairs": len(pairs)})
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(pairs)
}
