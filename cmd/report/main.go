package main

// Build the users report:
//   go run ./cmd/report

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"users-report/internal/batch"
	"users-report/internal/bootstrap"
	"users-report/internal/flatten"
	"users-report/internal/shared/config"
	"users-report/internal/shared/metrics"
	"users-report/internal/shared/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("load config: %v", err)
		os.Exit(1)
	}

	runID := uuid.NewString()
	if err := telemetry.Init(telemetry.Options{
		Level:  cfg.LogLevel,
		File:   cfg.LogFile,
		Fields: map[string]any{"run_id": runID, "env": cfg.Env},
	}); err != nil {
		log.Printf("init logger: %v", err)
		os.Exit(1)
	}
	defer telemetry.Sync()

	if err := run(context.Background(), cfg); err != nil {
		telemetry.Error("report failed", map[string]any{"err": err})
		telemetry.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	started := time.Now()

	app, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close(ctx)

	uids, err := app.BillingRepo.ListPurchasers(ctx)
	if err != nil {
		return err
	}
	telemetry.Info("candidates listed", map[string]any{"count": len(uids)})

	driver := &batch.Driver{
		Builder:            app.ReportService,
		ExpectedFieldCount: cfg.ExpectedFieldCount,
	}
	summary, err := driver.Run(ctx, uids)
	if err != nil {
		return err
	}

	if err := writeOutputs(cfg, summary.Records); err != nil {
		return err
	}
	telemetry.Info("report written", map[string]any{
		"path":       cfg.OutputPath,
		"records":    len(summary.Records),
		"elapsed_ms": time.Since(started).Milliseconds(),
	})
	return nil
}

func writeOutputs(cfg config.Config, records []*flatten.Object) error {
	if err := batch.WriteJSON(cfg.OutputPath, records); err != nil {
		return err
	}
	if cfg.CSVOutputPath != "" {
		if err := batch.WriteCSV(cfg.CSVOutputPath, records); err != nil {
			return err
		}
	}
	if cfg.MetricsPath != "" {
		if err := metrics.WriteFile(cfg.MetricsPath); err != nil {
			return err
		}
	}
	return nil
}
