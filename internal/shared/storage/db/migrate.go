package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"path"

	"github.com/pressly/goose/v3"
)

//go:embed migrations
var migrationFiles embed.FS

// Source names a relational source with its own reference schema.
type Source string

const (
	SourceAPI       Source = "api"
	SourceBilling   Source = "billing"
	SourceAnalytics Source = "analytics"
	SourceSMTP      Source = "smtp"
)

// Sources lists every relational source in provisioning order.
var Sources = []Source{SourceAPI, SourceBilling, SourceAnalytics, SourceSMTP}

// RunMigrations applies the embedded reference schema for source via goose.
// The report never writes; this exists to stand up local dev databases.
// If database is nil, it's a no-op.
func RunMigrations(ctx context.Context, database *sql.DB, source Source) error {
	if database == nil {
		return nil
	}
	dir := path.Join("migrations", string(source))
	if _, err := migrationFiles.ReadDir(dir); err != nil {
		return fmt.Errorf("unknown source %q: %w", source, err)
	}
	goose.SetBaseFS(migrationFiles)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, database, dir)
}
