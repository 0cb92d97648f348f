package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"users-report/internal/billing"
	"users-report/internal/events"
	"users-report/internal/generatedresumes"
	"users-report/internal/mail"
	"users-report/internal/report"
	"users-report/internal/resumes"
	"users-report/internal/shared/config"
	"users-report/internal/shared/storage/db"
	"users-report/internal/shared/storage/docstore"
	"users-report/internal/shared/telemetry"
	"users-report/internal/users"
	"users-report/internal/vacancies"
)

var (
	connectSQL = db.Connect
	connectDoc = docstore.Connect
	closeDoc   = docstore.Close
)

// App holds the five open source handles and the repositories wired on top.
type App struct {
	Config config.Config

	APIDB       *sql.DB
	BillingDB   *sql.DB
	AnalyticsDB *sql.DB
	SMTPDB      *sql.DB
	Vacancies   *mongo.Client

	UsersRepo     users.Repo
	BillingRepo   billing.Repo
	ReportService *report.Service
}

// Build opens every source. Any failure closes what was already opened and
// aborts; there is no partial-source mode.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	app := &App{Config: cfg}
	opts := db.OptionsFromEnv(db.DefaultReportOptions())

	targets := []struct {
		name string
		url  string
		dst  **sql.DB
	}{
		{"api", cfg.APIDatabaseURL, &app.APIDB},
		{"billing", cfg.BillingDatabaseURL, &app.BillingDB},
		{"analytics", cfg.AnalyticsDatabaseURL, &app.AnalyticsDB},
		{"smtp", cfg.SMTPDatabaseURL, &app.SMTPDB},
	}
	for _, t := range targets {
		conn, err := connectSQL(ctx, t.name, t.url, opts)
		if err != nil {
			app.Close(ctx)
			return nil, fmt.Errorf("connect %s: %w", t.name, err)
		}
		*t.dst = conn
	}

	client, err := connectDoc(ctx, cfg.VacanciesURL)
	if err != nil {
		app.Close(ctx)
		return nil, fmt.Errorf("connect vacancies: %w", err)
	}
	app.Vacancies = client

	app.wire()
	telemetry.Info("sources connected", map[string]any{"vacancies_db": cfg.VacanciesDBName})
	return app, nil
}

func (a *App) wire() {
	usersRepo := &users.PGRepo{DB: a.APIDB}
	billingRepo := &billing.PGRepo{DB: a.BillingDB}

	a.UsersRepo = usersRepo
	a.BillingRepo = billingRepo
	a.ReportService = &report.Service{
		Users:        usersRepo,
		Resumes:      &resumes.PGRepo{DB: a.APIDB},
		GeneratedCVs: &generatedresumes.PGRepo{DB: a.APIDB},
		Events:       &events.PGRepo{DB: a.AnalyticsDB},
		Billing:      billingRepo,
		Mail:         &mail.PGRepo{DB: a.SMTPDB},
		Vacancies:    vacancies.NewMongoRepo(a.Vacancies, a.Config.VacanciesDBName),
		Opts: report.Options{
			ResumeFileBaseURL:   a.Config.ResumeFileBaseURL,
			GeneratedCVBaseURL:  a.Config.GeneratedCVBaseURL,
			ExcludedEmailMarker: a.Config.ExcludedEmailMarker,
			PreloadCutoff:       a.Config.PreloadCutoff(),
			TalentSiteHost:      a.Config.TalentSiteHost,
			InviteContentMarker: a.Config.InviteContentMarker,
		},
	}
}

// Close releases every open handle. It is safe on a partially built App.
func (a *App) Close(ctx context.Context) error {
	if a == nil {
		return nil
	}
	var errs []error
	for _, conn := range []*sql.DB{a.APIDB, a.BillingDB, a.AnalyticsDB, a.SMTPDB} {
		if conn == nil {
			continue
		}
		if err := conn.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.Vacancies != nil {
		if err := closeDoc(ctx, a.Vacancies); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
