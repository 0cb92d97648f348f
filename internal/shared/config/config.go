package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

const cutoffLayout = "2006-01-02"

// Config holds the report configuration.
type Config struct {
	APIDatabaseURL       string `env:"API_DB,required"`
	BillingDatabaseURL   string `env:"BILLING_DB,required"`
	AnalyticsDatabaseURL string `env:"ANALYTICS_DB,required"`
	SMTPDatabaseURL      string `env:"SMTP_DB,required"`
	VacanciesURL         string `env:"VACANCIES_DB,required"`
	VacanciesDBName      string `env:"VACANCIES_DB_NAME" envDefault:"vacancy_storage"`

	OutputPath         string `env:"OUTPUT_PATH" envDefault:"users-data.json"`
	CSVOutputPath      string `env:"CSV_OUTPUT_PATH"`
	MetricsPath        string `env:"METRICS_PATH"`
	ExpectedFieldCount int    `env:"EXPECTED_FIELD_COUNT" envDefault:"126"`

	ResumeFileBaseURL   string `env:"RESUME_FILE_BASE_URL" envDefault:"https://api.jobhire.ai/"`
	GeneratedCVBaseURL  string `env:"GENERATED_CV_BASE_URL" envDefault:"http://5.161.185.218:4004/"`
	ExcludedEmailMarker string `env:"EXCLUDED_EMAIL_MARKER" envDefault:"hotger"`
	PreloadCutoffRaw    string `env:"PRELOAD_CUTOFF_DATE" envDefault:"2024-05-15"`
	TalentSiteHost      string `env:"TALENT_SITE_HOST" envDefault:"www.talent.com"`
	InviteContentMarker string `env:"INVITE_CONTENT_MARKER" envDefault:"calendly.com"`

	Env      string `env:"ENV" envDefault:"dev"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`

	preloadCutoff time.Time
}

// Load reads configuration from local env files and the process environment.
func Load() (Config, error) {
	// Best-effort load of local env files; existing variables win.
	loadEnvFiles(".env", "cmd/.env")

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Env = normalizeEnv(cfg.Env)
	if err := cfg.finalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// PreloadCutoff returns the parsed PRELOAD_CUTOFF_DATE (UTC midnight).
func (c Config) PreloadCutoff() time.Time {
	return c.preloadCutoff
}

// DatabaseURL returns the connection string of a relational source by name
// (api, billing, analytics, smtp), or "" for an unknown name.
func (c Config) DatabaseURL(source string) string {
	switch source {
	case "api":
		return c.APIDatabaseURL
	case "billing":
		return c.BillingDatabaseURL
	case "analytics":
		return c.AnalyticsDatabaseURL
	case "smtp":
		return c.SMTPDatabaseURL
	default:
		return ""
	}
}

func (c *Config) finalize() error {
	sources := []struct{ key, val string }{
		{"API_DB", c.APIDatabaseURL},
		{"BILLING_DB", c.BillingDatabaseURL},
		{"ANALYTICS_DB", c.AnalyticsDatabaseURL},
		{"SMTP_DB", c.SMTPDatabaseURL},
		{"VACANCIES_DB", c.VacanciesURL},
	}
	for _, src := range sources {
		if strings.TrimSpace(src.val) == "" {
			return fmt.Errorf("%s is required", src.key)
		}
	}
	if c.ExpectedFieldCount <= 0 {
		return fmt.Errorf("EXPECTED_FIELD_COUNT must be positive, got %d", c.ExpectedFieldCount)
	}
	cutoff, err := time.Parse(cutoffLayout, strings.TrimSpace(c.PreloadCutoffRaw))
	if err != nil {
		return fmt.Errorf("PRELOAD_CUTOFF_DATE: %w", err)
	}
	c.preloadCutoff = cutoff.UTC()
	if strings.TrimSpace(c.OutputPath) == "" {
		c.OutputPath = "users-data.json"
	}
	return nil
}

func loadEnvFiles(paths ...string) {
	for _, path := range paths {
		_ = godotenv.Load(path)
	}
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}
