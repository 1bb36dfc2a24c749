// Package config reads the service configuration from the environment and
// an optional .env or config.env file through viper. Environment variables
// win over file values.
package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Artifact backends.
const (
	BackendLocal = "local"
	BackendS3    = "s3"
)

// Config groups the application configuration.
type Config struct {
	App      AppConfig
	HTTP     HTTPConfig
	DB       DBConfig
	Report   ReportConfig
	Artifact ArtifactConfig
	JWT      JWTConfig
}

// AppConfig holds general settings.
type AppConfig struct {
	Env      string // development, staging, production
	LogLevel string
}

// Development reports whether logs should be human readable.
func (c AppConfig) Development() bool {
	return c.Env == "development"
}

// HTTPConfig holds the listener settings.
type HTTPConfig struct {
	Host string
	Port int
	// PublicBaseURL prefixes download links served by this process.
	PublicBaseURL string
}

// Addr returns host:port.
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DBConfig holds the PostgreSQL settings.
type DBConfig struct {
	URL      string
	MaxConns int
	Migrate  bool
}

// ReportConfig tunes report generation.
type ReportConfig struct {
	Workers          int
	StatementTimeout time.Duration
	CurrencyFormat   string
	// Format is the file type Generate produces.
	Format string
	// CurrencyPrefix is printed before money amounts in PDF reports.
	CurrencyPrefix string
	// Lang selects the translation of product, attribute and unit names.
	Lang string
}

var langPattern = regexp.MustCompile(`^[a-z]{2,3}(_[A-Z]{2})?(@[a-z]+)?$`)

// Report formats.
const (
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

// ArtifactConfig selects where generated files are kept.
type ArtifactConfig struct {
	Backend   string
	Dir       string
	S3Bucket  string
	S3Prefix  string
	S3Region  string
	S3Profile string
	URLTTL    time.Duration
}

// JWTConfig enables token checks when Secret is set.
type JWTConfig struct {
	Secret string
	Issuer string
}

// Load reads the configuration from the working directory and the
// environment.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // optional

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return FromViper(v)
}

// FromViper builds and validates a Config from v.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host:          getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:          getInt(v, "HTTP_PORT", 8080),
			PublicBaseURL: getString(v, "PUBLIC_BASE_URL", "http://localhost:8080"),
		},
		DB: DBConfig{
			URL:      getString(v, "DATABASE_URL", ""),
			MaxConns: getInt(v, "DB_MAX_CONNS", 25),
			Migrate:  getBool(v, "DB_MIGRATE", false),
		},
		Report: ReportConfig{
			Workers:          getInt(v, "REPORT_WORKERS", 4),
			StatementTimeout: getDuration(v, "REPORT_STATEMENT_TIMEOUT", 5*time.Minute),
			CurrencyFormat:   getString(v, "REPORT_CURRENCY_FORMAT", `"Rp "#,##0.00`),
			Format:           getString(v, "REPORT_FORMAT", FormatXLSX),
			CurrencyPrefix:   getString(v, "REPORT_CURRENCY_PREFIX", "Rp "),
			Lang:             getString(v, "REPORT_LANG", "en_US"),
		},
		Artifact: ArtifactConfig{
			Backend:   getString(v, "ARTIFACT_BACKEND", BackendLocal),
			Dir:       getString(v, "ARTIFACT_DIR", "./artifacts"),
			S3Bucket:  getString(v, "S3_BUCKET", ""),
			S3Prefix:  getString(v, "S3_PREFIX", "stock-movement/"),
			S3Region:  getString(v, "S3_REGION", "us-east-1"),
			S3Profile: getString(v, "S3_PROFILE", ""),
			URLTTL:    getDuration(v, "S3_URL_TTL", 15*time.Minute),
		},
		JWT: JWTConfig{
			Secret: getString(v, "JWT_SECRET", ""),
			Issuer: getString(v, "JWT_ISSUER", "stockreport"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Artifact.Backend {
	case BackendLocal:
	case BackendS3:
		if c.Artifact.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required for the s3 artifact backend")
		}
	default:
		return fmt.Errorf("unknown ARTIFACT_BACKEND %q", c.Artifact.Backend)
	}
	if c.Report.Format != FormatXLSX && c.Report.Format != FormatPDF {
		return fmt.Errorf("unknown REPORT_FORMAT %q", c.Report.Format)
	}
	if !langPattern.MatchString(c.Report.Lang) {
		return fmt.Errorf("invalid REPORT_LANG %q", c.Report.Lang)
	}
	if c.Report.Workers < 1 {
		return fmt.Errorf("REPORT_WORKERS must be at least 1, got %d", c.Report.Workers)
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		return v.GetInt(key)
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}

func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if v.IsSet(key) {
		return v.GetDuration(key)
	}
	return def
}
