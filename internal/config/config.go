package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	API       APIConfig
	Views     ViewConfig
	Session   SessionConfig
	Dashboard DashboardConfig
	Products  ProductsConfig
	MongoDB   MongoDBConfig
	Sheets    SheetsConfig
	Mail      MailConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
	LogLevel       string
}

// APIConfig points the gateway at the remote POS backend.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// ViewConfig controls collection paging.
type ViewConfig struct {
	PageSize int
}

// SessionConfig holds session token and workspace settings.
type SessionConfig struct {
	Secret  string
	TTL     time.Duration
	IdleTTL time.Duration
}

// DashboardConfig holds the statistics polling settings.
type DashboardConfig struct {
	PollInterval time.Duration
}

// ProductsConfig holds product image handling options.
type ProductsConfig struct {
	ImageMaxWidth uint
}

// MongoDBConfig holds settings for MongoDB. An empty URI selects in-memory storage.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// SheetsConfig contains configuration required to interact with Google Sheets.
// Both fields empty disables the snapshot ledger.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// MailConfig holds SMTP settings for invoice e-mails. An empty host disables mail.
type MailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Enabled reports whether the ledger sheet is configured.
func (s SheetsConfig) Enabled() bool {
	return s.CredentialsPath != "" && s.SpreadsheetID != ""
}

// Enabled reports whether SMTP delivery is configured.
func (m MailConfig) Enabled() bool {
	return m.Host != ""
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are acceptable when configuration comes from the
		// environment directly.
		_ = godotenv.Load()
	}

	var errs []error
	intVar := func(key string, fallback int) int {
		v, err := getenvInt(key, fallback)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}
	durationVar := func(key string, fallback time.Duration) time.Duration {
		v, err := getenvDuration(key, fallback)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getenvWithDefault("APP_PORT", "8080"),
			AllowedOrigins: splitList(getenvWithDefault("CORS_ALLOWED_ORIGINS", "http://localhost:4200")),
			LogLevel:       getenvWithDefault("LOG_LEVEL", "info"),
		},
		API: APIConfig{
			BaseURL: getenvWithDefault("POS_API_BASE_URL", "https://forrapos-api-backend-fqfkhkgvebd6deah.mexicocentral-01.azurewebsites.net"),
			Timeout: durationVar("POS_API_TIMEOUT", 15*time.Second),
		},
		Views: ViewConfig{
			PageSize: intVar("PAGE_SIZE", 5),
		},
		Session: SessionConfig{
			Secret:  os.Getenv("SESSION_SECRET"),
			TTL:     durationVar("SESSION_TTL", 12*time.Hour),
			IdleTTL: durationVar("WORKSPACE_IDLE_TTL", 2*time.Hour),
		},
		Dashboard: DashboardConfig{
			PollInterval: durationVar("DASHBOARD_POLL_INTERVAL", 30*time.Second),
		},
		Products: ProductsConfig{
			ImageMaxWidth: uint(intVar("PRODUCT_IMAGE_MAX_WIDTH", 800)),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "posadmin"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		Mail: MailConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     intVar("SMTP_PORT", 587),
			User:     os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
		},
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}
	if len(c.Server.AllowedOrigins) == 0 {
		return errors.New("CORS_ALLOWED_ORIGINS must list at least one origin")
	}

	switch {
	case c.API.BaseURL == "":
		return errors.New("POS_API_BASE_URL must not be empty")
	case c.API.Timeout <= 0:
		return errors.New("POS_API_TIMEOUT must be positive")
	}

	if c.Views.PageSize < 1 {
		return errors.New("PAGE_SIZE must be at least 1")
	}

	if c.Session.Secret == "" {
		return errors.New("SESSION_SECRET must be provided")
	}
	if c.Session.TTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.Session.IdleTTL <= 0 {
		return errors.New("WORKSPACE_IDLE_TTL must be positive")
	}

	if c.Dashboard.PollInterval < time.Second {
		return errors.New("DASHBOARD_POLL_INTERVAL must be at least 1s")
	}

	if c.Products.ImageMaxWidth == 0 {
		return errors.New("PRODUCT_IMAGE_MAX_WIDTH must be positive")
	}

	if (c.Sheets.CredentialsPath == "") != (c.Sheets.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_DATABASE_ID must be provided together")
	}

	if c.Mail.Enabled() && c.Mail.From == "" {
		return errors.New("SMTP_FROM must be provided when SMTP_HOST is set")
	}

	if c.MongoDB.URI != "" && c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must not be empty")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getenvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
