package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	App      AppConfig
	Links    LinksConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string        `envconfig:"SERVER_PORT" required:"true"`
	Host            string        `envconfig:"SERVER_HOST" required:"true"`
	BaseURL         string        `envconfig:"SERVER_BASE_URL" required:"true"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" required:"true"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" required:"true"`
	IdleTimeout     time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" required:"true"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" required:"true"`
	AllowedOrigins  []string      `envconfig:"CORS_ALLOWED_ORIGINS"`
}

// Validate validates the server configuration.
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port cannot be empty")
	}
	if c.Host == "" {
		return fmt.Errorf("host cannot be empty")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive")
	}
	if c.WriteTimeout <= 0 {
		return fmt.Errorf("write timeout must be positive")
	}
	if c.IdleTimeout <= 0 {
		return fmt.Errorf("idle timeout must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}
	return nil
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DatabaseConfig holds database connection configuration.
// The DB_HOST..DB_MIN_CONNS keys are only required for the postgres driver.
type DatabaseConfig struct {
	Driver      string `envconfig:"DB_DRIVER" default:"postgres"`
	AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"true"`

	Host     string `envconfig:"DB_HOST"`
	Port     string `envconfig:"DB_PORT"`
	User     string `envconfig:"DB_USER"`
	Password string `envconfig:"DB_PASSWORD"`
	Name     string `envconfig:"DB_NAME"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"10"`
	MinConns int32  `envconfig:"DB_MIN_CONNS" default:"2"`

	// SQLiteDSN is a file path, a "file:" URI, or a libsql:// / https:// URL.
	SQLiteDSN string `envconfig:"DB_SQLITE_DSN" default:"file:nanolink.db"`
}

// Validate validates the database configuration.
func (c *DatabaseConfig) Validate() error {
	switch c.Driver {
	case DriverPostgres:
		return c.validatePostgres()
	case DriverSQLite:
		if c.SQLiteDSN == "" {
			return fmt.Errorf("sqlite DSN cannot be empty")
		}
		return nil
	default:
		return fmt.Errorf("invalid driver: %s (must be one of: postgres, sqlite)", c.Driver)
	}
}

func (c *DatabaseConfig) validatePostgres() error {
	if c.Host == "" {
		return fmt.Errorf("host cannot be empty")
	}
	if c.Port == "" {
		return fmt.Errorf("port cannot be empty")
	}
	if c.User == "" {
		return fmt.Errorf("user cannot be empty")
	}
	if c.Password == "" {
		return fmt.Errorf("password cannot be empty")
	}
	if c.Name == "" {
		return fmt.Errorf("database name cannot be empty")
	}
	if c.MaxConns <= 0 {
		return fmt.Errorf("max connections must be positive")
	}
	if c.MinConns <= 0 {
		return fmt.Errorf("min connections must be positive")
	}
	if c.MinConns > c.MaxConns {
		return fmt.Errorf("min connections (%d) cannot be greater than max connections (%d)", c.MinConns, c.MaxConns)
	}

	validSSLModes := map[string]bool{
		"disable":     true,
		"require":     true,
		"verify-ca":   true,
		"verify-full": true,
	}
	if !validSSLModes[c.SSLMode] {
		return fmt.Errorf("invalid SSL mode: %s (must be one of: disable, require, verify-ca, verify-full)", c.SSLMode)
	}
	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// AppConfig holds application-specific configuration.
type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"nanolink"`
	Version     string `envconfig:"APP_VERSION" default:"dev"`
	Environment string `envconfig:"APP_ENV" required:"true"`   // development, staging, production, test
	LogLevel    string `envconfig:"LOG_LEVEL" required:"true"` // debug, info, warn, error
}

// Validate validates the app configuration.
func (c *AppConfig) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
		"test":        true,
	}
	if !validEnvs[c.Environment] {
		return fmt.Errorf("invalid environment: %s (must be one of: development, staging, production, test)", c.Environment)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}
	return nil
}

// LinksConfig holds the short link rules and presentation settings.
type LinksConfig struct {
	DisplayHost string        `envconfig:"LINKS_DISPLAY_HOST" default:"nano.link"`
	QREndpoint  string        `envconfig:"LINKS_QR_ENDPOINT" default:"https://api.qrserver.com/v1/create-qr-code/?size=150x150&data="`
	FallbackURL string        `envconfig:"LINKS_FALLBACK_URL" default:"/welcome"`
	DefaultTTL  time.Duration `envconfig:"LINKS_DEFAULT_TTL" default:"168h"`
	CodeLength  int           `envconfig:"LINKS_CODE_LENGTH" default:"5"`
	CodeRetries int           `envconfig:"LINKS_CODE_RETRIES" default:"0"`

	CodeIndexCapacity uint    `envconfig:"LINKS_CODE_INDEX_CAPACITY" default:"100000"`
	CodeIndexFPRate   float64 `envconfig:"LINKS_CODE_INDEX_FP_RATE" default:"0.01"`
}

// Validate validates the links configuration.
func (c *LinksConfig) Validate() error {
	if c.DisplayHost == "" {
		return fmt.Errorf("display host cannot be empty")
	}
	if _, err := url.ParseRequestURI(c.QREndpoint); err != nil {
		return fmt.Errorf("invalid QR endpoint: %w", err)
	}
	if err := validateFallback(c.FallbackURL); err != nil {
		return err
	}
	if c.DefaultTTL <= 0 {
		return fmt.Errorf("default TTL must be positive")
	}
	if c.CodeLength < 3 || c.CodeLength > 64 {
		return fmt.Errorf("code length must be between 3 and 64, got %d", c.CodeLength)
	}
	if c.CodeRetries < 0 {
		return fmt.Errorf("code retries cannot be negative")
	}
	if c.CodeIndexCapacity == 0 {
		return fmt.Errorf("code index capacity must be positive")
	}
	if c.CodeIndexFPRate <= 0 || c.CodeIndexFPRate >= 1 {
		return fmt.Errorf("code index false positive rate must be between 0 and 1, got %f", c.CodeIndexFPRate)
	}
	return nil
}

// FallbackIsLocal reports whether the fallback target is a path on this server.
func (c *LinksConfig) FallbackIsLocal() bool {
	return strings.HasPrefix(c.FallbackURL, "/")
}

// validateFallback accepts either an absolute http(s) URL or a plain local
// path. A local path is served by this process, so it must not carry a query
// or pattern characters, and must stay clear of the /api/ and /x/ routes.
func validateFallback(raw string) error {
	if raw == "" {
		return fmt.Errorf("fallback URL cannot be empty")
	}
	if strings.HasPrefix(raw, "/") {
		if raw == "/" || strings.ContainsAny(raw, "?#{}") ||
			strings.HasPrefix(raw, "/api/") || strings.HasPrefix(raw, "/x/") {
			return fmt.Errorf("invalid fallback path: %s", raw)
		}
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("fallback URL must be an absolute http(s) URL or a path, got %s", raw)
	}
	return nil
}

// Load loads configuration from environment variables only.
// (.env loading for development happens in internal/app.)
func Load() (*Config, error) {
	cfg := &Config{}

	if err := envconfig.Process("", &cfg.Server); err != nil {
		return nil, fmt.Errorf("failed to load Server config: %w", err)
	}
	if err := cfg.Server.Validate(); err != nil {
		return nil, fmt.Errorf("invalid Server config: %w", err)
	}

	if err := envconfig.Process("", &cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to load Database config: %w", err)
	}
	if err := cfg.Database.Validate(); err != nil {
		return nil, fmt.Errorf("invalid Database config: %w", err)
	}

	if err := envconfig.Process("", &cfg.App); err != nil {
		return nil, fmt.Errorf("failed to load App config: %w", err)
	}
	if err := cfg.App.Validate(); err != nil {
		return nil, fmt.Errorf("invalid App config: %w", err)
	}

	if err := envconfig.Process("", &cfg.Links); err != nil {
		return nil, fmt.Errorf("failed to load Links config: %w", err)
	}
	if err := cfg.Links.Validate(); err != nil {
		return nil, fmt.Errorf("invalid Links config: %w", err)
	}

	return cfg, nil
}
