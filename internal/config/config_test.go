package config

import (
	"strings"
	"testing"
	"time"
)

func baseEnv() map[string]string {
	return map[string]string{
		"SERVER_PORT":             "8080",
		"SERVER_HOST":             "0.0.0.0",
		"SERVER_BASE_URL":         "http://localhost:8080",
		"SERVER_READ_TIMEOUT":     "10s",
		"SERVER_WRITE_TIMEOUT":    "10s",
		"SERVER_IDLE_TIMEOUT":     "120s",
		"SERVER_SHUTDOWN_TIMEOUT": "30s",

		"DB_DRIVER":    "postgres",
		"DB_HOST":      "localhost",
		"DB_PORT":      "5432",
		"DB_USER":      "testuser",
		"DB_PASSWORD":  "testpass",
		"DB_NAME":      "testdb",
		"DB_SSLMODE":   "disable",
		"DB_MAX_CONNS": "25",
		"DB_MIN_CONNS": "5",

		"APP_ENV":   "test",
		"LOG_LEVEL": "debug",
	}
}

func setEnv(t *testing.T, env map[string]string) {
	t.Helper()
	for key, value := range env {
		t.Setenv(key, value)
	}
}

func TestLoad_Success(t *testing.T) {
	env := baseEnv()
	env["CORS_ALLOWED_ORIGINS"] = "http://localhost:3000,https://app.nano.link"
	env["LINKS_DISPLAY_HOST"] = "sho.rt"
	env["LINKS_CODE_RETRIES"] = "3"
	setEnv(t, env)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 10*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 10s", cfg.Server.ReadTimeout)
	}
	if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[1] != "https://app.nano.link" {
		t.Errorf("Server.AllowedOrigins = %v, want two origins", cfg.Server.AllowedOrigins)
	}

	if cfg.Database.Driver != DriverPostgres {
		t.Errorf("Database.Driver = %s, want postgres", cfg.Database.Driver)
	}
	if cfg.Database.MaxConns != 25 {
		t.Errorf("Database.MaxConns = %d, want 25", cfg.Database.MaxConns)
	}
	if !cfg.Database.AutoMigrate {
		t.Error("Database.AutoMigrate = false, want default true")
	}

	if cfg.App.Environment != "test" {
		t.Errorf("App.Environment = %s, want test", cfg.App.Environment)
	}
	if cfg.App.Name != "nanolink" {
		t.Errorf("App.Name = %s, want default nanolink", cfg.App.Name)
	}

	if cfg.Links.DisplayHost != "sho.rt" {
		t.Errorf("Links.DisplayHost = %s, want sho.rt", cfg.Links.DisplayHost)
	}
	if cfg.Links.CodeRetries != 3 {
		t.Errorf("Links.CodeRetries = %d, want 3", cfg.Links.CodeRetries)
	}
}

func TestLoad_LinksDefaults(t *testing.T) {
	setEnv(t, baseEnv())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Links.DisplayHost != "nano.link" {
		t.Errorf("DisplayHost = %s, want nano.link", cfg.Links.DisplayHost)
	}
	if cfg.Links.FallbackURL != "/welcome" {
		t.Errorf("FallbackURL = %s, want /welcome", cfg.Links.FallbackURL)
	}
	if !cfg.Links.FallbackIsLocal() {
		t.Error("FallbackIsLocal() = false, want true for /welcome")
	}
	if cfg.Links.DefaultTTL != 7*24*time.Hour {
		t.Errorf("DefaultTTL = %v, want 168h", cfg.Links.DefaultTTL)
	}
	if cfg.Links.CodeLength != 5 {
		t.Errorf("CodeLength = %d, want 5", cfg.Links.CodeLength)
	}
	if cfg.Links.CodeRetries != 0 {
		t.Errorf("CodeRetries = %d, want 0", cfg.Links.CodeRetries)
	}
	if !strings.HasSuffix(cfg.Links.QREndpoint, "data=") {
		t.Errorf("QREndpoint = %s, want it to end in data=", cfg.Links.QREndpoint)
	}
}

func TestLoad_MissingRequiredVariable(t *testing.T) {
	tests := []struct {
		name       string
		skipEnvVar string
	}{
		{"missing SERVER_PORT", "SERVER_PORT"},
		{"missing DB_HOST", "DB_HOST"},
		{"missing DB_NAME", "DB_NAME"},
		{"missing APP_ENV", "APP_ENV"},
		{"missing LOG_LEVEL", "LOG_LEVEL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := baseEnv()
			env[tt.skipEnvVar] = ""
			setEnv(t, env)

			_, err := Load()
			if err == nil {
				t.Errorf("Load() should fail when %s is missing", tt.skipEnvVar)
			}
		})
	}
}

func TestLoad_SQLiteDriver_DoesNotRequirePostgresFields(t *testing.T) {
	env := baseEnv()
	for _, key := range []string{"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME"} {
		env[key] = ""
	}
	env["DB_DRIVER"] = "sqlite"
	env["DB_SQLITE_DSN"] = "file::memory:?cache=shared"
	setEnv(t, env)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Database.Driver != DriverSQLite {
		t.Errorf("Database.Driver = %s, want sqlite", cfg.Database.Driver)
	}
	if cfg.Database.SQLiteDSN != "file::memory:?cache=shared" {
		t.Errorf("Database.SQLiteDSN = %s", cfg.Database.SQLiteDSN)
	}
}

func TestLoad_InvalidTypeConversion(t *testing.T) {
	tests := []struct {
		name   string
		envVar string
		value  string
	}{
		{"invalid duration", "SERVER_READ_TIMEOUT", "invalid"},
		{"invalid int", "DB_MAX_CONNS", "not-a-number"},
		{"invalid bool", "DB_AUTO_MIGRATE", "maybe"},
		{"invalid float", "LINKS_CODE_INDEX_FP_RATE", "abc"},
		{"invalid ttl", "LINKS_DEFAULT_TTL", "a week"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := baseEnv()
			env[tt.envVar] = tt.value
			setEnv(t, env)

			_, err := Load()
			if err == nil {
				t.Errorf("Load() should fail when %s has invalid value %s", tt.envVar, tt.value)
			}
		})
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name        string
		envVar      string
		value       string
		errContains string
	}{
		{"unknown driver", "DB_DRIVER", "mysql", "invalid driver"},
		{"min above max conns", "DB_MIN_CONNS", "50", "min connections"},
		{"bad ssl mode", "DB_SSLMODE", "sometimes", "invalid SSL mode"},
		{"bad log level", "LOG_LEVEL", "trace", "invalid log level"},
		{"code length too short", "LINKS_CODE_LENGTH", "2", "code length"},
		{"negative retries", "LINKS_CODE_RETRIES", "-1", "code retries"},
		{"zero ttl", "LINKS_DEFAULT_TTL", "0s", "default TTL"},
		{"fp rate out of range", "LINKS_CODE_INDEX_FP_RATE", "1.5", "false positive rate"},
		{"fallback with query", "LINKS_FALLBACK_URL", "/welcome?from=redirect", "invalid fallback path"},
		{"fallback root", "LINKS_FALLBACK_URL", "/", "invalid fallback path"},
		{"fallback under api", "LINKS_FALLBACK_URL", "/api/welcome", "invalid fallback path"},
		{"fallback on health", "LINKS_FALLBACK_URL", "/x/health", "invalid fallback path"},
		{"fallback relative", "LINKS_FALLBACK_URL", "welcome", "fallback URL must be"},
		{"fallback ftp", "LINKS_FALLBACK_URL", "ftp://example.com", "fallback URL must be"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := baseEnv()
			env[tt.envVar] = tt.value
			setEnv(t, env)

			_, err := Load()
			if err == nil {
				t.Fatalf("Load() should fail when %s=%s", tt.envVar, tt.value)
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("expected error to contain %q, got %q", tt.errContains, err.Error())
			}
		})
	}
}

func TestLinksConfig_FallbackIsLocal(t *testing.T) {
	tests := []struct {
		fallback string
		want     bool
	}{
		{"/welcome", true},
		{"/landing/page", true},
		{"https://nano.link", false},
	}

	for _, tt := range tests {
		t.Run(tt.fallback, func(t *testing.T) {
			c := LinksConfig{FallbackURL: tt.fallback}
			if got := c.FallbackIsLocal(); got != tt.want {
				t.Errorf("FallbackIsLocal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	db := DatabaseConfig{
		Host:     "testhost",
		Port:     "5432",
		User:     "testuser",
		Password: "testpass",
		Name:     "testdb",
		SSLMode:  "disable",
	}

	expected := "host=testhost port=5432 user=testuser password=testpass dbname=testdb sslmode=disable"
	got := db.ConnectionString()

	if got != expected {
		t.Errorf("ConnectionString() = %s, want %s", got, expected)
	}
}

func TestLoad_DurationParsing(t *testing.T) {
	env := baseEnv()
	env["SERVER_READ_TIMEOUT"] = "5m"
	env["SERVER_WRITE_TIMEOUT"] = "30s"
	env["SERVER_IDLE_TIMEOUT"] = "2h"
	env["SERVER_SHUTDOWN_TIMEOUT"] = "1m30s"
	env["LINKS_DEFAULT_TTL"] = "24h"
	setEnv(t, env)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.ReadTimeout != 5*time.Minute {
		t.Errorf("Server.ReadTimeout = %v, want 5m", cfg.Server.ReadTimeout)
	}
	if cfg.Server.IdleTimeout != 2*time.Hour {
		t.Errorf("Server.IdleTimeout = %v, want 2h", cfg.Server.IdleTimeout)
	}
	if cfg.Server.ShutdownTimeout != 90*time.Second {
		t.Errorf("Server.ShutdownTimeout = %v, want 1m30s", cfg.Server.ShutdownTimeout)
	}
	if cfg.Links.DefaultTTL != 24*time.Hour {
		t.Errorf("Links.DefaultTTL = %v, want 24h", cfg.Links.DefaultTTL)
	}
}
