package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/sundayezeilo/nanolink/internal/account"
	"github.com/sundayezeilo/nanolink/internal/config"
	"github.com/sundayezeilo/nanolink/internal/server"
	"github.com/sundayezeilo/nanolink/internal/shortener"
	"github.com/sundayezeilo/nanolink/internal/store"
)

// App holds the application dependencies and configuration.
type App struct {
	Config *config.Config
	Logger *slog.Logger
	DBPool *pgxpool.Pool // set for the postgres driver
	SQLDB  *sql.DB       // set for the sqlite driver
	Server *server.Server
}

// repositories is the storage a driver provides.
type repositories struct {
	links    shortener.Repository
	accounts account.Repository
}

// New initializes and returns a new App instance with all dependencies wired up.
func New(ctx context.Context) (*App, error) {
	if err := loadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := setupLogger(cfg.App.LogLevel)

	logger.Info("starting application",
		"env", cfg.App.Environment,
		"version", cfg.App.Version,
		"driver", cfg.Database.Driver,
	)

	a := &App{Config: cfg, Logger: logger}

	repos, err := a.openStorage(ctx)
	if err != nil {
		a.Shutdown()
		return nil, err
	}

	index := shortener.NewCodeIndex(cfg.Links.CodeIndexCapacity, cfg.Links.CodeIndexFPRate)
	loaded, err := index.Load(ctx, repos.links)
	if err != nil {
		a.Shutdown()
		return nil, fmt.Errorf("failed to load code index: %w", err)
	}
	logger.Info("code index loaded", "codes", loaded)

	linkSvc := shortener.NewService(repos.links, &shortener.ServiceConfig{
		CodeLength:  cfg.Links.CodeLength,
		CodeRetries: cfg.Links.CodeRetries,
		DefaultTTL:  cfg.Links.DefaultTTL,
		CodeIndex:   index,
	})
	links := shortener.NewHandler(shortener.HandlerConfig{
		Service:     linkSvc,
		Logger:      logger,
		DisplayHost: cfg.Links.DisplayHost,
		QREndpoint:  cfg.Links.QREndpoint,
		FallbackURL: cfg.Links.FallbackURL,
	})
	accounts := account.NewHandler(account.NewService(repos.accounts), logger)

	a.Server = server.New(cfg, logger, links, accounts)

	logger.Info("application initialized",
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
	)

	return a, nil
}

// openStorage connects to the configured database, applies the schema when
// DB_AUTO_MIGRATE is set, and builds the repositories on top of it.
func (a *App) openStorage(ctx context.Context) (repositories, error) {
	cfg := a.Config

	switch cfg.Database.Driver {
	case config.DriverSQLite:
		db, err := store.OpenSQLite(ctx, cfg.Database.SQLiteDSN)
		if err != nil {
			return repositories{}, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		a.SQLDB = db
		a.Logger.Info("database connection established",
			"driver", store.SQLiteDriverName(cfg.Database.SQLiteDSN),
		)

		if cfg.Database.AutoMigrate {
			if err := store.MigrateSQLite(ctx, db); err != nil {
				return repositories{}, fmt.Errorf("failed to migrate sqlite database: %w", err)
			}
			a.Logger.Info("database schema applied")
		}

		return repositories{
			links:    shortener.NewSQLiteRepository(db, nil),
			accounts: account.NewSQLiteRepository(db, nil),
		}, nil

	default:
		pool, err := connectDatabase(ctx, cfg, a.Logger)
		if err != nil {
			return repositories{}, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.DBPool = pool

		if cfg.Database.AutoMigrate {
			if err := store.MigratePostgres(ctx, pool); err != nil {
				return repositories{}, fmt.Errorf("failed to migrate database: %w", err)
			}
			a.Logger.Info("database schema applied")
		}

		return repositories{
			links:    shortener.NewPostgresRepository(pool, nil),
			accounts: account.NewPostgresRepository(pool, nil),
		}, nil
	}
}

// Start starts the application server.
func (a *App) Start(ctx context.Context) error {
	a.Logger.Info("server starting",
		"port", a.Config.Server.Port,
		"base_url", a.Config.Server.BaseURL,
	)

	if err := a.Server.Start(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown releases the database handles.
func (a *App) Shutdown() {
	a.Logger.Info("shutting down application")

	if a.DBPool != nil {
		a.DBPool.Close()
		a.Logger.Info("database connection closed")
	}
	if a.SQLDB != nil {
		if err := a.SQLDB.Close(); err != nil {
			a.Logger.Error("failed to close database", "error", err)
			return
		}
		a.Logger.Info("database connection closed")
	}
}

// loadEnv loads .env file only in non-production environments.
func loadEnv() error {
	env := os.Getenv("APP_ENV")
	if env == "development" || env == "test" {
		if err := godotenv.Load(); err != nil {
			log.Println("no .env file found.")
		}
	}
	return nil
}

// setupLogger creates a structured logger based on the log level.
func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	return slog.New(handler)
}

// connectDatabase establishes a connection to the PostgreSQL database.
func connectDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = cfg.Database.MaxConns
	poolConfig.MinConns = cfg.Database.MinConns

	logger.Info("connecting to database",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
	)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established")

	return pool, nil
}
