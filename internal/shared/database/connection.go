package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"life-server/internal/shared/config"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

type DB struct {
	*sql.DB
	Driver string
}

func Connect() (*DB, error) {
	cfg := config.GlobalConfig
	logger := slog.With("component", "database", "operation", "connect")
	logger.Debug("Initializing database connection")

	var sqlDB *sql.DB
	var err error

	switch cfg.Database.Driver {
	case "postgres":
		logger.Info("Connecting to database",
			"driver", "postgres",
			"host", cfg.Database.Host,
			"port", cfg.Database.Port,
			"user", cfg.Database.User,
			"database", cfg.Database.Name,
			"sslmode", cfg.Database.SSLMode,
		)
		sqlDB, err = sql.Open("postgres", cfg.ConnectionString())
	case "sqlite":
		logger.Info("Connecting to database",
			"driver", "sqlite",
			"path", cfg.Database.SQLitePath,
		)
		sqlDB, err = sql.Open("sqlite", cfg.Database.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	if err != nil {
		logger.Error("Failed to open database connection", "error", err)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.Database.Driver == "sqlite" {
		// modernc sqlite is single-writer; serialize access through one connection
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	}

	logger.Debug("Testing database connection with ping")
	if err := sqlDB.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		if closeErr := sqlDB.Close(); closeErr != nil {
			logger.Error("Failed to close database after ping failure", "close_error", closeErr, "ping_error", err)
		}
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connection established successfully", "driver", cfg.Database.Driver)

	return &DB{DB: sqlDB, Driver: cfg.Database.Driver}, nil
}
