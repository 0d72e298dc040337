package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"backtest-engine/telemetry"
)

// DB wraps sql.DB with the resolved configuration it was opened with.
type DB struct {
	*sql.DB
	config *Config
}

// Open establishes a connection to the SQLite database at config.Path,
// retrying with exponential backoff on failure, then applies every
// migration under the embedded migrations directory. Ported from the
// teacher's database.Connect/ConnectWithMigrations, retargeted from pgx to
// modernc.org/sqlite.
func Open(ctx context.Context, config *Config) (*DB, error) {
	if err := config.Validate(); err != nil {
		telemetry.ConfigError(ctx, "storage", err)
		return nil, fmt.Errorf("storage: invalid config: %w", err)
	}

	var sqlDB *sql.DB
	var err error

	delay := config.RetryDelay
	for attempt := 0; attempt <= config.RetryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}

		sqlDB, err = sql.Open("sqlite", config.Path)
		if err != nil {
			continue
		}

		sqlDB.SetMaxOpenConns(config.MaxOpenConns)
		sqlDB.SetMaxIdleConns(config.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)
		sqlDB.SetConnMaxIdleTime(config.ConnMaxIdleTime)

		if err = sqlDB.PingContext(ctx); err != nil {
			sqlDB.Close()
			continue
		}

		db := &DB{DB: sqlDB, config: config}
		if err = RunMigrations(db.DB); err != nil {
			db.Close()
			return nil, fmt.Errorf("storage: run migrations: %w", err)
		}
		return db, nil
	}

	return nil, fmt.Errorf("storage: open %s after %d attempts: %w", config.Path, config.RetryAttempts+1, err)
}

// HealthCheck pings the database with a bounded timeout.
func (db *DB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("storage: health check: %w", err)
	}
	return nil
}

// Config returns the configuration db was opened with.
func (db *DB) Config() *Config { return db.config }
