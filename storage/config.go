// Package storage persists catalog data, executions, and trade statistics
// to a SQLite database via modernc.org/sqlite (pure Go, no cgo) and applies
// schema migrations with golang-migrate, following the connection-pool and
// retry-with-backoff conventions of the teacher's libs/database package
// retargeted from Postgres to an embedded single-file database.
package storage

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds the database connection configuration.
type Config struct {
	// Path is the SQLite database file path. ":memory:" opens a transient
	// in-process database, useful for tests.
	Path string `validate:"required"`

	MaxOpenConns    int           `validate:"gte=1"`
	MaxIdleConns    int           `validate:"gte=0"`
	ConnMaxLifetime time.Duration `validate:"gt=0"`
	ConnMaxIdleTime time.Duration `validate:"gt=0"`

	RetryAttempts int           `validate:"gte=0"`
	RetryDelay    time.Duration `validate:"gt=0"`
}

// DefaultConfig returns a Config with sensible defaults for a single-writer
// embedded database; callers only need to set Path.
func DefaultConfig(path string) *Config {
	return &Config{
		Path:            path,
		MaxOpenConns:    1, // SQLite serializes writers; one connection avoids SQLITE_BUSY churn
		MaxIdleConns:    1,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: 1 * time.Minute,
		RetryAttempts:   3,
		RetryDelay:      200 * time.Millisecond,
	}
}

var validate = validator.New()

// Validate reports whether c is well-formed.
func (c *Config) Validate() error {
	return validate.Struct(c)
}
