package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds database configuration.
type Config struct {
	// Driver specifies the database driver to use.
	// If empty or "auto", it defaults to SQLite (the only supported driver).
	Driver Driver

	// SQLitePath is the path to the SQLite database file.
	// Defaults to ~/.calendra/runs.db
	SQLitePath string
}

// NewConnection creates a database connection based on configuration.
// This is the main factory function for creating database connections.
func NewConnection(ctx context.Context, cfg Config) (Connection, error) {
	driver := cfg.Driver
	if driver == "" || driver == "auto" {
		driver = DriverSQLite
	}

	switch driver {
	case DriverSQLite:
		return newSQLiteConnection(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s (calendra is local-first and only ships a SQLite backend)", driver)
	}
}

// DefaultSQLitePath returns the default SQLite database path.
func DefaultSQLitePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".calendra", "runs.db")
}

// DefaultLocalConfig returns configuration for local SQLite mode.
func DefaultLocalConfig() Config {
	return Config{
		Driver:     DriverSQLite,
		SQLitePath: DefaultSQLitePath(),
	}
}

// EnsureDirectory creates the parent directory for a file path if it doesn't exist.
func EnsureDirectory(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}

// newSQLiteConnection creates a SQLite connection.
// This is a forward declaration - the actual implementation is in sqlite/connection.go
// and is wired in by that package's init via RegisterSQLiteDriver.
var newSQLiteConnection func(ctx context.Context, cfg Config) (Connection, error)

// RegisterSQLiteDriver registers the SQLite connection factory.
func RegisterSQLiteDriver(fn func(ctx context.Context, cfg Config) (Connection, error)) {
	newSQLiteConnection = fn
}
