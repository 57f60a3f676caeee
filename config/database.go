package config

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// NewDatabase opens the configured store. A nil *sql.DB with driver "memory"
// means the seeded in-memory demo store; callers must handle it.
func NewDatabase(cfg *Config) (*sql.DB, string, error) {
	switch strings.ToLower(cfg.DBDriver) {
	case "", "memory":
		return nil, "memory", nil
	case "postgres", "postgresql":
		if cfg.PostgresDSN == "" {
			return nil, "", fmt.Errorf("postgres: dsn required")
		}
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			return nil, "", fmt.Errorf("postgres connect: %w", err)
		}
		if err := db.Ping(); err != nil {
			return nil, "", fmt.Errorf("postgres ping: %w", err)
		}
		return db, "postgres", nil
	case "sqlite":
		db, err := sql.Open("sqlite", cfg.SQLitePath)
		if err != nil {
			return nil, "", fmt.Errorf("sqlite open: %w", err)
		}
		if err := db.Ping(); err != nil {
			return nil, "", fmt.Errorf("sqlite ping: %w", err)
		}
		return db, "sqlite", nil
	default:
		return nil, "", fmt.Errorf("unsupported db driver %q", cfg.DBDriver)
	}
}
