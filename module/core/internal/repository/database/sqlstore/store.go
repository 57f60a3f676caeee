// Package sqlstore implements the repository interfaces over database/sql.
// The same statements serve Postgres and SQLite; only the DDL and the
// placeholder style differ per driver.
package sqlstore

import (
	"context"
	"database/sql"
	"strings"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type repo struct {
	db     *sql.DB
	driver string
}

// q rewrites $N placeholders to ?N for SQLite. Statements are written in
// Postgres form.
func (r repo) q(query string) string {
	if r.driver == DriverSQLite {
		return strings.ReplaceAll(query, "$", "?")
	}
	return query
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active',
		role TEXT NOT NULL DEFAULT 'user',
		current_latitude DOUBLE PRECISION,
		current_longitude DOUBLE PRECISION,
		location_accuracy DOUBLE PRECISION,
		last_location_update TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS user_devices (
		id TEXT PRIMARY KEY,
		user_id BIGINT NOT NULL,
		name TEXT NOT NULL,
		platform TEXT NOT NULL,
		last_seen TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS user_location_history (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL,
		device_id TEXT,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		accuracy DOUBLE PRECISION NOT NULL,
		altitude DOUBLE PRECISION,
		speed DOUBLE PRECISION,
		heading DOUBLE PRECISION,
		is_background BOOLEAN NOT NULL DEFAULT FALSE,
		timestamp TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_history_user_ts ON user_location_history(user_id, timestamp)`,
	`CREATE TABLE IF NOT EXISTS geofences (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		radius DOUBLE PRECISION NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		entry_alert BOOLEAN NOT NULL DEFAULT TRUE,
		exit_alert BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS geofence_events (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL,
		device_id TEXT,
		geofence_id BIGINT NOT NULL,
		event_type TEXT NOT NULL,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_events_pair_ts ON geofence_events(user_id, geofence_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS server_logs (
		id BIGSERIAL PRIMARY KEY,
		action TEXT NOT NULL,
		details TEXT NOT NULL,
		user_id BIGINT,
		device_id TEXT,
		created_at TIMESTAMPTZ NOT NULL
	)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active',
		role TEXT NOT NULL DEFAULT 'user',
		current_latitude REAL,
		current_longitude REAL,
		location_accuracy REAL,
		last_location_update TIMESTAMP,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS user_devices (
		id TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		platform TEXT NOT NULL,
		last_seen TIMESTAMP,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS user_location_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		device_id TEXT,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		accuracy REAL NOT NULL,
		altitude REAL,
		speed REAL,
		heading REAL,
		is_background BOOLEAN NOT NULL DEFAULT FALSE,
		timestamp TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_history_user_ts ON user_location_history(user_id, timestamp)`,
	`CREATE TABLE IF NOT EXISTS geofences (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		radius REAL NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		entry_alert BOOLEAN NOT NULL DEFAULT TRUE,
		exit_alert BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS geofence_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		device_id TEXT,
		geofence_id INTEGER NOT NULL,
		event_type TEXT NOT NULL,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_events_pair_ts ON geofence_events(user_id, geofence_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS server_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		action TEXT NOT NULL,
		details TEXT NOT NULL,
		user_id INTEGER,
		device_id TEXT,
		created_at TIMESTAMP NOT NULL
	)`,
}

// InitSchema creates the tables for the given driver if they do not exist.
func InitSchema(ctx context.Context, db *sql.DB, driver string) error {
	stmts := postgresSchema
	if driver == DriverSQLite {
		stmts = sqliteSchema
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
