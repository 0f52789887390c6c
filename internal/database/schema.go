package database

import "client_api_backend/internal/config"

// Uniqueness of email is case-insensitive: the index is on lower(email).
var schemas = map[string][]string{
	config.DriverSQLite: {
		`CREATE TABLE IF NOT EXISTS clients (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			last_name  TEXT NOT NULL,
			first_name TEXT NOT NULL,
			email      TEXT NOT NULL,
			phone      TEXT,
			active     BOOLEAN NOT NULL DEFAULT 1,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS clients_email_key ON clients (lower(email))`,
		`CREATE INDEX IF NOT EXISTS clients_active_idx ON clients (active)`,
	},
	config.DriverPostgres: {
		`CREATE TABLE IF NOT EXISTS clients (
			id         BIGSERIAL PRIMARY KEY,
			last_name  VARCHAR(50) NOT NULL,
			first_name VARCHAR(50) NOT NULL,
			email      VARCHAR(320) NOT NULL,
			phone      VARCHAR(15),
			active     BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS clients_email_key ON clients (lower(email))`,
		`CREATE INDEX IF NOT EXISTS clients_active_idx ON clients (active)`,
	},
}
