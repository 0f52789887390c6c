package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"client_api_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLiteCreatesSchema(t *testing.T) {
	ctx := context.Background()
	cfg := config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		DSN:          filepath.Join(t.TempDir(), "clients.db"),
		MaxOpenConns: 1,
	}

	db, err := Open(ctx, cfg)
	require.NoError(t, err)
	defer db.Close()

	var count int
	err = db.QueryRowContext(ctx, `SELECT COUNT(*) FROM clients`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// Re-running the migration is a no-op.
	assert.NoError(t, Migrate(ctx, db, config.DriverSQLite))
}

func TestOpen_AppliesSchemaFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "extra.sql")
	require.NoError(t, os.WriteFile(schemaPath, []byte(`CREATE TABLE IF NOT EXISTS audit (id INTEGER PRIMARY KEY)`), 0o600))

	db, err := Open(ctx, config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		DSN:          filepath.Join(dir, "clients.db"),
		MaxOpenConns: 1,
		SchemaPath:   schemaPath,
	})
	require.NoError(t, err)
	defer db.Close()

	_, err = db.ExecContext(ctx, `INSERT INTO audit (id) VALUES (1)`)
	assert.NoError(t, err)
}

func TestOpen_MissingSchemaFile(t *testing.T) {
	_, err := Open(context.Background(), config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		DSN:          filepath.Join(t.TempDir(), "clients.db"),
		MaxOpenConns: 1,
		SchemaPath:   "/does/not/exist.sql",
	})
	assert.Error(t, err)
}

func TestMigrate_UnknownDriver(t *testing.T) {
	assert.Error(t, Migrate(context.Background(), nil, "mysql"))
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "a.db?_pragma=busy_timeout(5000)", sqliteDSN("a.db"))
	assert.Equal(t, "file:a.db?mode=rwc&_pragma=busy_timeout(5000)", sqliteDSN("file:a.db?mode=rwc"))
	assert.Equal(t, "a.db?_pragma=busy_timeout(100)", sqliteDSN("a.db?_pragma=busy_timeout(100)"))
}
