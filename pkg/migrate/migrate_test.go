package migrate

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestEmbeddedMigrationsPassValidation(t *testing.T) {
	require.NoError(t, ValidateDir("migrations"))
	require.NoError(t, ValidateFS(Embedded(), "migrations"))
}

func TestOrdersMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_b2b_orders.sql"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	content := string(data)

	for _, sub := range []string{
		"CREATE TABLE IF NOT EXISTS b2b_orders",
		"ON b2b_orders (customer_email, remote_order_id)",
		"status TEXT NOT NULL DEFAULT 'pendiente'",
		"DROP TABLE IF EXISTS b2b_orders",
	} {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestUpAppliesEmbeddedMigrationsOnSQLite(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:migrate_up?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	ctx := context.Background()
	require.NoError(t, Up(ctx, sqlDB, Dialect("sqlite")))
	// a second run is a no-op
	require.NoError(t, Up(ctx, sqlDB, Dialect("sqlite")))

	for _, table := range []string{"portal_accounts", "business_profiles", "b2b_orders"} {
		require.True(t, conn.Migrator().HasTable(table), "expected table %s", table)
	}
}

func TestDialect(t *testing.T) {
	require.Equal(t, "sqlite3", Dialect("SQLite"))
	require.Equal(t, "postgres", Dialect("postgres"))
	require.Equal(t, "postgres", Dialect(""))
}

func TestCreateSQLMigrationSanitizesName(t *testing.T) {
	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "Add Order Notes!")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(path, "_add_order_notes.sql"))
	require.NoError(t, ValidateDir(dir))
}

func TestValidateDirReportsEveryProblem(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	write("20251101000000_add_payload.sql", "-- +goose Up\nALTER TABLE b2b_orders ADD COLUMN payload JSONB;\n-- +goose Down\n")
	write("20251101000000_add_notes.sql", "-- +goose Up\nALTER TABLE b2b_orders ADD COLUMN notes TEXT;\n")
	write("add_serial_number.sql", "-- +goose Up\n-- +goose Down\n")
	write("20251102000000_add_serial_number.sql", "-- +goose Up\nALTER TABLE b2b_orders ADD COLUMN serial_number TEXT;\n-- jsonb is fine inside a comment\n-- +goose Down\n")

	err := ValidateDir(dir)
	require.Error(t, err)
	msg := err.Error()
	require.Contains(t, msg, `20251101000000_add_payload.sql: "JSONB" is not portable to sqlite`)
	require.Contains(t, msg, "version 20251101000000 already used")
	require.Contains(t, msg, `20251101000000_add_notes.sql: missing "-- +goose Down"`)
	require.Contains(t, msg, "add_serial_number.sql: expected YYYYMMDDHHMMSS_name.sql")
	require.NotContains(t, msg, "20251102000000_add_serial_number.sql")
}

func TestCreateSQLMigrationRefusesToOverwrite(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2025, 11, 3, 9, 30, 0, 0, time.FixedZone("CLT", -3*60*60))

	path, err := createSQLMigration(dir, "  Order Evidence: Index ", at)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "20251103123000_order_evidence_index.sql"), path)

	_, err = createSQLMigration(dir, "order evidence index", at)
	require.ErrorContains(t, err, "already exists")

	_, err = createSQLMigration(dir, "!!!", at)
	require.Error(t, err)
}
