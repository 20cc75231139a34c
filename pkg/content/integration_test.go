package content

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requireDatabase opens the Postgres instance named by TEST_POSTGRES_PRIMARY
// and skips the test when the variable is unset, so the integration tests
// only run where a database is provisioned.
func requireDatabase(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_POSTGRES_PRIMARY")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_PRIMARY not set, skipping database integration test")
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	require.NoError(t, db.Ping())
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunMigrationsIntegration(t *testing.T) {
	db := requireDatabase(t)
	ctx := context.Background()

	require.NoError(t, RunMigrations(ctx, db))

	// Every migration uses IF NOT EXISTS; a second run is a no-op.
	require.NoError(t, RunMigrations(ctx, db))

	for _, table := range []string{
		"site", "site_permission", "item", "item_site",
		"item_set", "site_item_set", "media", "asset", "user_setting",
	} {
		var count int
		err := db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM information_schema.tables WHERE table_name = $1`,
			table).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "table %s missing after migrations", table)
	}
}
