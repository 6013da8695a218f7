package migrations_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/slok/farmer/internal/log"
	"github.com/slok/farmer/internal/storage/sqlite/migrations"
)

func tableCount(t *testing.T, db *sql.DB) int {
	t.Helper()

	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('runs', 'run_steps')`).Scan(&n)
	require.NoError(t, err)
	return n
}

func TestHistorySchema(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "farmer.db"))
	require.NoError(err)
	defer db.Close()

	schema, err := migrations.NewHistorySchema(db, log.Noop)
	require.NoError(err)

	// Migrating twice keeps the same version.
	for range 2 {
		version, err := schema.Migrate(context.Background())
		require.NoError(err)
		assert.Equal(uint(1), version)
		assert.Equal(2, tableCount(t, db))
	}

	require.NoError(schema.Drop(context.Background()))
	assert.Equal(0, tableCount(t, db))
}

func TestNewHistorySchemaRequiresDB(t *testing.T) {
	_, err := migrations.NewHistorySchema(nil, nil)
	assert.Error(t, err)
}
