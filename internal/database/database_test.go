package database_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaidnet/tagihan/internal/database"
)

func TestParseDialect(t *testing.T) {
	d, err := database.ParseDialect("sqlite")
	require.NoError(t, err)
	assert.Equal(t, database.SQLite, d)

	_, err = database.ParseDialect("mysql")
	require.Error(t, err)
}

func TestRebind(t *testing.T) {
	q := `UPDATE bills SET status = $1, updated_at = $2 WHERE id = $10`

	pg := &database.DB{Dialect: database.Postgres}
	assert.Equal(t, q, pg.Rebind(q))

	lite := &database.DB{Dialect: database.SQLite}
	assert.Equal(t, `UPDATE bills SET status = ?1, updated_at = ?2 WHERE id = ?10`, lite.Rebind(q))
}

func TestMigrateSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "tagihan.db")

	db, err := database.New(database.SQLite, path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(database.SQLite, path))
	require.NoError(t, database.Migrate(database.SQLite, path), "second run is a no-op")

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM bills`).Scan(&n))
	assert.Zero(t, n)

	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM packages`).Scan(&n))
	assert.Zero(t, n)
}
