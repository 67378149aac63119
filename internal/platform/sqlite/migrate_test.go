package sqlite

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMigrations() fstest.MapFS {
	return fstest.MapFS{
		"migrations/0001_create_users.up.sql": &fstest.MapFile{
			Data: []byte("CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT NOT NULL);"),
		},
		"migrations/0001_create_users.down.sql": &fstest.MapFile{
			Data: []byte("DROP TABLE users;"),
		},
		"migrations/0002_add_email.up.sql": &fstest.MapFile{
			Data: []byte("ALTER TABLE users ADD COLUMN email TEXT;"),
		},
		"migrations/0002_add_email.down.sql": &fstest.MapFile{
			Data: []byte("ALTER TABLE users DROP COLUMN email;"),
		},
	}
}

func TestApplyMigrations(t *testing.T) {
	tdb := NewTestDBInMemory(t)
	fsys := testMigrations()

	version, dirty, err := MigrationVersion(tdb.DB, fsys, "migrations")
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)
	assert.False(t, dirty)

	require.NoError(t, ApplyMigrations(tdb.DB, fsys, "migrations"))
	assert.True(t, tdb.TableExists(t, "users"))

	tdb.Exec(t, "INSERT INTO users (name, email) VALUES (?, ?)", "john", "john@example.com")
	assert.Equal(t, 1, tdb.CountRows(t, "users"))

	version, dirty, err = MigrationVersion(tdb.DB, fsys, "migrations")
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
	assert.False(t, dirty)
}

func TestApplyMigrations_Idempotent(t *testing.T) {
	tdb := NewTestDBFile(t)
	fsys := testMigrations()

	require.NoError(t, ApplyMigrations(tdb.DB, fsys, "migrations"))
	require.NoError(t, ApplyMigrations(tdb.DB, fsys, "migrations"), "second run must be a no-op")

	// the database handle must stay usable after migrate is done with it
	assert.NoError(t, tdb.DB.Ping())
}

func TestApplyMigrations_BadSQL(t *testing.T) {
	tdb := NewTestDBInMemory(t)
	fsys := fstest.MapFS{
		"migrations/0001_broken.up.sql": &fstest.MapFile{Data: []byte("CREATE TABLE (;")},
	}

	err := ApplyMigrations(tdb.DB, fsys, "migrations")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to apply migrations")
}

func TestApplyMigrations_MissingDir(t *testing.T) {
	tdb := NewTestDBInMemory(t)

	err := ApplyMigrations(tdb.DB, fstest.MapFS{}, "migrations")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open migrations source")
}
