package client

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophprofile/internal/client/models"
	"github.com/dmitrijs2005/gophprofile/internal/dbx"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestInitDatabase_CreatesSchema(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "profile.db")

	repos, err := InitDatabase(ctx, dsn, time.Second)
	require.NoError(t, err)
	defer repos.Close()

	assert.Equal(t, dbx.DialectSQLite, repos.Dialect)
	for _, table := range []string{"goose_db_version", "profiles", "profile_images"} {
		assert.True(t, tableExists(t, repos.DB, table), table)
	}
}

func TestInitDatabase_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "profile.db")

	repos, err := InitDatabase(ctx, dsn, time.Second)
	require.NoError(t, err)
	want := &models.Profile{Name: "Ada", ImageURLs: []string{"https://cdn.test/a.png"}}
	require.NoError(t, repos.Profiles.Replace(ctx, "k", want))
	require.NoError(t, repos.Close())

	repos, err = InitDatabase(ctx, dsn, time.Second)
	require.NoError(t, err, "migrations must be idempotent")
	defer repos.Close()

	got, err := repos.Profiles.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.ImageURLs, got.ImageURLs)
}

func TestInitDatabase_UnreachablePostgres(t *testing.T) {
	_, err := InitDatabase(context.Background(), "postgres://u:p@127.0.0.1:1/profiles?sslmode=disable", 300*time.Millisecond)
	require.Error(t, err)
}

func TestInitDatabase_CreatesMissingDirectory(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "nested", "data", "profile.db")

	repos, err := InitDatabase(context.Background(), dsn, time.Second)
	require.NoError(t, err)
	defer repos.Close()

	assert.FileExists(t, dsn)
}

func TestIsSQLiteFile(t *testing.T) {
	assert.True(t, isSQLiteFile("profile.db"))
	assert.True(t, isSQLiteFile("/var/lib/app/profile.db"))
	assert.False(t, isSQLiteFile(":memory:"))
	assert.False(t, isSQLiteFile("file:p?mode=memory&cache=shared"))
	assert.False(t, isSQLiteFile("postgres://localhost/p"))
	assert.False(t, isSQLiteFile(""))
}
