package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "picroute.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestFavorites(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.AddFavorite(ctx, "shoot", "/photos/shoot"))
	require.NoError(t, db.AddFavorite(ctx, "", "/photos/raw"))
	require.NoError(t, db.AddFavorite(ctx, "renamed", "/photos/shoot"))

	favs, err := db.Favorites(ctx)
	require.NoError(t, err)
	require.Len(t, favs, 2)
	assert.Equal(t, "renamed", favs[0].Name)
	assert.Equal(t, "/photos/shoot", favs[0].Path)
	assert.Equal(t, "raw", favs[1].Name)

	removed, err := db.RemoveFavorite(ctx, "/photos/shoot")
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = db.RemoveFavorite(ctx, "/photos/shoot")
	require.NoError(t, err)
	assert.False(t, removed)

	favs, err = db.Favorites(ctx)
	require.NoError(t, err)
	assert.Len(t, favs, 1)
}

func TestSettings(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	_, ok, err := db.Setting(ctx, SettingLastPath)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, db.SetSetting(ctx, SettingLastPath, "/a"))
	require.NoError(t, db.SetSetting(ctx, SettingLastPath, "/b"))
	v, ok, err := db.Setting(ctx, SettingLastPath)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/b", v)

	all, err := db.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{SettingLastPath: "/b"}, all)
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "picroute.db")
	ctx := context.Background()

	db, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, db.AddFavorite(ctx, "x", "/x"))
	require.NoError(t, db.Close())

	db, err = Open(ctx, path)
	require.NoError(t, err)
	defer db.Close()
	favs, err := db.Favorites(ctx)
	require.NoError(t, err)
	assert.Len(t, favs, 1)
}
