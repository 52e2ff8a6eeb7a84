package fs

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/picroute/internal/nav"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func itemNames(items []nav.DirItem) []string {
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.Name
	}
	sort.Strings(names)
	return names
}

func TestListDirectory(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, filepath.Join(tmp, "a.png"), "png")
	writeFile(t, filepath.Join(tmp, "notes.txt"), "hello")
	writeFile(t, filepath.Join(tmp, ".hidden.jpg"), "x")
	writeFile(t, filepath.Join(tmp, "sub", "nested.png"), "nested")

	s := NewSystem(Options{})
	items, err := s.ListDirectory(context.Background(), tmp)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png", "notes.txt", "sub"}, itemNames(items))

	for _, it := range items {
		switch it.Name {
		case "sub":
			assert.True(t, it.IsDir)
		case "notes.txt":
			assert.Equal(t, int64(5), it.Size)
			assert.Equal(t, filepath.Join(tmp, "notes.txt"), it.Path)
			assert.False(t, it.ModTime.IsZero())
		}
	}

	s = NewSystem(Options{ShowHidden: true})
	items, err = s.ListDirectory(context.Background(), tmp)
	require.NoError(t, err)
	assert.Contains(t, itemNames(items), ".hidden.jpg")
}

func TestListDirectoryErrors(t *testing.T) {
	tmp := t.TempDir()
	s := NewSystem(Options{})

	_, err := s.ListDirectory(context.Background(), filepath.Join(tmp, "missing"))
	assert.ErrorIs(t, err, nav.ErrNotFound)

	file := filepath.Join(tmp, "a.png")
	writeFile(t, file, "x")
	_, err = s.ListDirectory(context.Background(), file)
	assert.ErrorIs(t, err, nav.ErrNotFound)
}

func TestListDirectoryAccessDenied(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	locked := filepath.Join(t.TempDir(), "locked")
	require.NoError(t, os.Mkdir(locked, 0o000))
	t.Cleanup(func() { os.Chmod(locked, 0o755) })

	_, err := NewSystem(Options{}).ListDirectory(context.Background(), locked)
	assert.ErrorIs(t, err, nav.ErrAccessDenied)
}

func TestListDirectoryCancelled(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, filepath.Join(tmp, "a.png"), "x")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSystem(Options{}).ListDirectory(ctx, tmp)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMoveToTrashPartialFailure(t *testing.T) {
	s := NewSystem(Options{})
	var trashed []string
	s.trashFn = func(path string) error {
		if path == "/r/b.png" {
			return &os.PathError{Op: "rename", Path: path, Err: os.ErrPermission}
		}
		trashed = append(trashed, path)
		return nil
	}

	err := s.MoveToTrash(context.Background(), []string{"/r/a.png", "/r/b.png", "/r/c.png"})
	assert.ErrorIs(t, err, nav.ErrPartialFailure)
	var partial *nav.PartialFailureError
	require.ErrorAs(t, err, &partial)
	require.Len(t, partial.Failed, 1)
	assert.Equal(t, "/r/b.png", partial.Failed[0].Path)
	assert.ErrorIs(t, partial.Failed[0].Err, nav.ErrAccessDenied)
	assert.Equal(t, []string{"/r/a.png", "/r/c.png"}, trashed)
}

func TestMoveToTrashAllDenied(t *testing.T) {
	s := NewSystem(Options{})
	s.trashFn = func(path string) error {
		return &os.PathError{Op: "rename", Path: path, Err: os.ErrPermission}
	}
	err := s.MoveToTrash(context.Background(), []string{"/r/a.png", "/r/b.png"})
	assert.ErrorIs(t, err, nav.ErrAccessDenied)
	assert.NotErrorIs(t, err, nav.ErrPartialFailure)
}

func TestCreateDirectory(t *testing.T) {
	tmp := t.TempDir()
	s := NewSystem(Options{})

	path, err := s.CreateDirectory(context.Background(), tmp, "Trips")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmp, "Trips"), path)
	assert.DirExists(t, path)

	_, err = s.CreateDirectory(context.Background(), tmp, "Trips")
	assert.ErrorIs(t, err, nav.ErrAlreadyExists)

	_, err = s.CreateDirectory(context.Background(), filepath.Join(tmp, "missing"), "x")
	assert.ErrorIs(t, err, nav.ErrNotFound)
}

func TestCopyFilesKeepsBoth(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeFile(t, filepath.Join(src, "a.png"), "new")
	writeFile(t, filepath.Join(dst, "a.png"), "old")
	writeFile(t, filepath.Join(dst, "a_copy1.png"), "older")

	s := NewSystem(Options{})
	require.NoError(t, s.CopyFiles(context.Background(), []string{filepath.Join(src, "a.png")}, dst))

	data, err := os.ReadFile(filepath.Join(dst, "a_copy2.png"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
	data, err = os.ReadFile(filepath.Join(dst, "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
	assert.FileExists(t, filepath.Join(src, "a.png"), "copy leaves the source in place")
}

func TestCopyFilesDirectory(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeFile(t, filepath.Join(src, "album", "one.png"), "1")
	writeFile(t, filepath.Join(src, "album", "deep", "two.png"), "2")

	s := NewSystem(Options{})
	require.NoError(t, s.CopyFiles(context.Background(), []string{filepath.Join(src, "album")}, dst))
	assert.FileExists(t, filepath.Join(dst, "album", "one.png"))
	assert.FileExists(t, filepath.Join(dst, "album", "deep", "two.png"))
}

func TestCopyFilesErrors(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "a.png"), "a")
	s := NewSystem(Options{})

	err := s.CopyFiles(context.Background(), []string{filepath.Join(src, "a.png")}, filepath.Join(src, "nope"))
	assert.ErrorIs(t, err, nav.ErrNotFound)

	dst := t.TempDir()
	err = s.CopyFiles(context.Background(), []string{filepath.Join(src, "a.png"), filepath.Join(src, "gone.png")}, dst)
	var partial *nav.PartialFailureError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, map[string]bool{filepath.Join(src, "gone.png"): true}, partial.FailedPaths())
	assert.FileExists(t, filepath.Join(dst, "a.png"))
}

func TestDefaultLocations(t *testing.T) {
	home := t.TempDir()
	for _, d := range []string{"Pictures", "Downloads"} {
		require.NoError(t, os.Mkdir(filepath.Join(home, d), 0o755))
	}
	fav := t.TempDir()

	s := NewSystem(Options{
		Home: home,
		Favorites: []nav.Location{
			{Name: "shoot", Path: fav},
			{Name: "dup", Path: filepath.Join(home, "Pictures")},
		},
	})
	locs, err := s.DefaultLocations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []nav.Location{
		{Name: "downloads", Path: filepath.Join(home, "Downloads")},
		{Name: "pictures", Path: filepath.Join(home, "Pictures")},
		{Name: "shoot", Path: fav},
	}, locs)
}

func TestDefaultLocationsFallsBackToHome(t *testing.T) {
	home := t.TempDir()
	locs, err := NewSystem(Options{Home: home}).DefaultLocations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []nav.Location{{Name: "home", Path: home}}, locs)
}

func TestRevealUsesPlatformHook(t *testing.T) {
	s := NewSystem(Options{})
	var got string
	s.revealFn = func(path string) error { got = path; return nil }
	require.NoError(t, s.RevealInFileManager("/r/a.png"))
	assert.Equal(t, "/r/a.png", got)
}
