// Package fs is the local filesystem Provider for the navigation engine:
// depth-1 listings with fastwalk, trash, copy, mkdir, reveal and the
// well-known starting locations.
package fs

import (
	"context"
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"

	"github.com/justyntemme/picroute/internal/debug"
	"github.com/justyntemme/picroute/internal/nav"
	"github.com/justyntemme/picroute/internal/trash"
)

// DirPermission is the mode of folders created by the provider.
const DirPermission = 0o755

// Options configures a System.
type Options struct {
	Home           string         // Empty means os.UserHomeDir
	Favorites      []nav.Location // Appended after the well-known folders
	IncludeVolumes bool
	ShowHidden     bool
}

// System implements nav.Provider on the local filesystem.
type System struct {
	opts Options

	// Seams for tests.
	trashFn  func(path string) error
	revealFn func(path string) error
}

var _ nav.Provider = (*System)(nil)

func NewSystem(opts Options) *System {
	return &System{
		opts:     opts,
		trashFn:  trash.MoveToTrash,
		revealFn: platformReveal,
	}
}

// classify maps OS errors onto the engine's sentinels.
func classify(op, path string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, iofs.ErrNotExist):
		return fmt.Errorf("%s %s: %w", op, path, nav.ErrNotFound)
	case errors.Is(err, iofs.ErrPermission):
		return fmt.Errorf("%s %s: %w", op, path, nav.ErrAccessDenied)
	case errors.Is(err, iofs.ErrExist):
		return fmt.Errorf("%s %s: %w", op, path, nav.ErrAlreadyExists)
	}
	return fmt.Errorf("%s %s: %w", op, path, err)
}

// ListDirectory returns the direct children of path.
func (s *System) ListDirectory(ctx context.Context, path string) ([]nav.DirItem, error) {
	debug.Log(debug.FS, "list: reading %q", path)

	info, err := os.Stat(path)
	if err != nil {
		return nil, classify("list", path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("list %s: not a directory: %w", path, nav.ErrNotFound)
	}
	// fastwalk skips unreadable roots silently, so probe once up front.
	f, err := os.Open(path)
	if err != nil {
		return nil, classify("list", path, err)
	}
	f.Close()

	var result []nav.DirItem
	var mu sync.Mutex

	conf := &fastwalk.Config{Follow: true}
	pathLen := len(path)

	err = fastwalk.Walk(conf, path, func(fullPath string, d iofs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			debug.Log(debug.FS_ENTRY, "list: walk error at %q: %v", fullPath, err)
			return nil
		}
		if fullPath == path {
			return nil
		}

		relStart := pathLen
		if relStart < len(fullPath) && os.IsPathSeparator(fullPath[relStart]) {
			relStart++
		}
		if strings.ContainsAny(fullPath[relStart:], `/\`) {
			if d.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}

		if !s.opts.ShowHidden && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}

		info, err := fastwalk.StatDirEntry(fullPath, d)
		if err != nil {
			// Broken symlink
			info, err = os.Lstat(fullPath)
			if err != nil {
				debug.Log(debug.FS_ENTRY, "list: skipping %q: %v", d.Name(), err)
				return nil
			}
		}

		debug.Log(debug.FS_ENTRY, "list: %q isDir=%v size=%d", d.Name(), info.IsDir(), info.Size())
		mu.Lock()
		result = append(result, nav.DirItem{
			Name:    d.Name(),
			Path:    fullPath,
			IsDir:   info.IsDir(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		mu.Unlock()

		if d.IsDir() {
			return fastwalk.SkipDir
		}
		return nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		debug.Log(debug.FS, "list: walk error: %v", err)
		return nil, classify("list", path, err)
	}

	debug.Log(debug.FS, "list: %q returned %d items", path, len(result))
	return result, nil
}

// MoveToTrash trashes each path on its own. When only some fail the result
// is a *nav.PartialFailureError; when all fail for lack of permission it is
// nav.ErrAccessDenied.
func (s *System) MoveToTrash(ctx context.Context, paths []string) error {
	var failed []nav.PathError
	denied := 0
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			failed = append(failed, nav.PathError{Path: p, Err: err})
			continue
		}
		err := s.trashFn(p)
		if err == nil {
			debug.Log(debug.FS, "trash: %q", p)
			continue
		}
		debug.Log(debug.FS, "trash: %q failed: %v", p, err)
		err = classify("trash", p, err)
		if errors.Is(err, nav.ErrAccessDenied) {
			denied++
		}
		failed = append(failed, nav.PathError{Path: p, Err: err})
	}

	switch {
	case len(failed) == 0:
		return nil
	case denied == len(paths):
		return fmt.Errorf("trash %d item(s): %w", len(paths), nav.ErrAccessDenied)
	}
	return &nav.PartialFailureError{Failed: failed}
}

// CreateDirectory creates name inside parent and returns the new path.
func (s *System) CreateDirectory(_ context.Context, parent, name string) (string, error) {
	path := filepath.Join(parent, name)
	if err := os.Mkdir(path, DirPermission); err != nil {
		return "", classify("mkdir", path, err)
	}
	debug.Log(debug.FS, "mkdir: %q", path)
	return path, nil
}

// RevealInFileManager opens the platform file manager on path.
func (s *System) RevealInFileManager(path string) error {
	debug.Log(debug.FS, "reveal: %q", path)
	return s.revealFn(path)
}
