package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"
	"github.com/dustin/go-humanize"

	"github.com/justyntemme/picroute/internal/debug"
	"github.com/justyntemme/picroute/internal/nav"
)

// CopyFiles copies every path into destination. Name clashes keep both
// files: "a.png" becomes "a_copy1.png", "a_copy2.png" and so on.
func (s *System) CopyFiles(ctx context.Context, paths []string, destination string) error {
	info, err := os.Stat(destination)
	if err != nil {
		return classify("copy", destination, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("copy to %s: not a directory: %w", destination, nav.ErrNotFound)
	}

	var copied atomic.Int64
	var failed []nav.PathError
	denied := 0
	for _, src := range paths {
		if err := ctx.Err(); err != nil {
			failed = append(failed, nav.PathError{Path: src, Err: err})
			continue
		}
		dst := keepBothName(filepath.Join(destination, filepath.Base(src)))
		err := copyPath(ctx, src, dst, &copied)
		if err == nil {
			debug.Log(debug.FS, "copy: %q -> %q", src, dst)
			continue
		}
		debug.Log(debug.FS, "copy: %q failed: %v", src, err)
		err = classify("copy", src, err)
		if errors.Is(err, nav.ErrAccessDenied) {
			denied++
		}
		failed = append(failed, nav.PathError{Path: src, Err: err})
	}
	debug.Log(debug.FS, "copy: %s written to %q", humanize.Bytes(uint64(copied.Load())), destination)

	switch {
	case len(failed) == 0:
		return nil
	case denied == len(paths):
		return fmt.Errorf("copy %d item(s): %w", len(paths), nav.ErrAccessDenied)
	}
	return &nav.PartialFailureError{Failed: failed}
}

func pathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// keepBothName returns dst, or the first free "_copyN" variant of it.
func keepBothName(dst string) string {
	if !pathExists(dst) {
		return dst
	}
	dir := filepath.Dir(dst)
	name := filepath.Base(dst)
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		candidate := filepath.Join(dir, base+"_copy"+strconv.Itoa(i)+ext)
		if !pathExists(candidate) {
			return candidate
		}
	}
}

func copyPath(ctx context.Context, src, dst string, copied *atomic.Int64) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return copyDir(ctx, src, dst, copied)
	}
	return copyFile(src, dst, copied)
}

// copyDir copies a directory tree: directories first, shortest path first,
// then files.
func copyDir(ctx context.Context, src, dst string, copied *atomic.Int64) error {
	type copyItem struct {
		srcPath string
		dstPath string
		isDir   bool
		mode    iofs.FileMode
	}
	var items []copyItem
	var mu sync.Mutex

	conf := &fastwalk.Config{Follow: true}
	srcLen := len(src)

	err := fastwalk.Walk(conf, src, func(fullPath string, d iofs.DirEntry, walkErr error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if walkErr != nil {
			return walkErr
		}
		rel := fullPath[srcLen:]
		if len(rel) > 0 && os.IsPathSeparator(rel[0]) {
			rel = rel[1:]
		}
		if rel == "" {
			return nil
		}
		info, err := fastwalk.StatDirEntry(fullPath, d)
		if err != nil {
			return err
		}
		mu.Lock()
		items = append(items, copyItem{
			srcPath: fullPath,
			dstPath: filepath.Join(dst, rel),
			isDir:   info.IsDir(),
			mode:    info.Mode(),
		})
		mu.Unlock()
		return nil
	})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dst, DirPermission); err != nil {
		return err
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].isDir != items[j].isDir {
			return items[i].isDir
		}
		return len(items[i].dstPath) < len(items[j].dstPath)
	})
	for _, item := range items {
		if item.isDir {
			if err := os.MkdirAll(item.dstPath, item.mode.Perm()|0o700); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(item.srcPath, item.dstPath, copied); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string, copied *atomic.Int64) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	w := &countingWriter{w: out, onWrite: func(n int64) { copied.Add(n) }}
	if _, err := io.Copy(w, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}

// countingWriter wraps an io.Writer and calls onWrite after each write
type countingWriter struct {
	w       io.Writer
	onWrite func(int64)
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	if n > 0 && cw.onWrite != nil {
		cw.onWrite(int64(n))
	}
	return n, err
}
