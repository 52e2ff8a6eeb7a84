//go:build darwin

package trash

import (
	"io"
	"os"
	"path/filepath"
)

// macOS keeps no metadata next to ~/.Trash entries; name clashes get a
// counter suffix.

func getPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".Trash")
}

func isAvailable() bool {
	root := getPath()
	if root == "" {
		return false
	}
	info, err := os.Stat(root)
	return err == nil && info.IsDir()
}

func moveToTrash(path string) error {
	root := getPath()
	if root == "" {
		return ErrUnavailable
	}
	name := uniqueName(filepath.Base(path), func(n string) bool {
		_, err := os.Lstat(filepath.Join(root, n))
		return err == nil
	}, "%s %d%s")
	dest := filepath.Join(root, name)

	if err := os.Rename(path, dest); err == nil {
		return nil
	}
	// Cross-device: copy then remove.
	if err := copyTree(path, dest); err != nil {
		os.RemoveAll(dest)
		return err
	}
	return os.RemoveAll(path)
}

func copyTree(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return copyFile(src, dst, info.Mode())
	}
	if err := os.MkdirAll(dst, info.Mode().Perm()); err != nil {
		return err
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := copyTree(filepath.Join(src, e.Name()), filepath.Join(dst, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_EXCL, mode.Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func displayName() string {
	return "Trash"
}
