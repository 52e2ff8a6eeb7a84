// Package trash moves files to the platform trash (freedesktop Trash on Linux,
// ~/.Trash on macOS, the Recycle Bin on Windows) instead of deleting them.
package trash

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnavailable is returned when the platform trash cannot be located.
var ErrUnavailable = errors.New("trash unavailable")

// MoveToTrash moves a file or directory to the system trash. Errors wrap the
// underlying *os.PathError so callers can still test for fs.ErrNotExist and
// fs.ErrPermission.
func MoveToTrash(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Lstat(abs); err != nil {
		return err
	}
	return moveToTrash(abs)
}

// Path returns the trash directory, or a shell marker on Windows.
func Path() string {
	return getPath()
}

// IsAvailable reports whether the trash can be used on this machine.
func IsAvailable() bool {
	return isAvailable()
}

// DisplayName is "Trash" on macOS/Linux and "Recycle Bin" on Windows.
func DisplayName() string {
	return displayName()
}

// uniqueName returns base, or base with a counter inserted before the
// extension, such that exists reports false for it.
func uniqueName(base string, exists func(name string) bool, format string) string {
	if !exists(base) {
		return base
	}
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	for i := 1; ; i++ {
		name := fmt.Sprintf(format, stem, i, ext)
		if !exists(name) {
			return name
		}
	}
}
