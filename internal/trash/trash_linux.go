//go:build linux

package trash

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// Freedesktop layout under $XDG_DATA_HOME/Trash:
//
//	files/<name>             the trashed file
//	info/<name>.trashinfo    original path and deletion date

const trashInfoTime = "2006-01-02T15:04:05"

func getPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "Trash")
}

func ensureDirs() (files, info string, err error) {
	root := getPath()
	if root == "" {
		return "", "", ErrUnavailable
	}
	files = filepath.Join(root, "files")
	info = filepath.Join(root, "info")
	for _, dir := range []string{files, info} {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return "", "", fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return files, info, nil
}

func isAvailable() bool {
	_, _, err := ensureDirs()
	return err == nil
}

func moveToTrash(path string) error {
	filesDir, infoDir, err := ensureDirs()
	if err != nil {
		return err
	}

	name := uniqueName(filepath.Base(path), func(n string) bool {
		_, err := os.Lstat(filepath.Join(filesDir, n))
		return err == nil
	}, "%s.%d%s")

	infoFile := filepath.Join(infoDir, name+".trashinfo")
	content := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		url.PathEscape(path), time.Now().Format(trashInfoTime))
	if err := os.WriteFile(infoFile, []byte(content), 0o600); err != nil {
		return fmt.Errorf("write trashinfo: %w", err)
	}

	if err := os.Rename(path, filepath.Join(filesDir, name)); err != nil {
		os.Remove(infoFile)
		return err
	}
	return nil
}

func displayName() string {
	return "Trash"
}
