//go:build darwin

package fs

import (
	"os"
	"path/filepath"
)

// Volume is a mounted drive offered as a starting location.
type Volume struct {
	Name string
	Path string
}

// ListDrives returns the entries of /Volumes, minus the boot volume which is
// a symlink to "/".
func ListDrives() []Volume {
	entries, err := os.ReadDir("/Volumes")
	if err != nil {
		return nil
	}
	var vols []Volume
	for _, e := range entries {
		full := filepath.Join("/Volumes", e.Name())
		if target, err := os.Readlink(full); err == nil && target == "/" {
			continue
		}
		if info, err := os.Stat(full); err != nil || !info.IsDir() {
			continue
		}
		vols = append(vols, Volume{Name: e.Name(), Path: full})
	}
	return vols
}
