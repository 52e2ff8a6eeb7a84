//go:build linux

package fs

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Volume is a mounted drive offered as a starting location.
type Volume struct {
	Name string
	Path string
}

var skipFSTypes = map[string]bool{
	"tmpfs": true, "devtmpfs": true, "cgroup": true, "cgroup2": true,
	"proc": true, "sysfs": true, "overlay": true, "squashfs": true,
}

var skipMountPrefixes = []string{"/sys", "/proc", "/dev", "/run", "/snap", "/boot"}

// ListDrives returns removable media and other real mounts from /proc/mounts.
// The root filesystem is not included.
func ListDrives() []Volume {
	f, err := os.Open("/proc/mounts")
	if err != nil {
		return nil
	}
	defer f.Close()
	return parseMounts(f)
}

func parseMounts(r io.Reader) []Volume {
	var vols []Volume
	seen := map[string]bool{"/": true}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 {
			continue
		}
		mount, fsType := fields[1], fields[2]
		if seen[mount] || skipFSTypes[fsType] || hasAnyPrefix(mount, skipMountPrefixes) {
			continue
		}
		seen[mount] = true

		name := filepath.Base(mount)
		if mount == "/home" {
			name = "home volume"
		}
		vols = append(vols, Volume{Name: name, Path: mount})
	}
	return vols
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if s == p || strings.HasPrefix(s, p+"/") {
			return true
		}
	}
	return false
}
