//go:build linux

package fs

import (
	"os/exec"
	"path/filepath"
)

// platformReveal asks the freedesktop FileManager1 service to select path,
// falling back to opening its directory with xdg-open.
func platformReveal(path string) error {
	if _, err := exec.LookPath("dbus-send"); err == nil {
		uri := "file://" + filepath.ToSlash(path)
		err := exec.Command("dbus-send", "--session", "--dest=org.freedesktop.FileManager1",
			"--type=method_call", "/org/freedesktop/FileManager1",
			"org.freedesktop.FileManager1.ShowItems", "array:string:"+uri, "string:").Run()
		if err == nil {
			return nil
		}
	}
	return exec.Command("xdg-open", filepath.Dir(path)).Start()
}
