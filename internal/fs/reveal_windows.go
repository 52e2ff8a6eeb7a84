//go:build windows

package fs

import "os/exec"

func platformReveal(path string) error {
	return exec.Command("explorer", "/select,", path).Start()
}
