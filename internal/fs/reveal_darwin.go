//go:build darwin

package fs

import "os/exec"

func platformReveal(path string) error {
	return exec.Command("open", "-R", path).Start()
}
