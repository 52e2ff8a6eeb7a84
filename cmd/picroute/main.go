package main

import (
	"os"

	"github.com/justyntemme/picroute/internal/cli"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = ""

func main() {
	if version != "" {
		cli.Version = version
	}
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
