// Command tupm is a thin command-line front end over the database facade.
// It is a consumer of the core, not part of it: argument parsing, password
// prompting UX, and path resolution live here, never in internal/database,
// internal/container, or internal/payload.
package main

import (
	"os"

	"tupm/internal/cli"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	os.Exit(cli.Execute(version))
}
