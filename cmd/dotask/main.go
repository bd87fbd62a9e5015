package main

import (
	"os"

	"github.com/balkashynov/dotask/internal/commands"
)

// Set by the release build via -ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersion(version, commit, date)
	// cobra has already printed the error
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
