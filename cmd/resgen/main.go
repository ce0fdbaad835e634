package main

import (
	"os"

	"github.com/resgen-dev/resgen/internal/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
