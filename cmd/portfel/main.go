package main

import (
	"os"

	"github.com/portfel-dev/portfel/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
