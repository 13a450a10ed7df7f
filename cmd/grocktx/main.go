package main

import (
	"os"

	"github.com/grocktx/grocktx/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
