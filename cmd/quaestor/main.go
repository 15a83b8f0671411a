package main

import (
	"os"

	"github.com/quaestorlabs/quaestor/backend/cmd/quaestor/commands"
)

// main is the entry point for the Quaestor CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
