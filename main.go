package main

import (
	"context"
	"os"

	"github.com/anipix/anipix/cmd"
	"github.com/charmbracelet/fang"
)

// Overridden at build time with -ldflags "-X main.version=..."
var version = "0.1.0"

func main() {
	// fang adds styled help, completions, manpages and --version
	if err := fang.Execute(
		context.Background(),
		cmd.NewRootCmd(),
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, os.Kill),
	); err != nil {
		os.Exit(1)
	}
}
