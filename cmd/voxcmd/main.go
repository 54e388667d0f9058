// Package main is the entry point for voxcmd.
package main

import (
	"fmt"
	"os"

	// Grammars register themselves by name.
	_ "github.com/dshills/voxcmd/internal/grammar/readyornot"
	_ "github.com/dshills/voxcmd/internal/grammar/table"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
