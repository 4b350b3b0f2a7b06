package main

import (
	"github.com/tebeka/atexit"

	"github.com/wesleyorama2/montepi/internal/cli"
)

// Main is the entry point for the application
// It's exported to make it testable
func Main() int {
	if err := cli.Execute(); err != nil {
		return 1
	}
	return 0
}

func main() {
	// atexit.Exit runs the registered handlers before exiting.
	atexit.Exit(Main())
}
