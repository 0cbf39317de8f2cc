// Package main is the entry point for the summarize CLI application.
package main

import (
	"fmt"
	"os"

	"github.com/caseproof/summarize/cmd"
	"github.com/caseproof/summarize/internal/logging"
)

// main executes the root command and exits non-zero with a one-line
// cause when the run fails.
func main() {
	if err := cmd.Execute(); err != nil {
		logging.Error("run failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
