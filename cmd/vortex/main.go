// vortex is the ticket triage CLI: analyze, batch, rules, version.
//
// Usage:
//
//	vortex analyze "the app keeps crashing" --age 12 --tickets 3
//	vortex batch tickets.jsonl -o results.jsonl --quarantine phishing.jsonl
//	vortex rules --format yaml
//	vortex version
package main

import (
	"fmt"
	"os"

	perr "vortex/internal/platform/errors"
)

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "vortex:", err)
		os.Exit(perr.ExitCode(err))
	}
}
