// Package buildinfo reports the running binary's version stamp.
package buildinfo

import "fmt"

// Set at link time via -ldflags "-X github.com/n6ul/ulsdb/internal/buildinfo.Version=...".
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Print renders the standard one-line version banner kingpin's
// Version(...) option expects, e.g. "ulsdb version dev (commit unknown,
// built unknown)".
func Print(name string) string {
	return fmt.Sprintf("%s version %s (commit %s, built %s)", name, Version, Commit, BuildDate)
}
