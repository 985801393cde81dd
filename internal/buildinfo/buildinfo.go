// Package buildinfo carries version identifiers injected at build time via
// -ldflags.
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func String() string {
	return fmt.Sprintf("cbz-in %s (commit=%s, date=%s)", Version, Commit, Date)
}
