// Package version exposes build metadata stamped in at link time.
package version

import "fmt"

// Set via -ldflags "-X github.com/voidbox/voidbox/internal/version.Version=...".
var (
	Version = "dev"
	Commit  = ""
)

// String returns the version, with the short commit when one was stamped in.
func String() string {
	if Commit == "" {
		return Version
	}
	return fmt.Sprintf("%s (%s)", Version, Commit)
}
