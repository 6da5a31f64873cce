// Package version holds build information injected via -ldflags.
package version

import "fmt"

var (
	// Version is the release version, e.g. -ldflags "-X github.com/ytget/omnitool/internal/version.Version=v2.0.0"
	Version = "dev"
	// Commit is the VCS revision the binary was built from
	Commit = "none"
)

// String returns a human readable version line
func String() string {
	return fmt.Sprintf("omnitool %s (%s)", Version, Commit)
}
