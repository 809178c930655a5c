// Package version exposes build metadata injected at link time:
//
//	go build -ldflags "-X git.home.luguber.info/inful/sitepipe/internal/version.Version=v0.3.0"
package version

import "fmt"

// Version is the release version; "dev" for local builds.
var Version = "dev"

// Build metadata, also set via ldflags.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String formats the version line printed by --version.
func String() string {
	return fmt.Sprintf("sitepipe %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
