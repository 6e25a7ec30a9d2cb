package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Build information set by ldflags
var (
	Version = "dev"     // Set by goreleaser: -X github.com/arthur-debert/testbed/internal/version.Version={{.Version}}
	Commit  = "unknown" // Set by goreleaser: -X github.com/arthur-debert/testbed/internal/version.Commit={{.Commit}}
	Date    = "unknown" // Set by goreleaser: -X github.com/arthur-debert/testbed/internal/version.Date={{.Date}}
)

// Resolved returns the version, falling back to the module version
// recorded by `go install` when ldflags were not set.
func Resolved() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}

// String formats the full build information for `testbed version`
func String() string {
	return fmt.Sprintf("testbed %s (commit %s, built %s, %s/%s)", Resolved(), Commit, Date, runtime.GOOS, runtime.GOARCH)
}
