// Package version provides build version information for the assetstamp binary.
//
// It describes the tool itself; the asset version stamped into HTML files is
// managed by internal/versionstore.
package version

import (
	"fmt"
	"runtime/debug"
)

// Build-time variables - set via ldflags
var (
	// Version is the semantic version of the application
	Version = "dev"
	// Commit is the git commit hash
	Commit = "none"
	// BuildDate is the date when the binary was built
	BuildDate = "unknown"
)

// GetVersion returns the full version string including commit and build date.
func GetVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", GetShortVersion(), Commit, BuildDate)
}

// GetShortVersion returns only the semantic version.
// Binaries installed with "go install" report their module version.
func GetShortVersion() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}
