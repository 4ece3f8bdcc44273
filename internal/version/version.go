// Package version reports nova build metadata.
package version

import (
	"runtime"
	"runtime/debug"
)

// Set at link time with -ldflags "-X".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String renders the one-line version banner.
func String() string {
	return "nova " + resolvedVersion() + " (commit=" + Commit + ", date=" + Date + ", go=" + runtime.Version() + ")"
}

// resolvedVersion falls back to the module version for `go install` builds.
func resolvedVersion() string {
	if Version != "dev" {
		return Version
	}
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return Version
	}
	return info.Main.Version
}
