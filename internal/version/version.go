// Package version holds build metadata for the asset-optimizer binary.
package version

import (
	"fmt"
	"runtime/debug"
)

// Build metadata, injected with -ldflags "-X .../internal/version.Version=v1.2.3".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// GetVersion returns the release version, or the module version recorded in
// the binary's build info when no version was injected.
func GetVersion() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}

// GetFullVersion returns version with build information
// Format: "v0.1.0 (commit: abc123, built: 2024-12-27T10:30:00Z)"
func GetFullVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", GetVersion(), Commit, Date)
}
