// Package version exposes the build metadata shown in the About dialog
// and the startup log line.
package version

// Overridden at build time via -ldflags "-X wmstudio/internal/version.Version=...".
var (
	// Version is the release version of this build.
	Version = "0.1.0"

	// BuildTime is when the binary was built, UTC.
	BuildTime = "unknown"

	// GitCommit is the commit the binary was built from.
	GitCommit = "unknown"
)
