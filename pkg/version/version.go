// Package version holds build metadata stamped in via ldflags.
package version

// Build metadata, overridden at link time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
