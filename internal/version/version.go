// Package version holds the orderhelper build metadata stamped via ldflags
// (-X github.com/oradigit/orderhelper/internal/version.Version=...).
package version

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String renders the build metadata as a single version line.
func String() string {
	return Version + " (" + Commit + ", " + Date + ")"
}

