// Package version provides version information for the goldwatch application.
package version

// Version is the current version of the goldwatch application.
const Version = "0.1.0"

// String returns the full version string.
func String() string {
	return "goldwatch v" + Version
}
