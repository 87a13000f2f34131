// Package version holds build information, overridden at link time with
// -ldflags "-X github.com/mandalnilabja/sommelier/internal/version.Version=...".
package version

// Version is the release identifier reported by the banner and root status.
var Version = "dev"
