// Package version holds ragdex build metadata injected via ldflags
// (-X github.com/kailas-cloud/ragdex/internal/version.Version=...),
// logged once at startup.
package version

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
