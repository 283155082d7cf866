// Package buildinfo holds version information stamped in at build time.
//
//	go build -ldflags "-X github.com/woodfordbl/maffei-design/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/woodfordbl/maffei-design/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/woodfordbl/maffei-design/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" ./cmd/maffei
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}

// ResolvedVersion returns Version, falling back to the module version
// recorded by `go install` when no ldflags were given.
func ResolvedVersion() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}
