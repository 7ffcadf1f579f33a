// Package version reports the build's version metadata.
package version

import (
	"fmt"
	"runtime/debug"
)

// These variables are populated by the Go linker (LDFLAGS) at build time.
var (
	Version    = "dev"     // Default value if not built with LDFLAGS
	CommitHash = "unknown" // Default value
	BuildDate  = "unknown" // Default value
)

// String formats the version line printed by `cleansarif version`. Builds
// without LDFLAGS fall back to the module version recorded by go install.
func String() string {
	v := Version
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			v = info.Main.Version
		}
	}
	return fmt.Sprintf("cleansarif %s (commit %s, built %s)", v, CommitHash, BuildDate)
}
