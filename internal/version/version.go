// Package version reports build information. Release builds stamp the
// variables with -ldflags; `go install` builds fall back to the module
// build info.
package version

import (
	"fmt"
	"runtime/debug"
	"strings"
)

var (
	// Version is the release tag, "dev" for unstamped builds
	Version = "dev"
	// Commit is the VCS revision the binary was built from
	Commit = "unknown"
	// BuildDate is when the binary was built
	BuildDate = "unknown"
)

// Engines lists the script engines compiled into the binary
var Engines = []string{"js", "tengo"}

// String formats the version line shown by `wpshell --version`
func String() string {
	version, commit := Version, Commit
	if info, ok := debug.ReadBuildInfo(); ok {
		version, commit = fromBuildInfo(info, version, commit)
	}
	return fmt.Sprintf("%s (commit: %s, built: %s, engines: %s)", version, commit, BuildDate, strings.Join(Engines, ", "))
}

// fromBuildInfo fills in values that were not stamped at link time
func fromBuildInfo(info *debug.BuildInfo, version, commit string) (string, string) {
	if version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		version = info.Main.Version
	}
	if commit == "unknown" {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && s.Value != "" {
				commit = s.Value
			}
		}
	}
	return version, commit
}
