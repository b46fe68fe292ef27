// Package buildinfo reports the version of the linegraph binary.
//
// Release builds set the variables with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/linegraph/pkg/buildinfo.Version=v0.3.0"
//
// Other builds fall back to the module version and VCS stamp that the Go
// toolchain records in the binary.
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

func init() {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	fill(bi)
}

// fill replaces unset variables from the recorded build settings.
func fill(bi *debug.BuildInfo) {
	if v := bi.Main.Version; Version == "dev" && v != "" && v != "(devel)" {
		Version = v
	}
	stamped, dirty := Commit == "none", false
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && stamped:
			Commit = s.Value[:min(len(s.Value), 12)]
		case s.Key == "vcs.time" && Date == "unknown":
			Date = s.Value
		case s.Key == "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if stamped && dirty && Commit != "none" {
		Commit += "-dirty"
	}
}

// String returns the version, commit and build date on separate lines.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template is the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (%s, %s)\n", Version, Commit, Date)
}
