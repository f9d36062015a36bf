// Package version provides version information for the mdcombine CLI tool.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Populated at build time, for example:
// go build -ldflags "-X 'mdcombine/pkg/version.Version=1.2.3' -X 'mdcombine/pkg/version.Commit=abcdefg'"
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// Info describes the running binary.
type Info struct {
	Version   string
	GitCommit string
	BuildTime string
	GoVersion string
	Platform  string
}

// Get returns the current version information. Binaries installed with
// go install carry a module version, used when no -ldflags value was set.
func Get() Info {
	v := Version
	if v == "dev" {
		if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			v = bi.Main.Version
		}
	}
	return Info{
		Version:   v,
		GitCommit: Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String renders the information on one line, e.g.
// mdcombine version 1.2.3 (commit: abcdefg) built at 2024-04-27T15:04:05Z with go1.24.0 on linux/amd64
func (i Info) String() string {
	return fmt.Sprintf("mdcombine version %s (commit: %s) built at %s with %s on %s",
		i.Version, i.GitCommit, i.BuildTime, i.GoVersion, i.Platform)
}
