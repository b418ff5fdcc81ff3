// Package buildinfo carries the release stamp of the fct binary.
//
// Release builds set the variables with ldflags, e.g.
//
//	go build -ldflags "-X github.com/matzehuels/fct/pkg/buildinfo.Version=v0.3.0" ./cmd/fct
//
// Commit and Date are set the same way.
package buildinfo

import (
	"fmt"
	"runtime"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the build stamp as reported by /healthz and --version.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Go      string `json:"go"`
}

// Get snapshots the stamped variables.
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date, Go: runtime.Version()}
}

// Dev reports whether the binary was built without a release stamp.
func (i Info) Dev() bool { return i.Version == "dev" }

func (i Info) String() string {
	if i.Dev() {
		return fmt.Sprintf("%s (%s)", i.Version, i.Go)
	}
	return fmt.Sprintf("%s (commit %s, built %s, %s)", i.Version, i.Commit, i.Date, i.Go)
}

// Template is the cobra --version template, e.g. "fct v0.3.0 (commit ...)".
func Template() string {
	return "{{.Name}} " + Get().String() + "\n"
}
