/*
Package version contains all build time metadata (version, build time, git commit, etc) and the latest release
lookup used for update notifications.
*/
package version

import (
	"fmt"
	"runtime"

	"github.com/anchore/vercheck/internal"
)

const valueNotProvided = "[not provided]"

// all variables here are provided as build-time arguments, with clear default values
var (
	version      = valueNotProvided
	gitCommit    = valueNotProvided
	gitTreeState = valueNotProvided
	buildDate    = valueNotProvided
	platform     = fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
)

// Version describes the running binary.
type Version struct {
	Application  string `json:"application"`
	Version      string `json:"version"`
	GitCommit    string `json:"gitCommit"`
	GitTreeState string `json:"gitTreeState"`
	BuildDate    string `json:"buildDate"`
	GoVersion    string `json:"goVersion"`
	Compiler     string `json:"compiler"`
	Platform     string `json:"platform"`
}

// FromBuild provides all version details
func FromBuild() Version {
	return Version{
		Application:  internal.ApplicationName,
		Version:      version,
		GitCommit:    gitCommit,
		GitTreeState: gitTreeState,
		BuildDate:    buildDate,
		GoVersion:    runtime.Version(),
		Compiler:     runtime.Compiler,
		Platform:     platform,
	}
}

// Provided reports whether a version was injected at build time.
func (v Version) Provided() bool {
	return v.Version != valueNotProvided
}
