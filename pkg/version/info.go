// Package version exposes build metadata for the hrportal binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

const (
	// Unknown marks metadata that neither ldflags nor the toolchain provided.
	Unknown = "unknown"
	// DevelopmentVersion is the version of local builds.
	DevelopmentVersion = "dev"
)

// Set with -ldflags, e.g.
// go build -ldflags="-X github.com/nimburion/hrportal/pkg/version.AppVersion=v1.2.3"
var (
	AppVersion = DevelopmentVersion
	GitCommit  = Unknown
	BuildTime  = Unknown
)

const shortRevision = 12

// Info is what `hrportal version` prints and /version serves.
type Info struct {
	Service   string `json:"service" yaml:"service"`
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	BuildTime string `json:"build_time" yaml:"build_time"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Dirty     bool   `json:"dirty,omitempty" yaml:"dirty,omitempty"`
}

// Current returns the metadata of the running binary. Values missing from ldflags are taken
// from the VCS stamps the Go toolchain records.
func Current(serviceName string) Info {
	info := Info{
		Service:   orDefault(serviceName, Unknown),
		Version:   orDefault(AppVersion, DevelopmentVersion),
		Commit:    orDefault(GitCommit, Unknown),
		BuildTime: orDefault(BuildTime, Unknown),
		GoVersion: runtime.Version(),
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.applyVCS(bi.Settings)
	}
	return info
}

func (i *Info) applyVCS(settings []debug.BuildSetting) {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if i.Commit == Unknown && s.Value != "" {
				i.Commit = s.Value[:min(len(s.Value), shortRevision)]
			}
		case "vcs.time":
			if i.BuildTime == Unknown && s.Value != "" {
				i.BuildTime = s.Value
			}
		case "vcs.modified":
			i.Dirty = s.Value == "true"
		}
	}
}

// String is the one-line form used in startup logs.
func (i Info) String() string {
	commit := i.Commit
	if i.Dirty {
		commit += "+dirty"
	}
	return fmt.Sprintf("%s@%s (commit=%s, build_time=%s, go=%s)", i.Service, i.Version, commit, i.BuildTime, i.GoVersion)
}

func orDefault(v, fallback string) string {
	if v = strings.TrimSpace(v); v == "" {
		return fallback
	}
	return v
}
