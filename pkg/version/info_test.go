package version

import (
	"runtime"
	"runtime/debug"
	"strings"
	"testing"
)

func TestCurrent_Defaults(t *testing.T) {
	oldVersion, oldCommit, oldBuild := AppVersion, GitCommit, BuildTime
	t.Cleanup(func() { AppVersion, GitCommit, BuildTime = oldVersion, oldCommit, oldBuild })

	AppVersion, GitCommit, BuildTime = " ", "abc123", "2026-01-02T03:04:05Z"
	info := Current("")

	if info.Service != Unknown {
		t.Errorf("Service = %q, want %q", info.Service, Unknown)
	}
	if info.Version != DevelopmentVersion {
		t.Errorf("Version = %q, want %q", info.Version, DevelopmentVersion)
	}
	if info.Commit != "abc123" {
		t.Errorf("Commit = %q, injected value must win over VCS stamps", info.Commit)
	}
	if info.BuildTime != "2026-01-02T03:04:05Z" {
		t.Errorf("BuildTime = %q", info.BuildTime)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q", info.GoVersion)
	}
}

func TestInfo_ApplyVCS(t *testing.T) {
	info := Info{Service: "hrportal", Version: "v1.4.0", Commit: Unknown, BuildTime: Unknown, GoVersion: "go1.25"}
	info.applyVCS([]debug.BuildSetting{
		{Key: "vcs", Value: "git"},
		{Key: "vcs.revision", Value: "0123456789abcdef0123"},
		{Key: "vcs.time", Value: "2026-03-04T05:06:07Z"},
		{Key: "vcs.modified", Value: "true"},
	})

	if info.Commit != "0123456789ab" {
		t.Errorf("Commit = %q, want 12-char revision", info.Commit)
	}
	if info.BuildTime != "2026-03-04T05:06:07Z" {
		t.Errorf("BuildTime = %q", info.BuildTime)
	}
	if !info.Dirty {
		t.Error("Dirty = false, want true")
	}
	if got := info.String(); !strings.HasPrefix(got, "hrportal@v1.4.0 (commit=0123456789ab+dirty,") {
		t.Errorf("String() = %q", got)
	}
}

func TestInfo_ApplyVCSKeepsInjected(t *testing.T) {
	info := Info{Commit: "release", BuildTime: "yesterday"}
	info.applyVCS([]debug.BuildSetting{
		{Key: "vcs.revision", Value: "abc"},
		{Key: "vcs.time", Value: "today"},
	})
	if info.Commit != "release" || info.BuildTime != "yesterday" || info.Dirty {
		t.Errorf("applyVCS() = %+v", info)
	}
}
