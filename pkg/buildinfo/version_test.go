package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func restore(t *testing.T) {
	v, c, d := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = v, c, d })
}

func TestFillFromBuildInfo(t *testing.T) {
	restore(t)
	Version, Commit, Date = "dev", "none", "unknown"
	fillFromBuildInfo(&debug.BuildInfo{
		Main: debug.Module{Version: "v0.4.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef0123"},
			{Key: "vcs.time", Value: "2026-03-01T10:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	})
	if Version != "v0.4.1" || Commit != "0123456789abcdef0123-dirty" || Date != "2026-03-01T10:00:00Z" {
		t.Errorf("got %s %s %s", Version, Commit, Date)
	}
	if ShortCommit() != "0123456789ab" {
		t.Errorf("ShortCommit() = %q", ShortCommit())
	}
}

func TestStampedValuesWin(t *testing.T) {
	restore(t)
	Version, Commit, Date = "v1.0.0", "abc", "2026-01-01"
	fillFromBuildInfo(&debug.BuildInfo{
		Main:     debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "zzz"}},
	})
	if Version != "v1.0.0" || Commit != "abc" {
		t.Errorf("ldflags values overwritten: %s %s", Version, Commit)
	}
	if got := Template(); got != "{{.Name}} v1.0.0 (abc, 2026-01-01)\n" {
		t.Errorf("Template() = %q", got)
	}
	if s := String(); !strings.Contains(s, "go: go") {
		t.Errorf("String() = %q", s)
	}
}
