// Package version provides build and version information for crest. Build metadata is taken from ldflags when set,
// and otherwise from the VCS settings the Go toolchain embeds at build time.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

// These variables can be set via ldflags at build time, e.g. -X github.com/crest-go/crest/version.Version=0.2.0
var (
	// Version is the semantic version of the build.
	Version = "0.1.0"
	// GitCommit is the git commit hash.
	GitCommit = ""
	// GitCommitTime is the RFC 3339 timestamp of the git commit.
	GitCommitTime = ""
	// GitTreeDirty is "true" if the git tree had uncommitted changes at build time.
	GitTreeDirty = ""
)

// Info contains the full version information for the build.
type Info struct {
	Version       string `json:"version"`
	GitCommit     string `json:"gitCommit,omitempty"`
	GitCommitTime string `json:"gitCommitTime,omitempty"`
	GitTreeDirty  bool   `json:"gitTreeDirty"`
	GoVersion     string `json:"goVersion"`
}

func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	applyBuildSettings(info.Settings)
}

// applyBuildSettings fills any VCS variable not already set through ldflags from the embedded build settings.
func applyBuildSettings(settings []debug.BuildSetting) {
	for _, kv := range settings {
		var target *string
		switch kv.Key {
		case "vcs.revision":
			target = &GitCommit
		case "vcs.time":
			target = &GitCommitTime
		case "vcs.modified":
			target = &GitTreeDirty
		default:
			continue
		}
		if *target == "" {
			*target = kv.Value
		}
	}
}

// GetInfo returns the complete version information.
func GetInfo() Info {
	return Info{
		Version:       Version,
		GitCommit:     GitCommit,
		GitCommitTime: GitCommitTime,
		GitTreeDirty:  GitTreeDirty == "true",
		GoVersion:     runtime.Version(),
	}
}

// ShortCommit returns the first 7 characters of the git commit hash, with a "-dirty" suffix for a dirty tree.
func (i Info) ShortCommit() string {
	commit := i.GitCommit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	if commit != "" && i.GitTreeDirty {
		commit += "-dirty"
	}
	return commit
}

// FormattedTime returns the commit time in a human-readable format.
func (i Info) FormattedTime() string {
	if i.GitCommitTime == "" {
		return "unknown"
	}
	t, err := time.Parse(time.RFC3339, i.GitCommitTime)
	if err != nil {
		return i.GitCommitTime
	}
	return t.UTC().Format("2006-01-02 15:04:05 MST")
}

// String returns a formatted multi-line version string.
func (i Info) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "crest version %s\n", i.Version)
	if i.GitCommit != "" {
		fmt.Fprintf(&sb, "  Commit:     %s\n", i.ShortCommit())
	}
	if i.GitCommitTime != "" {
		fmt.Fprintf(&sb, "  Built:      %s\n", i.FormattedTime())
	}
	fmt.Fprintf(&sb, "  Go version: %s\n", i.GoVersion)
	return sb.String()
}

// Short returns a single-line version string suitable for --version output.
func (i Info) Short() string {
	if i.GitCommit == "" {
		return i.Version
	}
	return i.Version + "+" + i.ShortCommit()
}
