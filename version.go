package main

import (
	"runtime/debug"
	"strings"
)

// Set with -ldflags "-X main.buildVersion=... -X main.buildCommit=...".
var (
	buildVersion = "dev"
	buildCommit  = ""
)

// versionString is stamped into every generated script header.
func versionString() string {
	commit := buildCommit
	if commit == "" {
		commit = vcsRevision()
	}
	return formatVersion(buildVersion, commit)
}

func vcsRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return ""
}

// formatVersion returns a release version unchanged and decorates a dev
// build with its short commit.
func formatVersion(version, commit string) string {
	v := strings.TrimSpace(version)
	if v != "" && v != "dev" {
		return v
	}
	c := strings.TrimSpace(commit)
	if len(c) > 7 {
		c = c[:7]
	}
	if c == "" || c == "unknown" {
		return "dev"
	}
	return "dev-" + c
}
