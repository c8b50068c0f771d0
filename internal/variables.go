package internal

import (
	"fmt"
	"runtime"
	"strings"
)

const (

	// Program name, used for logging and help output.
	Name = "cloudimg"

	// Reported for build information that was not set at link time.
	defaultUndefined = "(undefined)"

	// Reported instead of a version for binaries built outside the pipeline.
	defaultLocalBuild = "(local)"

	// Stage omitted from version strings.
	mainBranch = "main"
)

// Set with -ldflags "-X github.com/cruciblehq/cloudimg/internal.<name>=<value>".
var (
	version   = "" // Release version, e.g. "0.4.1" or "v0.4.1".
	stage     = "" // Branch the binary was built from, e.g. "main".
	gitCommit = "" // Commit hash the binary was built from.

	rawQuiet   = "false" // Default for --quiet.
	rawDebug   = "false" // Default for --debug.
	rawVerbose = "false" // Default for --verbose.
)

// Returns the trimmed value, or "(undefined)" if it is empty.
func orUndefined(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return defaultUndefined
	}
	return s
}

// Returns the tool version without a leading "v".
func Version() string {
	v := orUndefined(version)
	if v == defaultUndefined {
		return v
	}
	return strings.TrimPrefix(strings.ToLower(v), "v")
}

// Returns the branch the tool was built from, lowercased.
func Stage() string {
	s := orUndefined(stage)
	if s == defaultUndefined {
		return s
	}
	return strings.ToLower(s)
}

// Returns the commit the tool was built from.
func GitCommit() string {
	return orUndefined(gitCommit)
}

// Returns true if the tool was compiled outside the release pipeline.
//
// Pipeline builds set version, stage and commit; a binary missing any of
// them is local.
func IsLocal() bool {
	return orUndefined(version) == defaultUndefined ||
		orUndefined(gitCommit) == defaultUndefined ||
		orUndefined(stage) == defaultUndefined
}

// Returns a detailed version string of the tool.
//
// Local binaries report "(local)". Otherwise the string is formatted as
// "<version>+<stage> <commit> [<goarch>]", omitting the stage for main.
func VersionString() string {
	if IsLocal() {
		return defaultLocalBuild
	}

	s := ""
	if st := Stage(); st != mainBranch {
		s = "+" + st
	}

	return fmt.Sprintf("%s%s %s [%s]", Version(), s, GitCommit(), runtime.GOARCH)
}
