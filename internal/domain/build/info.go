// Package build describes the flurx binary: version, commit and toolchain.
package build

import "strings"

const shortCommitLen = 7

// Info holds build-time information injected via ldflags.
type Info struct {
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
}

// ShortCommit returns the abbreviated commit hash, or "unknown".
func (i Info) ShortCommit() string {
	c := strings.TrimSpace(i.Commit)
	if c == "" {
		return "unknown"
	}
	if len(c) > shortCommitLen {
		return c[:shortCommitLen]
	}
	return c
}

// String renders the version for logs, e.g. "1.2.0 (3f9a2c1)".
func (i Info) String() string {
	v := i.Version
	if v == "" {
		v = "dev"
	}
	return v + " (" + i.ShortCommit() + ")"
}

// Contributors returns the list of project contributors.
func Contributors() []string {
	return []string{"bnema"}
}

// RepoURL returns the GitHub repository URL.
func RepoURL() string {
	return "https://github.com/bnema/flurx"
}
