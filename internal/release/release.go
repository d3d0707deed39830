// Package release holds the version rules shared by publishing and installing:
// strict semantic version parsing, stream derivation and version directory naming.
package release

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

const (
	// MainStream is the stream of every version without a prerelease.
	MainStream = "main"
	// PreStream is used when a prerelease has no leading letters.
	PreStream = "pre"
)

// ParseVersion parses s as a strict major.minor.patch[-pre][+build] version.
func ParseVersion(s string) (*semver.Version, error) {
	v, err := semver.StrictNewVersion(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("invalid version %q: %w", s, err)
	}
	return v, nil
}

// Stream derives the release channel of v from its prerelease identifier.
//
//	0.1.3           -> main
//	0.1.3-rc-big-1  -> rc-big
//	0.1.3-beta.2    -> beta
//	0.1.3-123       -> pre
func Stream(v *semver.Version) string {
	pre := v.Prerelease()
	if pre == "" {
		return MainStream
	}

	end := 0
	for end < len(pre) && isStreamChar(pre[end]) {
		end++
	}
	stream := strings.TrimSuffix(pre[:end], "-")
	if stream == "" {
		return PreStream
	}
	return stream
}

func isStreamChar(c byte) bool {
	return c == '-' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// VersionDir is the directory segment a version is stored under, e.g. "v1.2.0".
func VersionDir(v *semver.Version) string {
	return "v" + v.String()
}

// Newer reports whether origin has a higher precedence than installed.
func Newer(origin, installed *semver.Version) bool {
	return origin.GreaterThan(installed)
}
