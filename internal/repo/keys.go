package repo

import (
	"fmt"
	"path"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/tacogips/binst/internal/release"
)

const (
	// LatestFile is the per-stream metadata document holding latest.version.
	LatestFile = "latest.toml"
	// ArchiveExt is appended to the bin name to form the archive file name.
	ArchiveExt = ".tar.gz"
	// PackageDocExt is appended to the bin name to form the package document.
	PackageDocExt = ".toml"
)

// ValidateSegment checks that s can be used as a single key segment: a bin
// name, target or stream. what names the value in the error.
func ValidateSegment(what, s string) error {
	if problem := segmentProblem(s); problem != "" {
		return NewParseError(s, what+" "+problem)
	}
	return nil
}

// ValidateKeyPath checks a relative key path such as a pinned publish path.
// Empty segments are dropped as CleanPath does; "." and ".." are rejected.
func ValidateKeyPath(p string) error {
	cleaned := CleanPath(p)
	if cleaned == "" {
		return NewParseError(p, "path cannot be empty")
	}
	for _, seg := range strings.Split(cleaned, "/") {
		if problem := segmentProblem(seg); problem != "" {
			return NewParseError(p, fmt.Sprintf("path segment %q %s", seg, problem))
		}
	}
	return nil
}

func segmentProblem(s string) string {
	switch {
	case s == "":
		return "cannot be empty"
	case s == "." || s == "..":
		return fmt.Sprintf("cannot be %q", s)
	case strings.ContainsAny(s, `/\`):
		return "cannot contain path separators"
	}
	return ""
}

// TargetKey returns {bin}/{target}/{streamOrPath}, the prefix every artifact
// of a stream (or pinned path) lives under on every backend.
func TargetKey(bin, target, streamOrPath string) string {
	return path.Join(bin, target, streamOrPath)
}

// LatestKey returns {bin}/{target}/{stream}/latest.toml.
func LatestKey(bin, target, stream string) string {
	return path.Join(TargetKey(bin, target, stream), LatestFile)
}

// VersionKey returns {bin}/{target}/{stream}/v{version}.
func VersionKey(bin, target, stream string, v *semver.Version) string {
	return path.Join(TargetKey(bin, target, stream), release.VersionDir(v))
}

// ArchiveName returns {bin}.tar.gz.
func ArchiveName(bin string) string {
	return bin + ArchiveExt
}

// PackageDocName returns {bin}.toml.
func PackageDocName(bin string) string {
	return bin + PackageDocExt
}

// ArchiveKey returns {bin}/{target}/{stream}/v{version}/{bin}.tar.gz.
func ArchiveKey(bin, target, stream string, v *semver.Version) string {
	return path.Join(VersionKey(bin, target, stream, v), ArchiveName(bin))
}

// fullS3Key prefixes key with the descriptor's base, if any.
func fullS3Key(loc S3Location, key string) string {
	if loc.Base == "" {
		return key
	}
	return loc.Base + "/" + key
}

// ResolveURL returns the address of key on the given backend: a file path for
// Local, an s3:// URL for S3, and the full URL for Http.
func ResolveURL(d Descriptor, key string) string {
	switch d.Kind {
	case KindLocal:
		return localPath(d, key)
	case KindS3:
		return s3Scheme + d.S3.Bucket + "/" + fullS3Key(d.S3, key)
	case KindHTTP:
		return d.URL + "/" + key
	default:
		return key
	}
}
