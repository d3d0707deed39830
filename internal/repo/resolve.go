package repo

import (
	"context"

	"github.com/Masterminds/semver/v3"
	"github.com/pelletier/go-toml/v2"

	"github.com/tacogips/binst/internal/debug"
	"github.com/tacogips/binst/internal/release"
)

// LatestDocument is the per-stream latest.toml document.
type LatestDocument struct {
	Latest struct {
		Version string `toml:"version"`
	} `toml:"latest"`
}

// EncodeLatest renders the latest.toml content for v.
func EncodeLatest(v *semver.Version) (string, error) {
	var doc LatestDocument
	doc.Latest.Version = v.String()
	data, err := toml.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Resolver looks up the latest published version of a stream.
type Resolver struct {
	Transport *Transport
}

// NewResolver creates a Resolver on top of t.
func NewResolver(t *Transport) *Resolver {
	return &Resolver{Transport: t}
}

// LatestDocument returns the raw latest.toml of {bin}/{target}/{stream}.
func (r *Resolver) LatestDocument(ctx context.Context, d Descriptor, bin, target, stream string) (string, error) {
	return r.Transport.ReadText(ctx, d, LatestKey(bin, target, stream))
}

// LatestVersion fetches and parses latest.toml. A document that is present
// but malformed is reported as RepoInvalidVersion.
func (r *Resolver) LatestVersion(ctx context.Context, d Descriptor, bin, target, stream string) (*semver.Version, error) {
	content, err := r.LatestDocument(ctx, d, bin, target, stream)
	if err != nil {
		return nil, err
	}

	location := ResolveURL(d, LatestKey(bin, target, stream))
	v, err := ParseLatest(location, content)
	if err != nil {
		return nil, err
	}
	debug.DebugValue("[repo] Latest version", v.String())
	return v, nil
}

// ParseLatest extracts latest.version from a latest.toml document.
func ParseLatest(location, content string) (*semver.Version, error) {
	var doc LatestDocument
	if err := toml.Unmarshal([]byte(content), &doc); err != nil {
		return nil, NewInvalidVersionError(location, "malformed latest document", err)
	}
	if doc.Latest.Version == "" {
		return nil, NewInvalidVersionError(location, "latest.version is missing", nil)
	}
	v, err := release.ParseVersion(doc.Latest.Version)
	if err != nil {
		return nil, NewInvalidVersionError(location, "latest.version is not a semantic version", err)
	}
	return v, nil
}
