package app

import (
	"context"

	"github.com/tacogips/binst/internal/release"
	"github.com/tacogips/binst/internal/repo"
)

// InfoResult describes the latest published version of a binary.
type InfoResult struct {
	BinName string `json:"bin" yaml:"bin"`
	Repo    string `json:"repo" yaml:"repo"`
	Target  string `json:"target" yaml:"target"`
	Stream  string `json:"stream" yaml:"stream"`
	Version string `json:"version" yaml:"version"`
	URL     string `json:"url" yaml:"url"`
}

// Info resolves the latest version of stream (main when empty) on the
// install repository and the location of its archive.
func (b *BinRepo) Info(ctx context.Context, stream string) (*InfoResult, error) {
	if stream == "" {
		stream = release.MainStream
	}
	target := b.PlatformTarget()

	version, err := b.Resolver.LatestVersion(ctx, b.InstallRepo, b.BinName, target, stream)
	if err != nil {
		return nil, err
	}

	return &InfoResult{
		BinName: b.BinName,
		Repo:    b.InstallRepo.Raw(),
		Target:  target,
		Stream:  stream,
		Version: version.String(),
		URL:     repo.ResolveURL(b.InstallRepo, repo.ArchiveKey(b.BinName, target, stream, version)),
	}, nil
}
