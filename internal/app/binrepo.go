package app

import (
	"github.com/tacogips/binst/internal/paths"
	"github.com/tacogips/binst/internal/platform"
	"github.com/tacogips/binst/internal/repo"
)

// BinRepo is the per-command session for one binary: where it installs from,
// where it publishes to, and which platform target it addresses.
type BinRepo struct {
	BinName     string
	InstallRepo repo.Descriptor
	PublishRepo repo.Descriptor
	// Target overrides the host triple when non-empty.
	Target string

	Layout    paths.Layout
	Transport *repo.Transport
	Resolver  *repo.Resolver
}

// BinRepoOptions configures NewBinRepo.
type BinRepoOptions struct {
	BinName     string
	InstallRepo repo.Descriptor
	PublishRepo repo.Descriptor
	Target      string
	Layout      paths.Layout
	// Transport defaults to repo.NewTransport(false).
	Transport *repo.Transport
}

// NewBinRepo creates a BinRepo.
func NewBinRepo(opts BinRepoOptions) (*BinRepo, error) {
	if err := repo.ValidateSegment("binary name", opts.BinName); err != nil {
		return nil, NewValidationError("invalid binary name", err)
	}
	if opts.Target != "" {
		if err := repo.ValidateSegment("target", opts.Target); err != nil {
			return nil, NewValidationError("invalid target", err)
		}
	}
	transport := opts.Transport
	if transport == nil {
		transport = repo.NewTransport(false)
	}
	return &BinRepo{
		BinName:     opts.BinName,
		InstallRepo: opts.InstallRepo,
		PublishRepo: opts.PublishRepo,
		Target:      opts.Target,
		Layout:      opts.Layout,
		Transport:   transport,
		Resolver:    repo.NewResolver(transport),
	}, nil
}

// PlatformTarget returns the target triple artifacts are keyed by.
func (b *BinRepo) PlatformTarget() string {
	if b.Target != "" {
		return b.Target
	}
	return platform.Target()
}

// TargetKey returns {bin}/{target}/{streamOrPath}.
func (b *BinRepo) TargetKey(streamOrPath string) string {
	return repo.TargetKey(b.BinName, b.PlatformTarget(), streamOrPath)
}
