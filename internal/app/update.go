package app

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/tacogips/binst/internal/debug"
	"github.com/tacogips/binst/internal/paths"
	"github.com/tacogips/binst/internal/release"
	"github.com/tacogips/binst/internal/repo"
)

// UpdateOptions contains options for the update command.
type UpdateOptions struct {
	// BinName is the installed binary to update.
	BinName string
	// Repo overrides the repository recorded at install time.
	Repo string
	// Profile is the AWS profile for S3 repositories.
	Profile string
	// OnState is forwarded to the installer.
	OnState func(InstallState)
}

// UpdateResult contains the results of the update operation.
type UpdateResult struct {
	BinName   string
	Repo      string
	Stream    string
	Installed *semver.Version
	Origin    *semver.Version
	// Updated reports whether a newer version was installed.
	Updated bool
	Install *InstallResult
}

// InstalledPackage is what the bin symlink and its install record say about
// the active version of a binary.
type InstalledPackage struct {
	PackageDir string
	Version    *semver.Version
	Record     *InstallRecord
}

// Updater re-resolves installed binaries against their origin.
type Updater struct {
	Layout    paths.Layout
	Transport *repo.Transport
	// Target overrides the host triple when non-empty.
	Target string
}

// NewUpdater creates an Updater.
func NewUpdater(layout paths.Layout, transport *repo.Transport) *Updater {
	if transport == nil {
		transport = repo.NewTransport(false)
	}
	return &Updater{Layout: layout, Transport: transport}
}

// Installed locates the active package of bin through its symlink.
func (u *Updater) Installed(bin string) (*InstalledPackage, error) {
	if err := repo.ValidateSegment("binary name", bin); err != nil {
		return nil, NewValidationError("invalid binary name", err)
	}
	packageDir, err := u.Layout.ActivePackageDir(bin)
	if err != nil {
		return nil, NewUpdateError(bin+" is not installed", err)
	}

	pkg := &InstalledPackage{PackageDir: packageDir}
	rec, err := ReadInstallRecord(u.Layout.InstallRecord(packageDir))
	switch {
	case err == nil:
		pkg.Record = rec
	case errors.Is(err, fs.ErrNotExist):
		debug.Debug("[app] No install record in %s", packageDir)
	default:
		return nil, NewUpdateError("failed to read install record", err)
	}

	versionText := strings.TrimPrefix(filepath.Base(packageDir), "v")
	if pkg.Record != nil && pkg.Record.Version != "" {
		versionText = pkg.Record.Version
	}
	pkg.Version, err = release.ParseVersion(versionText)
	if err != nil {
		return nil, NewUpdateError("cannot determine installed version from "+packageDir, err)
	}
	return pkg, nil
}

// Update installs the latest version of the recorded stream when it is newer
// than the installed one. Otherwise nothing is transferred.
func (u *Updater) Update(ctx context.Context, opts UpdateOptions) (*UpdateResult, error) {
	debug.DebugSection("[app] Update workflow start")
	debug.DebugValue("[app] Bin", opts.BinName)

	pkg, err := u.Installed(opts.BinName)
	if err != nil {
		return nil, err
	}

	repoRaw := opts.Repo
	stream := release.MainStream
	if pkg.Record != nil {
		if repoRaw == "" {
			repoRaw = pkg.Record.Repo
		}
		if pkg.Record.Stream != "" {
			stream = pkg.Record.Stream
		}
	}
	if repoRaw == "" {
		return nil, NewUpdateError("no repository given and none recorded in "+u.Layout.InstallRecord(pkg.PackageDir), nil)
	}

	desc, err := repo.Parse(repoRaw, opts.Profile)
	if err != nil {
		return nil, NewUpdateError("invalid repository", err)
	}

	b, err := NewBinRepo(BinRepoOptions{
		BinName:     opts.BinName,
		InstallRepo: desc,
		PublishRepo: desc,
		Target:      u.Target,
		Layout:      u.Layout,
		Transport:   u.Transport,
	})
	if err != nil {
		return nil, err
	}

	result := &UpdateResult{
		BinName:   opts.BinName,
		Repo:      desc.Raw(),
		Stream:    stream,
		Installed: pkg.Version,
	}

	result.Origin, err = b.Resolver.LatestVersion(ctx, desc, b.BinName, b.PlatformTarget(), stream)
	if err != nil {
		return result, NewUpdateError("failed to resolve origin version", err)
	}
	debug.DebugValue("[app] Installed version", result.Installed.String())
	debug.DebugValue("[app] Origin version", result.Origin.String())

	if !release.Newer(result.Origin, result.Installed) {
		debug.Debug("[app] %s is up to date", opts.BinName)
		return result, nil
	}

	result.Install, err = NewInstaller(b).Install(ctx, InstallOptions{Stream: stream, OnState: opts.OnState})
	if err != nil {
		return result, err
	}
	result.Updated = true
	return result, nil
}
