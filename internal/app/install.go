package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/tacogips/binst/internal/archive"
	"github.com/tacogips/binst/internal/debug"
	"github.com/tacogips/binst/internal/paths"
	"github.com/tacogips/binst/internal/release"
	"github.com/tacogips/binst/internal/repo"
)

// InstallState is a step of the install state machine.
type InstallState int

const (
	StateResolvingVersion InstallState = iota
	StateDownloading
	StateUnpacking
	StateWritingInstallRecord
	StateSymlinking
	StateDone
	StateFailed
)

// String returns the string representation of the state.
func (s InstallState) String() string {
	switch s {
	case StateResolvingVersion:
		return "ResolvingVersion"
	case StateDownloading:
		return "Downloading"
	case StateUnpacking:
		return "Unpacking"
	case StateWritingInstallRecord:
		return "WritingInstallRecord"
	case StateSymlinking:
		return "Symlinking"
	case StateDone:
		return "Done"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// InstallOptions contains options for an install.
type InstallOptions struct {
	// Stream selects the release channel; empty means main.
	Stream string
	// OnState is called on every state transition.
	OnState func(InstallState)
}

// InstallResult contains the results of an install.
type InstallResult struct {
	BinName    string
	Version    *semver.Version
	Stream     string
	SourceURL  string
	Archive    string
	Unpacked   string
	Symlink    string
	Digest     string
	State      InstallState
	FailedAt   InstallState
	Transition []InstallState
}

// Installer runs the install state machine for one BinRepo.
type Installer struct {
	repo *BinRepo
}

// NewInstaller creates an Installer.
func NewInstaller(b *BinRepo) *Installer {
	return &Installer{repo: b}
}

// Install resolves the latest version of the stream, downloads and unpacks
// it, records its provenance and points the bin symlink at it. The returned
// result is non-nil even on failure and reports where the machine stopped.
func (i *Installer) Install(ctx context.Context, opts InstallOptions) (result *InstallResult, err error) {
	b := i.repo
	stream := opts.Stream
	if stream == "" {
		stream = release.MainStream
	}

	result = &InstallResult{BinName: b.BinName, Stream: stream}
	enter := func(s InstallState) {
		result.State = s
		result.Transition = append(result.Transition, s)
		debug.DebugValue("[app] Install state", s.String())
		if opts.OnState != nil {
			opts.OnState(s)
		}
	}
	fail := func(message string, cause error) (*InstallResult, error) {
		result.FailedAt = result.State
		enter(StateFailed)
		return result, NewInstallError(message, cause)
	}

	debug.DebugSection("[app] Install workflow start")
	debug.DebugValue("[app] Bin", b.BinName)
	debug.DebugValue("[app] Repo", b.InstallRepo.String())
	debug.DebugValue("[app] Target", b.PlatformTarget())
	debug.DebugValue("[app] Stream", stream)

	// ResolvingVersion
	enter(StateResolvingVersion)
	if err := repo.ValidateSegment("stream", stream); err != nil {
		return fail("invalid stream", err)
	}
	start := time.Now()
	version, err := b.Resolver.LatestVersion(ctx, b.InstallRepo, b.BinName, b.PlatformTarget(), stream)
	if err != nil {
		return fail(fmt.Sprintf("failed to resolve latest version of %s (stream %s)", b.BinName, stream), err)
	}
	result.Version = version
	debug.DebugDuration("[app] resolve", start)

	// Downloading
	enter(StateDownloading)
	tmpDir, err := b.Layout.MakeTempDir(b.BinName)
	if err != nil {
		return fail("failed to create temp directory", err)
	}
	defer func() {
		if rmErr := paths.SafeRemove(tmpDir); rmErr != nil {
			err = errors.Join(err, rmErr)
		}
	}()

	archiveKey := repo.ArchiveKey(b.BinName, b.PlatformTarget(), stream, version)
	tmpArchive := filepath.Join(tmpDir, repo.ArchiveName(b.BinName))
	start = time.Now()
	result.SourceURL, err = b.Transport.Download(ctx, b.InstallRepo, archiveKey, tmpArchive)
	if err != nil {
		return fail("failed to download "+b.BinName, err)
	}
	debug.DebugDuration("[app] download", start)

	expected, err := i.expectedDigest(ctx, stream, version)
	if err != nil {
		return fail("failed to read package document", err)
	}
	result.Digest, err = VerifyDigest(tmpArchive, expected)
	if err != nil {
		return fail("archive verification failed", err)
	}

	packageDir, err := b.Layout.EnsurePackageDir(b.BinName, release.VersionDir(version))
	if err != nil {
		return fail("failed to create package directory", err)
	}
	result.Archive = b.Layout.ArchivePath(packageDir, b.BinName)
	if err := copyFile(tmpArchive, result.Archive, 0o644); err != nil {
		return fail("failed to store archive", err)
	}

	// Unpacking
	enter(StateUnpacking)
	result.Unpacked = filepath.Join(packageDir, paths.UnpackedDir)
	tarPath := filepath.Join(packageDir, b.BinName+".tar")
	if err := archive.Unpack(result.Archive, tarPath, result.Unpacked); err != nil {
		return fail("failed to unpack "+result.Archive, err)
	}
	unpackedBin := b.Layout.UnpackedBin(packageDir, b.BinName)
	if _, err := os.Stat(unpackedBin); err != nil {
		return fail("archive does not contain "+b.BinName, err)
	}

	// WritingInstallRecord
	enter(StateWritingInstallRecord)
	record := InstallRecord{
		Repo:    b.InstallRepo.Raw(),
		Stream:  stream,
		Version: version.String(),
		Digest:  result.Digest,
	}
	if err := WriteInstallRecord(b.Layout.InstallRecord(packageDir), record); err != nil {
		return fail("failed to write install record", err)
	}

	// Symlinking
	enter(StateSymlinking)
	result.Symlink, err = b.Layout.Link(b.BinName, unpackedBin)
	if err != nil {
		return fail("failed to link "+b.BinName, err)
	}

	enter(StateDone)
	return result, nil
}

// expectedDigest reads the digest from the package document published next
// to the archive. Only a missing document yields no digest; any other read
// or parse failure is returned.
func (i *Installer) expectedDigest(ctx context.Context, stream string, version *semver.Version) (string, error) {
	b := i.repo
	key := repo.VersionKey(b.BinName, b.PlatformTarget(), stream, version) + "/" + repo.PackageDocName(b.BinName)
	content, err := b.Transport.ReadText(ctx, b.InstallRepo, key)
	if err != nil {
		if repo.IsNotFound(err) {
			debug.Debug("[app] No package document at %s", key)
			return "", nil
		}
		return "", err
	}
	doc, err := ParsePackageDocument(content)
	if err != nil {
		return "", err
	}
	return doc.Digest, nil
}

func copyFile(src, dest string, perm os.FileMode) error {
	data, err := os.Open(src)
	if err != nil {
		return err
	}
	defer data.Close()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := out.ReadFrom(data); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
