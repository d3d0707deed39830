package app

import (
	"context"
	"errors"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/tacogips/binst/internal/archive"
	"github.com/tacogips/binst/internal/debug"
	"github.com/tacogips/binst/internal/paths"
	"github.com/tacogips/binst/internal/release"
	"github.com/tacogips/binst/internal/repo"
)

// PublishOptions contains options for a publish.
type PublishOptions struct {
	// AtPath pins the upload to {bin}/{target}/{AtPath} and skips latest.toml.
	AtPath string
	// Confirm is asked before building; returning false cancels the publish.
	Confirm func(*PublishPlan) (bool, error)
}

// PublishPlan is what a publish is about to do.
type PublishPlan struct {
	BinName string
	Version *semver.Version
	Stream  string
	Target  string
	Repo    string
	// LatestKey is empty for pinned publishes.
	LatestKey string
	// PackageKey is the directory the archive and package document go to.
	PackageKey string
}

// PublishResult contains the results of a publish.
type PublishResult struct {
	Plan       *PublishPlan
	BinaryPath string
	Digest     string
	// Uploaded lists resolved URLs in upload order.
	Uploaded []string
}

// Publisher builds, packs and uploads one binary.
type Publisher struct {
	repo       *BinRepo
	builder    Builder
	manifest   *Manifest
	projectDir string
}

// NewPublisher creates a Publisher for the project in projectDir. manifest
// may be nil, in which case binst.toml is read when publishing.
func NewPublisher(b *BinRepo, builder Builder, projectDir string, manifest *Manifest) *Publisher {
	return &Publisher{repo: b, builder: builder, projectDir: projectDir, manifest: manifest}
}

// Plan validates the publish and computes where everything goes.
func (p *Publisher) Plan(opts PublishOptions) (*PublishPlan, error) {
	b := p.repo
	if !b.PublishRepo.CanPublish() {
		return nil, NewPublishError("cannot publish", repo.NewUnsupportedError(b.PublishRepo.Raw(), "publishing to an http repository is not supported"))
	}

	manifest := p.manifest
	if manifest == nil {
		var err error
		if manifest, err = LoadManifest(p.projectDir); err != nil {
			return nil, err
		}
		p.manifest = manifest
	}

	version, err := release.ParseVersion(manifest.Version)
	if err != nil {
		return nil, NewValidationError("invalid package.version", err)
	}

	plan := &PublishPlan{
		BinName: b.BinName,
		Version: version,
		Stream:  release.Stream(version),
		Target:  b.PlatformTarget(),
		Repo:    b.PublishRepo.String(),
	}
	if opts.AtPath != "" {
		if err := repo.ValidateKeyPath(opts.AtPath); err != nil {
			return nil, NewValidationError("invalid publish path", err)
		}
		plan.PackageKey = b.TargetKey(repo.CleanPath(opts.AtPath))
	} else {
		plan.LatestKey = repo.LatestKey(b.BinName, plan.Target, plan.Stream)
		plan.PackageKey = repo.VersionKey(b.BinName, plan.Target, plan.Stream, version)
	}
	return plan, nil
}

// Publish builds the release binary, packs it and uploads latest.toml (unless
// pinned), the archive and the package document, in that order.
func (p *Publisher) Publish(ctx context.Context, opts PublishOptions) (result *PublishResult, err error) {
	b := p.repo
	debug.DebugSection("[app] Publish workflow start")

	plan, err := p.Plan(opts)
	if err != nil {
		return nil, err
	}
	debug.DebugJSON("[app] Plan", plan)

	if opts.Confirm != nil {
		ok, err := opts.Confirm(plan)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrPublishCanceled
		}
	}

	result = &PublishResult{Plan: plan}

	start := time.Now()
	result.BinaryPath, err = p.builder.Build(ctx, BuildRequest{
		ProjectDir: p.projectDir,
		BinName:    b.BinName,
		Main:       p.manifest.Main,
		Target:     b.Target,
	})
	if err != nil {
		return result, NewPublishError("build failed", err)
	}
	debug.DebugDuration("[app] build", start)

	tmpDir, err := b.Layout.MakeTempDir(b.BinName)
	if err != nil {
		return result, NewPublishError("failed to create temp directory", err)
	}
	defer func() {
		if rmErr := paths.SafeRemove(tmpDir); rmErr != nil {
			err = errors.Join(err, rmErr)
		}
	}()

	archivePath, err := stage(tmpDir, b.BinName, result.BinaryPath)
	if err != nil {
		return result, NewPublishError("failed to pack "+b.BinName, err)
	}
	result.Digest, err = archive.Digest(archivePath)
	if err != nil {
		return result, NewPublishError("failed to hash archive", err)
	}

	packageDoc, err := PackageDocument{
		Name:    b.BinName,
		Stream:  plan.Stream,
		Version: plan.Version.String(),
		Path:    repo.CleanPath(opts.AtPath),
		Digest:  result.Digest,
	}.Encode()
	if err != nil {
		return result, NewPublishError("failed to create package document", err)
	}

	upload := func(url string, err error) error {
		if err != nil {
			return NewPublishError("upload failed", err)
		}
		debug.Debug("[app] Uploaded %s", url)
		result.Uploaded = append(result.Uploaded, url)
		return nil
	}

	if plan.LatestKey != "" {
		latest, err := repo.EncodeLatest(plan.Version)
		if err != nil {
			return result, NewPublishError("failed to create latest document", err)
		}
		if err := upload(b.Transport.UploadText(ctx, b.PublishRepo, plan.LatestKey, latest)); err != nil {
			return result, err
		}
	}

	archiveKey := path.Join(plan.PackageKey, repo.ArchiveName(b.BinName))
	if err := upload(b.Transport.UploadFile(ctx, b.PublishRepo, archiveKey, archivePath)); err != nil {
		return result, err
	}

	docKey := path.Join(plan.PackageKey, repo.PackageDocName(b.BinName))
	if err := upload(b.Transport.UploadText(ctx, b.PublishRepo, docKey, packageDoc)); err != nil {
		return result, err
	}

	return result, nil
}

// stage copies the binary into {tmp}/to_pack and packs it into
// {tmp}/{bin}.tar.gz.
func stage(tmpDir, bin, binaryPath string) (string, error) {
	toPack := filepath.Join(tmpDir, "to_pack")
	if err := os.MkdirAll(toPack, 0o755); err != nil {
		return "", err
	}
	if err := copyFile(binaryPath, filepath.Join(toPack, bin), 0o755); err != nil {
		return "", err
	}
	archivePath := filepath.Join(tmpDir, repo.ArchiveName(bin))
	if err := archive.Pack(toPack, archivePath); err != nil {
		return "", err
	}
	return archivePath, nil
}
