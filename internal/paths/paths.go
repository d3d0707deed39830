// Package paths describes the on-disk layout of the binst cache root:
//
//	{root}/bin/{bin}                                 symlink to the active binary
//	{root}/packages/{bin}/v{version}/{bin}.tar.gz
//	{root}/packages/{bin}/v{version}/unpacked/{bin}
//	{root}/packages/{bin}/v{version}/install.toml
//	{root}/tmp/{bin}-{unixMillis}/                   ephemeral
package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tacogips/binst/internal/debug"
)

const (
	// HomeEnv overrides the default cache root.
	HomeEnv = "BINST_HOME"

	// DefaultDirName is the cache root directory created under the user's home.
	DefaultDirName = ".binst"

	// SafetyMarker must appear in any path this package is asked to delete.
	SafetyMarker = "binst"

	InstallRecordFile = "install.toml"
	ConfigFile        = "config.toml"
	EnvFile           = "env"
	UnpackedDir       = "unpacked"
)

// Layout captures the canonical locations under a cache root.
type Layout struct {
	Root        string
	BinDir      string
	PackagesDir string
	TmpDir      string
	ConfigFile  string
	EnvFile     string
}

// DefaultRoot returns $BINST_HOME when set, otherwise ~/.binst.
func DefaultRoot() (string, error) {
	if home := strings.TrimSpace(os.Getenv(HomeEnv)); home != "" {
		return filepath.Abs(home)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, DefaultDirName), nil
}

// New builds the layout rooted at root. An empty root selects DefaultRoot.
// The root must contain SafetyMarker so that SafeRemove accepts the temp
// directories created under it.
func New(root string) (Layout, error) {
	if root == "" {
		var err error
		root, err = DefaultRoot()
		if err != nil {
			return Layout{}, err
		}
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return Layout{}, fmt.Errorf("resolve cache root: %w", err)
	}
	if !strings.Contains(abs, SafetyMarker) {
		return Layout{}, &UnsafeRootError{Root: abs}
	}
	return newLayout(abs), nil
}

func newLayout(root string) Layout {
	return Layout{
		Root:        root,
		BinDir:      filepath.Join(root, "bin"),
		PackagesDir: filepath.Join(root, "packages"),
		TmpDir:      filepath.Join(root, "tmp"),
		ConfigFile:  filepath.Join(root, ConfigFile),
		EnvFile:     filepath.Join(root, EnvFile),
	}
}

// PackageDir returns {root}/packages/{bin}/{versionDir}.
func (l Layout) PackageDir(bin, versionDir string) string {
	return filepath.Join(l.PackagesDir, bin, versionDir)
}

// ArchivePath returns the archive location inside a package directory.
func (l Layout) ArchivePath(packageDir, bin string) string {
	return filepath.Join(packageDir, bin+".tar.gz")
}

// UnpackedBin returns the path of the extracted binary inside a package directory.
func (l Layout) UnpackedBin(packageDir, bin string) string {
	return filepath.Join(packageDir, UnpackedDir, bin)
}

// InstallRecord returns the install.toml path inside a package directory.
func (l Layout) InstallRecord(packageDir string) string {
	return filepath.Join(packageDir, InstallRecordFile)
}

// BinLink returns the symlink path for bin.
func (l Layout) BinLink(bin string) string {
	return filepath.Join(l.BinDir, bin)
}

// EnsurePackageDir creates the package directory if absent and returns it.
func (l Layout) EnsurePackageDir(bin, versionDir string) (string, error) {
	dir := l.PackageDir(bin, versionDir)
	if err := os.MkdirAll(filepath.Join(dir, UnpackedDir), 0o755); err != nil {
		return "", fmt.Errorf("create package directory: %w", err)
	}
	return dir, nil
}

// MakeTempDir creates {root}/tmp/{bin}-{unixMillis}.
func (l Layout) MakeTempDir(bin string) (string, error) {
	name := bin + "-" + strconv.FormatInt(time.Now().UnixMilli(), 10)
	dir := filepath.Join(l.TmpDir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create temp directory: %w", err)
	}
	debug.Debug("[paths] Created temp dir: %s", dir)
	return dir, nil
}

// SafeRemove deletes dir recursively, refusing any path that does not contain
// SafetyMarker.
func SafeRemove(dir string) error {
	if !strings.Contains(dir, SafetyMarker) {
		return &UnsafeDeletionError{Path: dir}
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove %s: %w", dir, err)
	}
	debug.Debug("[paths] Removed: %s", dir)
	return nil
}

// Link points {root}/bin/{bin} at target, replacing any existing link.
// The remove and create are two separate steps.
func (l Layout) Link(bin, target string) (string, error) {
	info, err := os.Stat(target)
	if err != nil {
		return "", fmt.Errorf("link target %s: %w", target, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("link target %s is not a regular file", target)
	}

	if err := os.MkdirAll(l.BinDir, 0o755); err != nil {
		return "", fmt.Errorf("create bin directory: %w", err)
	}

	link := l.BinLink(bin)
	if _, err := os.Lstat(link); err == nil {
		if err := os.Remove(link); err != nil {
			return "", fmt.Errorf("remove existing link: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("inspect existing link: %w", err)
	}

	if err := os.Symlink(target, link); err != nil {
		return "", fmt.Errorf("create symlink: %w", err)
	}
	debug.Debug("[paths] Linked %s -> %s", link, target)
	return link, nil
}

// ActivePackageDir follows the bin symlink back to its package directory.
func (l Layout) ActivePackageDir(bin string) (string, error) {
	resolved, err := filepath.EvalSymlinks(l.BinLink(bin))
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", l.BinLink(bin), err)
	}
	// {packageDir}/unpacked/{bin}
	return filepath.Dir(filepath.Dir(resolved)), nil
}

// UnsafeDeletionError is returned when a path fails the SafeRemove check.
type UnsafeDeletionError struct {
	Path string
}

func (e *UnsafeDeletionError) Error() string {
	return fmt.Sprintf("refusing to delete %q: path does not contain %q", e.Path, SafetyMarker)
}

// UnsafeRootError is returned by New for a cache root whose temp directories
// SafeRemove would refuse to delete.
type UnsafeRootError struct {
	Root string
}

func (e *UnsafeRootError) Error() string {
	return fmt.Sprintf("cache root %q must contain %q (for example %s/%s)",
		e.Root, SafetyMarker, filepath.Dir(e.Root), DefaultDirName)
}

// IsUnsafeRoot reports whether err is an UnsafeRootError.
func IsUnsafeRoot(err error) bool {
	var target *UnsafeRootError
	return errors.As(err, &target)
}

// IsUnsafeDeletion reports whether err is an UnsafeDeletionError.
func IsUnsafeDeletion(err error) bool {
	var target *UnsafeDeletionError
	return errors.As(err, &target)
}
