package app

import (
	_ "embed"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tacogips/binst/internal/config"
	"github.com/tacogips/binst/internal/debug"
	"github.com/tacogips/binst/internal/paths"
	"github.com/tacogips/binst/internal/release"
)

const (
	// SelfBinName is the name binst installs itself under.
	SelfBinName = "binst"
	// SelfRepo is recorded as the origin of a self install.
	SelfRepo = "https://binst.io/self"
)

//go:embed assets/env
var envTemplate string

// SelfOptions contains options for the self install.
type SelfOptions struct {
	Layout paths.Layout
	// Version is the running binst version.
	Version string
	// Executable is the binary to install; empty means os.Executable.
	Executable string
}

// SelfResult contains the results of the self install.
type SelfResult struct {
	Root          string
	Version       string
	Executable    string
	Installed     string
	Symlink       string
	EnvFile       string
	EnvCreated    bool
	ConfigCreated bool
}

// SelfInstall creates the cache root, writes the env and config files when
// absent, copies the running binary into its package directory and links it.
func SelfInstall(opts SelfOptions) (*SelfResult, error) {
	layout := opts.Layout
	debug.DebugSection("[app] Self install start")
	debug.DebugValue("[app] Root", layout.Root)

	version, err := release.ParseVersion(opts.Version)
	if err != nil {
		return nil, NewSelfInstallError("invalid binst version", err)
	}

	exe := opts.Executable
	if exe == "" {
		if exe, err = os.Executable(); err != nil {
			return nil, NewSelfInstallError("cannot locate the running executable", err)
		}
	}

	for _, dir := range []string{layout.Root, layout.BinDir, layout.PackagesDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, NewSelfInstallError("failed to create "+dir, err)
		}
	}

	result := &SelfResult{
		Root:       layout.Root,
		Version:    version.String(),
		Executable: exe,
		EnvFile:    layout.EnvFile,
	}

	if result.EnvCreated, err = writeEnvIfAbsent(layout); err != nil {
		return nil, NewSelfInstallError("failed to write env file", err)
	}
	if result.ConfigCreated, err = config.WriteDefaultIfAbsent(layout.ConfigFile); err != nil {
		return nil, NewSelfInstallError("failed to write config file", err)
	}

	packageDir, err := layout.EnsurePackageDir(SelfBinName, release.VersionDir(version))
	if err != nil {
		return nil, NewSelfInstallError("failed to create package directory", err)
	}
	result.Installed = layout.UnpackedBin(packageDir, SelfBinName)
	if sameFile(exe, result.Installed) {
		debug.Debug("[app] %s is already the installed binary", exe)
	} else if err := copyFile(exe, result.Installed, 0o755); err != nil {
		return nil, NewSelfInstallError("failed to copy "+exe, err)
	}

	record := InstallRecord{Repo: SelfRepo, Stream: release.MainStream, Version: version.String()}
	if err := WriteInstallRecord(layout.InstallRecord(packageDir), record); err != nil {
		return nil, NewSelfInstallError("failed to write install record", err)
	}

	if result.Symlink, err = layout.Link(SelfBinName, result.Installed); err != nil {
		return nil, NewSelfInstallError("failed to link binst", err)
	}
	return result, nil
}

func writeEnvIfAbsent(layout paths.Layout) (bool, error) {
	if _, err := os.Stat(layout.EnvFile); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}
	content := strings.ReplaceAll(envTemplate, "{{BIN_DIR}}", filepath.ToSlash(layout.BinDir))
	return true, os.WriteFile(layout.EnvFile, []byte(content), 0o644)
}

func sameFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}
