package app

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"

	"github.com/tacogips/binst/internal/debug"
)

const (
	// ManifestFile is the project manifest read by publish.
	ManifestFile = "binst.toml"
	goModFile    = "go.mod"
)

// Manifest is the [package] table of binst.toml.
type Manifest struct {
	// Name is the binary name. Falls back to the last element of the go.mod
	// module path.
	Name string `toml:"name"`
	// Version is the semantic version to publish.
	Version string `toml:"version"`
	// Main is the package to build, relative to the project directory.
	Main string `toml:"main"`
}

type manifestFile struct {
	Package Manifest `toml:"package"`
}

// LoadManifest reads binst.toml from projectDir.
func LoadManifest(projectDir string) (*Manifest, error) {
	manifestPath := filepath.Join(projectDir, ManifestFile)
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewValidationError(ManifestFile+" not found in "+projectDir, err)
		}
		return nil, NewValidationError("failed to read "+manifestPath, err)
	}

	var f manifestFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, NewValidationError("invalid "+manifestPath, err)
	}
	m := &f.Package
	m.Name = strings.TrimSpace(m.Name)
	m.Version = strings.TrimSpace(m.Version)

	if m.Name == "" {
		name, err := moduleBinName(filepath.Join(projectDir, goModFile))
		if err != nil {
			return nil, NewValidationError("package.name is missing and cannot be derived from go.mod", err)
		}
		debug.DebugValue("[app] Name from go.mod", name)
		m.Name = name
	}
	if m.Version == "" {
		return nil, NewValidationError("package.version is missing in "+manifestPath, nil)
	}
	if m.Main == "" {
		m.Main = "."
	}
	return m, nil
}

// moduleBinName returns the last element of the module path, skipping a
// major version suffix ("example.com/tool/v2" -> "tool").
func moduleBinName(goModPath string) (string, error) {
	data, err := os.ReadFile(goModPath)
	if err != nil {
		return "", err
	}
	modulePath := modfile.ModulePath(data)
	if modulePath == "" {
		return "", errors.New("no module directive in " + goModPath)
	}

	prefix, _, ok := module.SplitPathVersion(modulePath)
	if !ok {
		prefix = modulePath
	}
	return path.Base(prefix), nil
}
