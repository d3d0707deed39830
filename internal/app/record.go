package app

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// InstallRecord is the provenance of an installed package, stored as
// install.toml in its package directory.
type InstallRecord struct {
	Repo    string `toml:"repo"`
	Stream  string `toml:"stream"`
	Version string `toml:"version"`
	Digest  string `toml:"digest,omitempty"`
}

type installRecordFile struct {
	Install InstallRecord `toml:"install"`
}

// WriteInstallRecord writes rec to path.
func WriteInstallRecord(path string, rec InstallRecord) error {
	data, err := toml.Marshal(installRecordFile{Install: rec})
	if err != nil {
		return fmt.Errorf("failed to encode install record: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write install record: %w", err)
	}
	return nil
}

// ReadInstallRecord reads the install record at path.
func ReadInstallRecord(path string) (*InstallRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read install record: %w", err)
	}
	var f installRecordFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid install record %s: %w", path, err)
	}
	return &f.Install, nil
}

// PackageDocument describes a published archive, stored as {bin}.toml beside it.
type PackageDocument struct {
	Name    string `toml:"name"`
	Stream  string `toml:"stream"`
	Version string `toml:"version"`
	Path    string `toml:"path,omitempty"`
	Digest  string `toml:"digest,omitempty"`
}

type packageDocumentFile struct {
	Package PackageDocument `toml:"package"`
}

// Encode renders the document as TOML.
func (d PackageDocument) Encode() (string, error) {
	data, err := toml.Marshal(packageDocumentFile{Package: d})
	if err != nil {
		return "", fmt.Errorf("failed to encode package document: %w", err)
	}
	return string(data), nil
}

// ParsePackageDocument parses a {bin}.toml document.
func ParsePackageDocument(content string) (*PackageDocument, error) {
	var f packageDocumentFile
	if err := toml.Unmarshal([]byte(content), &f); err != nil {
		return nil, fmt.Errorf("invalid package document: %w", err)
	}
	return &f.Package, nil
}
