package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/pflag"

	"github.com/tacogips/binst/internal/repo"
)

// Common flag names and descriptions
const (
	// Flag names
	FlagHome    = "home"
	FlagConfig  = "config"
	FlagRepo    = "repo"
	FlagProfile = "profile"
	FlagStream  = "stream"
	FlagPath    = "path"
	FlagTarget  = "target"
	FlagYes     = "yes"
	FlagFormat  = "format"
	FlagVerbose = "verbose"
	FlagNoColor = "no-color"
	FlagQuiet   = "quiet"
	FlagDebug   = "debug"

	// Flag descriptions
	DescHome    = "binst home directory (default $BINST_HOME or ~/.binst)"
	DescConfig  = "Path to config file (default {home}/config.toml)"
	DescRepo    = "Repository: a local path, s3://bucket/base or an http(s) URL"
	DescProfile = "AWS profile for S3 repositories"
	DescStream  = "Release stream"
	DescTarget  = "Target triple to build and publish for (default host)"
	DescVerbose = "Alias of --debug"
	DescNoColor = "Disable colored output"
	DescQuiet   = "Suppress output"
	DescDebug   = "Enable debug logging"
)

// Output formats accepted by --format.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// formatValue is a pflag.Value restricted to the output formats.
type formatValue string

var _ pflag.Value = (*formatValue)(nil)

func (f *formatValue) String() string { return string(*f) }

func (f *formatValue) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	valid := []string{FormatText, FormatJSON, FormatYAML}
	if !slices.Contains(valid, s) {
		return fmt.Errorf("must be one of %s", strings.Join(valid, ", "))
	}
	*f = formatValue(s)
	return nil
}

func (f *formatValue) Type() string { return "format" }

// repoFlags are the repository selection flags shared by the commands.
type repoFlags struct {
	repo    string
	profile string
}

// installRepo returns the -r repository, else the configured install repo.
func (f repoFlags) installRepo(s session) (repo.Descriptor, error) {
	if f.repo != "" {
		return repo.Parse(f.repo, f.profileOr(s))
	}
	return s.config.InstallRepo(f.profile)
}

// publishRepo returns the -r repository, else the configured publish repo.
func (f repoFlags) publishRepo(s session) (repo.Descriptor, error) {
	if f.repo != "" {
		return repo.Parse(f.repo, f.profileOr(s))
	}
	return s.config.PublishRepo(f.profile)
}

func (f repoFlags) profileOr(s session) string {
	if f.profile != "" {
		return f.profile
	}
	return s.config.Repo.Profile
}
