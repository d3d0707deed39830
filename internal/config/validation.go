package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/tacogips/binst/internal/repo"
)

// Validate validates the configuration.
func Validate(config *Config) error {
	if config == nil {
		return NewFieldError("", "configuration cannot be nil", nil)
	}

	level := strings.ToLower(config.Log.Level)
	if !slices.Contains(validLevels, level) {
		return NewFieldError("log.level",
			fmt.Sprintf("invalid level %q (expected one of %s)", config.Log.Level, strings.Join(validLevels, ", ")), nil)
	}
	format := strings.ToLower(config.Log.Format)
	if !slices.Contains(validFormats, format) {
		return NewFieldError("log.format",
			fmt.Sprintf("invalid format %q (expected one of %s)", config.Log.Format, strings.Join(validFormats, ", ")), nil)
	}

	if config.Repo.Install != "" {
		if _, err := repo.Parse(config.Repo.Install, config.Repo.Profile); err != nil {
			return NewFieldError("repo.install", "invalid repository location", err)
		}
	}
	if config.Repo.Publish != "" {
		d, err := repo.Parse(config.Repo.Publish, config.Repo.Profile)
		if err != nil {
			return NewFieldError("repo.publish", "invalid repository location", err)
		}
		if !d.CanPublish() {
			return NewFieldError("repo.publish", "http repositories cannot be published to", nil)
		}
	}
	return nil
}

// InstallRepo returns the configured install repository, or the hosted one.
// A non-empty profile overrides repo.profile.
func (c *Config) InstallRepo(profile string) (repo.Descriptor, error) {
	if c.Repo.Install == "" {
		return repo.DefaultInstallRepo(), nil
	}
	return repo.Parse(c.Repo.Install, c.profile(profile))
}

// PublishRepo returns the configured publish repository, or the hosted bucket.
func (c *Config) PublishRepo(profile string) (repo.Descriptor, error) {
	if c.Repo.Publish == "" {
		d := repo.DefaultPublishRepo()
		if profile != "" {
			d.S3.Profile = profile
		}
		return d, nil
	}
	return repo.Parse(c.Repo.Publish, c.profile(profile))
}

func (c *Config) profile(override string) string {
	if override != "" {
		return override
	}
	return c.Repo.Profile
}
