package credential

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

const (
	credentialsFileEnv = "AWS_SHARED_CREDENTIALS_FILE"
	configFileEnv      = "AWS_CONFIG_FILE"
)

// ProfileStrategy reads a named profile from the shared AWS credentials and
// config files.
type ProfileStrategy struct {
	Profile         string
	CredentialsFile string
	ConfigFile      string
}

// NewProfileStrategy creates a strategy using the standard file locations,
// honoring AWS_SHARED_CREDENTIALS_FILE and AWS_CONFIG_FILE.
func NewProfileStrategy(profile string) *ProfileStrategy {
	home, _ := os.UserHomeDir()
	s := &ProfileStrategy{
		Profile:         profile,
		CredentialsFile: filepath.Join(home, ".aws", "credentials"),
		ConfigFile:      filepath.Join(home, ".aws", "config"),
	}
	if f := os.Getenv(credentialsFileEnv); f != "" {
		s.CredentialsFile = f
	}
	if f := os.Getenv(configFileEnv); f != "" {
		s.ConfigFile = f
	}
	return s
}

// Name implements Strategy.
func (s *ProfileStrategy) Name() string {
	return "profile " + s.Profile
}

// Lookup implements Strategy. The credentials file section is named after the
// profile; the config file uses "profile NAME" except for "default".
func (s *ProfileStrategy) Lookup() (Credentials, Outcome, error) {
	credSection, err := loadSection(s.CredentialsFile, s.Profile)
	if err != nil {
		return Credentials{}, Malformed, NewUnreadableError(s.CredentialsFile, err)
	}
	configName := "profile " + s.Profile
	if s.Profile == "default" {
		configName = "default"
	}
	confSection, err := loadSection(s.ConfigFile, configName)
	if err != nil {
		return Credentials{}, Malformed, NewUnreadableError(s.ConfigFile, err)
	}

	if credSection == nil && confSection == nil {
		return Credentials{}, NotApplicable, nil
	}

	lookup := func(key string) string {
		for _, sec := range []*ini.Section{credSection, confSection} {
			if sec == nil {
				continue
			}
			if v := strings.TrimSpace(sec.Key(key).String()); v != "" {
				return v
			}
		}
		return ""
	}

	creds := Credentials{
		KeyID:     lookup("aws_access_key_id"),
		KeySecret: lookup("aws_secret_access_key"),
		Region:    lookup("region"),
		Endpoint:  lookup("endpoint_url"),
	}
	if creds.Endpoint == "" {
		creds.Endpoint = lookup("endpoint")
	}
	if creds.KeyID == "" || creds.KeySecret == "" {
		return Credentials{}, Malformed, NewMalformedError(s.Name(),
			"profile must define aws_access_key_id and aws_secret_access_key")
	}
	return creds, Found, nil
}

// loadSection returns nil without error when the file or section is absent.
func loadSection(file, name string) (*ini.Section, error) {
	if file == "" {
		return nil, nil
	}
	if _, err := os.Stat(file); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	cfg, err := ini.Load(file)
	if err != nil {
		return nil, err
	}
	if !cfg.HasSection(name) {
		return nil, nil
	}
	return cfg.Section(name), nil
}
