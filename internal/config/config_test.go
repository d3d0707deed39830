package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tacogips/binst/internal/repo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig returned nil")
	}
	if !cfg.Output.Color {
		t.Error("Color output should be enabled by default")
	}
	if !cfg.Output.Progress {
		t.Error("Progress should be enabled by default")
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("unexpected log defaults: %+v", cfg.Log)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("default configuration should be valid: %v", err)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[repo]
install = "s3://my-bucket/repo"
publish = "/srv/binst-repo"
profile = "work"

[log]
level = "debug"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := NewLoader().Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Repo.Install != "s3://my-bucket/repo" {
		t.Errorf("Install = %q", cfg.Repo.Install)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Level = %q", cfg.Log.Level)
	}
	// untouched keys keep defaults
	if !cfg.Output.Progress || cfg.Log.Format != "text" {
		t.Errorf("defaults not preserved: %+v", cfg)
	}

	install, err := cfg.InstallRepo("")
	if err != nil {
		t.Fatalf("InstallRepo failed: %v", err)
	}
	if install.Kind != repo.KindS3 || install.S3.Profile != "work" {
		t.Errorf("InstallRepo() = %+v", install)
	}

	install, err = cfg.InstallRepo("override")
	if err != nil {
		t.Fatalf("InstallRepo failed: %v", err)
	}
	if install.S3.Profile != "override" {
		t.Errorf("profile override not applied: %+v", install.S3)
	}

	publish, err := cfg.PublishRepo("")
	if err != nil {
		t.Fatalf("PublishRepo failed: %v", err)
	}
	if publish.Kind != repo.KindLocal || publish.Path != "/srv/binst-repo" {
		t.Errorf("PublishRepo() = %+v", publish)
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := NewLoader().LoadOrDefault(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadOrDefault failed: %v", err)
	}

	install, err := cfg.InstallRepo("")
	if err != nil {
		t.Fatalf("InstallRepo failed: %v", err)
	}
	if install.Kind != repo.KindHTTP {
		t.Errorf("default install repo should be http, got %s", install.Kind)
	}

	publish, err := cfg.PublishRepo("me")
	if err != nil {
		t.Fatalf("PublishRepo failed: %v", err)
	}
	if publish.S3.Bucket != repo.DefaultPublishBucket || publish.S3.Profile != "me" {
		t.Errorf("PublishRepo() = %+v", publish)
	}
}

func TestLoadInvalidSyntax(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[repo\ninstall ="), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewLoader().LoadOrDefault(configPath)
	if err == nil {
		t.Fatal("expected error for invalid TOML")
	}
	cfgErr, ok := err.(*ConfigError)
	if !ok || cfgErr.Type != ConfigInvalid {
		t.Errorf("expected ConfigInvalid, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantField string
	}{
		{name: "defaults", modify: func(*Config) {}},
		{name: "bad level", modify: func(c *Config) { c.Log.Level = "loud" }, wantField: "log.level"},
		{name: "bad format", modify: func(c *Config) { c.Log.Format = "xml" }, wantField: "log.format"},
		{name: "bad install repo", modify: func(c *Config) { c.Repo.Install = "s3://" }, wantField: "repo.install"},
		{name: "http publish repo", modify: func(c *Config) { c.Repo.Publish = "https://example.net" }, wantField: "repo.publish"},
		{name: "uppercase level", modify: func(c *Config) { c.Log.Level = "DEBUG" }},
		{name: "warn level", modify: func(c *Config) { c.Log.Level = "warn" }, wantField: "log.level"},
		{name: "error level", modify: func(c *Config) { c.Log.Level = "error" }, wantField: "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			err := Validate(cfg)
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			cfgErr, ok := err.(*ConfigError)
			if !ok {
				t.Fatalf("expected *ConfigError, got %v", err)
			}
			if cfgErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", cfgErr.Field, tt.wantField)
			}
		})
	}
}

func TestSaveAndWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	written, err := WriteDefaultIfAbsent(path)
	if err != nil || !written {
		t.Fatalf("WriteDefaultIfAbsent() = %v, %v", written, err)
	}

	cfg, err := NewLoader().Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	cfg.Repo.Install = "/tmp/repo"
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	written, err = WriteDefaultIfAbsent(path)
	if err != nil || written {
		t.Fatalf("existing file must not be overwritten: %v, %v", written, err)
	}

	cfg, err = NewLoader().Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Repo.Install != "/tmp/repo" {
		t.Errorf("Install = %q", cfg.Repo.Install)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	got, err := ExpandPath("~/x")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(home, "x") {
		t.Errorf("ExpandPath(~/x) = %q", got)
	}

	if got, _ := ExpandPath(""); got != "" {
		t.Errorf("ExpandPath(\"\") = %q", got)
	}
}
