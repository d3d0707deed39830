package config

// Config represents the binst configuration stored at {root}/config.toml.
type Config struct {
	// Repo selects the repositories used when -r is not given.
	Repo RepoConfig `toml:"repo"`
	// Output configuration for display.
	Output OutputConfig `toml:"output"`
	// Log configuration for the debug logger.
	Log LogConfig `toml:"log"`
}

// RepoConfig represents repository defaults.
type RepoConfig struct {
	// Install is the repository location installs and updates resolve against.
	// Empty selects the hosted repository.
	Install string `toml:"install,omitempty"`
	// Publish is the repository location publishes upload to.
	// Empty selects the hosted repository bucket.
	Publish string `toml:"publish,omitempty"`
	// Profile is the AWS profile used for S3 repositories.
	Profile string `toml:"profile,omitempty"`
}

// OutputConfig represents output and display settings.
type OutputConfig struct {
	// Color enables colored terminal output.
	Color bool `toml:"color"`
	// Progress shows progress bars during transfers.
	Progress bool `toml:"progress"`
	// Quiet suppresses non-error output.
	Quiet bool `toml:"quiet"`
}

// LogConfig represents debug logging settings.
type LogConfig struct {
	// Level is debug or info.
	Level string `toml:"level"`
	// Format is text or json.
	Format string `toml:"format"`
}
