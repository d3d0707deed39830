package config

// Log levels accepted in log.level. debug enables debug output; info is quiet.
var validLevels = []string{"debug", "info"}

// Log formats accepted in log.format.
var validFormats = []string{"text", "json"}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Color:    true,
			Progress: true,
			Quiet:    false,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
