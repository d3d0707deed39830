package debug

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/lmittmann/tint"
)

// Log output formats accepted by SetFormat.
const (
	FormatText = "text"
	FormatJSON = "json"
)

var (
	mu      sync.RWMutex
	enabled bool
	noColor bool
	format  = FormatText
	output  io.Writer
	logger  = build()
)

// build creates the slog logger from the current settings.
// Callers must hold mu (or be running package init).
func build() *slog.Logger {
	level := slog.LevelInfo
	if enabled {
		level = slog.LevelDebug
	}

	w := output
	if w == nil {
		w = os.Stderr
	}

	var handler slog.Handler
	switch format {
	case FormatJSON:
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	default:
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: "15:04:05.000",
			NoColor:    noColor,
		})
	}
	return slog.New(handler)
}

func rebuild() {
	logger = build()
}

// SetDebug enables or disables debug mode
func SetDebug(enable bool) {
	mu.Lock()
	defer mu.Unlock()
	enabled = enable
	rebuild()
}

// IsEnabled returns whether debug mode is enabled
func IsEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// SetNoColor enables or disables colored output
func SetNoColor(disable bool) {
	mu.Lock()
	defer mu.Unlock()
	noColor = disable
	rebuild()
}

// SetFormat selects the log encoding ("text" or "json").
// Unknown values fall back to text.
func SetFormat(f string) {
	mu.Lock()
	defer mu.Unlock()
	format = f
	rebuild()
}

// SetOutput redirects debug output. A nil writer restores stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	rebuild()
}

// Logger returns the underlying structured logger.
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Debug logs a formatted debug message
func Debug(format string, args ...interface{}) {
	if !IsEnabled() {
		return
	}
	Logger().Debug(fmt.Sprintf(format, args...))
}

// DebugSection logs a section header for debug output
func DebugSection(section string) {
	if !IsEnabled() {
		return
	}
	Logger().Debug("=== " + section + " ===")
}

// DebugValue logs key=value style debug info
func DebugValue(key string, value interface{}) {
	if !IsEnabled() {
		return
	}
	Logger().Debug(key, slog.Any("value", value))
}

// DebugJSON logs structured data as indented JSON
func DebugJSON(key string, v interface{}) {
	if !IsEnabled() {
		return
	}

	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		Debug("Failed to marshal %s to JSON: %v", key, err)
		return
	}
	Logger().Debug(key + ":\n" + string(jsonBytes))
}

// DebugDuration logs how long a step took, measured from start.
func DebugDuration(step string, start time.Time) {
	if !IsEnabled() {
		return
	}
	Logger().Debug(step, slog.Duration("elapsed", time.Since(start).Round(time.Millisecond)))
}
