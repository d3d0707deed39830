package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
)

// stdout is where user-facing output goes; tests redirect it.
var stdout io.Writer = os.Stdout

// printInfo prints an informational message
func printInfo(msg string) {
	if globalQuiet {
		return
	}
	fmt.Fprintln(stdout, msg)
}

// printStep prints the start of a step of a workflow.
func printStep(msg string) {
	if globalQuiet {
		return
	}
	fmt.Fprintf(stdout, "%s %s\n", color.MagentaString(" ⌘"), color.New(color.Bold).Sprint(msg))
}

// printDetail prints an indented key/value line under a step.
func printDetail(key string, value any) {
	if globalQuiet {
		return
	}
	fmt.Fprintf(stdout, "   %s %v\n", color.HiBlackString(key+":"), value)
}

// printSuccess prints a success message with the time since start.
func printSuccess(msg string, start time.Time) {
	if globalQuiet {
		return
	}
	fmt.Fprintf(stdout, "%s %s %s\n\n", color.GreenString(" ✔"), msg, color.HiBlackString(elapsed(start)))
}

// printWarning prints a warning message
func printWarning(msg string) {
	if globalQuiet {
		return
	}
	fmt.Fprintf(stdout, "%s %s\n", color.YellowString(" ⚠"), msg)
}

// printFailure prints a failed step to stderr
func printFailure(msg string, start time.Time) {
	fmt.Fprintf(os.Stderr, "%s %s %s\n", color.RedString(" ✘"), msg, color.HiBlackString(elapsed(start)))
}

func elapsed(start time.Time) string {
	return time.Since(start).Round(time.Millisecond).String()
}

// formatBytes formats bytes as human-readable string
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// truncateHash shortens a digest for display.
func truncateHash(hash string) string {
	if len(hash) <= 16 {
		return hash
	}
	return hash[:8] + "..." + hash[len(hash)-8:]
}
