package repo

import (
	"io"
	"os"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// progress wraps reader in a progress bar when enabled and stderr is a terminal.
// The returned func finalizes the bar.
func (t *Transport) progress(reader io.Reader, size int64) (io.Reader, func()) {
	if !t.Progress || !isTerminal(os.Stderr) {
		return reader, func() {}
	}

	bar := pb.
		New64(size).
		SetWriter(os.Stderr).
		SetTemplate(
			pb.ProgressBarTemplate(
				color.New(color.FgHiBlack).Sprint(
					`   └ {{counters . }}` +
						` {{bar . "[" "=" ">" " " "]" }} {{percent . }}` +
						` {{speed . }}`,
				),
			),
		).
		SetRefreshRate(time.Second / 30).
		SetMaxWidth(100).
		Start()

	return bar.NewProxyReader(reader), func() { bar.Finish() }
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
