package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/tacogips/binst/internal/debug"
	"github.com/tacogips/binst/internal/platform"
)

// BuildRequest describes one release build.
type BuildRequest struct {
	ProjectDir string
	BinName    string
	// Main is the package to build, relative to ProjectDir.
	Main string
	// Target is an optional triple to cross compile for.
	Target string
}

// Builder produces the release binary for a project and returns its path.
type Builder interface {
	Build(ctx context.Context, req BuildRequest) (string, error)
}

// ReleaseBinPath returns target/release/{bin}, or target/{triple}/release/{bin}
// when cross compiling.
func ReleaseBinPath(projectDir, bin, target string) string {
	if target == "" {
		return filepath.Join(projectDir, "target", "release", bin)
	}
	return filepath.Join(projectDir, "target", target, "release", bin)
}

// GoBuilder builds with the go toolchain.
type GoBuilder struct {
	// GoBin is the go executable; empty means "go" from PATH.
	GoBin  string
	Stdout io.Writer
	Stderr io.Writer
}

// Build runs go build -trimpath for req and checks that the binary exists.
func (g *GoBuilder) Build(ctx context.Context, req BuildRequest) (string, error) {
	output := ReleaseBinPath(req.ProjectDir, req.BinName, req.Target)
	args := []string{"build", "-trimpath", "-o", output, req.Main}

	goBin := g.GoBin
	if goBin == "" {
		goBin = "go"
	}
	cmd := exec.CommandContext(ctx, goBin, args...)
	cmd.Dir = req.ProjectDir
	cmd.Stdout = g.Stdout
	cmd.Stderr = g.Stderr
	cmd.Env = os.Environ()

	if req.Target != "" {
		goos, goarch, err := platform.GoEnv(req.Target)
		if err != nil {
			return "", err
		}
		cmd.Env = append(cmd.Env, "GOOS="+goos, "GOARCH="+goarch, "CGO_ENABLED=0")
	}

	debug.Debug("[app] Executing: %s %s", goBin, strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s %s: %w", goBin, strings.Join(args, " "), err)
	}

	info, err := os.Stat(output)
	if err != nil || !info.Mode().IsRegular() {
		return "", fmt.Errorf("release binary not found at %s", output)
	}
	return output, nil
}
