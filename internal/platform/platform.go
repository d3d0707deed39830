// Package platform maps Go's GOOS/GOARCH pairs to the target triples used to
// namespace artifacts in a repository (e.g. "x86_64-apple-darwin").
package platform

import (
	"fmt"
	"runtime"
	"strings"
)

var archToTriple = map[string]string{
	"amd64":   "x86_64",
	"arm64":   "aarch64",
	"386":     "i686",
	"arm":     "armv7",
	"riscv64": "riscv64gc",
}

var osToTriple = map[string]string{
	"darwin":  "apple-darwin",
	"linux":   "unknown-linux-gnu",
	"freebsd": "unknown-freebsd",
}

// Target returns the triple of the host this binary runs on.
func Target() string {
	return Triple(runtime.GOOS, runtime.GOARCH)
}

// Triple builds the target triple for a GOOS/GOARCH pair.
// Unknown values are passed through so the result stays deterministic.
func Triple(goos, goarch string) string {
	arch, ok := archToTriple[goarch]
	if !ok {
		arch = goarch
	}
	system, ok := osToTriple[goos]
	if !ok {
		system = "unknown-" + goos
	}
	return arch + "-" + system
}

// GoEnv returns the GOOS and GOARCH values needed to cross compile for triple.
func GoEnv(triple string) (goos string, goarch string, err error) {
	parts := strings.SplitN(triple, "-", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid target triple: %q", triple)
	}

	for g, a := range archToTriple {
		if a == parts[0] {
			goarch = g
			break
		}
	}
	if goarch == "" {
		return "", "", fmt.Errorf("unsupported architecture in target %q", triple)
	}

	system := parts[1]
	switch {
	case strings.Contains(system, "darwin"):
		goos = "darwin"
	case strings.Contains(system, "linux"):
		goos = "linux"
	case strings.Contains(system, "freebsd"):
		goos = "freebsd"
	default:
		return "", "", fmt.Errorf("unsupported operating system in target %q", triple)
	}

	return goos, goarch, nil
}
