package integration

import (
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/tacogips/binst/internal/app"
	"github.com/tacogips/binst/internal/paths"
	"github.com/tacogips/binst/internal/repo"
)

// copyFixtureToTemp copies a fixture project into tempDir and returns the
// path of the copy.
func copyFixtureToTemp(t *testing.T, fixtureName, tempDir string) string {
	t.Helper()

	fixtureDir, err := filepath.Abs(filepath.Join("../fixtures/projects", fixtureName))
	if err != nil {
		t.Fatalf("failed to get fixture path: %v", err)
	}

	destDir := filepath.Join(tempDir, fixtureName)
	err = filepath.Walk(fixtureDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(fixtureDir, path)
		if err != nil {
			return err
		}
		destPath := filepath.Join(destDir, relPath)

		if info.IsDir() {
			return os.MkdirAll(destPath, 0o755)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(destPath, data, info.Mode())
	})
	if err != nil {
		t.Fatalf("failed to copy fixture: %v", err)
	}
	return destDir
}

// requireGo skips the test when no go toolchain is on PATH.
func requireGo(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go toolchain not available")
	}
}

// newHome creates an empty binst home under tempDir.
func newHome(t *testing.T, tempDir, name string) paths.Layout {
	t.Helper()
	layout, err := paths.New(filepath.Join(tempDir, name, ".binst"))
	if err != nil {
		t.Fatalf("failed to create layout: %v", err)
	}
	return layout
}

func parseRepo(t *testing.T, location string) repo.Descriptor {
	t.Helper()
	d, err := repo.Parse(location, "")
	if err != nil {
		t.Fatalf("failed to parse %s: %v", location, err)
	}
	return d
}

func newBinRepo(t *testing.T, bin string, d repo.Descriptor, layout paths.Layout) *app.BinRepo {
	t.Helper()
	b, err := app.NewBinRepo(app.BinRepoOptions{
		BinName:     bin,
		InstallRepo: d,
		PublishRepo: d,
		Layout:      layout,
		Transport:   repo.NewTransport(false),
	})
	if err != nil {
		t.Fatalf("NewBinRepo failed: %v", err)
	}
	return b
}

// serveDir serves dir over http the way a static repository host would.
func serveDir(t *testing.T, dir string) string {
	t.Helper()
	srv := httptest.NewServer(http.FileServer(http.Dir(dir)))
	t.Cleanup(srv.Close)
	return srv.URL
}
