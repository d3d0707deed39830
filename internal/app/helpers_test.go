package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/require"

	"github.com/tacogips/binst/internal/archive"
	"github.com/tacogips/binst/internal/paths"
	"github.com/tacogips/binst/internal/repo"
)

const testTarget = "x86_64-unknown-linux-gnu"

// testEnv is a cache root plus a local repository, both under t.TempDir().
type testEnv struct {
	t       *testing.T
	layout  paths.Layout
	repoDir string
	desc    repo.Descriptor
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	base := t.TempDir()

	layout, err := paths.New(filepath.Join(base, ".binst"))
	require.NoError(t, err)

	repoDir := filepath.Join(base, "repo")
	require.NoError(t, os.MkdirAll(repoDir, 0o755))
	desc, err := repo.Parse(repoDir, "")
	require.NoError(t, err)

	return &testEnv{t: t, layout: layout, repoDir: repoDir, desc: desc}
}

func (e *testEnv) binRepo(bin string) *BinRepo {
	e.t.Helper()
	b, err := NewBinRepo(BinRepoOptions{
		BinName:     bin,
		InstallRepo: e.desc,
		PublishRepo: e.desc,
		Target:      testTarget,
		Layout:      e.layout,
		Transport:   &repo.Transport{},
	})
	require.NoError(e.t, err)
	return b
}

// seed writes latest.toml and a packed archive for bin/version into the
// local repository, the way a publish lays them out.
func (e *testEnv) seed(bin, stream, version, content string) {
	e.t.Helper()
	v := semver.MustParse(version)

	stage := filepath.Join(e.t.TempDir(), "stage")
	require.NoError(e.t, os.MkdirAll(stage, 0o755))
	require.NoError(e.t, os.WriteFile(filepath.Join(stage, bin), []byte(content), 0o755))

	archivePath := filepath.Join(e.repoDir, filepath.FromSlash(repo.ArchiveKey(bin, testTarget, stream, v)))
	require.NoError(e.t, os.MkdirAll(filepath.Dir(archivePath), 0o755))
	require.NoError(e.t, archive.Pack(stage, archivePath))

	latest, err := repo.EncodeLatest(v)
	require.NoError(e.t, err)
	latestPath := filepath.Join(e.repoDir, filepath.FromSlash(repo.LatestKey(bin, testTarget, stream)))
	require.NoError(e.t, os.WriteFile(latestPath, []byte(latest), 0o644))
}

func (e *testEnv) install(bin, stream string) *InstallResult {
	e.t.Helper()
	result, err := NewInstaller(e.binRepo(bin)).Install(context.Background(), InstallOptions{Stream: stream})
	require.NoError(e.t, err)
	return result
}

// fakeBuilder writes a fixed binary where GoBuilder would.
type fakeBuilder struct {
	content string
	calls   int
	err     error
}

func (f *fakeBuilder) Build(_ context.Context, req BuildRequest) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	out := ReleaseBinPath(req.ProjectDir, req.BinName, req.Target)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return "", err
	}
	return out, os.WriteFile(out, []byte(f.content), 0o755)
}

func writeProject(t *testing.T, manifest string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestFile), []byte(manifest), 0o644))
	return dir
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
