package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tacogips/binst/internal/paths"
	"github.com/tacogips/binst/internal/repo"
)

func TestInstallLocal(t *testing.T) {
	env := newTestEnv(t)
	env.seed("mytool", "main", "1.2.0", "v1.2.0 binary")

	result := env.install("mytool", "main")

	assert.Equal(t, StateDone, result.State)
	assert.Equal(t, []InstallState{
		StateResolvingVersion,
		StateDownloading,
		StateUnpacking,
		StateWritingInstallRecord,
		StateSymlinking,
		StateDone,
	}, result.Transition)
	assert.Equal(t, "1.2.0", result.Version.String())

	link := env.layout.BinLink("mytool")
	assert.Equal(t, link, result.Symlink)
	target, err := os.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(env.layout.PackagesDir, "mytool", "v1.2.0", "unpacked", "mytool"), target)
	assert.Equal(t, "v1.2.0 binary", readFile(t, link))

	rec, err := ReadInstallRecord(filepath.Join(env.layout.PackagesDir, "mytool", "v1.2.0", "install.toml"))
	require.NoError(t, err)
	assert.Equal(t, env.desc.Raw(), rec.Repo)
	assert.Equal(t, env.repoDir, rec.Repo)
	assert.Equal(t, "main", rec.Stream)
	assert.Equal(t, "1.2.0", rec.Version)
	assert.Equal(t, result.Digest, rec.Digest)

	assert.FileExists(t, result.Archive)
	assert.NoFileExists(t, filepath.Join(env.layout.PackagesDir, "mytool", "v1.2.0", "mytool.tar"))

	entries, err := os.ReadDir(env.layout.TmpDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temp directories must be removed")
}

func TestInstallReplacesSymlink(t *testing.T) {
	env := newTestEnv(t)
	env.seed("mytool", "main", "1.0.0", "old")
	env.install("mytool", "main")

	env.seed("mytool", "main", "1.1.0", "new")
	env.install("mytool", "main")

	assert.Equal(t, "new", readFile(t, env.layout.BinLink("mytool")))
	assert.DirExists(t, env.layout.PackageDir("mytool", "v1.0.0"), "older versions are kept")
}

func TestInstallStream(t *testing.T) {
	env := newTestEnv(t)
	env.seed("mytool", "main", "1.0.0", "stable")
	env.seed("mytool", "rc", "1.1.0-rc.1", "candidate")

	result := env.install("mytool", "rc")
	assert.Equal(t, "1.1.0-rc.1", result.Version.String())
	assert.Equal(t, "candidate", readFile(t, env.layout.BinLink("mytool")))
}

func TestInstallFailures(t *testing.T) {
	t.Run("missing latest document", func(t *testing.T) {
		env := newTestEnv(t)
		result, err := NewInstaller(env.binRepo("ghost")).Install(context.Background(), InstallOptions{})

		require.Error(t, err)
		assert.True(t, repo.IsNotFound(err))
		assert.Equal(t, StateFailed, result.State)
		assert.Equal(t, StateResolvingVersion, result.FailedAt)
		assert.NoFileExists(t, env.layout.BinLink("ghost"))
	})

	t.Run("missing archive", func(t *testing.T) {
		env := newTestEnv(t)
		env.seed("mytool", "main", "1.0.0", "x")
		require.NoError(t, os.Remove(filepath.Join(env.repoDir, "mytool", testTarget, "main", "v1.0.0", "mytool.tar.gz")))

		result, err := NewInstaller(env.binRepo("mytool")).Install(context.Background(), InstallOptions{})
		require.Error(t, err)
		assert.True(t, repo.IsNotFound(err))
		assert.Equal(t, StateDownloading, result.FailedAt)

		entries, err := os.ReadDir(env.layout.TmpDir)
		require.NoError(t, err)
		assert.Empty(t, entries, "temp directory must be removed on failure")
	})

	t.Run("corrupt archive", func(t *testing.T) {
		env := newTestEnv(t)
		env.seed("mytool", "main", "1.0.0", "x")
		archivePath := filepath.Join(env.repoDir, "mytool", testTarget, "main", "v1.0.0", "mytool.tar.gz")
		require.NoError(t, os.WriteFile(archivePath, []byte("garbage"), 0o644))

		result, err := NewInstaller(env.binRepo("mytool")).Install(context.Background(), InstallOptions{})
		require.Error(t, err)
		assert.Equal(t, StateUnpacking, result.FailedAt)
		assert.NoFileExists(t, filepath.Join(env.layout.PackageDir("mytool", "v1.0.0"), "install.toml"),
			"install record is only written after a successful unpack")
	})

	t.Run("digest mismatch", func(t *testing.T) {
		env := newTestEnv(t)
		env.seed("mytool", "main", "1.0.0", "x")
		doc, err := PackageDocument{Name: "mytool", Stream: "main", Version: "1.0.0", Digest: "blake3:00"}.Encode()
		require.NoError(t, err)
		docPath := filepath.Join(env.repoDir, "mytool", testTarget, "main", "v1.0.0", "mytool.toml")
		require.NoError(t, os.WriteFile(docPath, []byte(doc), 0o644))

		result, err := NewInstaller(env.binRepo("mytool")).Install(context.Background(), InstallOptions{})
		require.Error(t, err)
		assert.Equal(t, StateDownloading, result.FailedAt)
	})
}

func TestInstallOnState(t *testing.T) {
	env := newTestEnv(t)
	env.seed("mytool", "main", "1.0.0", "x")

	var seen []InstallState
	_, err := NewInstaller(env.binRepo("mytool")).Install(context.Background(), InstallOptions{
		OnState: func(s InstallState) { seen = append(seen, s) },
	})
	require.NoError(t, err)
	assert.Equal(t, StateDone, seen[len(seen)-1])
	assert.Len(t, seen, 6)
}

func TestInstallRejectsRootWithoutMarker(t *testing.T) {
	root := filepath.Join(t.TempDir(), "cache")

	_, err := paths.New(root)
	require.Error(t, err)
	assert.True(t, paths.IsUnsafeRoot(err))
	assert.NoDirExists(t, root)
}

func TestInstallPackageDocumentErrors(t *testing.T) {
	tests := []struct {
		name      string
		docStatus int
		docBody   string
		wantErr   bool
		check     func(t *testing.T, err error)
	}{
		{
			name:      "missing document installs without digest",
			docStatus: http.StatusNotFound,
		},
		{
			name:      "server error fails download",
			docStatus: http.StatusServiceUnavailable,
			wantErr:   true,
			check: func(t *testing.T, err error) {
				assert.True(t, repo.IsTransport(err))
			},
		},
		{
			name:      "malformed document fails download",
			docStatus: http.StatusOK,
			docBody:   "name = [",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.seed("mytool", "main", "1.0.0", "served")

			files := http.FileServer(http.Dir(env.repoDir))
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if strings.HasSuffix(r.URL.Path, "/mytool.toml") {
					w.WriteHeader(tt.docStatus)
					_, _ = w.Write([]byte(tt.docBody))
					return
				}
				files.ServeHTTP(w, r)
			}))
			defer srv.Close()

			desc, err := repo.Parse(srv.URL, "")
			require.NoError(t, err)
			b, err := NewBinRepo(BinRepoOptions{
				BinName:     "mytool",
				InstallRepo: desc,
				Target:      testTarget,
				Layout:      env.layout,
				Transport:   &repo.Transport{},
			})
			require.NoError(t, err)

			result, err := NewInstaller(b).Install(context.Background(), InstallOptions{})
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, StateDone, result.State)
				return
			}
			require.Error(t, err)
			assert.Equal(t, StateDownloading, result.FailedAt)
			assert.NoDirExists(t, env.layout.PackageDir("mytool", "v1.0.0"))
			if tt.check != nil {
				tt.check(t, err)
			}
		})
	}
}

func TestInstallRejectsUnsafeStream(t *testing.T) {
	env := newTestEnv(t)
	env.seed("mytool", "main", "1.0.0", "x")

	result, err := NewInstaller(env.binRepo("mytool")).Install(context.Background(), InstallOptions{Stream: "../main"})
	require.Error(t, err)
	assert.True(t, repo.IsParseError(err))
	assert.Equal(t, StateResolvingVersion, result.FailedAt)
	assert.Equal(t, StateFailed, result.State)
}
