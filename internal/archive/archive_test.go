package archive

import (
	"archive/tar"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackUnpack(t *testing.T) {
	stage := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(stage, "mytool"), []byte("#!/bin/sh\necho hi\n"), 0o755))

	dir := t.TempDir()
	gz := filepath.Join(dir, "mytool.tar.gz")
	require.NoError(t, Pack(stage, gz))

	tarPath := filepath.Join(dir, "mytool.tar")
	unpacked := filepath.Join(dir, "unpacked")
	require.NoError(t, Unpack(gz, tarPath, unpacked))

	data, err := os.ReadFile(filepath.Join(unpacked, "mytool"))
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\necho hi\n", string(data))

	info, err := os.Stat(filepath.Join(unpacked, "mytool"))
	require.NoError(t, err)
	assert.NotZero(t, info.Mode().Perm()&0o100, "binary should stay executable")

	assert.NoFileExists(t, tarPath)
	assert.FileExists(t, gz)
}

func TestUnpackRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	gzPath := filepath.Join(dir, "evil.tar.gz")

	f, err := os.Create(gzPath)
	require.NoError(t, err)
	gw := gzip.NewWriter(f)
	tw := tar.NewWriter(gw)
	body := "pwned"
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     "../escape",
		Mode:     0o644,
		Size:     int64(len(body)),
		Typeflag: tar.TypeReg,
	}))
	_, err = tw.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
	require.NoError(t, f.Close())

	err = Unpack(gzPath, filepath.Join(dir, "evil.tar"), filepath.Join(dir, "out"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "escapes")
	assert.NoFileExists(t, filepath.Join(dir, "escape"))
}

func TestUnpackCorrupt(t *testing.T) {
	dir := t.TempDir()
	gz := filepath.Join(dir, "bad.tar.gz")
	require.NoError(t, os.WriteFile(gz, []byte("not gzip"), 0o644))

	err := Unpack(gz, filepath.Join(dir, "bad.tar"), filepath.Join(dir, "out"))
	assert.Error(t, err)
}

func TestDigest(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	require.NoError(t, os.WriteFile(a, []byte("same"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("same"), 0o644))

	da, err := Digest(a)
	require.NoError(t, err)
	db, err := Digest(b)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(da, DigestPrefix))
	assert.Len(t, strings.TrimPrefix(da, DigestPrefix), 64)
	assert.Equal(t, da, db)

	require.NoError(t, os.WriteFile(b, []byte("different"), 0o644))
	db, err = Digest(b)
	require.NoError(t, err)
	assert.NotEqual(t, da, db)
}
