package repo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransport(s3 *fakeS3) *Transport {
	t := &Transport{HTTPClient: http.DefaultClient}
	if s3 != nil {
		t.NewS3Client = s3.factory()
	}
	return t
}

func TestLocalTransfer(t *testing.T) {
	ctx := context.Background()
	repoDir := t.TempDir()
	d, err := Parse(repoDir, "")
	require.NoError(t, err)
	tr := newTestTransport(nil)

	src := filepath.Join(t.TempDir(), "mytool.tar.gz")
	require.NoError(t, os.WriteFile(src, []byte("archive"), 0o644))

	url, err := tr.UploadFile(ctx, d, "mytool/t/main/v1.0.0/mytool.tar.gz", src)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(repoDir, "mytool/t/main/v1.0.0/mytool.tar.gz"), url)

	_, err = tr.UploadText(ctx, d, "mytool/t/main/latest.toml", "[latest]\nversion = \"1.0.0\"\n")
	require.NoError(t, err)

	text, err := tr.ReadText(ctx, d, "mytool/t/main/latest.toml")
	require.NoError(t, err)
	assert.Contains(t, text, "1.0.0")

	dest := filepath.Join(t.TempDir(), "nested", "out.tar.gz")
	from, err := tr.Download(ctx, d, "mytool/t/main/v1.0.0/mytool.tar.gz", dest)
	require.NoError(t, err)
	assert.Equal(t, url, from)
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "archive", string(data))

	_, err = tr.ReadText(ctx, d, "mytool/t/rc/latest.toml")
	assert.True(t, IsNotFound(err), "got %v", err)
	assert.Contains(t, err.Error(), filepath.Join(repoDir, "mytool/t/rc/latest.toml"))
}

func TestHTTPTransfer(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repo/mytool/t/main/latest.toml":
			w.Write([]byte("[latest]\nversion = \"1.2.0\"\n"))
		case "/repo/mytool/t/main/v1.2.0/mytool.tar.gz":
			w.Write([]byte("gz-bytes"))
		case "/repo/broken/t/main/latest.toml":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	d, err := Parse(srv.URL+"/repo/", "")
	require.NoError(t, err)
	tr := newTestTransport(nil)

	text, err := tr.ReadText(ctx, d, "mytool/t/main/latest.toml")
	require.NoError(t, err)
	assert.Contains(t, text, "1.2.0")

	dest := filepath.Join(t.TempDir(), "mytool.tar.gz")
	url, err := tr.Download(ctx, d, "mytool/t/main/v1.2.0/mytool.tar.gz", dest)
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/repo/mytool/t/main/v1.2.0/mytool.tar.gz", url)
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "gz-bytes", string(data))

	_, err = tr.ReadText(ctx, d, "mytool/t/rc/latest.toml")
	assert.True(t, IsNotFound(err), "got %v", err)

	_, err = tr.ReadText(ctx, d, "broken/t/main/latest.toml")
	require.True(t, IsTransport(err), "got %v", err)
	var re *RepoError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "http 500", re.Code)
}

func TestReadTextSizeLimit(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{name: "at limit", size: maxTextSize},
		{name: "over limit", size: maxTextSize + 1, wantErr: true},
	}

	for _, tt := range tests {
		body := strings.Repeat("a", tt.size)

		t.Run("http "+tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			}))
			defer srv.Close()
			d, err := Parse(srv.URL, "")
			require.NoError(t, err)

			text, err := newTestTransport(nil).ReadText(context.Background(), d, "mytool/t/main/latest.toml")
			if tt.wantErr {
				require.True(t, IsTransport(err), "got %v", err)
				var re *RepoError
				require.True(t, errors.As(err, &re))
				assert.Equal(t, "too large", re.Code)
				return
			}
			require.NoError(t, err)
			assert.Len(t, text, tt.size)
		})

		t.Run("s3 "+tt.name, func(t *testing.T) {
			fake := newFakeS3()
			fake.objects["bucket/mytool/t/main/latest.toml"] = []byte(body)
			d, err := Parse("s3://bucket", "")
			require.NoError(t, err)

			text, err := newTestTransport(fake).ReadText(context.Background(), d, "mytool/t/main/latest.toml")
			if tt.wantErr {
				require.True(t, IsTransport(err), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, text, tt.size)
		})
	}
}

func TestHTTPUploadUnsupported(t *testing.T) {
	ctx := context.Background()
	d, err := Parse("https://repo.example.net", "")
	require.NoError(t, err)
	tr := newTestTransport(nil)

	_, err = tr.UploadText(ctx, d, "k", "v")
	assert.True(t, IsUnsupported(err))

	_, err = tr.UploadFile(ctx, d, "k", "/nonexistent")
	assert.True(t, IsUnsupported(err))
}

func TestS3Transfer(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	tr := newTestTransport(fake)
	d, err := Parse("s3://bucket/base", "")
	require.NoError(t, err)

	src := filepath.Join(t.TempDir(), "mytool.tar.gz")
	require.NoError(t, os.WriteFile(src, []byte("archive"), 0o644))

	url, err := tr.UploadText(ctx, d, "mytool/t/main/latest.toml", "[latest]\nversion = \"0.3.0\"\n")
	require.NoError(t, err)
	assert.Equal(t, "s3://bucket/base/mytool/t/main/latest.toml", url)

	url, err = tr.UploadFile(ctx, d, "mytool/t/main/v0.3.0/mytool.tar.gz", src)
	require.NoError(t, err)
	assert.Equal(t, "s3://bucket/base/mytool/t/main/v0.3.0/mytool.tar.gz", url)

	assert.Equal(t, []string{
		"bucket/base/mytool/t/main/latest.toml",
		"bucket/base/mytool/t/main/v0.3.0/mytool.tar.gz",
	}, fake.puts)

	dest := filepath.Join(t.TempDir(), "out.tar.gz")
	from, err := tr.Download(ctx, d, "mytool/t/main/v0.3.0/mytool.tar.gz", dest)
	require.NoError(t, err)
	assert.Equal(t, url, from)
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "archive", string(data))

	_, err = tr.ReadText(ctx, d, "mytool/t/rc/latest.toml")
	assert.True(t, IsNotFound(err), "got %v", err)
	assert.Contains(t, err.Error(), "s3://bucket/base/mytool/t/rc/latest.toml")
}

func TestS3ErrorClassification(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantNotFound bool
		wantCode     string
	}{
		{name: "not found code", err: &apiError{code: "NotFound"}, wantNotFound: true},
		{name: "access denied", err: &apiError{code: "AccessDenied"}, wantCode: "AccessDenied"},
		{name: "plain error", err: errors.New("dial tcp: refused"), wantCode: "s3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeS3()
			fake.getErr = tt.err
			tr := newTestTransport(fake)
			d, err := Parse("s3://bucket", "")
			require.NoError(t, err)

			_, err = tr.ReadText(context.Background(), d, "k")
			if tt.wantNotFound {
				assert.True(t, IsNotFound(err), "got %v", err)
				return
			}
			var re *RepoError
			require.ErrorAs(t, err, &re)
			assert.Equal(t, RepoTransport, re.Type)
			assert.Equal(t, tt.wantCode, re.Code)
		})
	}
}

func TestS3CredentialFailureIsTransport(t *testing.T) {
	tr := &Transport{
		NewS3Client: func(context.Context, S3Location) (S3Client, error) {
			return nil, errors.New("no credentials")
		},
	}
	d, err := Parse("s3://bucket", "")
	require.NoError(t, err)

	_, err = tr.ReadText(context.Background(), d, "k")
	var re *RepoError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, RepoTransport, re.Type)
	assert.Equal(t, "credentials", re.Code)
}
