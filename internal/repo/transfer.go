package repo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/tacogips/binst/internal/debug"
)

// Transport moves artifacts between the local disk and a repository. Every
// operation switches on the descriptor kind; keys are backend-relative
// ("{bin}/{target}/{stream}/...").
type Transport struct {
	// HTTPClient is used by the Http backend.
	HTTPClient *http.Client
	// NewS3Client builds the S3 client for a location, resolving credentials.
	NewS3Client S3ClientFactory
	// Progress enables progress bars on file downloads and uploads.
	Progress bool
}

// NewTransport returns a Transport wired to the default HTTP and S3 clients.
func NewTransport(progress bool) *Transport {
	return &Transport{
		HTTPClient:  http.DefaultClient,
		NewS3Client: DefaultS3ClientFactory,
		Progress:    progress,
	}
}

// Download copies key into dest and returns the resolved source URL.
func (t *Transport) Download(ctx context.Context, d Descriptor, key, dest string) (string, error) {
	debug.Debug("[repo] Download %s key=%s dest=%s", d.Kind, key, dest)

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("create download directory: %w", err)
	}

	switch d.Kind {
	case KindLocal:
		return t.downloadLocal(d, key, dest)
	case KindS3:
		return t.downloadS3(ctx, d, key, dest)
	case KindHTTP:
		return t.downloadHTTP(ctx, d, key, dest)
	default:
		return "", unknownKind(d)
	}
}

// ReadText reads a small metadata document into memory.
func (t *Transport) ReadText(ctx context.Context, d Descriptor, key string) (string, error) {
	debug.Debug("[repo] ReadText %s key=%s", d.Kind, key)

	switch d.Kind {
	case KindLocal:
		return t.readLocal(d, key)
	case KindS3:
		return t.readS3(ctx, d, key)
	case KindHTTP:
		return t.readHTTP(ctx, d, key)
	default:
		return "", unknownKind(d)
	}
}

// UploadFile streams localPath to key and returns the resolved URL.
func (t *Transport) UploadFile(ctx context.Context, d Descriptor, key, localPath string) (string, error) {
	debug.Debug("[repo] UploadFile %s key=%s src=%s", d.Kind, key, localPath)

	switch d.Kind {
	case KindLocal:
		return t.uploadLocal(d, key, localPath)
	case KindS3:
		return t.uploadS3File(ctx, d, key, localPath)
	case KindHTTP:
		return "", NewUnsupportedError(d.Raw(), "cannot upload to an http repository")
	default:
		return "", unknownKind(d)
	}
}

// UploadText writes content to key and returns the resolved URL.
func (t *Transport) UploadText(ctx context.Context, d Descriptor, key, content string) (string, error) {
	debug.Debug("[repo] UploadText %s key=%s (%d bytes)", d.Kind, key, len(content))

	switch d.Kind {
	case KindLocal:
		return t.writeLocal(d, key, content)
	case KindS3:
		return t.uploadS3Text(ctx, d, key, content)
	case KindHTTP:
		return "", NewUnsupportedError(d.Raw(), "cannot upload to an http repository")
	default:
		return "", unknownKind(d)
	}
}

func unknownKind(d Descriptor) error {
	return NewUnsupportedError(d.Raw(), fmt.Sprintf("unknown repository kind %d", d.Kind))
}

// writeStream copies r into dest, showing progress when size is known.
func (t *Transport) writeStream(r io.Reader, size int64, dest string) error {
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	defer out.Close()

	data, finish := t.progress(r, size)
	defer finish()

	if _, err := io.Copy(out, data); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	return out.Close()
}
