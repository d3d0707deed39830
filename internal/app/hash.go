package app

import (
	"fmt"
	"strings"

	"github.com/tacogips/binst/internal/archive"
)

// VerifyDigest checks the file at path against a recorded "blake3:<hex>"
// digest and returns the computed one. An empty want skips the comparison.
func VerifyDigest(path, want string) (string, error) {
	got, err := archive.Digest(path)
	if err != nil {
		return "", err
	}
	if want == "" {
		return got, nil
	}
	if !strings.HasPrefix(want, archive.DigestPrefix) {
		return got, fmt.Errorf("unsupported digest %q", want)
	}
	if !strings.EqualFold(got, want) {
		return got, fmt.Errorf("digest mismatch for %s: got %s, want %s", path, got, want)
	}
	return got, nil
}
