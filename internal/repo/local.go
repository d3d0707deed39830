package repo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

func localPath(d Descriptor, key string) string {
	return filepath.Join(d.Path, filepath.FromSlash(key))
}

func (t *Transport) downloadLocal(d Descriptor, key, dest string) (string, error) {
	src := localPath(d, key)
	in, err := os.Open(src)
	if err != nil {
		return "", classifyLocal(src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return "", NewTransportError(src, "stat", err)
	}
	if !info.Mode().IsRegular() {
		return "", NewNotFoundError(src, fmt.Errorf("not a regular file"))
	}

	if err := t.writeStream(in, info.Size(), dest); err != nil {
		return "", NewTransportError(src, "copy", err)
	}
	return src, nil
}

func (t *Transport) readLocal(d Descriptor, key string) (string, error) {
	src := localPath(d, key)
	data, err := os.ReadFile(src)
	if err != nil {
		return "", classifyLocal(src, err)
	}
	return string(data), nil
}

func (t *Transport) uploadLocal(d Descriptor, key, localSrc string) (string, error) {
	dest := localPath(d, key)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", NewTransportError(dest, "mkdir", err)
	}

	in, err := os.Open(localSrc)
	if err != nil {
		return "", classifyLocal(localSrc, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return "", NewTransportError(localSrc, "stat", err)
	}
	if err := t.writeStream(in, info.Size(), dest); err != nil {
		return "", NewTransportError(dest, "copy", err)
	}
	return dest, nil
}

func (t *Transport) writeLocal(d Descriptor, key, content string) (string, error) {
	dest := localPath(d, key)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", NewTransportError(dest, "mkdir", err)
	}
	if err := os.WriteFile(dest, []byte(content), 0o644); err != nil {
		return "", NewTransportError(dest, "write", err)
	}
	return dest, nil
}

func classifyLocal(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return NewNotFoundError(path, err)
	}
	return NewTransportError(path, "io", err)
}
