package repo

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// maxTextSize bounds metadata documents read over http and s3.
const maxTextSize = 1 << 20

func (t *Transport) httpGet(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NewTransportError(url, "request", err)
	}

	client := t.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, NewTransportError(url, "network", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, NewNotFoundError(url, nil)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		resp.Body.Close()
		return nil, NewTransportError(url, fmt.Sprintf("http %d", resp.StatusCode), nil)
	}
	return resp, nil
}

func (t *Transport) downloadHTTP(ctx context.Context, d Descriptor, key, dest string) (string, error) {
	url := ResolveURL(d, key)
	resp, err := t.httpGet(ctx, url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := t.writeStream(resp.Body, resp.ContentLength, dest); err != nil {
		return "", NewTransportError(url, "copy", err)
	}
	return url, nil
}

func (t *Transport) readHTTP(ctx context.Context, d Descriptor, key string) (string, error) {
	url := ResolveURL(d, key)
	resp, err := t.httpGet(ctx, url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	return readLimited(url, resp.Body, maxTextSize)
}

// readLimited reads a metadata document of at most limit bytes. Larger
// bodies are rejected rather than truncated.
func readLimited(url string, r io.Reader, limit int64) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", NewTransportError(url, "read", err)
	}
	if int64(len(data)) > limit {
		return "", NewTransportError(url, "too large",
			fmt.Errorf("metadata document exceeds %d bytes", limit))
	}
	return string(data), nil
}
