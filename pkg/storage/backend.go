package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Backend adapts a Storage client to the decomposer's collaborator contract.
// Whether remote persistence is active is decided once, at construction time,
// from configuration.
type Backend struct {
	store   Storage
	scheme  string
	enabled bool
}

// NewBackend wraps store. Document references of the form "<scheme>://<path>"
// are treated as remote. store may be nil when enabled is false, as long as
// no remote references are submitted.
func NewBackend(store Storage, scheme string, enabled bool) *Backend {
	return &Backend{
		store:   store,
		scheme:  scheme,
		enabled: enabled,
	}
}

// RemoteEnabled reports whether extracted text is uploaded instead of written
// to the local filesystem.
func (b *Backend) RemoteEnabled() bool {
	return b.enabled
}

// ParseRemotePath returns the storage-internal path of a remote reference,
// or false if ref is a local path.
func (b *Backend) ParseRemotePath(ref string) (string, bool) {
	prefix := b.scheme + "://"
	if !strings.HasPrefix(ref, prefix) {
		return "", false
	}
	path := strings.TrimPrefix(ref, prefix)
	if path == "" {
		return "", false
	}
	return path, true
}

// Download fetches the raw bytes of the object at path.
func (b *Backend) Download(ctx context.Context, path string) ([]byte, error) {
	if b.store == nil {
		return nil, fmt.Errorf("remote storage is not configured")
	}

	reader, err := b.store.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", path, err)
	}
	return data, nil
}

// UploadText writes text under path and returns the resulting location.
func (b *Backend) UploadText(ctx context.Context, path, text string) (string, error) {
	if b.store == nil {
		return "", fmt.Errorf("remote storage is not configured")
	}
	return b.store.Store(ctx, strings.NewReader(text), path)
}
