package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	objects map[string][]byte
}

func (s *memStore) Store(ctx context.Context, reader io.Reader, key string) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	s.objects[key] = data
	return key, nil
}

func (s *memStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	data, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("object not found: %s", key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memStore) Delete(ctx context.Context, key string) error {
	delete(s.objects, key)
	return nil
}

func TestBackendParseRemotePath(t *testing.T) {
	b := NewBackend(nil, "s3", false)

	tests := []struct {
		ref      string
		wantPath string
		wantOK   bool
	}{
		{"s3://uploads/doc.pdf", "uploads/doc.pdf", true},
		{"s3://doc.pdf", "doc.pdf", true},
		{"/tmp/uploads/doc.pdf", "", false},
		{"doc.pdf", "", false},
		{"s3://", "", false},
		{"minio://uploads/doc.pdf", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			path, ok := b.ParseRemotePath(tt.ref)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantPath, path)
		})
	}
}

func TestBackendRoundTrip(t *testing.T) {
	store := &memStore{objects: make(map[string][]byte)}
	b := NewBackend(store, "s3", true)

	assert.True(t, b.RemoteEnabled())

	loc, err := b.UploadText(context.Background(), "decomposed/deck/doc.txt", "extracted")
	require.NoError(t, err)
	assert.Equal(t, "decomposed/deck/doc.txt", loc)

	data, err := b.Download(context.Background(), "decomposed/deck/doc.txt")
	require.NoError(t, err)
	assert.Equal(t, "extracted", string(data))
}

func TestBackendWithoutStoreRejectsRemoteOps(t *testing.T) {
	b := NewBackend(nil, "s3", false)

	_, err := b.Download(context.Background(), "uploads/doc.pdf")
	require.Error(t, err)

	_, err = b.UploadText(context.Background(), "k", "v")
	require.Error(t, err)
}
