package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/slidecraft/deck-decomposer/pkg/logger"
	"github.com/slidecraft/deck-decomposer/pkg/storage/minio"
	"github.com/slidecraft/deck-decomposer/pkg/storage/s3"
)

// StorageType selects the object-store implementation.
type StorageType string

const (
	StorageTypeS3    StorageType = "s3"
	StorageTypeMinio StorageType = "minio"
)

// Storage is the object-store interface shared by the S3 and MinIO clients.
type Storage interface {
	// Store writes the reader's contents under key and returns the key.
	Store(ctx context.Context, reader io.Reader, key string) (string, error)
	// Get opens the object at key.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the object at key.
	Delete(ctx context.Context, key string) error
}

// NewStorage is the factory for object-store clients.
func NewStorage(storageType StorageType, logger logger.Logger) (Storage, error) {
	switch storageType {
	case StorageTypeS3:
		return s3.GetClient(logger)
	case StorageTypeMinio:
		return minio.GetClient(logger)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}
