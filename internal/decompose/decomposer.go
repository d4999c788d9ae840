// Package decompose extracts plain text from batches of source documents
// with bounded concurrency and persists the results locally or to a remote
// object store.
package decompose

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/slidecraft/deck-decomposer/internal/extract"
	"github.com/slidecraft/deck-decomposer/internal/models"
	"github.com/slidecraft/deck-decomposer/pkg/logger"
)

// remoteKeyPrefix namespaces every uploaded extraction result.
const remoteKeyPrefix = "decomposed"

// DefaultConcurrency caps simultaneous extractions per batch.
const DefaultConcurrency = 2

// Backend is the storage collaborator of the decomposer. Remote availability
// is an explicit property of the backend handed in at construction time, not
// process-global state.
type Backend interface {
	// RemoteEnabled reports whether extracted text is persisted remotely.
	RemoteEnabled() bool
	// ParseRemotePath recognizes a remote document reference and returns its
	// storage-internal path.
	ParseRemotePath(ref string) (string, bool)
	// Download fetches the raw bytes at a storage-internal path.
	Download(ctx context.Context, path string) ([]byte, error)
	// UploadText writes text under the given key and returns the resulting
	// location.
	UploadText(ctx context.Context, path, text string) (string, error)
}

// RecoveryPolicy controls which extraction failures degrade to empty text
// instead of aborting the batch. Storage read and write failures always
// propagate.
type RecoveryPolicy struct {
	PDF     bool
	Docx    bool
	Generic bool
}

// DefaultRecoveryPolicy swallows PDF and unrecognized-format failures and
// propagates DOCX failures.
func DefaultRecoveryPolicy() RecoveryPolicy {
	return RecoveryPolicy{PDF: true, Docx: false, Generic: true}
}

type Config struct {
	// Concurrency is the maximum number of in-flight extractions.
	Concurrency int
	Recovery    RecoveryPolicy
}

type Decomposer struct {
	backend Backend
	logger  logger.Logger
	config  Config
}

func NewDecomposer(backend Backend, log logger.Logger, cfg *Config) *Decomposer {
	if cfg == nil {
		cfg = &Config{
			Concurrency: DefaultConcurrency,
			Recovery:    DefaultRecoveryPolicy(),
		}
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = DefaultConcurrency
	}

	return &Decomposer{
		backend: backend,
		logger:  log,
		config:  *cfg,
	}
}

// Decompose extracts plain text from every referenced document and persists
// it under outputDir (or the equivalent remote key prefix). Results come back
// in input order regardless of completion order.
func (d *Decomposer) Decompose(ctx context.Context, refs []string, outputDir string) ([]models.DecomposedFileInfo, error) {
	return d.DecomposeWithProgress(ctx, refs, outputDir, nil)
}

// DecomposeWithProgress behaves like Decompose but additionally invokes
// onResult for each document as it completes, in completion order. onResult
// may be called from multiple workers concurrently.
func (d *Decomposer) DecomposeWithProgress(ctx context.Context, refs []string, outputDir string, onResult func(index int, info models.DecomposedFileInfo)) ([]models.DecomposedFileInfo, error) {
	return BoundedMap(ctx, refs, d.config.Concurrency, func(ctx context.Context, ref string, index int) (models.DecomposedFileInfo, error) {
		info, err := d.decomposeOne(ctx, ref, outputDir)
		if err != nil {
			return models.DecomposedFileInfo{}, err
		}
		if onResult != nil {
			onResult(index, info)
		}
		return info, nil
	})
}

func (d *Decomposer) decomposeOne(ctx context.Context, ref, outputDir string) (models.DecomposedFileInfo, error) {
	filename := d.resolveFilename(ref)
	ext := strings.ToLower(filepath.Ext(filename))

	// Plain text needs no extraction; the document itself is the result.
	if ext == ".txt" {
		return models.DecomposedFileInfo{Name: filename, Location: ref}, nil
	}

	text, err := d.extractText(ctx, ref, filename, ext)
	if err != nil {
		return models.DecomposedFileInfo{}, err
	}

	location, err := d.persist(ctx, outputDir, filename, extract.NormalizeLineBreaks(text))
	if err != nil {
		return models.DecomposedFileInfo{}, err
	}

	return models.DecomposedFileInfo{Name: filename, Location: location}, nil
}

func (d *Decomposer) extractText(ctx context.Context, ref, filename, ext string) (string, error) {
	switch ext {
	case ".pdf":
		data, err := d.read(ctx, ref)
		if err != nil {
			return "", err
		}
		text, err := extract.PDFText(data)
		if err != nil {
			if !d.config.Recovery.PDF {
				return "", err
			}
			d.logger.Warn("PDF extraction failed, continuing with empty text",
				logger.String("filename", filename),
				logger.Error(err),
			)
			return "", nil
		}
		return text, nil

	case ".docx":
		data, err := d.read(ctx, ref)
		if err != nil {
			return "", err
		}
		text, err := extract.DocxText(data)
		if err != nil {
			if !d.config.Recovery.Docx {
				return "", err
			}
			d.logger.Warn("DOCX extraction failed, continuing with empty text",
				logger.String("filename", filename),
				logger.Error(err),
			)
			return "", nil
		}
		return text, nil

	default:
		data, err := d.read(ctx, ref)
		if err != nil {
			if !d.config.Recovery.Generic {
				return "", err
			}
			d.logger.Warn("Failed to read document as text, continuing with empty text",
				logger.String("filename", filename),
				logger.Error(err),
			)
			return "", nil
		}
		return string(data), nil
	}
}

func (d *Decomposer) read(ctx context.Context, ref string) ([]byte, error) {
	if remotePath, ok := d.backend.ParseRemotePath(ref); ok {
		return d.backend.Download(ctx, remotePath)
	}
	return os.ReadFile(ref)
}

func (d *Decomposer) persist(ctx context.Context, outputDir, filename, text string) (string, error) {
	if d.backend.RemoteEnabled() {
		key := path.Join(remoteKeyPrefix, path.Base(outputDir), filename+".txt")
		return d.backend.UploadText(ctx, key, text)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	outPath := filepath.Join(outputDir, filename+".txt")
	if err := os.WriteFile(outPath, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("failed to write extracted text: %w", err)
	}
	return outPath, nil
}

func (d *Decomposer) resolveFilename(ref string) string {
	if remotePath, ok := d.backend.ParseRemotePath(ref); ok {
		return path.Base(remotePath)
	}
	return filepath.Base(ref)
}
