package decompose

import (
	"context"

	"github.com/slidecraft/deck-decomposer/internal/models"
	"github.com/slidecraft/deck-decomposer/pkg/queue"
)

// Service exposes document decomposition synchronously, with per-file
// progress, and through the async task queue.
type Service interface {
	// Decompose runs a batch synchronously and returns the ordered manifest.
	Decompose(ctx context.Context, documents []string, outputDir string) ([]models.DecomposedFileInfo, error)
	// DecomposeWithProgress additionally reports each completed file; the
	// callback may run concurrently.
	DecomposeWithProgress(ctx context.Context, documents []string, outputDir string, onResult func(index int, info models.DecomposedFileInfo)) ([]models.DecomposedFileInfo, error)
	// Submit enqueues a batch for the worker and returns the pending task.
	Submit(ctx context.Context, documents []string, outputDir string) (*models.ProcessingTask, error)
	// GetStatus reports the state of a queued task.
	GetStatus(ctx context.Context, taskID string) (*models.ProcessingTask, error)
	// Cancel removes a pending task from the queue.
	Cancel(ctx context.Context, taskID string) error
	// HandleTask executes a queued decomposition; called by the worker.
	HandleTask(ctx context.Context, task *queue.Task) error
}
