package decompose

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/slidecraft/deck-decomposer/config"
	engine "github.com/slidecraft/deck-decomposer/internal/decompose"
	"github.com/slidecraft/deck-decomposer/internal/models"
	"github.com/slidecraft/deck-decomposer/internal/utils/validator"
	"github.com/slidecraft/deck-decomposer/pkg/converters"
	"github.com/slidecraft/deck-decomposer/pkg/logger"
	"github.com/slidecraft/deck-decomposer/pkg/queue"
	"github.com/slidecraft/deck-decomposer/pkg/storage"
)

// ValidationFailedError carries all request problems found by the validator.
type ValidationFailedError struct {
	Errors []validator.ValidationError
}

func (e *ValidationFailedError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, ve := range e.Errors {
		msgs[i] = ve.Error()
	}
	return "invalid decompose request: " + strings.Join(msgs, "; ")
}

type DecomposeService struct {
	decomposer *engine.Decomposer
	queue      queue.Queue
	validator  *validator.RequestValidator
	logger     logger.Logger
}

func NewService(decomposer *engine.Decomposer, q queue.Queue, v *validator.RequestValidator, log logger.Logger) Service {
	if v == nil {
		v = validator.NewRequestValidator(validator.DefaultMaxBatchSize)
	}
	return &DecomposeService{
		decomposer: decomposer,
		queue:      q,
		validator:  v,
		logger:     log,
	}
}

// GetService wires the service from application configuration.
func GetService(log logger.Logger) (Service, error) {
	appCfg := config.GetAppConfig()

	store, err := storage.NewStorage(storage.StorageType(appCfg.StorageType), log)
	if err != nil {
		if appCfg.RemoteEnabled {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		// Local-only mode works without an object store; remote document
		// references will be rejected at download time.
		log.Warn("Object store unavailable, continuing in local-only mode", logger.Error(err))
		store = nil
	}

	backend := storage.NewBackend(store, appCfg.RemoteScheme, appCfg.RemoteEnabled)

	decomposer := engine.NewDecomposer(backend, log, &engine.Config{
		Concurrency: appCfg.Concurrency,
		Recovery:    engine.DefaultRecoveryPolicy(),
	})

	q, err := queue.NewAsynqQueue(&queue.QueueConfig{
		RedisAddr:      appCfg.RedisAddr,
		RedisDB:        appCfg.RedisDB,
		MaxRetries:     3,
		RetryDelay:     time.Minute,
		ProcessTimeout: 30 * time.Minute,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize queue: %w", err)
	}

	return NewService(decomposer, q, nil, log), nil
}

func (s *DecomposeService) Decompose(ctx context.Context, documents []string, outputDir string) ([]models.DecomposedFileInfo, error) {
	return s.DecomposeWithProgress(ctx, documents, outputDir, nil)
}

func (s *DecomposeService) DecomposeWithProgress(ctx context.Context, documents []string, outputDir string, onResult func(index int, info models.DecomposedFileInfo)) ([]models.DecomposedFileInfo, error) {
	if errs := s.validator.ValidateDecomposeRequest(documents, outputDir); len(errs) > 0 {
		return nil, &ValidationFailedError{Errors: errs}
	}

	s.logger.Info("Decomposing documents",
		logger.Int("count", len(documents)),
		logger.String("outputDir", outputDir),
	)

	return s.decomposer.DecomposeWithProgress(ctx, documents, outputDir, onResult)
}

func (s *DecomposeService) Submit(ctx context.Context, documents []string, outputDir string) (*models.ProcessingTask, error) {
	if errs := s.validator.ValidateDecomposeRequest(documents, outputDir); len(errs) > 0 {
		return nil, &ValidationFailedError{Errors: errs}
	}

	taskID := uuid.New().String()
	now := time.Now()

	task := &models.ProcessingTask{
		ID:        taskID,
		Status:    models.StatusPending,
		Type:      queue.TaskTypeDecompose,
		Progress:  0,
		CreatedAt: now,
		UpdatedAt: now,
		Metadata: map[string]string{
			"documents": fmt.Sprintf("%d", len(documents)),
			"outputDir": outputDir,
		},
	}

	docs := make([]interface{}, len(documents))
	for i, d := range documents {
		docs[i] = d
	}

	queueTask := &queue.Task{
		ID:   taskID,
		Type: queue.TaskTypeDecompose,
		Payload: map[string]interface{}{
			"documents": docs,
			"outputDir": outputDir,
		},
		Metadata:  task.Metadata,
		CreatedAt: now,
	}

	if err := s.queue.Enqueue(ctx, queueTask); err != nil {
		s.logger.Error("Failed to enqueue decompose task",
			logger.String("taskId", taskID),
			logger.Error(err),
		)
		return nil, fmt.Errorf("failed to enqueue task: %w", err)
	}

	initialStatus := &queue.TaskStatus{
		TaskID:    taskID,
		Status:    string(models.StatusPending),
		Progress:  0,
		StartedAt: now,
	}
	if err := s.queue.SaveFinalStatus(ctx, initialStatus); err != nil {
		s.logger.Error("Failed to save initial status",
			logger.String("taskId", taskID),
			logger.Error(err),
		)
	}

	return task, nil
}

func (s *DecomposeService) GetStatus(ctx context.Context, taskID string) (*models.ProcessingTask, error) {
	status, err := s.queue.GetTaskStatus(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task status: %w", err)
	}

	return &models.ProcessingTask{
		ID:        status.TaskID,
		Status:    models.ProcessingStatus(status.Status),
		Type:      queue.TaskTypeDecompose,
		Progress:  status.Progress,
		Error:     status.Error,
		CreatedAt: status.StartedAt,
		UpdatedAt: status.FinishedAt,
		Metadata: map[string]string{
			"result": status.Result,
		},
	}, nil
}

func (s *DecomposeService) Cancel(ctx context.Context, taskID string) error {
	if err := s.queue.CancelTask(ctx, taskID); err != nil {
		return err
	}

	return s.queue.SaveFinalStatus(ctx, &queue.TaskStatus{
		TaskID:     taskID,
		Status:     string(models.StatusCancelled),
		FinishedAt: time.Now(),
	})
}

// HandleTask runs a queued decomposition batch and records the manifest as
// the task result.
func (s *DecomposeService) HandleTask(ctx context.Context, task *queue.Task) error {
	if task == nil || task.Payload == nil {
		return fmt.Errorf("invalid task: missing payload")
	}

	documents, outputDir, err := parseTaskPayload(task.Payload)
	if err != nil {
		return err
	}

	s.logger.Info("Processing decompose task",
		logger.String("taskId", task.ID),
		logger.Int("documents", len(documents)),
	)

	files, err := s.decomposer.Decompose(ctx, documents, outputDir)
	if err != nil {
		if saveErr := s.queue.SaveFinalStatus(ctx, &queue.TaskStatus{
			TaskID:     task.ID,
			Status:     string(models.StatusFailed),
			Error:      err.Error(),
			FinishedAt: time.Now(),
		}); saveErr != nil {
			s.logger.Error("Failed to save failure status", logger.Error(saveErr))
		}
		return err
	}

	manifest, err := converters.NewManifest(task.ID, files).ToJSON()
	if err != nil {
		return err
	}

	return s.queue.SaveFinalStatus(ctx, &queue.TaskStatus{
		TaskID:     task.ID,
		Status:     string(models.StatusCompleted),
		Progress:   1.0,
		Result:     string(manifest),
		FinishedAt: time.Now(),
	})
}

func parseTaskPayload(payload map[string]interface{}) ([]string, string, error) {
	rawDocs, ok := payload["documents"].([]interface{})
	if !ok {
		return nil, "", fmt.Errorf("invalid task payload: documents missing")
	}

	documents := make([]string, len(rawDocs))
	for i, raw := range rawDocs {
		doc, ok := raw.(string)
		if !ok {
			return nil, "", fmt.Errorf("invalid task payload: document %d is not a string", i)
		}
		documents[i] = doc
	}

	outputDir, ok := payload["outputDir"].(string)
	if !ok || outputDir == "" {
		return nil, "", fmt.Errorf("invalid task payload: outputDir missing")
	}

	return documents, outputDir, nil
}
