package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slidecraft/deck-decomposer/api/handlers"
	"github.com/slidecraft/deck-decomposer/api/routes"
	"github.com/slidecraft/deck-decomposer/internal/models"
	svc "github.com/slidecraft/deck-decomposer/internal/service/decompose"
	"github.com/slidecraft/deck-decomposer/internal/utils/validator"
	"github.com/slidecraft/deck-decomposer/pkg/logger"
	"github.com/slidecraft/deck-decomposer/pkg/queue"
)

type fakeService struct {
	files []models.DecomposedFileInfo
	err   error
	task  *models.ProcessingTask
}

func (s *fakeService) Decompose(ctx context.Context, documents []string, outputDir string) ([]models.DecomposedFileInfo, error) {
	return s.DecomposeWithProgress(ctx, documents, outputDir, nil)
}

func (s *fakeService) DecomposeWithProgress(ctx context.Context, documents []string, outputDir string, onResult func(int, models.DecomposedFileInfo)) ([]models.DecomposedFileInfo, error) {
	if s.err != nil {
		return nil, s.err
	}
	if onResult != nil {
		for i, f := range s.files {
			onResult(i, f)
		}
	}
	return s.files, nil
}

func (s *fakeService) Submit(ctx context.Context, documents []string, outputDir string) (*models.ProcessingTask, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.task, nil
}

func (s *fakeService) GetStatus(ctx context.Context, taskID string) (*models.ProcessingTask, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.task, nil
}

func (s *fakeService) Cancel(ctx context.Context, taskID string) error { return s.err }

func (s *fakeService) HandleTask(ctx context.Context, task *queue.Task) error { return s.err }

func setupRouter(service svc.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	routes.SetupRoutes(r, handlers.NewHandlers(service, logger.NewTestLogger()))
	return r
}

// closeNotifyRecorder adds http.CloseNotifier, which gin's Context.Stream
// requires and httptest.ResponseRecorder does not implement.
type closeNotifyRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func (c *closeNotifyRecorder) CloseNotify() <-chan bool { return c.closed }

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := &closeNotifyRecorder{ResponseRecorder: httptest.NewRecorder(), closed: make(chan bool, 1)}
	r.ServeHTTP(w, req)
	return w.ResponseRecorder
}

func TestDecomposeEndpoint(t *testing.T) {
	files := []models.DecomposedFileInfo{
		{Name: "a.pdf", Location: "out/a.pdf.txt"},
	}
	r := setupRouter(&fakeService{files: files})

	w := postJSON(t, r, "/api/v1/decompose", handlers.DecomposeRequest{
		Documents: []string{"/tmp/a.pdf"},
		OutputDir: "/tmp/out",
	})

	require.Equal(t, http.StatusOK, w.Code)
	var resp handlers.DecomposeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, files, resp.Files)
}

func TestDecomposeEndpointValidationError(t *testing.T) {
	r := setupRouter(&fakeService{
		err: &svc.ValidationFailedError{
			Errors: []validator.ValidationError{{Code: "MISSING_OUTPUT_DIR", Message: "output directory is required"}},
		},
	})

	w := postJSON(t, r, "/api/v1/decompose", handlers.DecomposeRequest{Documents: []string{"a.pdf"}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "MISSING_OUTPUT_DIR")
}

func TestDecomposeEndpointRejectsMalformedBody(t *testing.T) {
	r := setupRouter(&fakeService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/decompose", bytes.NewReader([]byte("not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDecomposeStreamEndpoint(t *testing.T) {
	files := []models.DecomposedFileInfo{
		{Name: "a.pdf", Location: "out/a.pdf.txt"},
		{Name: "b.docx", Location: "out/b.docx.txt"},
	}
	r := setupRouter(&fakeService{files: files})

	w := postJSON(t, r, "/api/v1/decompose/stream", handlers.DecomposeRequest{
		Documents: []string{"/tmp/a.pdf", "/tmp/b.docx"},
		OutputDir: "/tmp/out",
	})

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "event:file")
	assert.Contains(t, body, "event:done")
	assert.Contains(t, body, "a.pdf.txt")
}

func TestDecomposeAsyncEndpoint(t *testing.T) {
	task := &models.ProcessingTask{
		ID:        "task-1",
		Status:    models.StatusPending,
		Type:      queue.TaskTypeDecompose,
		CreatedAt: time.Now(),
	}
	r := setupRouter(&fakeService{task: task})

	w := postJSON(t, r, "/api/v1/decompose/async", handlers.DecomposeRequest{
		Documents: []string{"/tmp/a.pdf"},
		OutputDir: "/tmp/out",
	})

	require.Equal(t, http.StatusAccepted, w.Code)
	var resp handlers.TaskResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "task-1", resp.TaskID)
	assert.Equal(t, "pending", resp.Status)
}

func TestGetStatusEndpoint(t *testing.T) {
	task := &models.ProcessingTask{
		ID:        "task-1",
		Status:    models.StatusCompleted,
		Progress:  1.0,
		CreatedAt: time.Now(),
		Metadata:  map[string]string{"result": `{"files":[]}`},
	}
	r := setupRouter(&fakeService{task: task})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/decompose/status/task-1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp handlers.TaskResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, `{"files":[]}`, resp.Result)
}
