package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"

	"github.com/slidecraft/deck-decomposer/internal/models"
	svc "github.com/slidecraft/deck-decomposer/internal/service/decompose"
	"github.com/slidecraft/deck-decomposer/pkg/logger"
)

type DecomposeHandler struct {
	service svc.Service
	logger  logger.Logger
}

// DecomposeRequest is the request body of the decompose endpoints.
type DecomposeRequest struct {
	Documents []string `json:"documents"`
	OutputDir string   `json:"output_dir"`
}

// DecomposeResponse lists extracted files in input order.
type DecomposeResponse struct {
	Files []models.DecomposedFileInfo `json:"files"`
}

type TaskResponse struct {
	TaskID    string  `json:"taskId"`
	Status    string  `json:"status"`
	Progress  float64 `json:"progress"`
	Error     string  `json:"error,omitempty"`
	Result    string  `json:"result,omitempty"`
	CreatedAt string  `json:"createdAt"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func NewDecomposeHandler(service svc.Service, logger logger.Logger) *DecomposeHandler {
	return &DecomposeHandler{
		service: service,
		logger:  logger,
	}
}

// Decompose runs a batch synchronously and returns the ordered manifest.
func (h *DecomposeHandler) Decompose(c *gin.Context) {
	var req DecomposeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	files, err := h.service.Decompose(c.Request.Context(), req.Documents, req.OutputDir)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, DecomposeResponse{Files: files})
}

type fileEvent struct {
	Index int                       `json:"index"`
	File  models.DecomposedFileInfo `json:"file"`
}

// DecomposeStream runs a batch and emits one "file" SSE event per completed
// document (completion order), then a terminal "done" event with the ordered
// manifest, or an "error" event on failure.
func (h *DecomposeHandler) DecomposeStream(c *gin.Context) {
	var req DecomposeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	events := make(chan sse.Event, len(req.Documents)+1)
	go func() {
		defer close(events)

		files, err := h.service.DecomposeWithProgress(c.Request.Context(), req.Documents, req.OutputDir,
			func(index int, info models.DecomposedFileInfo) {
				events <- sse.Event{Event: "file", Data: fileEvent{Index: index, File: info}}
			})
		if err != nil {
			events <- sse.Event{Event: "error", Data: gin.H{"error": err.Error()}}
			return
		}
		events <- sse.Event{Event: "done", Data: DecomposeResponse{Files: files}}
	}()

	c.Stream(func(w io.Writer) bool {
		event, ok := <-events
		if !ok {
			return false
		}
		c.Render(http.StatusOK, event)
		return true
	})
}

// DecomposeAsync enqueues a batch for the worker.
func (h *DecomposeHandler) DecomposeAsync(c *gin.Context) {
	var req DecomposeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	task, err := h.service.Submit(c.Request.Context(), req.Documents, req.OutputDir)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, TaskResponse{
		TaskID:    task.ID,
		Status:    string(task.Status),
		CreatedAt: task.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// GetStatus reports the state of a queued task.
func (h *DecomposeHandler) GetStatus(c *gin.Context) {
	taskID := c.Param("taskId")
	if taskID == "" {
		h.handleError(c, http.StatusBadRequest, "Task ID is required", nil)
		return
	}

	task, err := h.service.GetStatus(c.Request.Context(), taskID)
	if err != nil {
		h.handleError(c, http.StatusNotFound, "Failed to get status", err)
		return
	}

	c.JSON(http.StatusOK, TaskResponse{
		TaskID:    task.ID,
		Status:    string(task.Status),
		Progress:  task.Progress,
		Error:     task.Error,
		Result:    task.Metadata["result"],
		CreatedAt: task.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// CancelTask removes a pending task.
func (h *DecomposeHandler) CancelTask(c *gin.Context) {
	taskID := c.Param("taskId")
	if taskID == "" {
		h.handleError(c, http.StatusBadRequest, "Task ID is required", nil)
		return
	}

	if err := h.service.Cancel(c.Request.Context(), taskID); err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to cancel task", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"taskId": taskID, "status": "cancelled"})
}

func (h *DecomposeHandler) handleServiceError(c *gin.Context, err error) {
	var vErr *svc.ValidationFailedError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Invalid request",
			"errors": vErr.Errors,
		})
		return
	}
	h.handleError(c, http.StatusInternalServerError, "Failed to decompose documents", err)
}

func (h *DecomposeHandler) handleError(c *gin.Context, status int, message string, err error) {
	if err != nil {
		h.logger.Error(message, logger.Error(err))
		c.JSON(status, ErrorResponse{Error: message, Message: err.Error()})
		return
	}
	h.logger.Error(message)
	c.JSON(status, ErrorResponse{Error: message, Message: message})
}
