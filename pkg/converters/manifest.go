// Package converters renders decomposition results into output documents.
package converters

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/slidecraft/deck-decomposer/internal/models"
)

// Manifest is the JSON document describing one finished decomposition batch.
type Manifest struct {
	TaskID      string                      `json:"taskId,omitempty"`
	Files       []models.DecomposedFileInfo `json:"files"`
	GeneratedAt time.Time                   `json:"generatedAt"`
}

// NewManifest builds a manifest for the given results. The file list keeps
// the input order of the batch.
func NewManifest(taskID string, files []models.DecomposedFileInfo) *Manifest {
	if files == nil {
		files = []models.DecomposedFileInfo{}
	}
	return &Manifest{
		TaskID:      taskID,
		Files:       files,
		GeneratedAt: time.Now().UTC(),
	}
}

// ToJSON serializes the manifest.
func (m *Manifest) ToJSON() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return data, nil
}
