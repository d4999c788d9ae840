package converters

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slidecraft/deck-decomposer/internal/models"
)

func TestManifestToJSON(t *testing.T) {
	files := []models.DecomposedFileInfo{
		{Name: "a.pdf", Location: "out/a.pdf.txt"},
		{Name: "b.docx", Location: "out/b.docx.txt"},
	}

	data, err := NewManifest("task-1", files).ToJSON()
	require.NoError(t, err)

	var decoded Manifest
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "task-1", decoded.TaskID)
	assert.Equal(t, files, decoded.Files)
	assert.False(t, decoded.GeneratedAt.IsZero())
}

func TestManifestEmptyFilesSerializesAsArray(t *testing.T) {
	data, err := NewManifest("", nil).ToJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"files":[]`)
}
