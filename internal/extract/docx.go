package extract

import (
	"bytes"
	"fmt"

	"code.sajari.com/docconv"
)

// DocxText extracts the plain text of a DOCX document. An empty document
// yields an empty string, not an error.
func DocxText(data []byte) (string, error) {
	text, _, err := docconv.ConvertDocx(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to extract docx text: %w", err)
	}
	return text, nil
}
