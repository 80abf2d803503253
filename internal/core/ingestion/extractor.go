package ingestion

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"code.sajari.com/docconv"

	"github.com/finsolve-tech/finsight/internal/core"
)

// DocconvExtractor implements core.DocumentExtractor. Plain-text and markdown
// files are read as-is; everything else (pdf, docx, html, ...) goes through
// docconv.
type DocconvExtractor struct {
	useReadability bool
}

func NewDocconvExtractor(useReadability bool) *DocconvExtractor {
	return &DocconvExtractor{useReadability: useReadability}
}

var _ core.DocumentExtractor = (*DocconvExtractor)(nil)

func (e *DocconvExtractor) ExtractText(ctx context.Context, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if isPlainText(contentType) {
		return string(data), nil
	}

	res, err := docconv.Convert(bytes.NewReader(data), contentType, e.useReadability)
	if err != nil {
		return "", fmt.Errorf("docconv extract (%s): %w", contentType, err)
	}
	return res.Body, nil
}

func isPlainText(contentType string) bool {
	switch {
	case strings.HasPrefix(contentType, "text/"):
		return true
	case contentType == "", contentType == "application/octet-stream":
		// No hint: assume the corpus default of markdown text.
		return true
	}
	return false
}

// ContentTypeForPath guesses a content type from the file extension.
func ContentTypeForPath(path string) string {
	switch {
	case strings.HasSuffix(path, ".md"), strings.HasSuffix(path, ".txt"), strings.HasSuffix(path, ".csv"):
		return "text/plain"
	case strings.HasSuffix(path, ".pdf"):
		return "application/pdf"
	case strings.HasSuffix(path, ".docx"):
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case strings.HasSuffix(path, ".html"):
		return "text/html"
	}
	return "application/octet-stream"
}
