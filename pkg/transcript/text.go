// Package transcript reads plaque text that was already transcribed, so the
// pipeline can run without OCR.
package transcript

import (
	"context"
	"os"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/nodewee/plaque-translator/pkg/interfaces"
	"github.com/nodewee/plaque-translator/pkg/types"
	"github.com/nodewee/plaque-translator/pkg/utils"
)

// TextFileExtractor handles plain text transcripts
type TextFileExtractor struct {
	name string
}

// NewTextFileExtractor creates a new text file extractor
func NewTextFileExtractor() *TextFileExtractor {
	return &TextFileExtractor{
		name: "text-file",
	}
}

// Extract reads the transcript. Line endings are normalized to "\n".
func (e *TextFileExtractor) Extract(ctx context.Context, inputFile string) (*interfaces.ExtractionResult, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	start := time.Now()
	content, err := os.ReadFile(inputFile)
	if err != nil {
		return nil, utils.NewIOError("error reading text file", err)
	}

	return newResult(inputFile, e.name, normalizeNewlines(string(content)), start), nil
}

// SupportsFile checks if this extractor supports the given file type
func (e *TextFileExtractor) SupportsFile(fileInfo *types.FileInfo) bool {
	return utils.IsTextFile(fileInfo.Extension, fileInfo.MimeType)
}

// Name returns the name of the extractor
func (e *TextFileExtractor) Name() string {
	return e.name
}

func normalizeNewlines(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func newResult(source, extractor, text string, start time.Time) *interfaces.ExtractionResult {
	return &interfaces.ExtractionResult{
		Text:          norm.NFC.String(text),
		Source:        source,
		ExtractorUsed: extractor,
		ProcessTime:   time.Since(start).Milliseconds(),
		Metadata:      map[string]interface{}{"transcript": true},
	}
}
