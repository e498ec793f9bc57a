package interfaces

import (
	"context"
	"io"

	"github.com/nodewee/plaque-translator/pkg/types"
)

// === Core interfaces ===

// Extractor turns an input file into raw plaque text
type Extractor interface {
	// Extract reads the file and returns its text with optional confidence
	Extract(ctx context.Context, inputFile string) (*ExtractionResult, error)
	// SupportsFile checks whether the extractor handles this file type
	SupportsFile(fileInfo *types.FileInfo) bool
	// Name returns the extractor name
	Name() string
}

// ExtractorFactory builds the extractor chain for a file
type ExtractorFactory interface {
	// CreateExtractorWithFallbacks returns candidate extractors in preference order
	CreateExtractorWithFallbacks(fileInfo *types.FileInfo) ([]Extractor, error)
	// RegisterExtractor adds an extractor under a name
	RegisterExtractor(name string, extractor Extractor)
}

// Translator translates one chunk of text between two language codes
type Translator interface {
	Name() string
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// Renderer writes translated plaque fields in one output format
type Renderer interface {
	Format() types.OutputFormat
	Render(w io.Writer, fields types.TranslatedPlaqueFields) error
}

// TempFileManager hands out scratch files and removes them afterwards
type TempFileManager interface {
	GetBasePath() string
	CreateTempFile(prefix, suffix string) (string, error)
	RegisterCleanupFunc(fn func() error)
	WithCleanup(fn func() error) error
	Cleanup() error
}

// === Data structures ===

// ExtractionResult is the text recovered from one input file
type ExtractionResult struct {
	Text string `json:"text"`
	// Confidence is the mean word confidence in [0,100]; nil when not requested
	Confidence          *float64               `json:"confidence,omitempty"`
	Metadata            map[string]interface{} `json:"metadata,omitempty"`
	Source              string                 `json:"source"`
	ExtractorUsed       string                 `json:"extractor_used"`
	ProcessTime         int64                  `json:"process_time_ms"`
	FromCache           bool                   `json:"from_cache,omitempty"`
	FallbackUsed        bool                   `json:"fallback_used,omitempty"`
	AttemptedExtractors []string               `json:"attempted_extractors,omitempty"`
}

// PipelineResult summarizes one full image-to-output run
type PipelineResult struct {
	RunID       string                       `json:"run_id"`
	Source      string                       `json:"source"`
	Extraction  *ExtractionResult            `json:"extraction"`
	Fields      types.PlaqueFields           `json:"fields"`
	Translated  types.TranslatedPlaqueFields `json:"translated"`
	Outputs     []string                     `json:"outputs,omitempty"`
	ProcessTime int64                        `json:"process_time_ms"`
}
