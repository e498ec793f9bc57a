package core

import (
	"sort"

	"github.com/nodewee/plaque-translator/pkg/config"
	"github.com/nodewee/plaque-translator/pkg/interfaces"
	"github.com/nodewee/plaque-translator/pkg/logger"
	"github.com/nodewee/plaque-translator/pkg/ocr"
	"github.com/nodewee/plaque-translator/pkg/transcript"
	"github.com/nodewee/plaque-translator/pkg/types"
	"github.com/nodewee/plaque-translator/pkg/utils"
)

// Extractor registry names
const (
	ExtractorOCR  = "ocr"
	ExtractorText = "text"
	ExtractorHTML = "html"
)

// DefaultExtractorFactory implements ExtractorFactory
type DefaultExtractorFactory struct {
	extractors map[string]interfaces.Extractor
	config     *config.Config
	logger     *logger.Logger
}

// NewExtractorFactory creates a factory with the OCR and transcript extractors registered
func NewExtractorFactory(cfg *config.Config, log *logger.Logger) *DefaultExtractorFactory {
	factory := &DefaultExtractorFactory{
		extractors: make(map[string]interfaces.Extractor),
		config:     cfg,
		logger:     log,
	}

	factory.RegisterExtractor(ExtractorOCR, ocr.NewOCRExtractor(cfg, log))
	factory.RegisterExtractor(ExtractorText, transcript.NewTextFileExtractor())
	factory.RegisterExtractor(ExtractorHTML, transcript.NewHTMLExtractor())

	log.Debug("Registered %d extractors: %v", len(factory.extractors), factory.ListExtractors())
	return factory
}

// CreateExtractorWithFallbacks picks extractors for the file. Images go to
// OCR, transcripts skip it. Unknown types get OCR as a last try since
// decoding decides whether they are images.
func (f *DefaultExtractorFactory) CreateExtractorWithFallbacks(fileInfo *types.FileInfo) ([]interfaces.Extractor, error) {
	var names []string

	switch {
	case utils.IsImageFile(fileInfo.Extension) || fileInfo.MediaType == types.ImageMediaType:
		names = []string{ExtractorOCR}
	case utils.IsHTMLFile(fileInfo.Extension, fileInfo.MimeType):
		names = []string{ExtractorHTML, ExtractorText}
	case utils.IsTextFile(fileInfo.Extension, fileInfo.MimeType):
		names = []string{ExtractorText}
	default:
		f.logger.Debug("Unknown file type %q (MIME %s), trying OCR then plain text", fileInfo.Extension, fileInfo.MimeType)
		names = []string{ExtractorOCR, ExtractorText}
	}

	var extractors []interfaces.Extractor
	for _, name := range names {
		if extractor, ok := f.extractors[name]; ok {
			extractors = append(extractors, extractor)
		}
	}

	if len(extractors) == 0 {
		return nil, utils.NewUnsupportedError("no suitable extractor found for file type: "+fileInfo.Extension, nil)
	}

	f.logger.Debug("Extraction chain for %q: %v", fileInfo.Extension, names)
	return extractors, nil
}

// RegisterExtractor registers or replaces an extractor
func (f *DefaultExtractorFactory) RegisterExtractor(name string, extractor interfaces.Extractor) {
	f.extractors[name] = extractor
	f.logger.Debug("Registered extractor: %s", name)
}

// ListExtractors returns all registered extractor names, sorted
func (f *DefaultExtractorFactory) ListExtractors() []string {
	names := make([]string, 0, len(f.extractors))
	for name := range f.extractors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
