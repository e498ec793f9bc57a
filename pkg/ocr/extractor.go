package ocr

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/nodewee/plaque-translator/pkg/config"
	"github.com/nodewee/plaque-translator/pkg/constants"
	"github.com/nodewee/plaque-translator/pkg/interfaces"
	"github.com/nodewee/plaque-translator/pkg/language"
	"github.com/nodewee/plaque-translator/pkg/logger"
	"github.com/nodewee/plaque-translator/pkg/preprocess"
	"github.com/nodewee/plaque-translator/pkg/types"
	"github.com/nodewee/plaque-translator/pkg/utils"
)

// OCRExtractor reads plaque photographs: preprocess, recognize, normalize
type OCRExtractor struct {
	name     string
	config   *config.Config
	logger   *logger.Logger
	selector interfaces.OCRSelector
	tool     interfaces.OCREngine
}

// Ensure OCRExtractor implements Extractor interface
var _ interfaces.Extractor = (*OCRExtractor)(nil)

// NewOCRExtractor creates a new OCR extractor
func NewOCRExtractor(cfg *config.Config, log *logger.Logger) *OCRExtractor {
	return &OCRExtractor{
		name:     "ocr",
		config:   cfg,
		logger:   log,
		selector: NewOCRSelector(cfg, log),
	}
}

// Extract extracts text using OCR
func (e *OCRExtractor) Extract(ctx context.Context, inputFile string) (*interfaces.ExtractionResult, error) {
	start := time.Now()

	fileInfo, err := utils.GetFileInfo(inputFile)
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrorTypeIO, "failed to get file info")
	}
	if fileInfo.Size > constants.MaxImageSize {
		return nil, utils.NewValidationError(fmt.Sprintf("image is too large (%d bytes)", fileInfo.Size), nil)
	}
	if fileInfo.Size > constants.WarnFileSizeLimit {
		e.logger.Warn("Large image (%d bytes), OCR may be slow", fileInfo.Size)
	}

	opts, err := e.options()
	if err != nil {
		return nil, err
	}

	cachePath := e.cachePath(fileInfo, opts)
	if cached, ok := e.checkCache(cachePath); ok {
		cached.FromCache = true
		return cached, nil
	}

	if err := e.initialize(); err != nil {
		return nil, err
	}

	e.logger.Progress("🔍", "Starting OCR processing: %s", filepath.Base(inputFile))

	pre := preprocess.DefaultOptions()
	if e.config.Debug {
		pre.DebugDir = e.config.GetDebugDir(inputFile)
	}
	binary, err := preprocess.NewPreprocessor(pre, e.logger).ProcessFile(inputFile)
	if err != nil {
		return nil, err
	}

	ocrResult, err := e.tool.Recognize(ctx, binary, opts)
	if err != nil {
		return nil, utils.WrapError(err, "", "image OCR failed")
	}

	text := norm.NFC.String(ocrResult.Text)
	if strings.TrimSpace(text) == "" {
		e.logger.Warn("%s in %s", constants.ErrNoTextFound, filepath.Base(inputFile))
	}

	result := &interfaces.ExtractionResult{
		Text:          text,
		Confidence:    ocrResult.Confidence,
		Source:        inputFile,
		ExtractorUsed: e.tool.Name(),
		ProcessTime:   time.Since(start).Milliseconds(),
		Metadata: map[string]interface{}{
			"tool":          e.tool.GetDescription(),
			"languages":     opts.Languages,
			"page_seg_mode": opts.PageSegMode,
			"md5":           fileInfo.MD5Hash,
		},
	}

	e.saveCache(cachePath, result)
	return result, nil
}

// initialize selects the OCR tool once
func (e *OCRExtractor) initialize() error {
	if e.tool != nil {
		return nil
	}
	tool, err := e.selector.SelectOCRStrategy(e.config.OCRStrategy)
	if err != nil {
		return utils.WrapError(err, "", "failed to select OCR tool")
	}
	e.tool = tool
	return nil
}

func (e *OCRExtractor) options() (interfaces.OCROptions, error) {
	lang, err := language.Normalize(e.config.SourceLang)
	if err != nil {
		return interfaces.OCROptions{}, err
	}
	return interfaces.OCROptions{
		Languages:      []string{lang.OCRCode},
		PageSegMode:    e.config.PageSegMode,
		WithConfidence: e.config.ReturnConfidence,
	}, nil
}

// cachePath keys the cache on image content plus everything that changes OCR output
func (e *OCRExtractor) cachePath(fileInfo *types.FileInfo, opts interfaces.OCROptions) string {
	if !e.config.SkipExisting || e.config.Debug {
		return ""
	}
	dir, err := e.config.GetCacheDir()
	if err != nil {
		e.logger.Debug("OCR cache disabled: %v", err)
		return ""
	}
	key := utils.CalculateStringMD5(fmt.Sprintf("%s|%s|%d|%v|%s",
		fileInfo.MD5Hash, strings.Join(opts.Languages, "+"), opts.PageSegMode, opts.WithConfidence, e.config.OCRStrategy))
	return filepath.Join(dir, key+".json")
}

// checkCache loads a previous extraction of the same image and settings
func (e *OCRExtractor) checkCache(cachePath string) (*interfaces.ExtractionResult, bool) {
	if cachePath == "" {
		return nil, false
	}
	data, err := os.ReadFile(cachePath)
	if err != nil {
		return nil, false
	}

	var result interfaces.ExtractionResult
	if err := json.Unmarshal(data, &result); err != nil {
		e.logger.Warn("Ignoring corrupt OCR cache %s: %v", cachePath, err)
		return nil, false
	}

	e.logger.Progress("📄", "Loading cached OCR text: %s", cachePath)
	return &result, true
}

func (e *OCRExtractor) saveCache(cachePath string, result *interfaces.ExtractionResult) {
	if cachePath == "" {
		return
	}
	if err := utils.EnsureDir(filepath.Dir(cachePath)); err != nil {
		e.logger.Warn("Failed to create OCR cache directory: %v", err)
		return
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		e.logger.Warn("Failed to encode OCR cache: %v", err)
		return
	}
	if err := os.WriteFile(cachePath, data, constants.DefaultFilePermission); err != nil {
		e.logger.Warn("Failed to save OCR cache: %v", err)
	}
}

// SupportsFile checks if this extractor supports the given file type
func (e *OCRExtractor) SupportsFile(fileInfo *types.FileInfo) bool {
	return fileInfo.MediaType == types.ImageMediaType || utils.IsImageFile(fileInfo.Extension)
}

// Name returns the name of the extractor
func (e *OCRExtractor) Name() string {
	return e.name
}

// SetOCREngine allows setting a specific OCR tool (for testing or manual selection)
func (e *OCRExtractor) SetOCREngine(tool interfaces.OCREngine) {
	e.tool = tool
	e.logger.Info("OCR tool manually set to: %s", tool.GetDescription())
}

// FormatExtraction renders the extraction printout shown before parsing
func FormatExtraction(result *interfaces.ExtractionResult) string {
	var b strings.Builder
	b.WriteString("----- Extracted Text -----\n")
	b.WriteString(result.Text)
	b.WriteString("\n")
	if result.Confidence != nil {
		b.WriteString("----- Average Confidence Level -----\n")
		fmt.Fprintf(&b, "%.2f%%\n", *result.Confidence)
	}
	return b.String()
}
