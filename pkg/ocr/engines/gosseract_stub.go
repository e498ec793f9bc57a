//go:build !gosseract

package engines

import (
	"context"
	"errors"
	"image"

	"github.com/nodewee/plaque-translator/pkg/interfaces"
	"github.com/nodewee/plaque-translator/pkg/logger"
	"github.com/nodewee/plaque-translator/pkg/utils"
)

// ErrEngineNotCompiled is returned when the in-process engine was not built in.
// Rebuild with -tags gosseract (requires libtesseract headers).
var ErrEngineNotCompiled = errors.New("gosseract support not compiled; rebuild with -tags gosseract")

// GosseractEngine is a placeholder when built without the gosseract tag
type GosseractEngine struct {
	logger *logger.Logger
}

// NewGosseractEngine creates the placeholder engine
func NewGosseractEngine(log *logger.Logger) *GosseractEngine {
	return &GosseractEngine{logger: log}
}

// Name returns the name of the OCR tool
func (e *GosseractEngine) Name() string {
	return "gosseract"
}

// GetDescription returns a description of the OCR tool
func (e *GosseractEngine) GetDescription() string {
	return "Tesseract OCR (libtesseract, not compiled in)"
}

// IsAvailable is false without the build tag
func (e *GosseractEngine) IsAvailable() bool {
	return false
}

// Recognize always fails without the build tag
func (e *GosseractEngine) Recognize(ctx context.Context, img image.Image, opts interfaces.OCROptions) (*interfaces.OCRResult, error) {
	return nil, utils.NewUnsupportedError("in-process OCR unavailable", ErrEngineNotCompiled)
}
