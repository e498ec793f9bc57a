package interfaces

import (
	"context"
	"image"

	"github.com/nodewee/plaque-translator/pkg/types"
)

// OCROptions carries the per-run recognition settings
type OCROptions struct {
	// Languages are tesseract language codes, e.g. "eng"
	Languages []string
	// PageSegMode is the tesseract page segmentation mode
	PageSegMode int
	// WithConfidence requests per-word confidences
	WithConfidence bool
}

// OCRResult is what an engine recovered from one image
type OCRResult struct {
	Text string
	// Confidence is the mean word confidence in [0,100], nil if not requested
	Confidence *float64
}

// OCREngine defines the interface for different OCR implementations
type OCREngine interface {
	// Name returns the name of the OCR tool
	Name() string

	// IsAvailable reports whether the engine can run on this machine
	IsAvailable() bool

	// Recognize extracts text from an already preprocessed image
	Recognize(ctx context.Context, img image.Image, opts OCROptions) (*OCRResult, error)

	// GetDescription returns a description of the OCR tool
	GetDescription() string
}

// OCRSelector handles the selection of OCR tool
type OCRSelector interface {
	// SelectOCRStrategy resolves a strategy to a runnable engine
	SelectOCRStrategy(strategy types.OCRStrategy) (OCREngine, error)

	// GetAvailableStrategies returns all strategies with a usable engine
	GetAvailableStrategies() []types.OCRStrategy
}
