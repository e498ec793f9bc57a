//go:build gosseract

package engines

import (
	"context"
	"image"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/nodewee/plaque-translator/pkg/interfaces"
	"github.com/nodewee/plaque-translator/pkg/logger"
	"github.com/nodewee/plaque-translator/pkg/preprocess"
	"github.com/nodewee/plaque-translator/pkg/utils"
)

// GosseractEngine runs tesseract in-process through libtesseract
type GosseractEngine struct {
	logger        *logger.Logger
	clientFactory func() *gosseract.Client
}

// NewGosseractEngine creates an in-process tesseract engine
func NewGosseractEngine(log *logger.Logger) *GosseractEngine {
	return &GosseractEngine{logger: log, clientFactory: gosseract.NewClient}
}

// Name returns the name of the OCR tool
func (e *GosseractEngine) Name() string {
	return "gosseract"
}

// GetDescription returns a description of the OCR tool
func (e *GosseractEngine) GetDescription() string {
	return "Tesseract OCR (libtesseract " + gosseract.Version() + ")"
}

// IsAvailable is always true when compiled in
func (e *GosseractEngine) IsAvailable() bool {
	return true
}

// Recognize runs OCR on the image with a fresh client
func (e *GosseractEngine) Recognize(ctx context.Context, img image.Image, opts interfaces.OCROptions) (*interfaces.OCRResult, error) {
	select {
	case <-ctx.Done():
		return nil, utils.WrapError(ctx.Err(), utils.ErrorTypeTimeout, "OCR cancelled")
	default:
	}

	data, err := preprocess.EncodePNG(img)
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrorTypeOCR, "failed to encode image")
	}

	c := e.clientFactory()
	defer c.Close()

	if err := c.SetImageFromBytes(data); err != nil {
		return nil, utils.NewOCRError("set image", err)
	}
	if len(opts.Languages) > 0 {
		if err := c.SetLanguage(opts.Languages...); err != nil {
			return nil, utils.NewOCRError("set languages", err)
		}
	}
	if opts.PageSegMode > 0 {
		if err := c.SetPageSegMode(gosseract.PageSegMode(opts.PageSegMode)); err != nil {
			return nil, utils.NewOCRError("set page segmentation mode", err)
		}
	}

	text, err := c.Text()
	if err != nil {
		return nil, utils.NewOCRError("recognize text", err)
	}
	result := &interfaces.OCRResult{Text: strings.TrimSpace(text)}

	if opts.WithConfidence {
		boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD)
		if err != nil {
			return nil, utils.NewOCRError("word confidences", err)
		}
		var sum float64
		var n int
		for _, b := range boxes {
			if strings.TrimSpace(b.Word) == "" || b.Confidence < 0 {
				continue
			}
			sum += b.Confidence
			n++
		}
		avg := 0.0
		if n > 0 {
			avg = sum / float64(n)
		}
		result.Confidence = &avg
	}

	e.logger.Debug("Extracted %d characters using gosseract", len(result.Text))
	return result, nil
}
