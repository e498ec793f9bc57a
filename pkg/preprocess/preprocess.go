// Package preprocess prepares a plaque photograph for OCR: grayscale,
// light Gaussian blur, then a global Otsu binarization.
package preprocess

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"path/filepath"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/nodewee/plaque-translator/pkg/constants"
	"github.com/nodewee/plaque-translator/pkg/logger"
	"github.com/nodewee/plaque-translator/pkg/utils"
)

// Options controls preprocessing
type Options struct {
	// BlurSigma is the Gaussian sigma; zero disables the blur
	BlurSigma float64
	// DebugDir, when set, receives the binarized image
	DebugDir string
}

// DefaultOptions mirrors a 3x3 Gaussian kernel
func DefaultOptions() Options {
	return Options{BlurSigma: constants.DefaultBlurSigma}
}

// Preprocessor turns an input image file into a binary image
type Preprocessor struct {
	opts   Options
	logger *logger.Logger
}

// NewPreprocessor creates a preprocessor
func NewPreprocessor(opts Options, log *logger.Logger) *Preprocessor {
	return &Preprocessor{opts: opts, logger: log}
}

// ProcessFile loads the image at path and binarizes it
func (p *Preprocessor) ProcessFile(path string) (*image.Gray, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrorTypeIO, fmt.Sprintf("failed to open image %s", path))
	}
	p.logger.Progress("🖼️", "Loaded image %dx%d", img.Bounds().Dx(), img.Bounds().Dy())

	return p.Process(img)
}

// Process binarizes an already decoded image
func (p *Preprocessor) Process(img image.Image) (*image.Gray, error) {
	if img.Bounds().Empty() {
		return nil, utils.NewValidationError("image has no pixels", nil)
	}

	gray := imaging.Grayscale(img)
	p.logger.Progress("⚫", "Converted image to grayscale")

	if p.opts.BlurSigma > 0 {
		gray = imaging.Blur(gray, p.opts.BlurSigma)
		p.logger.Progress("🌫️", "Applied Gaussian blur (sigma %.2f)", p.opts.BlurSigma)
	}

	luma := toGray(gray)
	threshold := OtsuThreshold(luma)
	binary := Threshold(luma, threshold)
	p.logger.Progress("🔲", "Applied Otsu threshold at %d", threshold)

	if p.opts.DebugDir != "" {
		if err := utils.EnsureDir(p.opts.DebugDir); err != nil {
			return nil, utils.WrapError(err, utils.ErrorTypeIO, "failed to create debug directory")
		}
		debugPath := filepath.Join(p.opts.DebugDir, constants.DebugPreprocessedImage)
		if err := imaging.Save(binary, debugPath); err != nil {
			return nil, utils.WrapError(err, utils.ErrorTypeIO, "failed to save debug image")
		}
		p.logger.ProgressAlways("💾", "Saved %s for inspection", debugPath)
	}

	return binary, nil
}

// EncodePNG serializes an image for engines that take bytes or files
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// toGray copies the luminance of an image into a single-channel buffer
func toGray(img image.Image) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.SetGray(x-b.Min.X, y-b.Min.Y, color.GrayModel.Convert(img.At(x, y)).(color.Gray))
		}
	}
	return out
}

// OtsuThreshold returns the gray level that maximizes between-class variance
func OtsuThreshold(img *image.Gray) uint8 {
	var hist [256]int
	for _, v := range img.Pix {
		hist[v]++
	}

	total := len(img.Pix)
	if total == 0 {
		return 0
	}

	var sum float64
	for i, count := range hist {
		sum += float64(i * count)
	}

	var (
		sumBackground float64
		weightBack    int
		best          float64
		threshold     int
	)
	for t := 0; t < 256; t++ {
		weightBack += hist[t]
		if weightBack == 0 {
			continue
		}
		weightFore := total - weightBack
		if weightFore == 0 {
			break
		}

		sumBackground += float64(t * hist[t])
		meanBack := sumBackground / float64(weightBack)
		meanFore := (sum - sumBackground) / float64(weightFore)

		between := float64(weightBack) * float64(weightFore) * (meanBack - meanFore) * (meanBack - meanFore)
		if between > best {
			best = between
			threshold = t
		}
	}

	return uint8(threshold)
}

// Threshold maps pixels above t to white and the rest to black
func Threshold(img *image.Gray, t uint8) *image.Gray {
	out := image.NewGray(img.Rect)
	w := img.Rect.Dx()
	for y := 0; y < img.Rect.Dy(); y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+w]
		dst := out.Pix[y*out.Stride : y*out.Stride+w]
		for x, v := range src {
			if v > t {
				dst[x] = 255
			}
		}
	}
	return out
}
