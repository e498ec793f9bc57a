package preprocess

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodewee/plaque-translator/pkg/constants"
	"github.com/nodewee/plaque-translator/pkg/logger"
)

// twoTone draws dark "text" stripes on a light background
func twoTone(w, h int, dark, light uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := light
			if (y/4)%2 == 0 && x > w/4 && x < 3*w/4 {
				v = dark
			}
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return img
}

func TestOtsuSeparatesTwoClasses(t *testing.T) {
	img := twoTone(40, 40, 30, 220)

	th := OtsuThreshold(img)

	assert.GreaterOrEqual(t, th, uint8(30))
	assert.Less(t, th, uint8(220))
}

func TestOtsuUniformImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = 128
	}

	// A single class has no split; everything lands on one side
	bin := Threshold(img, OtsuThreshold(img))
	for _, v := range bin.Pix {
		assert.Equal(t, bin.Pix[0], v)
	}
}

func TestThresholdIsBinary(t *testing.T) {
	img := twoTone(16, 16, 10, 250)
	bin := Threshold(img, 100)

	for _, v := range bin.Pix {
		assert.True(t, v == 0 || v == 255)
	}
	assert.Equal(t, uint8(255), bin.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(0), bin.GrayAt(8, 0).Y)
}

func TestProcessWritesDebugImage(t *testing.T) {
	dir := t.TempDir()
	src := imaging.New(32, 32, color.White)
	src = imaging.Paste(src, imaging.New(16, 8, color.Black), image.Pt(8, 12))

	p := NewPreprocessor(Options{BlurSigma: constants.DefaultBlurSigma, DebugDir: dir}, logger.Discard())
	bin, err := p.Process(src)
	require.NoError(t, err)

	assert.Equal(t, 32, bin.Bounds().Dx())
	assert.Equal(t, uint8(255), bin.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(0), bin.GrayAt(16, 16).Y)
	assert.FileExists(t, filepath.Join(dir, constants.DebugPreprocessedImage))
}

func TestProcessFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plaque.png")
	require.NoError(t, imaging.Save(imaging.New(10, 10, color.White), path))

	p := NewPreprocessor(DefaultOptions(), logger.Discard())
	bin, err := p.ProcessFile(path)
	require.NoError(t, err)

	data, err := EncodePNG(bin)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), data[:4])
}

func TestProcessFileMissing(t *testing.T) {
	p := NewPreprocessor(DefaultOptions(), logger.Discard())
	_, err := p.ProcessFile(filepath.Join(t.TempDir(), "missing.jpg"))
	assert.Error(t, err)
}
