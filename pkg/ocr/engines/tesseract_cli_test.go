package engines

import (
	"context"
	"image"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodewee/plaque-translator/pkg/config"
	"github.com/nodewee/plaque-translator/pkg/interfaces"
	"github.com/nodewee/plaque-translator/pkg/logger"
	"github.com/nodewee/plaque-translator/pkg/utils"
)

func tsv(rows ...string) []byte {
	header := "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext"
	return []byte(header + "\n" + strings.Join(rows, "\n") + "\n")
}

func TestParseTSVRebuildsLayout(t *testing.T) {
	data := tsv(
		"1\t1\t0\t0\t0\t0\t0\t0\t800\t600\t-1\t",
		"2\t1\t1\t0\t0\t0\t10\t10\t300\t40\t-1\t",
		"5\t1\t1\t1\t1\t1\t10\t10\t50\t20\t95.5\tJane",
		"5\t1\t1\t1\t1\t2\t70\t10\t50\t20\t90.5\tDoe",
		"5\t1\t1\t1\t2\t1\t10\t40\t90\t20\t80\t1900-1980",
		"5\t1\t2\t1\t1\t1\t10\t90\t90\t20\t70\tSunset",
		"5\t1\t2\t1\t1\t2\t10\t90\t90\t20\t-1\t",
		"5\t1\t3\t1\t1\t1\t10\t140\t90\t20\t60\tOil",
		"5\t1\t3\t1\t1\t2\t10\t140\t90\t20\t4\t   ",
	)

	text, conf, err := ParseTSV(data)
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe\n1900-1980\n\nSunset\n\nOil", text)
	assert.InDelta(t, (95.5+90.5+80+70+60)/5, conf, 1e-9)
}

func TestParseTSVEmpty(t *testing.T) {
	text, conf, err := ParseTSV(tsv())
	require.NoError(t, err)
	assert.Empty(t, text)
	assert.Zero(t, conf)
}

func TestParseTSVMalformed(t *testing.T) {
	_, _, err := ParseTSV(tsv("5\t1\t1"))
	assert.Error(t, err)

	_, _, err = ParseTSV(tsv("5\t1\t1\t1\t1\t1\t0\t0\t0\t0\tabc\tword"))
	assert.Error(t, err)
}

func TestBuildArgs(t *testing.T) {
	e := NewTesseractCLIEngine(config.NewDefaultConfig(), logger.Discard())

	args := e.buildArgs("/tmp/p.png", interfaces.OCROptions{Languages: []string{"eng", "fra"}, PageSegMode: 6, WithConfidence: true})
	assert.Equal(t, []string{"/tmp/p.png", "stdout", "-l", "eng+fra", "--psm", "6", "tsv"}, args)

	args = e.buildArgs("/tmp/p.png", interfaces.OCROptions{})
	assert.Equal(t, []string{"/tmp/p.png", "stdout"}, args)
}

func TestTesseractMissingBinary(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.TesseractPath = "/nonexistent/tesseract-binary"
	e := NewTesseractCLIEngine(cfg, logger.Discard())

	assert.False(t, e.IsAvailable())

	_, err := e.Recognize(context.Background(), image.NewGray(image.Rect(0, 0, 4, 4)), interfaces.OCROptions{})
	require.Error(t, err)
	assert.Equal(t, utils.ErrorTypeOCR, utils.GetErrorType(err))
}
