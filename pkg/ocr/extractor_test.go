package ocr

import (
	"context"
	"image"
	"image/color"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodewee/plaque-translator/pkg/config"
	"github.com/nodewee/plaque-translator/pkg/interfaces"
	"github.com/nodewee/plaque-translator/pkg/logger"
	"github.com/nodewee/plaque-translator/pkg/types"
	"github.com/nodewee/plaque-translator/pkg/utils"
)

type stubEngine struct {
	name      string
	available bool
	text      string
	conf      *float64
	calls     atomic.Int32
	lastOpts  interfaces.OCROptions
}

func (s *stubEngine) Name() string           { return s.name }
func (s *stubEngine) GetDescription() string { return "stub " + s.name }
func (s *stubEngine) IsAvailable() bool      { return s.available }
func (s *stubEngine) Recognize(_ context.Context, img image.Image, opts interfaces.OCROptions) (*interfaces.OCRResult, error) {
	s.calls.Add(1)
	s.lastOpts = opts
	if _, ok := img.(*image.Gray); !ok {
		return nil, utils.NewOCRError("expected a binarized image", nil)
	}
	return &interfaces.OCRResult{Text: s.text, Confidence: s.conf}, nil
}

func writeImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plaque.png")
	require.NoError(t, imaging.Save(imaging.New(20, 20, color.White), path))
	return path
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv(config.ConfigDirEnv, t.TempDir())
	cfg := config.NewDefaultConfig()
	cfg.OCRStrategy = types.OCRStrategyTesseract
	return cfg
}

func TestExtractUsesEngineAndNormalizes(t *testing.T) {
	cfg := testConfig(t)
	cfg.SourceLang = "French"
	cfg.PageSegMode = 4
	cfg.ReturnConfidence = true
	conf := 87.5
	// "e" followed by a combining acute accent
	engine := &stubEngine{name: "stub", available: true, text: "Ce\u0301zanne\n1839-1906", conf: &conf}

	ex := NewOCRExtractor(cfg, logger.Discard())
	ex.SetOCREngine(engine)

	res, err := ex.Extract(context.Background(), writeImage(t))
	require.NoError(t, err)

	assert.Equal(t, "C\u00e9zanne\n1839-1906", res.Text)
	require.NotNil(t, res.Confidence)
	assert.Equal(t, 87.5, *res.Confidence)
	assert.Equal(t, "stub", res.ExtractorUsed)
	assert.Equal(t, []string{"fra"}, engine.lastOpts.Languages)
	assert.Equal(t, 4, engine.lastOpts.PageSegMode)
	assert.True(t, engine.lastOpts.WithConfidence)
}

func TestExtractCachesByContent(t *testing.T) {
	cfg := testConfig(t)
	engine := &stubEngine{name: "stub", available: true, text: "Jane Doe"}
	path := writeImage(t)

	ex := NewOCRExtractor(cfg, logger.Discard())
	ex.SetOCREngine(engine)

	first, err := ex.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.False(t, first.FromCache)

	second, err := ex.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, first.Text, second.Text)
	assert.Equal(t, int32(1), engine.calls.Load())

	// Debug runs bypass the cache so the debug image is regenerated
	cfg.Debug = true
	cfg.OutputDir = t.TempDir()
	_, err = ex.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, int32(2), engine.calls.Load())
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "Debug_Files", "debug_preprocessed.png"))
}

func TestExtractRejectsUnsupportedLanguage(t *testing.T) {
	cfg := testConfig(t)
	cfg.SourceLang = "klingon"

	ex := NewOCRExtractor(cfg, logger.Discard())
	ex.SetOCREngine(&stubEngine{name: "stub", available: true})

	_, err := ex.Extract(context.Background(), writeImage(t))
	require.Error(t, err)
	assert.Equal(t, utils.ErrorTypeUnsupported, utils.GetErrorType(err))
}

func TestSelector(t *testing.T) {
	cfg := config.NewDefaultConfig()
	s := NewOCRSelector(cfg, logger.Discard())
	cli := &stubEngine{name: "tesseract", available: true}
	inproc := &stubEngine{name: "gosseract", available: false}
	s.RegisterEngine(types.OCRStrategyTesseract, cli)
	s.RegisterEngine(types.OCRStrategyGosseract, inproc)

	tool, err := s.SelectOCRStrategy(types.OCRStrategyAuto)
	require.NoError(t, err)
	assert.Same(t, cli, tool)

	inproc.available = true
	tool, err = s.SelectOCRStrategy("")
	require.NoError(t, err)
	assert.Same(t, inproc, tool)
	assert.Equal(t, []types.OCRStrategy{types.OCRStrategyGosseract, types.OCRStrategyTesseract}, s.GetAvailableStrategies())

	cli.available = false
	_, err = s.SelectOCRStrategy(types.OCRStrategyTesseract)
	require.Error(t, err)
	assert.Equal(t, utils.ErrorTypeNotFound, utils.GetErrorType(err))

	_, err = s.SelectOCRStrategy("surya")
	assert.Equal(t, utils.ErrorTypeValidation, utils.GetErrorType(err))
}

func TestFormatExtraction(t *testing.T) {
	conf := 91.234
	out := FormatExtraction(&interfaces.ExtractionResult{Text: "Jane Doe", Confidence: &conf})
	assert.Equal(t, "----- Extracted Text -----\nJane Doe\n----- Average Confidence Level -----\n91.23%\n", out)

	out = FormatExtraction(&interfaces.ExtractionResult{Text: "Jane Doe"})
	assert.Equal(t, "----- Extracted Text -----\nJane Doe\n", out)
}
