package core

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodewee/plaque-translator/pkg/config"
	"github.com/nodewee/plaque-translator/pkg/interfaces"
	"github.com/nodewee/plaque-translator/pkg/logger"
	"github.com/nodewee/plaque-translator/pkg/types"
	"github.com/nodewee/plaque-translator/pkg/utils"
)

const completePlaque = `Jane Doe
American, 1900-1980

Blue Study
1950

Oil on canvas

Gift of the artist

A study in blue.
Painted in Maine.`

type upperTranslator struct {
	calls int
	err   error
}

func (u *upperTranslator) Name() string { return "upper" }

func (u *upperTranslator) Translate(_ context.Context, text, src, tgt string) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	return strings.ToUpper(text), nil
}

type failingExtractor struct{ name string }

func (f failingExtractor) Extract(context.Context, string) (*interfaces.ExtractionResult, error) {
	return nil, utils.NewOCRError("engine crashed", nil)
}
func (f failingExtractor) SupportsFile(*types.FileInfo) bool { return true }
func (f failingExtractor) Name() string                     { return f.name }

type chainFactory struct{ chain []interfaces.Extractor }

func (c chainFactory) CreateExtractorWithFallbacks(*types.FileInfo) ([]interfaces.Extractor, error) {
	return c.chain, nil
}
func (c chainFactory) RegisterExtractor(string, interfaces.Extractor) {}

// fixedInfoFactory routes every file as if it had the given type
type fixedInfoFactory struct {
	factory *DefaultExtractorFactory
	info    types.FileInfo
}

func (f fixedInfoFactory) CreateExtractorWithFallbacks(*types.FileInfo) ([]interfaces.Extractor, error) {
	return f.factory.CreateExtractorWithFallbacks(&f.info)
}
func (f fixedInfoFactory) RegisterExtractor(name string, e interfaces.Extractor) {
	f.factory.RegisterExtractor(name, e)
}

func newTestProcessor(t *testing.T, formats ...types.OutputFormat) (*PlaqueProcessor, *config.Config, *bytes.Buffer) {
	t.Helper()
	t.Setenv(config.ConfigDirEnv, t.TempDir())

	cfg := config.NewDefaultConfig()
	cfg.OutputDir = t.TempDir()
	cfg.OutputFormats = formats
	cfg.MetricsFile = filepath.Join(t.TempDir(), "run.prom")

	p, err := NewPlaqueProcessor(cfg, logger.Discard())
	require.NoError(t, err)

	var out bytes.Buffer
	p.SetOutput(&out)
	p.SetTranslator(&upperTranslator{})
	return p, cfg, &out
}

func writeTranscript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plaque.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestProcessCompletePlaque(t *testing.T) {
	p, cfg, out := newTestProcessor(t, types.OutputFormatCLI, types.OutputFormatHTML, types.OutputFormatPDF)
	input := writeTranscript(t, completePlaque)

	res, err := p.Process(context.Background(), input)
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.True(t, res.Fields.ParseSuccess)
	assert.Equal(t, "text-file", res.Extraction.ExtractorUsed)
	assert.Equal(t, types.TranslatedPlaqueFields{
		Author:      "Jane Doe",
		LifeInfo:    "AMERICAN, 1900-1980",
		Title:       "BLUE STUDY",
		Year:        "1950",
		Medium:      "OIL ON CANVAS",
		Source:      "GIFT OF THE ARTIST",
		Description: "A STUDY IN BLUE.\nPAINTED IN MAINE.",
	}, res.Translated)

	console := out.String()
	assert.True(t, strings.HasPrefix(console, "----- Extracted Text -----\nJane Doe\n"))
	assert.Contains(t, console, "----- Translated Text (French) -----")
	assert.Contains(t, console, "Title:  BLUE STUDY")

	require.Len(t, res.Outputs, 2)
	assert.Equal(t, filepath.Join(cfg.OutputDir, "plaque_fr.html"), res.Outputs[0])
	assert.Equal(t, filepath.Join(cfg.OutputDir, "plaque_fr.pdf"), res.Outputs[1])
	for _, path := range res.Outputs {
		assert.FileExists(t, path)
	}

	metrics, err := os.ReadFile(cfg.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "plaque_translator_parse_success 1")
}

func TestProcessIncompletePlaqueStopsBeforeTranslation(t *testing.T) {
	p, cfg, out := newTestProcessor(t, types.OutputFormatCLI, types.OutputFormatPDF)
	tr := &upperTranslator{err: errors.New("must not be called")}
	p.SetTranslator(tr)

	res, err := p.Process(context.Background(), writeTranscript(t, "Jane Doe\nAmerican, 1900-1980\n\nBlue Study"))
	require.Error(t, err)
	assert.True(t, utils.IsErrorType(err, utils.ErrorTypeIncomplete))

	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, []string{"year", "medium", "source", "description"}, appErr.Context["missing"])
	partial, ok := appErr.Context["fields"].(types.PlaqueFields)
	require.True(t, ok)
	assert.Equal(t, "Blue Study", partial.Title)

	require.NotNil(t, res)
	assert.False(t, res.Fields.ParseSuccess)
	assert.Empty(t, res.Outputs)
	assert.NotContains(t, out.String(), "Translated Text")

	entries, err := os.ReadDir(cfg.OutputDir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	metrics, err := os.ReadFile(cfg.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "plaque_translator_parse_missing_fields 4")
}

func TestProcessTranslationFailure(t *testing.T) {
	p, _, _ := newTestProcessor(t, types.OutputFormatCLI)
	p.SetTranslator(&upperTranslator{err: utils.NewTranslationError("service rejected request", nil)})

	_, err := p.Process(context.Background(), writeTranscript(t, completePlaque))
	require.Error(t, err)
	assert.True(t, utils.IsErrorType(err, utils.ErrorTypeTranslation))
}

func TestProcessRejectsBadInput(t *testing.T) {
	p, cfg, _ := newTestProcessor(t, types.OutputFormatCLI)

	_, err := p.Process(context.Background(), filepath.Join(t.TempDir(), "missing.png"))
	assert.Equal(t, utils.ErrorTypeNotFound, utils.GetErrorType(err))

	cfg.TargetLang = "klingon"
	_, err = p.Process(context.Background(), writeTranscript(t, completePlaque))
	assert.Equal(t, utils.ErrorTypeUnsupported, utils.GetErrorType(err))
}

func TestProcessExtractorFallback(t *testing.T) {
	p, cfg, _ := newTestProcessor(t, types.OutputFormatCLI)
	text := NewExtractorFactory(cfg, logger.Discard()).extractors[ExtractorText]
	p.SetExtractorFactory(chainFactory{chain: []interfaces.Extractor{failingExtractor{name: "broken"}, text}})

	res, err := p.Process(context.Background(), writeTranscript(t, completePlaque))
	require.NoError(t, err)
	assert.True(t, res.Extraction.FallbackUsed)
	assert.Equal(t, []string{"broken", "text-file"}, res.Extraction.AttemptedExtractors)

	p.SetExtractorFactory(chainFactory{chain: []interfaces.Extractor{failingExtractor{name: "broken"}}})
	_, err = p.Process(context.Background(), writeTranscript(t, completePlaque))
	require.Error(t, err)
	assert.True(t, utils.IsErrorType(err, utils.ErrorTypeOCR))
}

func TestNewPlaqueProcessorValidatesConfig(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.PageSegMode = 99
	_, err := NewPlaqueProcessor(cfg, logger.Discard())
	require.Error(t, err)
	assert.True(t, utils.IsErrorType(err, utils.ErrorTypeValidation))
}

func TestExtractorFactoryChains(t *testing.T) {
	t.Setenv(config.ConfigDirEnv, t.TempDir())
	f := NewExtractorFactory(config.NewDefaultConfig(), logger.Discard())
	assert.Equal(t, []string{ExtractorHTML, ExtractorOCR, ExtractorText}, f.ListExtractors())

	tests := []struct {
		info types.FileInfo
		want []string
	}{
		{types.FileInfo{Extension: "jpg", MediaType: types.ImageMediaType}, []string{"ocr"}},
		{types.FileInfo{Extension: "webp"}, []string{"ocr"}},
		{types.FileInfo{Extension: "txt", MimeType: "text/plain; charset=utf-8"}, []string{"text-file"}},
		{types.FileInfo{Extension: "htm"}, []string{"html", "text-file"}},
		{types.FileInfo{Extension: "bin", MimeType: "application/octet-stream"}, []string{"ocr", "text-file"}},
	}
	for _, tt := range tests {
		chain, err := f.CreateExtractorWithFallbacks(&tt.info)
		require.NoError(t, err)
		names := make([]string, 0, len(chain))
		for _, e := range chain {
			names = append(names, e.Name())
		}
		assert.Equal(t, tt.want, names, tt.info.Extension)
	}
}

func TestProcessUnknownTypeFallsBackToText(t *testing.T) {
	p, cfg, _ := newTestProcessor(t, types.OutputFormatCLI)
	f := NewExtractorFactory(cfg, logger.Discard())
	f.RegisterExtractor(ExtractorOCR, failingExtractor{name: "ocr"})
	p.SetExtractorFactory(fixedInfoFactory{
		factory: f,
		info:    types.FileInfo{Extension: "scan", MimeType: "application/octet-stream"},
	})

	res, err := p.Process(context.Background(), writeTranscript(t, completePlaque))
	require.NoError(t, err)
	assert.True(t, res.Extraction.FallbackUsed)
	assert.Equal(t, []string{"ocr", "text-file"}, res.Extraction.AttemptedExtractors)
	assert.True(t, res.Fields.ParseSuccess)
}

func TestProcessEmptyExtractorChain(t *testing.T) {
	p, _, _ := newTestProcessor(t, types.OutputFormatCLI)
	p.SetExtractorFactory(chainFactory{})

	_, err := p.Process(context.Background(), writeTranscript(t, completePlaque))
	require.Error(t, err)
	assert.True(t, utils.IsErrorType(err, utils.ErrorTypeUnsupported))
}
