package core

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/segmentio/ksuid"

	"github.com/nodewee/plaque-translator/pkg/config"
	"github.com/nodewee/plaque-translator/pkg/constants"
	"github.com/nodewee/plaque-translator/pkg/interfaces"
	"github.com/nodewee/plaque-translator/pkg/language"
	"github.com/nodewee/plaque-translator/pkg/logger"
	"github.com/nodewee/plaque-translator/pkg/metrics"
	"github.com/nodewee/plaque-translator/pkg/ocr"
	"github.com/nodewee/plaque-translator/pkg/parser"
	"github.com/nodewee/plaque-translator/pkg/render"
	"github.com/nodewee/plaque-translator/pkg/translate"
	"github.com/nodewee/plaque-translator/pkg/types"
	"github.com/nodewee/plaque-translator/pkg/utils"
)

// PlaqueProcessor runs one plaque through extract, parse, translate and render
type PlaqueProcessor struct {
	config     *config.Config
	logger     *logger.Logger
	factory    interfaces.ExtractorFactory
	translator interfaces.Translator
	stdout     io.Writer
}

// NewPlaqueProcessor validates cfg and wires the default extractors and translation backends
func NewPlaqueProcessor(cfg *config.Config, log *logger.Logger) (*PlaqueProcessor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, utils.WrapError(err, "", "configuration validation failed")
	}

	p := &PlaqueProcessor{
		config:     cfg,
		logger:     log,
		factory:    NewExtractorFactory(cfg, log),
		translator: NewTranslator(cfg, log),
		stdout:     os.Stdout,
	}

	log.Debug("Plaque processor initialized: %s", cfg)
	return p, nil
}

// NewTranslator builds the configured backend chain: the primary service,
// then the fallback service when one is set
func NewTranslator(cfg *config.Config, log *logger.Logger) interfaces.Translator {
	primary := translate.NewLibreTranslateClient(cfg.TranslatorURL, cfg.TranslatorAPIKey, log)
	if cfg.FallbackTranslatorURL == "" {
		return primary
	}
	fallback := translate.NewLibreTranslateClient(cfg.FallbackTranslatorURL, cfg.TranslatorAPIKey, log)
	return translate.NewFallbackTranslator(log, primary, fallback)
}

// SetExtractorFactory sets the extractor factory to use
func (p *PlaqueProcessor) SetExtractorFactory(factory interfaces.ExtractorFactory) {
	p.factory = factory
}

// SetTranslator replaces the translation backend
func (p *PlaqueProcessor) SetTranslator(t interfaces.Translator) {
	p.translator = t
}

// SetOutput redirects the extraction printout and CLI rendering
func (p *PlaqueProcessor) SetOutput(w io.Writer) {
	p.stdout = w
}

// Process runs the pipeline for one input file. When the parser cannot
// recover every field the run stops before translation with an
// "incomplete" error; the partial fields are in both the result and the
// error context.
func (p *PlaqueProcessor) Process(ctx context.Context, inputFile string) (*interfaces.PipelineResult, error) {
	start := time.Now()
	runID := ksuid.New().String()
	log := p.logger.With("run_id", runID)
	rec := metrics.NewRecorder()

	result := &interfaces.PipelineResult{RunID: runID, Source: inputFile}

	source, err := language.Normalize(p.config.SourceLang)
	if err != nil {
		return nil, err
	}
	target, err := language.Normalize(p.config.TargetLang)
	if err != nil {
		return nil, err
	}

	if err := validateInputFile(inputFile); err != nil {
		return nil, err
	}

	if p.config.TimeoutMinutes > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(p.config.TimeoutMinutes)*time.Minute)
		defer cancel()
	}

	log.Info("=== Processing %s (%s -> %s) ===", inputFile, source, target)

	// Extract
	done := rec.Time(metrics.StageExtract)
	extraction, err := p.extract(ctx, log, inputFile)
	done()
	if err != nil {
		p.writeMetrics(log, rec)
		return nil, err
	}
	result.Extraction = extraction
	rec.SetConfidence(extraction.Confidence)
	fmt.Fprint(p.stdout, ocr.FormatExtraction(extraction))

	// Parse
	done = rec.Time(metrics.StageParse)
	fields := parser.NewParser(log).Parse(extraction.Text, p.config.Debug)
	done()
	result.Fields = fields
	missing := fields.MissingFields()
	rec.SetParseResult(fields.ParseSuccess, len(missing))

	if !fields.ParseSuccess {
		p.writeMetrics(log, rec)
		result.ProcessTime = time.Since(start).Milliseconds()
		return result, utils.NewIncompleteError(
			fmt.Sprintf("%s; missing: %s", constants.ErrParseIncomplete, strings.Join(missing, ", ")), nil).
			WithContext("fields", fields).
			WithContext("missing", missing)
	}

	// Translate
	done = rec.Time(metrics.StageTranslate)
	translated, err := translate.NewFieldTranslator(p.translator, p.config.MaxConcurrency, log).
		Translate(ctx, fields, source, target)
	done()
	if err != nil {
		p.writeMetrics(log, rec)
		return result, err
	}
	result.Translated = translated

	// Render
	done = rec.Time(metrics.StageRender)
	outputs, err := p.render(log, rec, inputFile, translated, render.Options{
		Source:   source,
		Target:   target,
		FontPath: p.config.PDFFontPath,
	})
	done()
	result.Outputs = outputs
	if err != nil {
		p.writeMetrics(log, rec)
		return result, err
	}

	p.writeMetrics(log, rec)
	result.ProcessTime = time.Since(start).Milliseconds()
	log.Progress("✅", "Plaque translated in %dms", result.ProcessTime)
	return result, nil
}

// validateInputFile checks that the input exists and is readable
func validateInputFile(inputFile string) error {
	if inputFile == "" {
		return utils.NewValidationError("input file path cannot be empty", nil)
	}

	if _, err := os.Stat(inputFile); os.IsNotExist(err) {
		return utils.NewNotFoundError(fmt.Sprintf("input file not found: %s", inputFile), err)
	}

	file, err := os.Open(inputFile)
	if err != nil {
		return utils.NewPermissionError(fmt.Sprintf("cannot read input file: %s", inputFile), err)
	}
	file.Close()

	return nil
}

// extract tries each extractor in the chain until one returns text
func (p *PlaqueProcessor) extract(ctx context.Context, log *logger.Logger, inputFile string) (*interfaces.ExtractionResult, error) {
	fileInfo, err := utils.GetFileInfo(inputFile)
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrorTypeIO, "failed to get file info")
	}

	log.Debug("File analysis: ext=%s mime=%s size=%d md5=%s media=%s",
		fileInfo.Extension, fileInfo.MimeType, fileInfo.Size, fileInfo.MD5Hash, fileInfo.MediaType)

	extractors, err := p.factory.CreateExtractorWithFallbacks(fileInfo)
	if err != nil {
		return nil, err
	}
	if len(extractors) == 0 {
		return nil, utils.NewUnsupportedError("no extractor available for file type: "+fileInfo.Extension, nil)
	}

	var attempted []string
	var lastErr error
	for i, extractor := range extractors {
		attempted = append(attempted, extractor.Name())
		if i > 0 {
			log.Warn("Primary extractor failed, trying fallback: %s", extractor.Name())
		}

		res, err := extractor.Extract(ctx, inputFile)
		if err != nil {
			log.Warn("Extractor '%s' failed: %v", extractor.Name(), err)
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}

		res.FallbackUsed = i > 0
		res.AttemptedExtractors = attempted
		log.Info("Text extracted with %s (%d characters)", res.ExtractorUsed, len(res.Text))
		return res, nil
	}

	return nil, utils.WrapError(lastErr, "", "all extractors failed").
		WithContext("attempted", attempted)
}

// render writes every requested format: cli to the console, others to files
// in the output directory
func (p *PlaqueProcessor) render(log *logger.Logger, rec *metrics.Recorder, inputFile string, fields types.TranslatedPlaqueFields, opts render.Options) ([]string, error) {
	var outputs []string

	for _, format := range p.config.OutputFormats {
		renderer, err := render.New(format, opts)
		if err != nil {
			return outputs, err
		}

		if format == types.OutputFormatCLI {
			if err := renderer.Render(p.stdout, fields); err != nil {
				return outputs, err
			}
			rec.IncOutput(string(format))
			continue
		}

		var buf bytes.Buffer
		if err := renderer.Render(&buf, fields); err != nil {
			return outputs, err
		}

		path := p.config.GetOutputFilePath(inputFile, opts.Target.TranslationCode, format)
		if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
			return outputs, utils.WrapError(err, utils.ErrorTypeIO, "failed to create output directory")
		}
		if err := os.WriteFile(path, buf.Bytes(), constants.DefaultFilePermission); err != nil {
			return outputs, utils.WrapError(err, utils.ErrorTypeIO, fmt.Sprintf("failed to write %s output", format))
		}

		outputs = append(outputs, path)
		rec.IncOutput(string(format))
		log.Progress("💾", "Saved %s: %s", strings.ToUpper(string(format)), path)
	}

	return outputs, nil
}

func (p *PlaqueProcessor) writeMetrics(log *logger.Logger, rec *metrics.Recorder) {
	if p.config.MetricsFile == "" {
		return
	}
	if err := rec.WriteToTextfile(p.config.MetricsFile); err != nil {
		log.Warn("%v", err)
		return
	}
	log.Debug("Metrics written to %s", p.config.MetricsFile)
}
