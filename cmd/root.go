package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nodewee/plaque-translator/pkg/config"
	"github.com/nodewee/plaque-translator/pkg/constants"
	"github.com/nodewee/plaque-translator/pkg/core"
	"github.com/nodewee/plaque-translator/pkg/interfaces"
	"github.com/nodewee/plaque-translator/pkg/language"
	"github.com/nodewee/plaque-translator/pkg/logger"
	"github.com/nodewee/plaque-translator/pkg/types"
	"github.com/nodewee/plaque-translator/pkg/utils"
)

// Exit codes
const (
	exitError      = 1
	exitIncomplete = 2
)

// rootOptions holds the root command flags
type rootOptions struct {
	image       string
	inputLang   string
	targetLang  string
	psm         int
	retConf     bool
	debug       bool
	ocrStrategy string
	formats     []string
	outputDir   string
	metricsFile string
	verbose     bool
	showVersion bool
}

var opts rootOptions

// AppHandler encapsulates application main processing logic
type AppHandler struct {
	config    *config.Config
	logger    *logger.Logger
	processor *core.PlaqueProcessor
	out       io.Writer
}

// NewAppHandler creates an application handler writing user output to out
func NewAppHandler(out io.Writer) *AppHandler {
	return &AppHandler{out: out}
}

// ProcessFile is the main entry point for one plaque
func (h *AppHandler) ProcessFile(cmd *cobra.Command, inputFile string) error {
	absPath, err := utils.GetAbsolutePath(inputFile)
	if err != nil {
		return utils.WrapError(err, utils.ErrorTypeValidation, "error resolving file path")
	}

	if err := h.initialize(cmd); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := h.processor.Process(ctx, absPath)
	if err != nil {
		return err
	}

	h.displayResults(result)
	return nil
}

// initialize loads configuration, applies flags and validates languages
// before any pipeline work starts
func (h *AppHandler) initialize(cmd *cobra.Command) error {
	h.config = config.LoadConfigWithEnvOverrides()
	h.applyCommandLineOverrides(cmd)

	if h.config.PDFFontPath != "" {
		fontPath, err := utils.ExpandPath(h.config.PDFFontPath)
		if err != nil {
			return utils.NewSystemError("cannot expand pdf_font_path", err)
		}
		h.config.PDFFontPath = fontPath
	}

	if _, err := language.Normalize(h.config.SourceLang); err != nil {
		return err
	}
	target, err := language.Normalize(h.config.TargetLang)
	if err != nil {
		return err
	}

	if err := h.config.Validate(); err != nil {
		return utils.WrapError(err, utils.ErrorTypeValidation, "configuration validation failed")
	}

	h.logger = logger.NewConsoleLogger(h.config.LogLevel, h.config.EnableVerbose, h.out)

	if h.config.HasFormat(types.OutputFormatPDF) && h.config.PDFFontPath == "" && !target.Latin() {
		h.logger.Warn("No pdf_font_path configured; %s text will not render correctly in the PDF", target.Name())
	}

	processor, err := core.NewPlaqueProcessor(h.config, h.logger)
	if err != nil {
		return err
	}
	processor.SetOutput(h.out)
	h.processor = processor
	return nil
}

// applyCommandLineOverrides applies flags the user actually set, so config
// file and environment values survive otherwise
func (h *AppHandler) applyCommandLineOverrides(cmd *cobra.Command) {
	flags := cmd.Flags()

	if flags.Changed("input-lang") {
		h.config.SourceLang = opts.inputLang
	}
	if flags.Changed("target-lang") {
		h.config.TargetLang = opts.targetLang
	}
	if flags.Changed("psm") {
		h.config.PageSegMode = opts.psm
	}
	if flags.Changed("ocr") {
		h.config.OCRStrategy = types.OCRStrategy(opts.ocrStrategy)
	}
	if flags.Changed("format") {
		h.config.OutputFormats = config.ParseOutputFormats(opts.formats)
	}
	if flags.Changed("output") {
		h.config.OutputDir = opts.outputDir
	}
	if flags.Changed("metrics-file") {
		h.config.MetricsFile = opts.metricsFile
	}
	if opts.retConf {
		h.config.ReturnConfidence = true
	}
	if opts.debug {
		h.config.Debug = true
	}
	if opts.verbose {
		h.config.EnableVerbose = true
	}
	// parser diagnostics are logged at debug level
	if h.config.Debug {
		h.config.LogLevel = "debug"
	}
}

// displayResults displays processing results
func (h *AppHandler) displayResults(result *interfaces.PipelineResult) {
	fmt.Fprintf(h.out, "✅ Plaque translated successfully\n")
	for _, path := range result.Outputs {
		fmt.Fprintf(h.out, "💾 %s\n", path)
	}
	if h.config.EnableVerbose {
		fmt.Fprintf(h.out, "📊 Extractor used: %s\n", result.Extraction.ExtractorUsed)
		fmt.Fprintf(h.out, "🆔 Run ID: %s\n", result.RunID)
		fmt.Fprintf(h.out, "⏱️  Processing time: %dms\n", result.ProcessTime)
	}
}

// resolveInput accepts the image as --image or as the positional argument
func resolveInput(flagValue string, args []string) (string, error) {
	switch {
	case flagValue != "" && len(args) > 0 && args[0] != flagValue:
		return "", utils.NewValidationError(
			fmt.Sprintf("conflicting inputs: --image %s and argument %s", flagValue, args[0]), nil)
	case flagValue != "":
		return flagValue, nil
	case len(args) > 0:
		return args[0], nil
	default:
		return "", nil
	}
}

// reportError prints err for the user and returns the process exit code
func reportError(w io.Writer, err error) int {
	var appErr *utils.AppError
	if !errors.As(err, &appErr) {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}

	fmt.Fprintf(w, "Error (%s): %s\n", appErr.Type, appErr.Message)
	if appErr.Cause != nil {
		fmt.Fprintf(w, "  cause: %v\n", appErr.Cause)
	}

	if appErr.Type != utils.ErrorTypeIncomplete {
		return exitError
	}

	if fields, ok := appErr.Context["fields"].(types.PlaqueFields); ok {
		fmt.Fprintln(w, "Recovered fields:")
		recovered := map[string]string{
			"author":      fields.Author,
			"life_info":   fields.LifeInfo,
			"title":       fields.Title,
			"year":        fields.Year,
			"medium":      fields.Medium,
			"source":      fields.Source,
			"description": fields.Description,
		}
		keys := make([]string, 0, len(recovered))
		for k, v := range recovered {
			if v != "" {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "  %-12s %s\n", k+":", strings.ReplaceAll(recovered[k], "\n", " / "))
		}
	}
	fmt.Fprintln(w, "💡 Tip: try another --psm value or re-run with --debug to see how lines were classified")
	return exitIncomplete
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   constants.AppName + " [image]",
	Short: "Read a museum plaque photo and translate it",
	Long: `Reads a photograph of a museum plaque, recovers its fields (author, life
dates, title, year, medium, credit line, description) and translates them.

Pipeline:
- Image preprocessing: grayscale, Gaussian blur, Otsu threshold
- OCR with tesseract (command line) or gosseract (in-process, build tag)
- Positional plaque parser; the run stops if any field is missing
- Per-field translation through a LibreTranslate-compatible service
- Output to the console, PDF and/or HTML

Transcripts (.txt, .html) skip OCR and go straight to the parser.

Examples:
  plaque-translator --image plaque.jpg                          # English to French, console + PDF
  plaque-translator plaque.jpg --target-lang de --format html   # German HTML page
  plaque-translator plaque.jpg --input-lang fr --target-lang en --ret-conf
  plaque-translator plaque.jpg --psm 4 --debug                  # Save preprocessed image, trace parser
  plaque-translator plaque.txt -o ./out --format cli,pdf,html   # Transcript, all formats
  plaque-translator plaque.jpg --metrics-file /var/lib/node_exporter/plaque.prom`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if opts.showVersion {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", constants.AppName, version)
			return
		}

		input, err := resolveInput(opts.image, args)
		if err != nil {
			os.Exit(reportError(cmd.ErrOrStderr(), err))
		}
		if input == "" {
			_ = cmd.Help()
			return
		}

		handler := NewAppHandler(cmd.OutOrStdout())
		if err := handler.ProcessFile(cmd, input); err != nil {
			os.Exit(reportError(cmd.ErrOrStderr(), err))
		}
	},
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitError)
	}
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&opts.image, "image", "",
		"Path to the plaque image (or a .txt/.html transcript)")
	flags.StringVar(&opts.inputLang, "input-lang", constants.DefaultSourceLang,
		"Language printed on the plaque (name or code, e.g. en, French, fra)")
	flags.StringVar(&opts.targetLang, "target-lang", constants.DefaultTargetLang,
		"Language to translate into")
	flags.IntVar(&opts.psm, "psm", constants.DefaultPageSegMode,
		fmt.Sprintf("Tesseract page segmentation mode (%d-%d)", constants.MinPageSegMode, constants.MaxPageSegMode))
	flags.BoolVar(&opts.retConf, "ret-conf", false,
		"Report the average OCR word confidence")
	flags.BoolVar(&opts.debug, "debug", false,
		"Save intermediate images and print parser diagnostics")
	flags.StringVar(&opts.ocrStrategy, "ocr", "",
		"OCR engine (auto, tesseract, gosseract)")
	flags.StringSliceVar(&opts.formats, "format", nil,
		"Output formats: cli, pdf, html (repeatable or comma separated; default cli,pdf)")
	flags.StringVarP(&opts.outputDir, "output", "o", "",
		"Output directory (default: the image's directory)")
	flags.StringVar(&opts.metricsFile, "metrics-file", "",
		"Write run metrics in Prometheus textfile format to this path")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false,
		"Enable verbose output to show progress information")
	flags.BoolVarP(&opts.showVersion, "version", "V", false,
		"Show version information")
}
