package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nodewee/plaque-translator/pkg/constants"
	"github.com/nodewee/plaque-translator/pkg/logger"
	"github.com/nodewee/plaque-translator/pkg/types"
	"github.com/nodewee/plaque-translator/pkg/utils"
)

// Default values and constants
const (
	DefaultLogLevel       = "info"
	DefaultTimeoutMinutes = 10
	DefaultMaxConcurrency = 4
	DefaultSkipExisting   = true
	DefaultEnableVerbose  = false
	DefaultOCRStrategy    = types.OCRStrategyAuto

	// Tool paths
	DefaultTesseractPath = "tesseract"
)

// DefaultOutputFormats is what a bare invocation renders
var DefaultOutputFormats = []types.OutputFormat{types.OutputFormatCLI, types.OutputFormatPDF}

// Config holds application configuration
type Config struct {
	// Persisted settings
	TesseractPath         string `json:"tesseract_path"`
	TranslatorURL         string `json:"translator_url"`
	FallbackTranslatorURL string `json:"fallback_translator_url"`
	TranslatorAPIKey      string `json:"translator_api_key"`
	PDFFontPath           string `json:"pdf_font_path"`

	// Runtime settings (not persisted to file)
	OCRStrategy      types.OCRStrategy    `json:"-"`
	PageSegMode      int                  `json:"-"`
	ReturnConfidence bool                 `json:"-"`
	SourceLang       string               `json:"-"`
	TargetLang       string               `json:"-"`
	OutputDir        string               `json:"-"`
	OutputFormats    []types.OutputFormat `json:"-"`
	Debug            bool                 `json:"-"`
	SkipExisting     bool                 `json:"-"`
	MaxConcurrency   int                  `json:"-"`
	TimeoutMinutes   int                  `json:"-"`
	LogLevel         string               `json:"-"`
	EnableVerbose    bool                 `json:"-"`
	MetricsFile      string               `json:"-"`
}

// NewDefaultConfig returns built-in defaults without touching the filesystem
func NewDefaultConfig() *Config {
	return &Config{
		TesseractPath:  DefaultTesseractPath,
		TranslatorURL:  constants.DefaultTranslatorURL,
		OCRStrategy:    DefaultOCRStrategy,
		PageSegMode:    constants.DefaultPageSegMode,
		SourceLang:     constants.DefaultSourceLang,
		TargetLang:     constants.DefaultTargetLang,
		OutputFormats:  append([]types.OutputFormat(nil), DefaultOutputFormats...),
		SkipExisting:   DefaultSkipExisting,
		MaxConcurrency: DefaultMaxConcurrency,
		TimeoutMinutes: DefaultTimeoutMinutes,
		LogLevel:       DefaultLogLevel,
		EnableVerbose:  DefaultEnableVerbose,
	}
}

// DefaultConfig returns the configuration by loading from file or creating default
func DefaultConfig() *Config {
	config, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to load config file, using basic defaults: %v\n", err)
		return NewDefaultConfig()
	}
	return config
}

// LoadConfigWithEnvOverrides loads config from file and applies environment variable overrides
func LoadConfigWithEnvOverrides() *Config {
	config := DefaultConfig()
	config.ApplyEnv()
	return config
}

// ApplyEnv applies PLAQUE_* environment overrides in place
func (c *Config) ApplyEnv() {
	if value := os.Getenv("PLAQUE_TESSERACT_PATH"); value != "" {
		c.TesseractPath = value
	}
	if value := os.Getenv("PLAQUE_TRANSLATOR_URL"); value != "" {
		c.TranslatorURL = value
	}
	if value := os.Getenv("PLAQUE_FALLBACK_TRANSLATOR_URL"); value != "" {
		c.FallbackTranslatorURL = value
	}
	if value := os.Getenv("PLAQUE_TRANSLATOR_API_KEY"); value != "" {
		c.TranslatorAPIKey = value
	}
	if value := os.Getenv("PLAQUE_PDF_FONT_PATH"); value != "" {
		c.PDFFontPath = value
	}

	if value := os.Getenv("PLAQUE_OCR_STRATEGY"); value != "" {
		c.OCRStrategy = types.OCRStrategy(value)
	}
	if value := os.Getenv("PLAQUE_PSM"); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			c.PageSegMode = intVal
		}
	}
	if value := os.Getenv("PLAQUE_SOURCE_LANG"); value != "" {
		c.SourceLang = value
	}
	if value := os.Getenv("PLAQUE_TARGET_LANG"); value != "" {
		c.TargetLang = value
	}
	if value := os.Getenv("PLAQUE_OUTPUT_DIR"); value != "" {
		c.OutputDir = value
	}
	if value := os.Getenv("PLAQUE_FORMATS"); value != "" {
		c.OutputFormats = ParseOutputFormats(strings.Split(value, ","))
	}
	if value := os.Getenv("PLAQUE_SKIP_EXISTING"); value != "" {
		c.SkipExisting = parseBool(value)
	}
	if value := os.Getenv("PLAQUE_MAX_CONCURRENCY"); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			c.MaxConcurrency = intVal
		}
	}
	if value := os.Getenv("PLAQUE_TIMEOUT_MINUTES"); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			c.TimeoutMinutes = intVal
		}
	}
	if value := os.Getenv("PLAQUE_LOG_LEVEL"); value != "" {
		c.LogLevel = value
	}
	if value := os.Getenv("PLAQUE_VERBOSE"); value != "" {
		c.EnableVerbose = parseBool(value)
	}
	if value := os.Getenv("PLAQUE_METRICS_FILE"); value != "" {
		c.MetricsFile = value
	}
}

func parseBool(value string) bool {
	return value == "true" || value == "1" || value == "yes"
}

// ParseOutputFormats normalizes a list of format names, dropping blanks and duplicates
func ParseOutputFormats(values []string) []types.OutputFormat {
	seen := make(map[types.OutputFormat]bool)
	var formats []types.OutputFormat
	for _, v := range values {
		f := types.OutputFormat(strings.ToLower(strings.TrimSpace(v)))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		formats = append(formats, f)
	}
	return formats
}

// Validate validates the configuration
func (c *Config) Validate() error {
	validator := NewConfigValidator()
	return validator.Validate(c)
}

// HasFormat reports whether the given output format was requested
func (c *Config) HasFormat(format types.OutputFormat) bool {
	for _, f := range c.OutputFormats {
		if f == format {
			return true
		}
	}
	return false
}

// CreateTempFileManager creates a temporary file manager under the system temp dir, scoped by key
func (c *Config) CreateTempFileManager(key string, log *logger.Logger) *utils.SimpleTempManager {
	return utils.NewSimpleTempManager("", key, log)
}

// GetOutputDir returns where rendered files go: OutputDir, or the image's directory
func (c *Config) GetOutputDir(inputFilePath string) string {
	if c.OutputDir != "" {
		return c.OutputDir
	}
	return filepath.Dir(inputFilePath)
}

// GetDebugDir returns the directory for intermediate debug artifacts
func (c *Config) GetDebugDir(inputFilePath string) string {
	return filepath.Join(c.GetOutputDir(inputFilePath), constants.DebugDirName)
}

// GetCacheDir returns the OCR cache directory under the config dir
func (c *Config) GetCacheDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, constants.OCRCacheDirName), nil
}

// GetOutputFilePath returns <output-dir>/<image-base>_<target>.<ext>
func (c *Config) GetOutputFilePath(inputFilePath string, targetCode string, format types.OutputFormat) string {
	base := strings.TrimSuffix(filepath.Base(inputFilePath), filepath.Ext(inputFilePath))
	name := utils.SanitizeFileName(fmt.Sprintf("%s_%s.%s", base, targetCode, format))
	return filepath.Join(c.GetOutputDir(inputFilePath), name)
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	clone := *c
	clone.OutputFormats = append([]types.OutputFormat(nil), c.OutputFormats...)
	return &clone
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{OCRStrategy: %s, PSM: %d, Langs: %s->%s, Formats: %v, LogLevel: %s, Verbose: %v}",
		c.OCRStrategy, c.PageSegMode, c.SourceLang, c.TargetLang, c.OutputFormats, c.LogLevel, c.EnableVerbose)
}
