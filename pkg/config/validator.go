package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/nodewee/plaque-translator/pkg/constants"
	"github.com/nodewee/plaque-translator/pkg/types"
	"github.com/nodewee/plaque-translator/pkg/utils"
)

// ConfigValidator checks a Config before a run starts
type ConfigValidator struct{}

// NewConfigValidator creates a config validator
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// Validate collects every problem and reports them as one validation error
func (v *ConfigValidator) Validate(c *Config) error {
	var errors []string

	if err := v.validateOCRStrategy(c.OCRStrategy); err != nil {
		errors = append(errors, err.Error())
	}

	if err := v.validatePageSegMode(c.PageSegMode); err != nil {
		errors = append(errors, err.Error())
	}

	if err := v.validateOutputFormats(c.OutputFormats); err != nil {
		errors = append(errors, err.Error())
	}

	if err := v.validateNumericValues(c); err != nil {
		errors = append(errors, err.Error())
	}

	if err := v.validateLogLevel(c.LogLevel); err != nil {
		errors = append(errors, err.Error())
	}

	if err := v.validateURLs(c); err != nil {
		errors = append(errors, err.Error())
	}

	if len(errors) > 0 {
		return utils.NewValidationError("configuration validation failed",
			fmt.Errorf("validation errors: %s", strings.Join(errors, "; ")))
	}

	return nil
}

// validatePersisted checks only what `config set` can change
func (v *ConfigValidator) validatePersisted(c *Config) error {
	if err := v.validateURLs(c); err != nil {
		return utils.NewValidationError(err.Error(), nil)
	}
	return nil
}

func (v *ConfigValidator) validateOCRStrategy(strategy types.OCRStrategy) error {
	switch strategy {
	case types.OCRStrategyAuto, types.OCRStrategyTesseract, types.OCRStrategyGosseract:
		return nil
	}
	return fmt.Errorf("invalid OCR strategy: %s", strategy)
}

func (v *ConfigValidator) validatePageSegMode(psm int) error {
	if psm < constants.MinPageSegMode || psm > constants.MaxPageSegMode {
		return fmt.Errorf("page segmentation mode must be between %d and %d, got %d",
			constants.MinPageSegMode, constants.MaxPageSegMode, psm)
	}
	return nil
}

func (v *ConfigValidator) validateOutputFormats(formats []types.OutputFormat) error {
	if len(formats) == 0 {
		return fmt.Errorf("at least one output format is required")
	}
	for _, f := range formats {
		switch f {
		case types.OutputFormatCLI, types.OutputFormatPDF, types.OutputFormatHTML:
		default:
			return fmt.Errorf("invalid output format: %s", f)
		}
	}
	return nil
}

func (v *ConfigValidator) validateNumericValues(c *Config) error {
	if c.MaxConcurrency < 1 {
		return fmt.Errorf("max concurrency must be at least 1")
	}
	if c.MaxConcurrency > constants.MaxConcurrency {
		return fmt.Errorf("max concurrency should not exceed %d", constants.MaxConcurrency)
	}
	if c.TimeoutMinutes < 1 {
		return fmt.Errorf("timeout must be at least 1 minute")
	}

	return nil
}

func (v *ConfigValidator) validateLogLevel(level string) error {
	validLevels := []string{"debug", "info", "warn", "error"}

	for _, valid := range validLevels {
		if strings.ToLower(level) == valid {
			return nil
		}
	}

	return fmt.Errorf("invalid log level: %s", level)
}

func (v *ConfigValidator) validateURLs(c *Config) error {
	if c.TranslatorURL == "" {
		return fmt.Errorf("translator_url is required")
	}
	for name, raw := range map[string]string{
		"translator_url":          c.TranslatorURL,
		"fallback_translator_url": c.FallbackTranslatorURL,
	} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%s must be an http(s) URL, got %q", name, raw)
		}
	}
	return nil
}
