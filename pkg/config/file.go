package config

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/nodewee/plaque-translator/pkg/constants"
	"github.com/nodewee/plaque-translator/pkg/utils"
)

const (
	ConfigFileName = "config.json"

	// ConfigDirEnv relocates the configuration directory, mainly for tests and CI
	ConfigDirEnv = "PLAQUE_CONFIG_DIR"
)

// ConfigFile represents the JSON configuration file structure
type ConfigFile struct {
	TesseractPath         string `json:"tesseract_path"`
	TranslatorURL         string `json:"translator_url"`
	FallbackTranslatorURL string `json:"fallback_translator_url,omitempty"`
	TranslatorAPIKey      string `json:"translator_api_key,omitempty"`
	PDFFontPath           string `json:"pdf_font_path,omitempty"`
}

// configKeys maps persisted keys to their ConfigFile slots
var configKeys = map[string]func(cf *ConfigFile) *string{
	"tesseract_path":          func(cf *ConfigFile) *string { return &cf.TesseractPath },
	"translator_url":          func(cf *ConfigFile) *string { return &cf.TranslatorURL },
	"fallback_translator_url": func(cf *ConfigFile) *string { return &cf.FallbackTranslatorURL },
	"translator_api_key":      func(cf *ConfigFile) *string { return &cf.TranslatorAPIKey },
	"pdf_font_path":           func(cf *ConfigFile) *string { return &cf.PDFFontPath },
}

// GetConfigDir returns the user configuration directory (~/.plaque-translator)
func GetConfigDir() (string, error) {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return utils.NormalizePath(dir), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", utils.WrapError(err, utils.ErrorTypeIO, "failed to get user home directory")
	}

	return filepath.Join(homeDir, constants.AppDirName), nil
}

// GetConfigFilePath returns the full path to the configuration file
func GetConfigFilePath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, ConfigFileName), nil
}

// LoadConfig loads configuration from file or creates default if not exists
func LoadConfig() (*Config, error) {
	configPath, err := GetConfigFilePath()
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrorTypeIO, "failed to get config file path")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfigFile(configPath)
	}

	return loadConfigFromFile(configPath)
}

// createDefaultConfigFile creates a default configuration file with auto-detected tools
func createDefaultConfigFile(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, constants.DefaultDirPermission); err != nil {
		return nil, utils.WrapError(err, utils.ErrorTypeIO, "failed to create config directory")
	}

	configFile := &ConfigFile{
		TranslatorURL: constants.DefaultTranslatorURL,
	}
	detectTesseract(configFile)

	if err := saveConfigFile(configPath, configFile); err != nil {
		return nil, utils.WrapError(err, utils.ErrorTypeIO, "failed to save default config file")
	}

	fmt.Fprintf(os.Stderr, "✅ Created default configuration file: %s\n", configPath)
	if configFile.TesseractPath != "" {
		fmt.Fprintf(os.Stderr, "🔍 Auto-detected tesseract: %s\n", configFile.TesseractPath)
	}

	return configFileToConfig(configFile), nil
}

// loadConfigFromFile loads configuration from an existing file
func loadConfigFromFile(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrorTypeIO, "failed to read config file")
	}

	var configFile ConfigFile
	if err := json.Unmarshal(data, &configFile); err != nil {
		return nil, utils.WrapError(err, utils.ErrorTypeValidation, "failed to parse config file")
	}

	return configFileToConfig(&configFile), nil
}

// SaveConfig saves configuration to file
func SaveConfig(config *Config) error {
	configPath, err := GetConfigFilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(configPath), constants.DefaultDirPermission); err != nil {
		return utils.WrapError(err, utils.ErrorTypeIO, "failed to create config directory")
	}

	return saveConfigFile(configPath, configToConfigFile(config))
}

// saveConfigFile saves ConfigFile to disk
func saveConfigFile(configPath string, configFile *ConfigFile) error {
	data, err := json.MarshalIndent(configFile, "", "  ")
	if err != nil {
		return utils.WrapError(err, utils.ErrorTypeSystem, "failed to marshal config")
	}

	if err := os.WriteFile(configPath, data, constants.DefaultFilePermission); err != nil {
		return utils.WrapError(err, utils.ErrorTypeIO, "failed to write config file")
	}

	return nil
}

// detectTesseract looks for a tesseract binary on PATH and in the usual install locations
func detectTesseract(configFile *ConfigFile) {
	candidates := []string{utils.DefaultPathUtils.GetExecutableName("tesseract")}
	switch runtime.GOOS {
	case "darwin":
		candidates = append(candidates, "/opt/homebrew/bin/tesseract", "/usr/local/bin/tesseract")
	case "windows":
		candidates = append(candidates, `C:\Program Files\Tesseract-OCR\tesseract.exe`)
	default:
		candidates = append(candidates, "/usr/bin/tesseract", "/usr/local/bin/tesseract")
	}

	for _, candidate := range candidates {
		var path string
		if filepath.IsAbs(candidate) {
			if utils.DefaultPathUtils.IsExecutable(candidate) {
				path = candidate
			}
		} else if found, err := exec.LookPath(candidate); err == nil {
			path = found
		}

		if path != "" {
			configFile.TesseractPath = utils.NormalizePath(path)
			return
		}
	}
}

// configFileToConfig converts ConfigFile to Config
func configFileToConfig(cf *ConfigFile) *Config {
	config := NewDefaultConfig()
	if cf.TesseractPath != "" {
		config.TesseractPath = cf.TesseractPath
	}
	if cf.TranslatorURL != "" {
		config.TranslatorURL = cf.TranslatorURL
	}
	config.FallbackTranslatorURL = cf.FallbackTranslatorURL
	config.TranslatorAPIKey = cf.TranslatorAPIKey
	config.PDFFontPath = cf.PDFFontPath
	return config
}

// configToConfigFile converts Config to ConfigFile
func configToConfigFile(c *Config) *ConfigFile {
	return &ConfigFile{
		TesseractPath:         c.TesseractPath,
		TranslatorURL:         c.TranslatorURL,
		FallbackTranslatorURL: c.FallbackTranslatorURL,
		TranslatorAPIKey:      c.TranslatorAPIKey,
		PDFFontPath:           c.PDFFontPath,
	}
}

// GetConfigValue gets a specific configuration value by key
func GetConfigValue(key string) (string, error) {
	slot, ok := configKeys[key]
	if !ok {
		return "", utils.NewValidationError(fmt.Sprintf("unknown config key: %s", key), nil)
	}

	config, err := LoadConfig()
	if err != nil {
		return "", err
	}

	return *slot(configToConfigFile(config)), nil
}

// SetConfigValue sets a specific configuration value by key
func SetConfigValue(key, value string) error {
	slot, ok := configKeys[key]
	if !ok {
		return utils.NewValidationError(fmt.Sprintf("unknown config key: %s", key), nil)
	}

	config, err := LoadConfig()
	if err != nil {
		return err
	}

	cf := configToConfigFile(config)
	*slot(cf) = value

	updated := configFileToConfig(cf)
	if err := NewConfigValidator().validatePersisted(updated); err != nil {
		return err
	}

	return SaveConfig(updated)
}

// ListConfigKeys returns all available configuration keys
func ListConfigKeys() []string {
	keys := make([]string, 0, len(configKeys))
	for k := range configKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
