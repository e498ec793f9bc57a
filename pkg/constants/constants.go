package constants

import "time"

// Application constants
const (
	AppName    = "plaque-translator"
	AppDirName = ".plaque-translator"
	// Note: the version is injected via ldflags in main.go
	// Use cmd.GetVersionInfo() to get the current version at runtime
)

// File processing constants
const (
	// Default file permissions
	DefaultFilePermission = 0644
	DefaultDirPermission  = 0755

	// Retry and timeout settings
	DefaultMaxRetries      = 3
	DefaultTimeoutDuration = 10 * time.Minute
	DefaultHTTPTimeout     = 60 * time.Second
	DefaultRetryBaseDelay  = 500 * time.Millisecond

	// Concurrency limits
	MaxConcurrency        = 8
	DefaultWorkerPoolSize = 3
)

// File size limits (in bytes)
const (
	MaxImageSize      = 50 * 1024 * 1024 // 50MB
	WarnFileSizeLimit = 10 * 1024 * 1024 // 10MB
)

// OCR constants
const (
	// Tesseract page segmentation modes accepted on the command line
	MinPageSegMode     = 3
	MaxPageSegMode     = 13
	DefaultPageSegMode = 6

	// Gaussian blur sigma equivalent to a 3x3 kernel with automatic sigma
	DefaultBlurSigma = 0.8

	DebugDirName           = "Debug_Files"
	DebugPreprocessedImage = "debug_preprocessed.png"
	OCRCacheDirName        = "ocr_cache"
)

// Translation constants
const (
	DefaultSourceLang    = "en"
	DefaultTargetLang    = "fr"
	DefaultTranslatorURL = "http://localhost:5000"
)

// Error messages
const (
	ErrUnsupportedLanguage = "unsupported language"
	ErrParseIncomplete     = "plaque text could not be parsed into all fields"
	ErrNoTextFound         = "no text content found"
)

// File type groups
var (
	ImageExtensions = []string{
		"jpg", "jpeg", "png", "gif", "bmp",
		"webp", "tiff", "tif",
	}

	TextExtensions = []string{
		"txt", "text",
	}

	HTMLExtensions = []string{
		"html", "htm",
	}
)
