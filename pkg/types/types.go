package types

// MediaType represents different types of input files
type MediaType string

const (
	ImageMediaType MediaType = "image"
	TextMediaType  MediaType = "text"
	OtherMediaType MediaType = "other"
)

// OCRStrategy represents different OCR engines
type OCRStrategy string

const (
	OCRStrategyAuto      OCRStrategy = "auto"
	OCRStrategyTesseract OCRStrategy = "tesseract"
	OCRStrategyGosseract OCRStrategy = "gosseract"
)

// OutputFormat represents a renderer target
type OutputFormat string

const (
	OutputFormatCLI  OutputFormat = "cli"
	OutputFormatPDF  OutputFormat = "pdf"
	OutputFormatHTML OutputFormat = "html"
)

// FileInfo contains basic information about a file
type FileInfo struct {
	MD5Hash   string    `json:"md5_hash"`
	Extension string    `json:"extension"`
	MimeType  string    `json:"mime_type"`
	Size      int64     `json:"size"`
	MediaType MediaType `json:"media_type"`
}
