package utils

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/nodewee/plaque-translator/pkg/constants"
	"github.com/nodewee/plaque-translator/pkg/types"
)

// File extension sets for the input kinds the pipeline accepts
var (
	ImageExtensions = toSet(constants.ImageExtensions)
	TextExtensions  = toSet(constants.TextExtensions)
	HTMLExtensions  = toSet(constants.HTMLExtensions)
)

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// GetFileInfo extracts basic information about a file
func GetFileInfo(filePath string) (*types.FileInfo, error) {
	stat, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error getting file stats: %w", err)
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("%s is a directory", filePath)
	}

	md5Hash, err := CalculateFileMD5(filePath)
	if err != nil {
		return nil, fmt.Errorf("error calculating hashes: %w", err)
	}

	extension := strings.ToLower(strings.TrimPrefix(filepath.Ext(filePath), "."))

	mimeType, err := getMimeType(filePath, extension)
	if err != nil {
		return nil, fmt.Errorf("error getting MIME type: %w", err)
	}

	return &types.FileInfo{
		MD5Hash:   md5Hash,
		Extension: extension,
		MimeType:  mimeType,
		Size:      stat.Size(),
		MediaType: determineMediaType(extension, mimeType),
	}, nil
}

// IsImageFile determines if a file is an image file
func IsImageFile(extension string) bool {
	return ImageExtensions[strings.ToLower(extension)]
}

// IsTextFile determines if a file is a plain text transcript
func IsTextFile(extension, mimeType string) bool {
	if TextExtensions[strings.ToLower(extension)] {
		return true
	}
	return strings.HasPrefix(mimeType, "text/plain")
}

// IsHTMLFile determines if a file is an HTML transcript
func IsHTMLFile(extension, mimeType string) bool {
	if HTMLExtensions[strings.ToLower(extension)] {
		return true
	}
	return strings.HasPrefix(mimeType, "text/html")
}

// determineMediaType determines the media type based on extension and MIME type
func determineMediaType(extension, mimeType string) types.MediaType {
	switch {
	case IsImageFile(extension), strings.HasPrefix(mimeType, "image/"):
		return types.ImageMediaType
	case IsTextFile(extension, mimeType), IsHTMLFile(extension, mimeType):
		return types.TextMediaType
	default:
		return types.OtherMediaType
	}
}

// getMimeType sniffs the first 512 bytes, falling back to the extension table
func getMimeType(filePath, extension string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	buf := make([]byte, 512)
	n, err := file.Read(buf)
	if err != nil && n == 0 {
		// Empty files carry no signature
		if byExt := mime.TypeByExtension("." + extension); byExt != "" {
			return byExt, nil
		}
		return "application/octet-stream", nil
	}

	detected := http.DetectContentType(buf[:n])
	if detected == "application/octet-stream" {
		if byExt := mime.TypeByExtension("." + extension); byExt != "" {
			return byExt, nil
		}
	}
	return detected, nil
}
