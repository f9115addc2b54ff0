package s3client

import (
	"mime"
	"path/filepath"
	"strings"
)

// Common MIME types for the files the analyzer touches
var commonMimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".tiff": "image/tiff",
	".tif":  "image/tiff",
	".json": "application/json",
	".txt":  "text/plain",
}

// DetectContentType determines the content type of a file based on its extension
func DetectContentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))

	// Check our common types first
	if mimeType, ok := commonMimeTypes[ext]; ok {
		return mimeType
	}

	// Fall back to the standard library
	mimeType := mime.TypeByExtension(ext)
	if mimeType != "" {
		return mimeType
	}

	// Default to binary data
	return "application/octet-stream"
}

// IsSupportedImageFile checks if a file has one of the analyzable image
// extensions. The decoder still validates the actual bytes.
func IsSupportedImageFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp", ".tiff", ".tif":
		return true
	default:
		return false
	}
}
