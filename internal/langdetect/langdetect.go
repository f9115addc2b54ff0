// internal/langdetect/langdetect.go
package langdetect

import (
	"strings"

	"github.com/abadojack/whatlanggo"

	"github.com/SmitNfsu/image-metadata-analyzer/internal/logger"
)

// Guess is a detected language: an ISO 639-3 code and a confidence in
// [0, 1]. The two are always populated together; an undetectable input
// yields a nil guess, never a partial one.
type Guess struct {
	Code       string  `json:"code"`
	Confidence float64 `json:"confidence"`
}

// Detector returns a best-guess language for a piece of text, or nil
// when no guess can be made.
type Detector interface {
	Detect(text string) *Guess
}

// WhatlangDetector detects languages with whatlanggo's trigram models.
type WhatlangDetector struct{}

// New creates the production detector.
func New() *WhatlangDetector {
	return &WhatlangDetector{}
}

// Detect returns the language guess for text. Empty or whitespace-only
// input returns nil immediately without touching the detection engine.
func (d *WhatlangDetector) Detect(text string) *Guess {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	info := whatlanggo.Detect(text)
	code := whatlanggo.LangToString(info.Lang)
	if code == "" {
		logger.Debug("Language detection produced no result")
		return nil
	}
	return &Guess{Code: code, Confidence: info.Confidence}
}
