// internal/ocr/tesseract.go
package ocr

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// TesseractEngine recognizes text with a local Tesseract install via
// gosseract. A fresh client per call keeps the engine stateless across
// requests.
type TesseractEngine struct {
	languages []string
}

// NewTesseractEngine creates the engine. An empty language list uses
// the Tesseract default (eng).
func NewTesseractEngine(languages []string) *TesseractEngine {
	return &TesseractEngine{languages: languages}
}

// Recognize extracts text from the image bytes. gosseract has no
// context support; cancellation is handled by the adapter around this
// call.
func (e *TesseractEngine) Recognize(_ context.Context, image []byte) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if len(e.languages) > 0 {
		if err := client.SetLanguage(e.languages...); err != nil {
			return "", fmt.Errorf("failed to set OCR languages: %w", err)
		}
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract recognition failed: %w", err)
	}
	return text, nil
}
