package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/SmitNfsu/image-metadata-analyzer/internal/exif"
	"github.com/SmitNfsu/image-metadata-analyzer/internal/gps"
	"github.com/SmitNfsu/image-metadata-analyzer/internal/imagefile"
	"github.com/SmitNfsu/image-metadata-analyzer/internal/iptc"
	"github.com/SmitNfsu/image-metadata-analyzer/internal/langdetect"
	"github.com/SmitNfsu/image-metadata-analyzer/internal/ocr"
)

// Record is the consolidated result of one analyzed image. Every
// top-level key is always present in the serialized form; sections
// with nothing to report are explicit nulls, so consumers can rely on
// a fixed shape. A record is built once per image and never mutated.
type Record struct {
	Image    *imagefile.Info   `json:"image"`
	Exif     *exif.Data        `json:"exif"`
	GPS      *gps.Coordinate   `json:"gps"`
	IPTC     iptc.Record       `json:"iptc"`
	OCR      ocr.Result        `json:"ocr"`
	Language *langdetect.Guess `json:"language"`
}

// Consolidate merges the extractor outputs into one record. It is a
// pure merge: no I/O, no validation, no knowledge of why a section is
// absent.
func Consolidate(img *imagefile.Info, ex *exif.Data, coord *gps.Coordinate, ipt iptc.Record, ocrRes ocr.Result, lang *langdetect.Guess) *Record {
	return &Record{
		Image:    img,
		Exif:     ex,
		GPS:      coord,
		IPTC:     ipt,
		OCR:      ocrRes,
		Language: lang,
	}
}

// Marshal produces the canonical encoding: fixed struct key order,
// sorted map keys, UTF-8 text, no trailing newline. GPS floats are
// finite by construction, so the encoding never fails on values.
func (r *Record) Marshal() ([]byte, error) {
	return r.encode("")
}

// MarshalIndent is Marshal with two-space indentation, the form used
// for the downloadable export.
func (r *Record) MarshalIndent() ([]byte, error) {
	return r.encode("  ")
}

func (r *Record) encode(indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(r); err != nil {
		return nil, fmt.Errorf("failed to serialize metadata record: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
