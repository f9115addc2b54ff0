// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"strings"

	"github.com/SmitNfsu/image-metadata-analyzer/internal/exif"
	"github.com/SmitNfsu/image-metadata-analyzer/internal/gps"
	"github.com/SmitNfsu/image-metadata-analyzer/internal/imagefile"
	"github.com/SmitNfsu/image-metadata-analyzer/internal/iptc"
	"github.com/SmitNfsu/image-metadata-analyzer/internal/langdetect"
	"github.com/SmitNfsu/image-metadata-analyzer/internal/metadata"
	"github.com/SmitNfsu/image-metadata-analyzer/internal/ocr"
	"github.com/SmitNfsu/image-metadata-analyzer/internal/progress"
	"github.com/SmitNfsu/image-metadata-analyzer/internal/worker"
)

// Options are the per-request toggles supplied by the caller. Language
// detection is only meaningful when OCR is enabled.
type Options struct {
	OCR      bool
	Language bool
}

// Pipeline runs the extractors for one image and consolidates their
// outputs. Instances share no mutable state, so one pipeline can serve
// concurrent requests; the OCR adapter bounds engine calls itself.
type Pipeline struct {
	ocr      *ocr.Adapter
	detector langdetect.Detector
}

// New creates a pipeline around an OCR adapter and a language detector.
func New(ocrAdapter *ocr.Adapter, detector langdetect.Detector) *Pipeline {
	return &Pipeline{ocr: ocrAdapter, detector: detector}
}

// OCRAvailable surfaces the engine capability so callers can disable
// the corresponding toggle instead of offering a no-op feature.
func (p *Pipeline) OCRAvailable() bool {
	return p.ocr.Available()
}

// Analyze runs the extraction branches over a decoded image and merges
// them into one record. EXIF+GPS, IPTC and OCR+language have no data
// dependencies between them and run concurrently; GPS decode waits on
// EXIF and language detection waits on OCR inside their branches. No
// branch failure prevents the others from landing in the record.
func (p *Pipeline) Analyze(ctx context.Context, img *imagefile.Image, opts Options) *metadata.Record {
	var (
		exifData *exif.Data
		coord    *gps.Coordinate
		iptcRec  iptc.Record
		ocrRes   ocr.Result
		guess    *langdetect.Guess
	)

	rep := progress.New(img.Info.FileName)
	pool := worker.NewPool(3)

	pool.Submit(func() {
		done := rep.Track("exif")
		exifData = exif.Extract(img.Data)
		if exifData == nil {
			done(progress.Absent)
			return
		}
		done(progress.Present)

		done = rep.Track("gps")
		coord = gps.Decode(exifData.GPS)
		if coord == nil {
			done(progress.Absent)
		} else {
			done(progress.Present)
		}
	})

	pool.Submit(func() {
		done := rep.Track("iptc")
		iptcRec = iptc.Extract(img.Data)
		if iptcRec == nil {
			done(progress.Absent)
		} else {
			done(progress.Present)
		}
	})

	pool.Submit(func() {
		done := rep.Track("ocr")
		if !opts.OCR {
			// The capability still lands in the record so consumers
			// can tell "disabled" from "not installed".
			ocrRes = ocr.Result{Text: "", EngineAvailable: p.ocr.Available()}
			done(progress.Skipped)
			return
		}
		ocrRes = p.ocr.Recognize(ctx, img.Data)
		switch {
		case !ocrRes.EngineAvailable:
			done(progress.Skipped)
		case strings.TrimSpace(ocrRes.Text) == "":
			done(progress.Absent)
		default:
			done(progress.Present)
		}

		if !opts.Language || strings.TrimSpace(ocrRes.Text) == "" {
			return
		}
		done = rep.Track("language")
		guess = p.detector.Detect(ocrRes.Text)
		if guess == nil {
			done(progress.Absent)
		} else {
			done(progress.Present)
		}
	})

	pool.Wait()
	rep.Finish()

	return metadata.Consolidate(&img.Info, exifData, coord, iptcRec, ocrRes, guess)
}
