// internal/ocr/ocr.go
package ocr

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/SmitNfsu/image-metadata-analyzer/internal/config"
	"github.com/SmitNfsu/image-metadata-analyzer/internal/logger"
	"github.com/SmitNfsu/image-metadata-analyzer/pkg/common"
)

// Result is the OCR section of the metadata record. EngineAvailable
// false means the OCR subsystem itself was not usable for this call,
// which is distinct from running and finding no text.
type Result struct {
	Text            string `json:"text"`
	EngineAvailable bool   `json:"engine_available"`
}

// Engine runs text recognition over raw image bytes. Implementations
// may block; the adapter owns timeouts and concurrency limits.
type Engine interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// Adapter wraps an OCR engine with a one-time availability probe, a
// per-call timeout and a bounded number of concurrent engine calls.
// The probe result is immutable for the life of the process; an
// unavailable engine is never invoked.
type Adapter struct {
	engine  Engine
	probe   func() bool
	timeout time.Duration
	slots   chan struct{}

	probeOnce sync.Once
	available bool
}

// New builds the production adapter around the Tesseract engine.
func New(cfg config.OCRConfig) *Adapter {
	return NewWithEngine(NewTesseractEngine(cfg.Languages), func() bool {
		return probeTesseract(cfg.TesseractPath)
	}, cfg.Timeout, cfg.MaxConcurrent)
}

// NewWithEngine builds an adapter with an explicit engine and probe.
func NewWithEngine(engine Engine, probe func() bool, timeout time.Duration, maxConcurrent int) *Adapter {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Adapter{
		engine:  engine,
		probe:   probe,
		timeout: timeout,
		slots:   make(chan struct{}, maxConcurrent),
	}
}

// Available reports whether the OCR engine can be used, probing on
// first call and caching the answer for the session.
func (a *Adapter) Available() bool {
	a.probeOnce.Do(func() {
		a.available = a.probe()
		if !a.available {
			logger.Info("OCR engine not available, text recognition is disabled for this session")
		}
	})
	return a.available
}

// Recognize runs the engine over the image bytes. An unavailable
// engine returns immediately without being invoked. An engine fault or
// timeout degrades to an empty result for this call; recognized text
// that happens to be empty is simply success.
func (a *Adapter) Recognize(ctx context.Context, image []byte) Result {
	if !a.Available() {
		return Result{Text: "", EngineAvailable: false}
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	// The slot wait counts against the call budget: a saturated adapter
	// must not hold a cancelled caller hostage.
	select {
	case a.slots <- struct{}{}:
	case <-ctx.Done():
		logger.Warn("OCR slot not acquired: %v", ctx.Err())
		return Result{Text: "", EngineAvailable: false}
	}

	type outcome struct {
		text string
		err  error
	}
	ch := make(chan outcome, 1)
	go func() {
		// Released here, not in Recognize: a timed-out call may return
		// while the engine still runs, and the slot stays held until
		// the engine actually finishes.
		defer func() { <-a.slots }()
		defer func() {
			if r := recover(); r != nil {
				ch <- outcome{err: common.NewEngineFailureError("ocr", fmt.Errorf("panic: %v", r))}
			}
		}()
		text, err := a.engine.Recognize(ctx, image)
		if err != nil {
			err = common.NewEngineFailureError("ocr", err)
		}
		ch <- outcome{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		// Treated like an unavailable engine for this call only.
		logger.Warn("OCR timed out after %s", a.timeout)
		return Result{Text: "", EngineAvailable: false}
	case out := <-ch:
		if out.err != nil {
			logger.Error("OCR failed: %v", out.err)
			return Result{Text: "", EngineAvailable: true}
		}
		return Result{Text: out.text, EngineAvailable: true}
	}
}

// probeTesseract checks for the engine binary: an explicitly
// configured path must exist, otherwise tesseract must be on PATH.
func probeTesseract(path string) bool {
	if path != "" {
		_, err := os.Stat(path)
		return err == nil
	}
	_, err := exec.LookPath("tesseract")
	return err == nil
}
