// internal/progress/reporter.go
package progress

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/SmitNfsu/image-metadata-analyzer/internal/logger"
)

// Outcome classifies how a pipeline stage ended.
type Outcome string

const (
	Present Outcome = "present" // stage produced data
	Absent  Outcome = "absent"  // stage ran, nothing to report
	Skipped Outcome = "skipped" // stage disabled or unavailable
	Failed  Outcome = "failed"  // stage recovered from a fault
)

type stage struct {
	name     string
	outcome  Outcome
	duration time.Duration
}

// Reporter tracks per-stage outcomes and durations for one analyzed
// image. Stages report concurrently; Finish logs one summary line.
type Reporter struct {
	mu        sync.Mutex
	name      string
	startTime time.Time
	stages    []stage
}

// New creates a reporter for one request.
func New(name string) *Reporter {
	return &Reporter{
		name:      name,
		startTime: time.Now(),
	}
}

// Track starts timing a stage and returns the function that records
// its outcome.
func (r *Reporter) Track(name string) func(Outcome) {
	start := time.Now()
	return func(outcome Outcome) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.stages = append(r.stages, stage{
			name:     name,
			outcome:  outcome,
			duration: time.Since(start),
		})
	}
}

// Finish logs the per-stage summary for the request.
func (r *Reporter) Finish() {
	logger.Info("%s", r.summary())
}

func (r *Reporter) summary() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	parts := make([]string, len(r.stages))
	for i, s := range r.stages {
		parts[i] = fmt.Sprintf("%s=%s(%s)", s.name, s.outcome, s.duration.Round(time.Millisecond))
	}

	return fmt.Sprintf("Analyzed %s in %s: %s",
		r.name, time.Since(r.startTime).Round(time.Millisecond), strings.Join(parts, " "))
}
