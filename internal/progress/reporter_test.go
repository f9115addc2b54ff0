package progress

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryFormat(t *testing.T) {
	r := New("photo.jpg")
	r.Track("exif")(Present)
	r.Track("ocr")(Skipped)

	s := r.summary()

	assert.Contains(t, s, "Analyzed photo.jpg in ")
	assert.Regexp(t, `exif=present\([^)]+\)`, s)
	assert.Regexp(t, `ocr=skipped\([^)]+\)`, s)
}

func TestSummaryWithNoStages(t *testing.T) {
	r := New("photo.jpg")

	assert.Regexp(t, `^Analyzed photo\.jpg in [^:]+: $`, r.summary())
}

func TestTrackRecordsEveryOutcome(t *testing.T) {
	r := New("photo.jpg")
	for _, o := range []Outcome{Present, Absent, Skipped, Failed} {
		r.Track(string(o))(o)
	}

	require.Len(t, r.stages, 4)
	for i, o := range []Outcome{Present, Absent, Skipped, Failed} {
		assert.Equal(t, string(o), r.stages[i].name)
		assert.Equal(t, o, r.stages[i].outcome)
	}
}

func TestTrackIsSafeForConcurrentStages(t *testing.T) {
	const stages = 64

	r := New("photo.jpg")
	var wg sync.WaitGroup
	for i := 0; i < stages; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.Track(fmt.Sprintf("stage-%d", i))(Present)
		}(i)
	}
	wg.Wait()

	require.Len(t, r.stages, stages)
	s := r.summary()
	for i := 0; i < stages; i++ {
		assert.Contains(t, s, fmt.Sprintf("stage-%d=present(", i))
	}
}
