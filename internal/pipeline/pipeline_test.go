package pipeline

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SmitNfsu/image-metadata-analyzer/internal/imagefile"
	"github.com/SmitNfsu/image-metadata-analyzer/internal/langdetect"
	"github.com/SmitNfsu/image-metadata-analyzer/internal/ocr"
	"github.com/SmitNfsu/image-metadata-analyzer/internal/testutil"
)

type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) Recognize(ctx context.Context, image []byte) (string, error) {
	args := m.Called(ctx, image)
	return args.String(0), args.Error(1)
}

type MockDetector struct {
	mock.Mock
}

func (m *MockDetector) Detect(text string) *langdetect.Guess {
	args := m.Called(text)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*langdetect.Guess)
}

func engineUp() bool   { return true }
func engineDown() bool { return false }

func newPipeline(engine ocr.Engine, probe func() bool, detector langdetect.Detector) *Pipeline {
	return New(ocr.NewWithEngine(engine, probe, time.Second, 1), detector)
}

func loadImage(t *testing.T, name string, data []byte) *imagefile.Image {
	t.Helper()
	img, err := imagefile.Load(name, data)
	require.NoError(t, err)
	return img
}

func TestAnalyzeFullImage(t *testing.T) {
	tiffData := testutil.BuildTIFF([]testutil.TIFFEntry{
		testutil.Ascii(0x0110, "Pixel 7"),
	}, testutil.ParisGPSEntries())
	withIPTC := testutil.InsertJPEGSegment(
		testutil.ExifJPEG(tiffData), 0xED,
		testutil.BuildAPP13([]testutil.IIMDataset{{Dataset: 25, Value: "paris"}}),
	)
	img := loadImage(t, "paris.jpg", withIPTC)

	engine := &MockEngine{}
	engine.On("Recognize", mock.Anything, mock.Anything).Return("Café de Flore", nil)
	detector := &MockDetector{}
	detector.On("Detect", "Café de Flore").Return(&langdetect.Guess{Code: "fra", Confidence: 0.8})

	rec := newPipeline(engine, engineUp, detector).Analyze(context.Background(), img, Options{OCR: true, Language: true})

	require.NotNil(t, rec.Exif)
	assert.Equal(t, "Pixel 7", rec.Exif.Fields["Model"].String())
	require.NotNil(t, rec.GPS)
	assert.InDelta(t, 48.8548167, rec.GPS.Latitude, 1e-6)
	assert.InDelta(t, 2.3507, rec.GPS.Longitude, 1e-6)
	require.NotNil(t, rec.IPTC)
	assert.Contains(t, rec.IPTC, "Keywords")
	assert.Equal(t, "Café de Flore", rec.OCR.Text)
	assert.True(t, rec.OCR.EngineAvailable)
	require.NotNil(t, rec.Language)
	assert.Equal(t, "fra", rec.Language.Code)
}

func TestAnalyzeModelWithoutGPS(t *testing.T) {
	tiffData := testutil.BuildTIFF([]testutil.TIFFEntry{
		testutil.Ascii(0x0110, "Pixel 7"),
	}, nil)
	img := loadImage(t, "nogps.jpg", testutil.ExifJPEG(tiffData))

	rec := newPipeline(&MockEngine{}, engineDown, &MockDetector{}).Analyze(context.Background(), img, Options{})

	require.NotNil(t, rec.Exif)
	assert.Equal(t, "Pixel 7", rec.Exif.Fields["Model"].String())
	assert.Nil(t, rec.GPS)
}

func TestAnalyzeMetadataFreeImageKeepsSchema(t *testing.T) {
	img := loadImage(t, "plain.png", testutil.BasePNG())

	rec := newPipeline(&MockEngine{}, engineDown, &MockDetector{}).Analyze(context.Background(), img, Options{OCR: true, Language: true})

	assert.Nil(t, rec.Exif)
	assert.Nil(t, rec.GPS)
	assert.Nil(t, rec.IPTC)
	assert.Nil(t, rec.Language)
	assert.False(t, rec.OCR.EngineAvailable)

	raw, err := rec.Marshal()
	require.NoError(t, err)
	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &decoded))
	for _, key := range []string{"image", "exif", "gps", "iptc", "ocr", "language"} {
		assert.Contains(t, decoded, key)
	}
}

func TestAnalyzeOCRDisabledSkipsEngineAndDetector(t *testing.T) {
	img := loadImage(t, "plain.jpg", testutil.BaseJPEG())

	engine := &MockEngine{}
	detector := &MockDetector{}

	rec := newPipeline(engine, engineUp, detector).Analyze(context.Background(), img, Options{OCR: false, Language: true})

	engine.AssertNumberOfCalls(t, "Recognize", 0)
	detector.AssertNumberOfCalls(t, "Detect", 0)
	assert.Equal(t, "", rec.OCR.Text)
	// Capability still surfaces so callers can tell disabled from missing.
	assert.True(t, rec.OCR.EngineAvailable)
	assert.Nil(t, rec.Language)
}

func TestAnalyzeEmptyOCRTextNeverInvokesDetector(t *testing.T) {
	img := loadImage(t, "plain.jpg", testutil.BaseJPEG())

	engine := &MockEngine{}
	engine.On("Recognize", mock.Anything, mock.Anything).Return("", nil)
	detector := &MockDetector{}

	rec := newPipeline(engine, engineUp, detector).Analyze(context.Background(), img, Options{OCR: true, Language: true})

	detector.AssertNumberOfCalls(t, "Detect", 0)
	assert.True(t, rec.OCR.EngineAvailable)
	assert.Nil(t, rec.Language)
}

func TestAnalyzeUnavailableEngineMeansLanguageAbsent(t *testing.T) {
	img := loadImage(t, "plain.jpg", testutil.BaseJPEG())

	engine := &MockEngine{}
	detector := &MockDetector{}

	rec := newPipeline(engine, engineDown, detector).Analyze(context.Background(), img, Options{OCR: true, Language: true})

	engine.AssertNumberOfCalls(t, "Recognize", 0)
	detector.AssertNumberOfCalls(t, "Detect", 0)
	assert.False(t, rec.OCR.EngineAvailable)
	assert.Nil(t, rec.Language)
}

func TestAnalyzeLanguageDisabled(t *testing.T) {
	img := loadImage(t, "plain.jpg", testutil.BaseJPEG())

	engine := &MockEngine{}
	engine.On("Recognize", mock.Anything, mock.Anything).Return("some recognized text", nil)
	detector := &MockDetector{}

	rec := newPipeline(engine, engineUp, detector).Analyze(context.Background(), img, Options{OCR: true, Language: false})

	detector.AssertNumberOfCalls(t, "Detect", 0)
	assert.Equal(t, "some recognized text", rec.OCR.Text)
	assert.Nil(t, rec.Language)
}
