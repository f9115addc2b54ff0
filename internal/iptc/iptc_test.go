package iptc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SmitNfsu/image-metadata-analyzer/internal/testutil"
)

func TestExtractEditorialFields(t *testing.T) {
	data := testutil.IPTCJPEG([]testutil.IIMDataset{
		{Dataset: 120, Value: "A street in Paris"},
		{Dataset: 80, Value: "Jane Doe"},
		{Dataset: 110, Value: "Some Agency"},
	})

	rec := Extract(data)
	require.NotNil(t, rec)

	assert.Equal(t, Field{"A street in Paris"}, rec["Caption-Abstract"])
	assert.Equal(t, Field{"Jane Doe"}, rec["By-line"])
	assert.Equal(t, Field{"Some Agency"}, rec["Credit"])
}

func TestExtractRepeatableKeywords(t *testing.T) {
	data := testutil.IPTCJPEG([]testutil.IIMDataset{
		{Dataset: 25, Value: "paris"},
		{Dataset: 25, Value: "street"},
		{Dataset: 25, Value: "night"},
	})

	rec := Extract(data)
	require.NotNil(t, rec)
	assert.Equal(t, Field{"paris", "street", "night"}, rec["Keywords"])
}

func TestExtractUnknownDatasetFallbackName(t *testing.T) {
	data := testutil.IPTCJPEG([]testutil.IIMDataset{
		{Dataset: 250, Value: "mystery"},
	})

	rec := Extract(data)
	require.NotNil(t, rec)
	assert.Equal(t, Field{"mystery"}, rec["Dataset2:250"])
}

func TestExtractNoBlockIsSilentlyAbsent(t *testing.T) {
	assert.Nil(t, Extract(testutil.BaseJPEG()))
	assert.Nil(t, Extract(testutil.BasePNG()))
	assert.Nil(t, Extract(nil))
}

func TestExtractCorruptBlock(t *testing.T) {
	// A Photoshop header followed by a bad resource signature.
	payload := append([]byte("Photoshop 3.0\x00"), []byte("XXXX............")...)
	data := testutil.InsertJPEGSegment(testutil.BaseJPEG(), 0xED, payload)

	assert.Nil(t, Extract(data))
}

func TestExtractTruncatedDataset(t *testing.T) {
	app13 := testutil.BuildAPP13([]testutil.IIMDataset{
		{Dataset: 120, Value: "caption"},
	})
	// Chop the tail of the dataset value off.
	data := testutil.InsertJPEGSegment(testutil.BaseJPEG(), 0xED, app13[:len(app13)-4])

	assert.Nil(t, Extract(data))
}

func TestFieldMarshalJSON(t *testing.T) {
	single, err := json.Marshal(Field{"one"})
	require.NoError(t, err)
	assert.Equal(t, `"one"`, string(single))

	multi, err := json.Marshal(Field{"one", "two"})
	require.NoError(t, err)
	assert.Equal(t, `["one","two"]`, string(multi))
}
