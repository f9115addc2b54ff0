package exif

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SmitNfsu/image-metadata-analyzer/internal/testutil"
)

func TestExtractTagTable(t *testing.T) {
	tiffData := testutil.BuildTIFF([]testutil.TIFFEntry{
		testutil.Ascii(0x010F, "Google"),
		testutil.Ascii(0x0110, "Pixel 7"),
		testutil.Short(0x0112, 1),
	}, nil)

	d := Extract(tiffData)
	require.NotNil(t, d)

	assert.Equal(t, "Google", d.Fields["Make"].String())
	assert.Equal(t, "Pixel 7", d.Fields["Model"].String())
	assert.Equal(t, KindNumber, d.Fields["Orientation"].Kind)
	assert.Nil(t, d.GPS, "no GPS tags means no GPS block")
}

func TestExtractFromJPEG(t *testing.T) {
	tiffData := testutil.BuildTIFF([]testutil.TIFFEntry{
		testutil.Ascii(0x0110, "Pixel 7"),
	}, testutil.ParisGPSEntries())

	d := Extract(testutil.ExifJPEG(tiffData))
	require.NotNil(t, d)
	assert.Equal(t, "Pixel 7", d.Fields["Model"].String())
	require.NotNil(t, d.GPS)

	triple, ok := d.GPS.Rationals("GPSLatitude")
	require.True(t, ok)
	assert.Equal(t, Rational{Num: 48, Den: 1}, triple[0])
	assert.Equal(t, Rational{Num: 1734, Den: 100}, triple[2])

	ref, ok := d.GPS.Ref("GPSLongitudeRef")
	require.True(t, ok)
	assert.Equal(t, "E", ref)
}

func TestExtractRoutesGPSFieldsOutOfTopLevel(t *testing.T) {
	tiffData := testutil.BuildTIFF([]testutil.TIFFEntry{
		testutil.Ascii(0x0110, "Pixel 7"),
	}, testutil.ParisGPSEntries())

	d := Extract(tiffData)
	require.NotNil(t, d)
	require.NotNil(t, d.GPS)

	for name := range d.Fields {
		assert.NotContains(t, name, "GPS", "GPS fields must not be flattened into the tag table")
	}
	assert.Contains(t, d.GPS.Fields, "GPSLatitude")
}

func TestExtractUnknownTagsDropped(t *testing.T) {
	tiffData := testutil.BuildTIFF([]testutil.TIFFEntry{
		testutil.Ascii(0x0110, "Pixel 7"),
		testutil.Short(0xEEEE, 42), // not a registered EXIF tag
	}, nil)

	d := Extract(tiffData)
	require.NotNil(t, d)
	assert.Len(t, d.Fields, 1)
	assert.Contains(t, d.Fields, "Model")
}

func TestExtractNoExifBlock(t *testing.T) {
	assert.Nil(t, Extract(testutil.BaseJPEG()))
}

func TestExtractMalformedBlock(t *testing.T) {
	// Announces EXIF but carries garbage instead of a TIFF stream.
	payload := append([]byte("Exif\x00\x00"), []byte("not a tiff stream")...)
	data := testutil.InsertJPEGSegment(testutil.BaseJPEG(), 0xE1, payload)

	assert.Nil(t, Extract(data))
}

func TestExtractGarbageInput(t *testing.T) {
	assert.Nil(t, Extract([]byte("definitely not an image")))
	assert.Nil(t, Extract(nil))
}

func TestDataMarshalNestsGPSInfo(t *testing.T) {
	tiffData := testutil.BuildTIFF([]testutil.TIFFEntry{
		testutil.Ascii(0x0110, "Pixel 7"),
	}, testutil.ParisGPSEntries())

	d := Extract(tiffData)
	require.NotNil(t, d)

	raw, err := json.Marshal(d)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, "Pixel 7", decoded["Model"])
	gpsInfo, ok := decoded["GPSInfo"].(map[string]interface{})
	require.True(t, ok, "GPS sub-block must serialize as a nested entry")
	assert.Equal(t, "N", gpsInfo["GPSLatitudeRef"])
	assert.Equal(t, []interface{}{"48/1", "51/1", "1734/100"}, gpsInfo["GPSLatitude"])
}
