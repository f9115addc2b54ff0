// internal/imagefile/imagefile.go
package imagefile

import (
	"bytes"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/SmitNfsu/image-metadata-analyzer/pkg/common"
)

// Info describes the decoded input image. It is serialized as the
// supplemental "image" section of the metadata record.
type Info struct {
	FileName  string `json:"file_name"`
	Format    string `json:"format"`
	MIMEType  string `json:"mime_type"`
	Mode      string `json:"mode"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	SizeBytes int64  `json:"size_bytes"`
}

// Image is the pipeline input: the raw bytes (metadata blocks intact)
// plus the decoded image info. The pipeline only reads it.
type Image struct {
	Data []byte
	Info Info
}

var mimeTypes = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"tiff": "image/tiff",
	"webp": "image/webp",
}

// Load validates and decodes raw image bytes. Supported formats are
// JPEG, PNG, TIFF and WEBP; anything else, or a stream that fails to
// decode, is a DecodeError - the only failure the pipeline propagates.
func Load(name string, data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, common.NewDecodeError("empty input", nil)
	}
	if format := sniffFormat(data); format == "" {
		return nil, common.NewDecodeError("unsupported image format (want JPEG, PNG, TIFF or WEBP)", nil)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, common.NewDecodeError("cannot decode image", err)
	}

	return &Image{
		Data: data,
		Info: Info{
			FileName:  name,
			Format:    format,
			MIMEType:  mimeTypes[format],
			Mode:      modeName(cfg.ColorModel),
			Width:     cfg.Width,
			Height:    cfg.Height,
			SizeBytes: int64(len(data)),
		},
	}, nil
}

// sniffFormat checks the magic bytes of the supported formats. The
// registered decoders do their own validation; this only rules out
// formats we do not accept at all.
func sniffFormat(data []byte) string {
	switch {
	case len(data) >= 3 && bytes.Equal(data[:3], []byte{0xFF, 0xD8, 0xFF}):
		return "jpeg"
	case len(data) >= 8 && bytes.Equal(data[:8], []byte("\x89PNG\r\n\x1a\n")):
		return "png"
	case len(data) >= 4 && (bytes.Equal(data[:4], []byte("II*\x00")) || bytes.Equal(data[:4], []byte("MM\x00*"))):
		return "tiff"
	case len(data) >= 12 && bytes.Equal(data[:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
		return "webp"
	}
	return ""
}

func modeName(m color.Model) string {
	switch m {
	case color.GrayModel:
		return "L"
	case color.Gray16Model:
		return "L16"
	case color.RGBAModel, color.RGBA64Model:
		return "RGBA"
	case color.NRGBAModel, color.NRGBA64Model:
		return "RGBA"
	case color.YCbCrModel:
		return "RGB"
	case color.CMYKModel:
		return "CMYK"
	}
	if _, ok := m.(color.Palette); ok {
		return "P"
	}
	return "RGB"
}
