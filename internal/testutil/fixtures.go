// internal/testutil/fixtures.go
//
// Hand-built binary fixtures for the metadata extractors: raw TIFF
// streams with optional GPS sub-IFDs, runtime-encoded JPEG/PNG images,
// and crafted APP1/APP13 segments. Only test code uses this package.
package testutil

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
)

// TIFF field types used by the fixtures.
const (
	typeASCII    = 2
	typeShort    = 3
	typeLong     = 4
	typeRational = 5
	typeUndef    = 7
)

// TIFFEntry is one IFD entry with its raw value bytes.
type TIFFEntry struct {
	Tag   uint16
	Type  uint16
	Count uint32
	Data  []byte
}

// Ascii builds a NUL-terminated ASCII entry.
func Ascii(tag uint16, s string) TIFFEntry {
	data := append([]byte(s), 0)
	return TIFFEntry{Tag: tag, Type: typeASCII, Count: uint32(len(data)), Data: data}
}

// Short builds a SHORT entry.
func Short(tag uint16, vals ...uint16) TIFFEntry {
	data := make([]byte, 2*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint16(data[2*i:], v)
	}
	return TIFFEntry{Tag: tag, Type: typeShort, Count: uint32(len(vals)), Data: data}
}

// Rational builds a RATIONAL entry from numerator/denominator pairs.
func Rational(tag uint16, pairs ...[2]uint32) TIFFEntry {
	data := make([]byte, 8*len(pairs))
	for i, p := range pairs {
		binary.LittleEndian.PutUint32(data[8*i:], p[0])
		binary.LittleEndian.PutUint32(data[8*i+4:], p[1])
	}
	return TIFFEntry{Tag: tag, Type: typeRational, Count: uint32(len(pairs)), Data: data}
}

// Undefined builds an UNDEFINED entry carrying raw bytes.
func Undefined(tag uint16, raw []byte) TIFFEntry {
	return TIFFEntry{Tag: tag, Type: typeUndef, Count: uint32(len(raw)), Data: raw}
}

func extSize(entries []TIFFEntry) int {
	n := 0
	for _, e := range entries {
		if len(e.Data) > 4 {
			n += len(e.Data)
		}
	}
	return n
}

func writeIFD(buf *bytes.Buffer, entries []TIFFEntry, valueOffset int) {
	var values bytes.Buffer
	binary.Write(buf, binary.LittleEndian, uint16(len(entries)))
	for _, e := range entries {
		binary.Write(buf, binary.LittleEndian, e.Tag)
		binary.Write(buf, binary.LittleEndian, e.Type)
		binary.Write(buf, binary.LittleEndian, e.Count)
		if len(e.Data) <= 4 {
			padded := make([]byte, 4)
			copy(padded, e.Data)
			buf.Write(padded)
		} else {
			binary.Write(buf, binary.LittleEndian, uint32(valueOffset+values.Len()))
			values.Write(e.Data)
		}
	}
	binary.Write(buf, binary.LittleEndian, uint32(0)) // no next IFD
	buf.Write(values.Bytes())
}

// BuildTIFF assembles a little-endian TIFF stream with the given IFD0
// entries and an optional GPS sub-IFD, readable by goexif.
func BuildTIFF(entries []TIFFEntry, gpsEntries []TIFFEntry) []byte {
	ifd0 := entries
	n0 := len(entries)
	if len(gpsEntries) > 0 {
		n0++
	}
	ifd0End := 8 + 2 + 12*n0 + 4
	gpsOffset := ifd0End + extSize(entries)

	if len(gpsEntries) > 0 {
		ptr := make([]byte, 4)
		binary.LittleEndian.PutUint32(ptr, uint32(gpsOffset))
		ifd0 = append(append([]TIFFEntry{}, entries...), TIFFEntry{
			Tag: 0x8825, Type: typeLong, Count: 1, Data: ptr,
		})
	}

	buf := new(bytes.Buffer)
	buf.WriteString("II")
	binary.Write(buf, binary.LittleEndian, uint16(42))
	binary.Write(buf, binary.LittleEndian, uint32(8))
	writeIFD(buf, ifd0, ifd0End)

	if len(gpsEntries) > 0 {
		gpsValueOffset := gpsOffset + 2 + 12*len(gpsEntries) + 4
		writeIFD(buf, gpsEntries, gpsValueOffset)
	}
	return buf.Bytes()
}

// ParisGPSEntries returns the GPS sub-IFD for a Paris-area position:
// 48 deg 51' 17.34" N, 2 deg 21' 2.52" E.
func ParisGPSEntries() []TIFFEntry {
	return []TIFFEntry{
		Ascii(0x0001, "N"),
		Rational(0x0002, [2]uint32{48, 1}, [2]uint32{51, 1}, [2]uint32{1734, 100}),
		Ascii(0x0003, "E"),
		Rational(0x0004, [2]uint32{2, 1}, [2]uint32{21, 1}, [2]uint32{252, 100}),
	}
}

// BaseJPEG encodes a small solid-color JPEG at runtime.
func BaseJPEG() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = 0x80
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// BasePNG encodes a small solid-color PNG at runtime.
func BasePNG() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: 0x20, G: 0x40, B: 0x60, A: 0xFF})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// InsertJPEGSegment splices an application segment right after SOI.
func InsertJPEGSegment(jpegData []byte, marker byte, payload []byte) []byte {
	out := make([]byte, 0, len(jpegData)+len(payload)+4)
	out = append(out, jpegData[:2]...)
	out = append(out, 0xFF, marker)
	length := make([]byte, 2)
	binary.BigEndian.PutUint16(length, uint16(len(payload)+2))
	out = append(out, length...)
	out = append(out, payload...)
	out = append(out, jpegData[2:]...)
	return out
}

// ExifJPEG wraps a TIFF stream in an APP1 segment of a decodable JPEG.
func ExifJPEG(tiffData []byte) []byte {
	payload := append([]byte("Exif\x00\x00"), tiffData...)
	return InsertJPEGSegment(BaseJPEG(), 0xE1, payload)
}

// IIMDataset is one IPTC record 2 dataset for BuildAPP13.
type IIMDataset struct {
	Dataset byte
	Value   string
}

// BuildAPP13 wraps IIM datasets in a Photoshop 8BIM resource block,
// the payload of a JPEG APP13 segment.
func BuildAPP13(datasets []IIMDataset) []byte {
	var iim bytes.Buffer
	for _, d := range datasets {
		iim.WriteByte(0x1C)
		iim.WriteByte(2)
		iim.WriteByte(d.Dataset)
		length := make([]byte, 2)
		binary.BigEndian.PutUint16(length, uint16(len(d.Value)))
		iim.Write(length)
		iim.WriteString(d.Value)
	}

	var buf bytes.Buffer
	buf.WriteString("Photoshop 3.0\x00")
	buf.WriteString("8BIM")
	binary.Write(&buf, binary.BigEndian, uint16(0x0404))
	buf.Write([]byte{0, 0}) // empty pascal name, padded
	binary.Write(&buf, binary.BigEndian, uint32(iim.Len()))
	buf.Write(iim.Bytes())
	if iim.Len()%2 != 0 {
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

// IPTCJPEG wraps IIM datasets in the APP13 segment of a decodable JPEG.
func IPTCJPEG(datasets []IIMDataset) []byte {
	return InsertJPEGSegment(BaseJPEG(), 0xED, BuildAPP13(datasets))
}
