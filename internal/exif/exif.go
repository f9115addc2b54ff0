// internal/exif/exif.go
package exif

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"
	"github.com/rwcarlsen/goexif/tiff"

	"github.com/SmitNfsu/image-metadata-analyzer/internal/logger"
	"github.com/SmitNfsu/image-metadata-analyzer/pkg/common"
)

// Record maps human-readable tag names to captured values. Tag IDs that
// goexif does not know stay out of the record entirely.
type Record map[string]Value

// GPSBlock holds the raw GPS sub-IFD, isolated from the rest of the tag
// table. It is serialized as a single nested entry and handed to the
// GPS decoder unconverted.
type GPSBlock struct {
	Fields Record
}

// Data represents extracted EXIF metadata: the tag table without its
// GPS fields, plus the GPS sub-block when one is present.
type Data struct {
	Fields Record
	GPS    *GPSBlock
}

var exifIntro = []byte("Exif\x00\x00")

var registerOnce sync.Once

func registerParsers() {
	registerOnce.Do(func() {
		exif.RegisterParsers(mknote.All...)
	})
}

// Extract reads the EXIF tag table from raw image bytes. A missing
// block yields nil silently; a block that announces itself but cannot
// be parsed is malformed and also yields nil, with a warning. Extract
// never fails the request.
func Extract(data []byte) (d *Data) {
	registerParsers()

	defer func() {
		if r := recover(); r != nil {
			logger.Warn("Recovered: %v", common.NewMalformedDataError("EXIF", fmt.Errorf("decoder panic: %v", r)))
			d = nil
		}
	}()

	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		if bytes.Contains(data, exifIntro) || isTIFF(data) {
			logger.Warn("Recovered: %v", common.NewMalformedDataError("EXIF", err))
		} else {
			logger.Debug("No EXIF block present")
		}
		return nil
	}

	w := &walker{fields: Record{}, gps: Record{}}
	if err := x.Walk(w); err != nil {
		logger.Warn("Recovered: %v", common.NewMalformedDataError("EXIF", err))
		return nil
	}

	d = &Data{Fields: w.fields}
	if len(w.gps) > 0 {
		d.GPS = &GPSBlock{Fields: w.gps}
	}
	return d
}

func isTIFF(data []byte) bool {
	return len(data) >= 4 &&
		(bytes.Equal(data[:4], []byte("II*\x00")) || bytes.Equal(data[:4], []byte("MM\x00*")))
}

// walker routes GPS-prefixed fields into their own record and captures
// everything else into the top-level one.
type walker struct {
	fields Record
	gps    Record
}

func (w *walker) Walk(name exif.FieldName, tag *tiff.Tag) error {
	v := capture(tag)
	if strings.HasPrefix(string(name), "GPS") {
		w.gps[string(name)] = v
	} else {
		w.fields[string(name)] = v
	}
	return nil
}

// capture converts a TIFF tag into the tagged variant by format class.
func capture(tag *tiff.Tag) Value {
	n := int(tag.Count)

	switch tag.Format() {
	case tiff.StringVal:
		if s, err := tag.StringVal(); err == nil {
			return TextValue(strings.TrimRight(s, "\x00"))
		}
	case tiff.IntVal:
		nums := make([]float64, 0, n)
		for i := 0; i < n; i++ {
			v, err := tag.Int64(i)
			if err != nil {
				break
			}
			nums = append(nums, float64(v))
		}
		if len(nums) == n {
			return NumberValue(nums...)
		}
	case tiff.FloatVal:
		nums := make([]float64, 0, n)
		for i := 0; i < n; i++ {
			v, err := tag.Float(i)
			if err != nil {
				break
			}
			nums = append(nums, v)
		}
		if len(nums) == n {
			return NumberValue(nums...)
		}
	case tiff.RatVal:
		rats := make([]Rational, 0, n)
		for i := 0; i < n; i++ {
			num, den, err := tag.Rat2(i)
			if err != nil {
				break
			}
			rats = append(rats, Rational{Num: num, Den: den})
		}
		if len(rats) == n {
			return RationalValue(rats...)
		}
	}

	// Undefined and other formats carry raw bytes.
	return BytesValue(tag.Val)
}

// Rationals returns the named GPS field as a degree/minute/second
// triple, reporting false when the field is missing or not three
// rationals.
func (b *GPSBlock) Rationals(name string) ([3]Rational, bool) {
	var triple [3]Rational
	if b == nil {
		return triple, false
	}
	v, ok := b.Fields[name]
	if !ok || v.Kind != KindRational || len(v.Rationals) != 3 {
		return triple, false
	}
	copy(triple[:], v.Rationals)
	return triple, true
}

// Ref returns the named hemisphere reference field as text.
func (b *GPSBlock) Ref(name string) (string, bool) {
	if b == nil {
		return "", false
	}
	v, ok := b.Fields[name]
	if !ok {
		return "", false
	}
	s := strings.TrimSpace(v.String())
	if s == "" {
		return "", false
	}
	return s, true
}

// MarshalJSON renders the tag table with the GPS sub-block as a nested
// "GPSInfo" entry rather than flattened into the top-level fields.
func (d *Data) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(d.Fields)+1)
	for k, v := range d.Fields {
		out[k] = v
	}
	if d.GPS != nil {
		out["GPSInfo"] = d.GPS.Fields
	}
	return json.Marshal(out)
}
