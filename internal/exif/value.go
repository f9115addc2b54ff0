package exif

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Kind identifies the shape of a captured tag value.
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindRational
	KindBytes
)

// Rational is an unconverted numerator/denominator pair as stored in the
// tag table. The denominator may be zero; conversion decides what that means.
type Rational struct {
	Num int64
	Den int64
}

func (r Rational) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// Value is a closed variant over the value shapes a tag can carry. Type
// information survives until serialization, where everything is rendered
// as printable JSON scalars or arrays.
type Value struct {
	Kind      Kind
	Text      string
	Numbers   []float64
	Rationals []Rational
	Bytes     []byte
}

func TextValue(s string) Value {
	return Value{Kind: KindText, Text: s}
}

func NumberValue(nums ...float64) Value {
	return Value{Kind: KindNumber, Numbers: nums}
}

func RationalValue(rats ...Rational) Value {
	return Value{Kind: KindRational, Rationals: rats}
}

func BytesValue(b []byte) Value {
	return Value{Kind: KindBytes, Bytes: b}
}

// String renders the value as printable text.
func (v Value) String() string {
	switch v.Kind {
	case KindText:
		return v.Text
	case KindNumber:
		if len(v.Numbers) == 1 {
			return strconv.FormatFloat(v.Numbers[0], 'f', -1, 64)
		}
		parts := make([]string, len(v.Numbers))
		for i, n := range v.Numbers {
			parts[i] = strconv.FormatFloat(n, 'f', -1, 64)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindRational:
		if len(v.Rationals) == 1 {
			return v.Rationals[0].String()
		}
		parts := make([]string, len(v.Rationals))
		for i, r := range v.Rationals {
			parts[i] = r.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindBytes:
		return renderBytes(v.Bytes)
	}
	return ""
}

// MarshalJSON keeps single values scalar and multi-values as arrays;
// rationals render as "num/den" strings, undecodable bytes as hex.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindText:
		return json.Marshal(v.Text)
	case KindNumber:
		if len(v.Numbers) == 1 {
			return json.Marshal(v.Numbers[0])
		}
		return json.Marshal(v.Numbers)
	case KindRational:
		if len(v.Rationals) == 1 {
			return json.Marshal(v.Rationals[0].String())
		}
		parts := make([]string, len(v.Rationals))
		for i, r := range v.Rationals {
			parts[i] = r.String()
		}
		return json.Marshal(parts)
	case KindBytes:
		return json.Marshal(renderBytes(v.Bytes))
	}
	return json.Marshal(nil)
}

// renderBytes decodes byte payloads that are really text (ExifVersion,
// comment blocks); anything else becomes a hex string.
func renderBytes(b []byte) string {
	s := strings.TrimRight(string(b), "\x00")
	if s != "" && utf8.ValidString(s) && isPrintable(s) {
		return s
	}
	return "0x" + hex.EncodeToString(b)
}

func isPrintable(s string) bool {
	for _, r := range s {
		if !unicode.IsPrint(r) && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
