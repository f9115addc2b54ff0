// internal/gps/gps.go
package gps

import (
	"math"

	"github.com/SmitNfsu/image-metadata-analyzer/internal/exif"
	"github.com/SmitNfsu/image-metadata-analyzer/internal/logger"
	"github.com/SmitNfsu/image-metadata-analyzer/pkg/common"
)

// Coordinate is a decoded GPS position in signed decimal degrees.
// Both values are finite by construction; latitude is within [-90, 90]
// and longitude within [-180, 180].
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Convert turns a degree/minute/second rational triple plus a
// hemisphere reference into signed decimal degrees, rounded to seven
// decimal places. A zero denominator anywhere in the triple is a
// ConversionError; a silent zero would be a plausible but wrong
// coordinate on the equator or prime meridian.
func Convert(triple [3]exif.Rational, ref string) (float64, error) {
	var parts [3]float64
	for i, r := range triple {
		if r.Den == 0 {
			return 0, common.NewConversionError(ref, "zero denominator in rational "+r.String())
		}
		parts[i] = float64(r.Num) / float64(r.Den)
	}

	deg := parts[0] + parts[1]/60 + parts[2]/3600
	deg = math.Round(deg*1e7) / 1e7

	var limit float64
	switch ref {
	case "N", "S":
		limit = 90
	case "E", "W":
		limit = 180
	default:
		return 0, common.NewConversionError(ref, "unknown hemisphere reference")
	}

	if ref == "S" || ref == "W" {
		deg = -deg
	}
	if math.IsNaN(deg) || math.Abs(deg) > limit {
		return 0, common.NewConversionError(ref, "decoded value out of range")
	}
	return deg, nil
}

// Decode builds a coordinate from the raw GPS sub-block. It requires
// both rational triples and both hemisphere references; any missing
// piece or failed conversion means the coordinate is absent, never a
// zero/default position.
func Decode(block *exif.GPSBlock) *Coordinate {
	if block == nil {
		return nil
	}

	latTriple, ok := block.Rationals("GPSLatitude")
	if !ok {
		logger.Debug("GPS block has no latitude triple")
		return nil
	}
	latRef, ok := block.Ref("GPSLatitudeRef")
	if !ok {
		logger.Debug("GPS block has no latitude reference")
		return nil
	}
	lonTriple, ok := block.Rationals("GPSLongitude")
	if !ok {
		logger.Debug("GPS block has no longitude triple")
		return nil
	}
	lonRef, ok := block.Ref("GPSLongitudeRef")
	if !ok {
		logger.Debug("GPS block has no longitude reference")
		return nil
	}

	lat, err := Convert(latTriple, latRef)
	if err != nil {
		logConvertFailure("latitude", err)
		return nil
	}
	lon, err := Convert(lonTriple, lonRef)
	if err != nil {
		logConvertFailure("longitude", err)
		return nil
	}

	return &Coordinate{Latitude: lat, Longitude: lon}
}

// logConvertFailure warns on conversion faults, which point at corrupt
// GPS rationals in the image. Anything else would be a programming
// error and is logged at error level so it is not missed.
func logConvertFailure(axis string, err error) {
	if common.IsConversionError(err) {
		logger.Warn("GPS %s conversion failed: %v", axis, err)
		return
	}
	logger.Error("GPS %s conversion failed unexpectedly: %v", axis, err)
}
