// internal/iptc/iptc.go
package iptc

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/SmitNfsu/image-metadata-analyzer/internal/logger"
	"github.com/SmitNfsu/image-metadata-analyzer/pkg/common"
)

// Field holds the values of one IPTC dataset. Repeatable datasets such
// as Keywords accumulate; single-value datasets hold one entry.
type Field []string

// MarshalJSON renders single values as strings and repeated values as
// arrays, matching how the datasets are defined in IIM.
func (f Field) MarshalJSON() ([]byte, error) {
	if len(f) == 1 {
		return json.Marshal(f[0])
	}
	return json.Marshal([]string(f))
}

// Record maps IPTC field names to their values. A nil record means the
// image carries no IPTC block, which is the common case.
type Record map[string]Field

// Record 2 (application record) dataset names per the IPTC-IIM spec.
var datasetNames = map[byte]string{
	5:   "ObjectName",
	10:  "Urgency",
	15:  "Category",
	20:  "SupplementalCategories",
	25:  "Keywords",
	40:  "SpecialInstructions",
	55:  "DateCreated",
	60:  "TimeCreated",
	80:  "By-line",
	85:  "By-lineTitle",
	90:  "City",
	92:  "Sub-location",
	95:  "Province-State",
	100: "Country-PrimaryLocationCode",
	101: "Country-PrimaryLocationName",
	103: "OriginalTransmissionReference",
	105: "Headline",
	110: "Credit",
	115: "Source",
	116: "CopyrightNotice",
	120: "Caption-Abstract",
	122: "Writer-Editor",
}

var psHeader = []byte("Photoshop 3.0\x00")

// Extract reads IPTC-IIM datasets from the JPEG APP13 segment. Most
// images carry no IPTC at all, so a missing segment, resource or
// record yields nil silently; only a structurally corrupt block is
// logged as malformed. Extract never fails the request.
func Extract(data []byte) Record {
	segments, err := app13Segments(data)
	if err != nil {
		logger.Warn("Recovered: %v", common.NewMalformedDataError("IPTC", err))
		return nil
	}
	if len(segments) == 0 {
		logger.Debug("No IPTC block present")
		return nil
	}

	rec := Record{}
	for _, seg := range segments {
		iim, err := iptcResource(seg)
		if err != nil {
			logger.Warn("Recovered: %v", common.NewMalformedDataError("IPTC", err))
			return nil
		}
		if iim == nil {
			continue
		}
		if err := parseDatasets(iim, rec); err != nil {
			logger.Warn("Recovered: %v", common.NewMalformedDataError("IPTC", err))
			return nil
		}
	}

	if len(rec) == 0 {
		return nil
	}
	return rec
}

// app13Segments walks the JPEG marker stream and collects the payloads
// of every APP13 segment carrying Photoshop resources. Non-JPEG input
// has no IPTC-IIM carrier and returns nothing.
func app13Segments(data []byte) ([][]byte, error) {
	if len(data) < 2 || data[0] != 0xFF || data[1] != 0xD8 {
		return nil, nil
	}

	var segments [][]byte
	off := 2
	for off+4 <= len(data) {
		if data[off] != 0xFF {
			// Not a marker; the metadata segments all precede scan
			// data, so stop walking.
			break
		}
		marker := data[off+1]
		if marker == 0xD9 || marker == 0xDA { // EOI / SOS
			break
		}
		// Standalone markers have no length field.
		if marker == 0x01 || (marker >= 0xD0 && marker <= 0xD7) {
			off += 2
			continue
		}
		if off+4 > len(data) {
			break
		}
		length := int(binary.BigEndian.Uint16(data[off+2 : off+4]))
		if length < 2 || off+2+length > len(data) {
			return nil, fmt.Errorf("segment 0x%02X at offset %d overruns the stream", marker, off)
		}
		if marker == 0xED { // APP13
			payload := data[off+4 : off+2+length]
			if bytes.HasPrefix(payload, psHeader) {
				segments = append(segments, payload[len(psHeader):])
			}
		}
		off += 2 + length
	}
	return segments, nil
}

// iptcResource scans the Photoshop 8BIM resource list for resource
// 0x0404, the IPTC-IIM datasets.
func iptcResource(data []byte) ([]byte, error) {
	off := 0
	for off+12 <= len(data) {
		if !bytes.Equal(data[off:off+4], []byte("8BIM")) {
			return nil, fmt.Errorf("bad resource signature at offset %d", off)
		}
		id := binary.BigEndian.Uint16(data[off+4 : off+6])
		off += 6

		// Pascal name, padded to even length.
		nameLen := int(data[off])
		off += 1 + nameLen
		if (nameLen+1)%2 != 0 {
			off++
		}
		if off+4 > len(data) {
			return nil, fmt.Errorf("truncated resource header")
		}
		size := int(binary.BigEndian.Uint32(data[off : off+4]))
		off += 4
		if off+size > len(data) {
			return nil, fmt.Errorf("resource 0x%04X overruns the block", id)
		}
		if id == 0x0404 {
			return data[off : off+size], nil
		}
		off += size
		if size%2 != 0 {
			off++
		}
	}
	return nil, nil
}

// parseDatasets decodes the IIM dataset stream into the record. Only
// record 2 (the application record) carries the editorial fields;
// other records are skipped.
func parseDatasets(data []byte, rec Record) error {
	off := 0
	for off+5 <= len(data) {
		if data[off] != 0x1C {
			return fmt.Errorf("bad dataset marker 0x%02X at offset %d", data[off], off)
		}
		recordNum := data[off+1]
		dataset := data[off+2]
		length := int(binary.BigEndian.Uint16(data[off+3 : off+5]))
		off += 5
		if length&0x8000 != 0 {
			return fmt.Errorf("extended dataset length not supported")
		}
		if off+length > len(data) {
			return fmt.Errorf("dataset 0x%02X overruns the block", dataset)
		}
		if recordNum == 2 {
			name, ok := datasetNames[dataset]
			if !ok {
				name = fmt.Sprintf("Dataset2:%d", dataset)
			}
			rec[name] = append(rec[name], string(data[off:off+length]))
		}
		off += length
	}
	return nil
}
