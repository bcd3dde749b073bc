package parser

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/flyboysam/SRG.Dashboard/internal/model"
)

// Marker tokens identifying each sensor group in a telem.txt line. The
// simulator sometimes decorates a marker (e.g. "MS5611>"), so markers match
// by exact token or prefix.
const (
	MarkerMS5611  = "MS5611"
	MarkerMPU6050 = "MPU6050"
	MarkerTMP     = "TMP"
	MarkerGPS     = "GPS"
)

// SeaLevelPressure is the standard-atmosphere pressure in hPa, used when an
// abbreviated MS5611 marker carries no fields of its own.
const SeaLevelPressure = 1013.25

// Reading is the result of parsing one telemetry line. Each kind is
// independently optional: a nil pointer means the line carried no usable
// reading of that kind.
type Reading struct {
	MS5611  *model.MS5611
	MPU6050 *model.MPU6050
	Temp    *float64
}

// ParseLine tokenizes a single telem.txt line and extracts whatever sensor
// readings it carries. Pure: no state, no I/O, same input same output.
//
// Tokens are split on whitespace and commas. A marker followed by too few
// tokens, or by tokens that fail to parse as numbers, yields no reading of
// that kind. One exception: the Pi build of the simulator emits a bare
// MS5611 marker at the end of the line with no fields, in which case the
// reading is synthesized from the line's TMP value, standard sea-level
// pressure, and the GPS altitude.
func ParseLine(line string) Reading {
	parts := tokenize(line)

	var r Reading

	if idx := indexToken(parts, MarkerTMP); idx >= 0 {
		if vals, ok := numericFields(parts, idx, 1); ok {
			r.Temp = &vals[0]
		}
	}

	// GPS is not stored as its own reading; the altitude feeds the MS5611
	// fallback below.
	var gpsAlt float64
	if idx := indexToken(parts, MarkerGPS); idx >= 0 {
		if vals, ok := numericFields(parts, idx, 3); ok {
			gpsAlt = vals[2]
		}
	}

	if idx := indexToken(parts, MarkerMS5611); idx >= 0 {
		if idx+3 < len(parts) {
			if vals, ok := numericFields(parts, idx, 3); ok {
				r.MS5611 = &model.MS5611{Temp: vals[0], Pressure: vals[1], Altitude: vals[2]}
			}
		} else {
			temp := 0.0
			if r.Temp != nil {
				temp = *r.Temp
			}
			r.MS5611 = &model.MS5611{Temp: temp, Pressure: SeaLevelPressure, Altitude: gpsAlt}
		}
	}

	if idx := indexToken(parts, MarkerMPU6050); idx >= 0 {
		if vals, ok := numericFields(parts, idx, 6); ok {
			r.MPU6050 = &model.MPU6050{
				GX: vals[0], GY: vals[1], GZ: vals[2],
				AX: vals[3], AY: vals[4], AZ: vals[5],
			}
		}
	}

	return r
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// tokenize splits a line on whitespace and commas, discarding empty tokens.
func tokenize(line string) []string {
	return strings.FieldsFunc(line, func(c rune) bool {
		return unicode.IsSpace(c) || c == ','
	})
}

// indexToken returns the index of the first token that equals the marker or
// starts with it, or -1.
func indexToken(parts []string, marker string) int {
	for i, p := range parts {
		if p == marker || strings.HasPrefix(p, marker) {
			return i
		}
	}
	return -1
}

// numericFields parses the n tokens following parts[idx] as floats.
// Returns ok=false if fewer than n tokens remain or any fails to parse.
func numericFields(parts []string, idx, n int) ([]float64, bool) {
	if idx+n >= len(parts) {
		return nil, false
	}
	vals := make([]float64, n)
	for i := 0; i < n; i++ {
		v, err := strconv.ParseFloat(parts[idx+1+i], 64)
		if err != nil {
			return nil, false
		}
		vals[i] = v
	}
	return vals, true
}
