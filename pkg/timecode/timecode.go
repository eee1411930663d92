// Package timecode parses and formats the human-readable elapsed-time
// strings ("MM:SS" or "HH:MM:SS") used by chapters and script segments.
package timecode

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseSeconds converts a time code to total seconds.
// Accepts exactly 2 fields (MM:SS) or 3 fields (HH:MM:SS); every field must
// be a non-negative integer. Malformed codes are a caller input error.
func ParseSeconds(s string) (float64, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid time code %q: expected MM:SS or HH:MM:SS", s)
	}

	fields := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid time code %q: field %q is not a non-negative integer", s, p)
		}
		fields[i] = n
	}

	if len(fields) == 2 {
		return float64(fields[0]*60 + fields[1]), nil
	}
	return float64(fields[0]*3600 + fields[1]*60 + fields[2]), nil
}

// Format renders total seconds as a zero-padded HH:MM:SS string.
// Hours are always printed, as "00" when the value is below one hour, to keep
// the fixed width the millisecond subtitle formats require.
func Format(totalSeconds float64) string {
	t := int(totalSeconds)
	if t < 0 {
		t = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", t/3600, (t%3600)/60, t%60)
}

// NormalizeStart pads a 2-field time code with a literal "00:" hours prefix.
// 3-field codes are returned unchanged.
func NormalizeStart(tc string) string {
	if strings.Count(tc, ":") == 1 {
		return "00:" + tc
	}
	return tc
}
