package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

func isSeparator(r rune) bool {
	switch r {
	case ',', ' ', '\t', '\n', '\r', ';':
		return true
	}
	return false
}

// ParseSubfingerprints parses a list of 32-bit subfingerprints separated by
// commas or whitespace. Both unsigned values and the signed form printed by
// `fpcalc -raw -signed` are accepted; negative values are reinterpreted as
// their two's-complement bit pattern. Surrounding brackets are ignored.
func ParseSubfingerprints(s string) ([]uint32, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")

	fields := strings.FieldsFunc(s, isSeparator)
	out := make([]uint32, 0, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("item %d (%q): %w", i, f, err)
		}
		if v < math.MinInt32 || v > math.MaxUint32 {
			return nil, fmt.Errorf("item %d (%q): out of 32-bit range", i, f)
		}
		out = append(out, uint32(v))
	}
	return out, nil
}

// FormatSubfingerprints renders subfingerprints as a comma-separated list of
// unsigned values, the inverse of ParseSubfingerprints.
func FormatSubfingerprints(fps []uint32) string {
	var b strings.Builder
	b.Grow(len(fps) * 11)
	for i, v := range fps {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatUint(uint64(v), 10))
	}
	return b.String()
}

// LooksRaw reports whether s consists only of characters that can appear in
// a raw subfingerprint list. Base64 fingerprints always contain letters.
func LooksRaw(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '-' || r == '[' || r == ']' || isSeparator(r):
		default:
			return false
		}
	}
	return true
}
