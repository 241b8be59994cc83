// Package memlayout reconciles partition sizes and offsets across the three
// places they are stated: partition-map files, documentation tables, and
// hardware overlay snippets. Everything is normalized to bytes.
package memlayout

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	hexParenRe = regexp.MustCompile(`\(0x([0-9a-fA-F]+)\)`)
	unitRe     = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(kB|MB|B)\b`)
	bareHexRe  = regexp.MustCompile(`\b0x([0-9a-fA-F]+)\b`)
	plainRe    = regexp.MustCompile(`^\s*(\d+)\s*$`)
)

// Value is the result of parsing a size or offset string such as
// "28 kB (0x7000)". When both a decimal-with-unit and a hexadecimal form are
// present the hex form is authoritative and Consistent records whether the
// two agree after normalization.
type Value struct {
	Present bool // something parseable was found

	Bytes int64 // normalized byte count

	Hex    int64 // parenthesized or bare hex interpretation
	HasHex bool

	Unit     float64 // decimal value as written
	UnitText string  // B, KB or MB
	HasUnit  bool

	Consistent bool
}

// unitMultiplier returns the byte multiplier for a normalized unit suffix.
func unitMultiplier(unit string) int64 {
	switch unit {
	case "KB":
		return 1024
	case "MB":
		return 1024 * 1024
	default:
		return 1
	}
}

// UnitBytes returns the decimal-with-unit interpretation in bytes.
func (v Value) UnitBytes() int64 {
	return int64(v.Unit * float64(unitMultiplier(v.UnitText)))
}

// ParseValue extracts both interpretations of a size/offset string. Empty
// input yields a non-Present, consistent value. Decimal separators may be a
// dot or a comma. When only one form is present it is authoritative; a bare
// hex string or a plain integer are accepted as last resorts.
func ParseValue(s string) Value {
	v := Value{Consistent: true}
	s = strings.TrimSpace(s)
	if s == "" {
		return v
	}

	if m := hexParenRe.FindStringSubmatch(s); m != nil {
		if n, err := strconv.ParseInt(m[1], 16, 64); err == nil {
			v.Hex = n
			v.HasHex = true
			v.Bytes = n
			v.Present = true
		}
	}

	if m := unitRe.FindStringSubmatch(s); m != nil {
		num := strings.ReplaceAll(m[1], ",", ".")
		if f, err := strconv.ParseFloat(num, 64); err == nil {
			v.Unit = f
			v.UnitText = strings.ToUpper(m[2])
			v.HasUnit = true
			if v.HasHex {
				if v.UnitBytes() != v.Hex {
					v.Consistent = false
				}
				v.Bytes = v.Hex
			} else {
				v.Bytes = v.UnitBytes()
			}
			v.Present = true
		}
	}

	if !v.Present {
		if m := bareHexRe.FindStringSubmatch(s); m != nil {
			if n, err := strconv.ParseInt(m[1], 16, 64); err == nil {
				v.Hex = n
				v.HasHex = true
				v.Bytes = n
				v.Present = true
			}
		}
	}

	if !v.Present {
		if m := plainRe.FindStringSubmatch(s); m != nil {
			if n, err := strconv.ParseInt(m[1], 10, 64); err == nil {
				v.Bytes = n
				v.Present = true
			}
		}
	}

	return v
}

// FormatBytes renders a byte count with a human unit and its hex form, for
// finding messages. includeRaw additionally shows the raw byte count for
// values of a kilobyte or more.
func FormatBytes(b int64, includeRaw bool) string {
	var human string
	switch {
	case b >= 1024*1024:
		human = fmt.Sprintf("%.1f MB", float64(b)/(1024*1024))
	case b >= 1024:
		human = fmt.Sprintf("%.1f kB", float64(b)/1024)
	default:
		return fmt.Sprintf("%d bytes (0x%X)", b, b)
	}
	if includeRaw {
		return fmt.Sprintf("%s (%d bytes, 0x%X)", human, b, b)
	}
	return fmt.Sprintf("%s (0x%X)", human, b)
}
