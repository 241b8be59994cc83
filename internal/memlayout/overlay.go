package memlayout

import (
	"regexp"
	"strconv"
)

// OverlayPartition is one retention area declared in a hardware overlay
// snippet, e.g.
//
//	crash_retention: retention@20070000 {
//	        reg = <0x20070000 0x10000>;
//	};
type OverlayPartition struct {
	Label  string
	Base   int64
	Offset int64
	Size   int64
}

var retentionRe = regexp.MustCompile(
	`(?s)(\w+):\s*retention@([0-9a-fA-F]+)\s*\{[^}]*reg\s*=\s*<\s*0x([0-9a-fA-F]+)\s+0x([0-9a-fA-F]+)\s*>\s*;[^}]*\}`)

// ParseRetentionPartitions extracts retention partition declarations from
// overlay content, keyed by their lower-cased node label.
func ParseRetentionPartitions(content string) map[string]OverlayPartition {
	parts := make(map[string]OverlayPartition)
	for _, m := range retentionRe.FindAllStringSubmatch(content, -1) {
		base, err1 := strconv.ParseInt(m[2], 16, 64)
		offset, err2 := strconv.ParseInt(m[3], 16, 64)
		size, err3 := strconv.ParseInt(m[4], 16, 64)
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		p := OverlayPartition{Label: m[1], Base: base, Offset: offset, Size: size}
		parts[RetentionKey(m[1])] = p
	}
	return parts
}
