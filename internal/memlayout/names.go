package memlayout

import (
	"regexp"
	"strings"
)

// PartitionNames maps documentation prose names to partition-map keys. It is
// the canonical reconciliation table: the validated key set below is derived
// from it, so the two cannot drift apart.
var PartitionNames = map[string]string{
	"Bootloader":            "mcuboot",
	"MCUboot bootloader":    "mcuboot",
	"Application":           "mcuboot_primary",
	"Application DFU":       "mcuboot_secondary",
	"Network Core DFU":      "mcuboot_secondary_1",
	"Factory data":          "factory_data",
	"Non-volatile storage":  "settings_storage",
	"Free space":            "external_flash",
	"Static RAM":            "sram_primary",
	"mcuboot_primary_app":   "app",
	"mcuboot_secondary_app": "mcuboot_secondary",
}

// extraKeyPartitions are map keys validated against documentation tables even
// though no prose name maps to them (they appear verbatim in table cells).
var extraKeyPartitions = []string{
	"mcuboot_pad", "mcuboot_secondary_pad",
	"mcuboot_primary_1", "mcuboot_primary_2", "mcuboot_secondary_2",
	"nrf70_wifi_fw", "nrf70_wifi_fw_mcuboot_pad",
}

// keyPartitions is the derived set of partition names worth cross-validating.
// Prose entries that are themselves map keys (table cells sometimes carry the
// key verbatim, e.g. mcuboot_secondary_app) enter the set on both sides.
var keyPartitions = func() map[string]bool {
	set := make(map[string]bool)
	for prose, key := range PartitionNames {
		set[key] = true
		if prose == strings.ToLower(prose) && !strings.Contains(prose, " ") {
			set[prose] = true
		}
	}
	for _, key := range extraKeyPartitions {
		set[key] = true
	}
	return set
}()

// IsKeyPartition reports whether a name is in the validated set.
func IsKeyPartition(name string) bool {
	return keyPartitions[name]
}

// MapKey resolves a documentation prose name to its partition-map key. Exact
// map keys resolve to themselves. The second result is false for names that
// are neither mapped nor exact keys; callers skip those rather than erroring.
func MapKey(name string) (string, bool) {
	if key, ok := PartitionNames[name]; ok {
		return key, true
	}
	if keyPartitions[name] {
		return name, true
	}
	return "", false
}

// RetentionNames maps retention partition keys to the prose names used in the
// diagnostic-logs documentation tables.
var RetentionNames = map[string]string{
	"crash_retention":         "Crash retention",
	"network_logs_retention":  "Network logs retention",
	"end_user_logs_retention": "User data logs retention",
}

// RetentionKey normalizes an overlay node label or a documentation prose name
// to the retention partition key (lower case, spaces to underscores).
func RetentionKey(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(key, " ", "_")
}

// RetentionKeyForName resolves a documentation prose name to the overlay node
// key. Names in the display table resolve through it (the prose and the node
// label do not always normalize to the same key); everything else falls back
// to plain normalization.
func RetentionKeyForName(prose string) string {
	prose = strings.TrimSpace(prose)
	for key, name := range RetentionNames {
		if strings.EqualFold(name, prose) {
			return key
		}
	}
	return RetentionKey(prose)
}

var (
	refRe   = regexp.MustCompile(":ref:`[^`]+`")
	parenRe = regexp.MustCompile(`\(([^)]+)\)`)
)

// CleanName extracts the partition name from a table cell description such as
// "Application (mcuboot_primary/app)". Preference order: parenthesized key,
// prose lookup table, normalized prose.
func CleanName(desc string) string {
	clean := strings.TrimSpace(refRe.ReplaceAllString(desc, ""))

	if m := parenRe.FindStringSubmatch(clean); m != nil {
		candidate := strings.TrimSpace(m[1])
		lower := strings.ToLower(candidate)
		descriptive := false
		for _, word := range []string{"debug", "release", "size", "kb", "mb"} {
			if strings.Contains(lower, word) {
				descriptive = true
				break
			}
		}
		if !descriptive {
			if strings.Contains(candidate, "/") {
				for _, part := range strings.Split(candidate, "/") {
					part = strings.TrimSpace(part)
					if keyPartitions[part] {
						return part
					}
				}
				return strings.TrimSpace(strings.Split(candidate, "/")[0])
			}
			return candidate
		}
	}

	prose := strings.TrimSpace(strings.SplitN(clean, "(", 2)[0])
	if key, ok := PartitionNames[prose]; ok {
		return key
	}
	return strings.ReplaceAll(strings.ToLower(prose), " ", "_")
}
