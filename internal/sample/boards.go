package sample

import "strings"

// boardNames maps machine board identifiers to the display names used in
// documentation. The table is the single source of truth for both directions.
var boardNames = map[string]string{
	"nrf52840dk_nrf52840":                    "nRF52840 DK",
	"nrf5340dk_nrf5340_cpuapp":               "nRF5340 DK",
	"nrf7002dk_nrf5340_cpuapp":               "nRF7002 DK",
	"thingy53_nrf5340_cpuapp":                "Nordic Thingy:53",
	"nrf54l15dk_nrf54l15_cpuapp":             "nRF54L15 DK",
	"nrf54l15dk_nrf54l10_cpuapp":             "nRF54L10 emulation on nRF54L15 DK",
	"nrf54lm20dk_nrf54lm20a_cpuapp":          "nRF54LM20 DK",
	"nrf54l15dk_nrf54l15_cpuapp_internal":    "nRF54L15 DK with internal memory only",
	"nrf54l15dk_nrf54l15_cpuapp_ns":          "nRF54L15 DK with TF-M",
	"nrf54lm20dk_nrf54lm20a_cpuapp_internal": "nRF54LM20 DK with internal memory only",
}

// DisplayName returns the human name for a board identifier, or the
// identifier itself when unmapped.
func DisplayName(boardID string) string {
	if name, ok := boardNames[boardID]; ok {
		return name
	}
	return boardID
}

// BoardID returns the machine identifier for a display name, or the display
// name itself when unmapped.
func BoardID(displayName string) string {
	for id, name := range boardNames {
		if name == displayName {
			return id
		}
	}
	return displayName
}

// IsBoardSpecific reports whether a file path belongs to one of the given
// boards. Besides the exact identifiers it recognizes the base board part
// (everything before the first underscore-joined SoC segment), shield
// variants, and the internal-memory spelling of non-secure variants, since
// board-specific files are named after any of these.
func IsBoardSpecific(path string, boards map[string]bool) bool {
	if len(boards) == 0 {
		return false
	}

	patterns := make(map[string]bool)
	for board := range boards {
		patterns[board] = true

		if i := strings.Index(board, "_"); i > 0 {
			patterns[board[:i]] = true
		}
		// WiFi boards ship a companion shield variant.
		if strings.Contains(board, "nrf7002dk") {
			patterns["nrf7002dk"] = true
			patterns["nrf70ek"] = true
		}
		if strings.Contains(board, "nrf21540") {
			patterns["nrf21540dk"] = true
			patterns["nrf21540ek"] = true
		}
		// A board declared only as non-secure may still own *_internal files.
		if strings.HasSuffix(board, "_ns") {
			patterns[strings.TrimSuffix(board, "_ns")+"_internal"] = true
		}
	}

	for pattern := range patterns {
		if strings.Contains(path, pattern) {
			return true
		}
	}
	return false
}
