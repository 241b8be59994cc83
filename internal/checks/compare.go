package checks

import (
	"os"
	"regexp"
	"strings"
)

// copyrightKeywords flag header lines that are allowed to differ between a
// sample and the template.
var copyrightKeywords = []string{
	"copyright", "(c)", "nordic semiconductor", "all rights reserved",
	"spdx-license-identifier", "license",
}

var yearRe = regexp.MustCompile(`\b\d{4}\b`)

// isCopyrightLine reports whether a line belongs to a license header: it
// matches the configured copyright pattern, contains a known keyword, or is a
// comment line that is essentially just a vendor name and a year.
func isCopyrightLine(line string, copyrightPat *regexp.Regexp) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	lower := strings.ToLower(trimmed)

	if copyrightPat != nil && copyrightPat.MatchString(trimmed) {
		return true
	}
	for _, kw := range copyrightKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}

	if strings.HasPrefix(trimmed, "*") || strings.HasPrefix(trimmed, "//") ||
		strings.HasPrefix(trimmed, "/*") || strings.HasPrefix(trimmed, "#") {
		if trimmed == "/*" || trimmed == "*/" || trimmed == "*" {
			return true
		}
		years := yearRe.FindAllString(trimmed, -1)
		if len(years) > 0 {
			plausible := true
			for _, y := range years {
				if y < "2020" || y > "2030" {
					plausible = false
					break
				}
			}
			rest := strings.TrimSpace(yearRe.ReplaceAllString(trimmed, ""))
			if plausible && len(rest) < 20 {
				for _, word := range []string{"nordic", "copyright", "(c)"} {
					if strings.Contains(lower, word) {
						return true
					}
				}
			}
		}
	}
	return false
}

// contentLines returns the non-empty, non-copyright lines of a file with
// trailing whitespace removed.
func contentLines(path string, copyrightPat *regexp.Regexp) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimRight(line, " \t\r")
		if strings.TrimSpace(line) == "" || isCopyrightLine(line, copyrightPat) {
			continue
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// compareOverlayFiles checks that every content line of the template overlay
// exists verbatim in the current one. Extra lines in the current file are
// fine. Lines that match after trimming are reported as formatting drift.
func compareOverlayFiles(currentPath, templatePath string, copyrightPat *regexp.Regexp) []string {
	currentLines, err := contentLines(currentPath, copyrightPat)
	if err != nil {
		return []string{"Could not read current file: " + err.Error()}
	}
	templateLines, err := contentLines(templatePath, copyrightPat)
	if err != nil {
		return []string{"Could not read template file: " + err.Error()}
	}

	currentSet := make(map[string]bool, len(currentLines))
	trimmedToFull := make(map[string]string, len(currentLines))
	for _, line := range currentLines {
		currentSet[line] = true
		trimmedToFull[strings.TrimSpace(line)] = line
	}

	var diff []string
	for _, tline := range templateLines {
		if currentSet[tline] {
			continue
		}
		if similar, ok := trimmedToFull[strings.TrimSpace(tline)]; ok {
			diff = append(diff,
				"- "+tline,
				"+ "+similar)
			continue
		}
		diff = append(diff, "- "+tline)
	}
	return diff
}

// confEntries parses Kconfig-style content lines into key=value entries.
// Comment lines are dropped; lines without '=' are kept whole as keys.
func confEntries(lines []string) map[string]string {
	entries := make(map[string]string, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		key, value, found := strings.Cut(trimmed, "=")
		if !found {
			entries[trimmed] = ""
			continue
		}
		entries[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return entries
}

// compareConfFiles checks that every entry of the template configuration file
// is present with the same value in the current one. Extra entries in the
// current file are allowed.
func compareConfFiles(currentPath, templatePath string, copyrightPat *regexp.Regexp) []string {
	currentLines, err := contentLines(currentPath, copyrightPat)
	if err != nil {
		return []string{"Could not read current file: " + err.Error()}
	}
	templateLines, err := contentLines(templatePath, copyrightPat)
	if err != nil {
		return []string{"Could not read template file: " + err.Error()}
	}

	current := confEntries(currentLines)
	var diff []string
	for _, tline := range templateLines {
		trimmed := strings.TrimSpace(tline)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		key, value, found := strings.Cut(trimmed, "=")
		if !found {
			if _, ok := current[trimmed]; !ok {
				diff = append(diff, "- "+trimmed)
			}
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		got, ok := current[key]
		switch {
		case !ok:
			diff = append(diff, "- "+key+"="+value)
		case got != value:
			diff = append(diff,
				"- "+key+"="+value,
				"+ "+key+"="+got)
		}
	}
	return diff
}

// compareConfigFiles dispatches on file type: overlays compare by verbatim
// line presence, everything else by configuration entries.
func compareConfigFiles(currentPath, templatePath string, copyrightPat *regexp.Regexp) []string {
	if strings.HasSuffix(currentPath, ".overlay") {
		return compareOverlayFiles(currentPath, templatePath, copyrightPat)
	}
	return compareConfFiles(currentPath, templatePath, copyrightPat)
}
