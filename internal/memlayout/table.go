package memlayout

import (
	"regexp"
	"strings"
)

// substRe matches RST substitution markers such as |release|, which contain
// pipes that must not be mistaken for cell boundaries.
var substRe = regexp.MustCompile(`\|[A-Za-z][A-Za-z0-9_]*\|`)

const substGuard = "\x00"

// ExtractSection returns the lines from the heading that contains marker up
// to (excluding) the next top-level heading, detected as a non-indented line
// followed by an underline of heading punctuation. Returns "" when the marker
// is absent.
func ExtractSection(content, marker string) string {
	lines := strings.Split(content, "\n")
	start := -1
	for i, line := range lines {
		if strings.Contains(line, marker) {
			start = i
			break
		}
	}
	if start == -1 {
		return ""
	}

	end := len(lines)
	for i := start + 2; i < len(lines)-1; i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, " ") ||
			strings.HasPrefix(line, "\t") || strings.HasPrefix(line, "..") ||
			strings.HasPrefix(line, "+") || strings.HasPrefix(line, "|") ||
			strings.HasPrefix(line, "*") {
			continue
		}
		next := strings.TrimSpace(lines[i+1])
		if next != "" && strings.ContainsRune("=-^~*", rune(next[0])) {
			end = i
			break
		}
	}
	return strings.Join(lines[start:end], "\n")
}

// tabStartRe matches the start of a ".. tab:: <name>" directive.
var tabStartRe = regexp.MustCompile(`(?m)^[ \t]*\.\. tab:: `)

// ParseTabs splits a section into its ".. tab:: <name>" blocks, keyed by tab
// name. Each block runs until the next tab directive or the end of the
// section.
func ParseTabs(section string) map[string]string {
	tabs := make(map[string]string)
	starts := tabStartRe.FindAllStringIndex(section, -1)
	for i, loc := range starts {
		end := len(section)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		block := section[loc[1]:end]
		name := block
		body := ""
		if nl := strings.IndexByte(block, '\n'); nl >= 0 {
			name = block[:nl]
			body = block[nl+1:]
		}
		tabs[strings.TrimSpace(name)] = strings.TrimSpace(body)
	}
	return tabs
}

// Row is one data row of a grid table: trimmed cell values between the outer
// pipes, after carry-forward.
type Row []string

// Cell returns column i or "" when the row is narrower.
func (r Row) Cell(i int) string {
	if i < len(r) {
		return r[i]
	}
	return ""
}

// ParseGridRows parses the pipe-delimited data rows of an RST grid table.
// Full-width separator lines (+---+---+) end a row group; within a group an
// empty cell inherits the nearest preceding non-empty value in the same
// column, which is how spanning cells state a value once for several rows.
// Border-only lines and header separators produce no rows.
func ParseGridRows(lines []string) []Row {
	var rows []Row
	var carried []string

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if isBorder(line) {
			if line[0] == '+' && fullSeparator(line) {
				carried = nil
			}
			continue
		}
		if !strings.Contains(line, "|") {
			continue
		}

		cells := splitCells(line)
		if cells == nil {
			continue
		}
		if len(carried) < len(cells) {
			carried = append(carried, make([]string, len(cells)-len(carried))...)
		}
		row := make(Row, len(cells))
		for i, cell := range cells {
			if cell == "" && carried[i] != "" {
				row[i] = carried[i]
			} else {
				row[i] = cell
				if cell != "" {
					carried[i] = cell
				}
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// isBorder reports whether a line is purely table frame: +/-/=/| and spaces.
func isBorder(line string) bool {
	seen := false
	for _, r := range line {
		switch r {
		case '+', '-', '=', '|', ' ':
			if r == '-' || r == '=' {
				seen = true
			}
		default:
			return false
		}
	}
	return seen
}

// fullSeparator reports whether a border line spans every column, i.e. it is
// a row-group boundary rather than the partial border under a spanning cell.
func fullSeparator(line string) bool {
	return strings.Count(line, "+") >= 2 && !strings.Contains(line, "|")
}

// splitCells splits a data line on unguarded pipes, protecting substitution
// markers such as |release| first. Returns nil for lines that are not
// well-formed rows.
func splitCells(line string) []string {
	guarded := substRe.ReplaceAllStringFunc(line, func(m string) string {
		return substGuard + m[1:len(m)-1] + substGuard
	})
	if !strings.HasPrefix(guarded, "|") {
		return nil
	}
	parts := strings.Split(guarded, "|")
	if len(parts) < 3 {
		return nil
	}
	cells := parts[1 : len(parts)-1]
	out := make([]string, len(cells))
	for i, c := range cells {
		c = strings.TrimSpace(c)
		c = strings.ReplaceAll(c, substGuard, "|")
		out[i] = c
	}
	return out
}
