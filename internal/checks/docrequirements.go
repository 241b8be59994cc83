package checks

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"samplecheck/internal/check"
	"samplecheck/internal/memlayout"
	"samplecheck/internal/sample"
)

const (
	diagnosticSection = "Diagnostic logs RAM memory requirements"
	memorySection     = "Reference Matter memory layouts"
)

// applicationNames are the out-of-tree projects whose manifests participate
// in the build-configuration validation alongside the samples.
var applicationNames = []string{"matter_weather_station", "matter_bridge"}

// DocRequirements cross-validates the hardware requirements documentation
// against the tree: declared build configurations, retention partitions from
// the diagnostic-logs overlay snippets, and the reference memory layout
// tables against the template's partition maps. Runs once per invocation.
type DocRequirements struct {
	content string

	diagTables map[string]map[string]docPartition
}

// docPartition is one retention partition row from a documentation table.
type docPartition struct {
	Name   string
	Size   memlayout.Value
	Offset memlayout.Value
}

func (*DocRequirements) Name() string { return "Hardware requirements documentation" }

func (d *DocRequirements) Prepare(ctx *check.Context) error {
	path := filepath.Join(ctx.TreeRoot, ctx.Rules.Documentation.Requirements.Path)
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}
	d.content = string(content)
	d.diagTables = nil
	return nil
}

func (d *DocRequirements) Check(ctx *check.Context) {
	if d.content == "" {
		ctx.Collector.Issuef("No content to validate")
		return
	}

	tables := strings.Count(d.content, "+-") / 2
	tabs := strings.Count(d.content, ".. tab::")
	ctx.Collector.Debugf("Found %d tables and %d tabs", tables, tabs)

	builds := d.collectBuildTypes(ctx)
	d.validateBuildConfigurations(ctx, builds)
	d.validateDiagnosticLogs(ctx)
	d.validateMemoryLayouts(ctx, builds)
}

// collectBuildTypes reads every sample and application manifest in the tree
// and extracts the build types declared by their test names.
func (d *DocRequirements) collectBuildTypes(ctx *check.Context) map[string]map[string]bool {
	builds := make(map[string]map[string]bool)

	samplesRoot := filepath.Join(ctx.TreeRoot, "samples", "matter")
	for _, name := range sample.DiscoverSamples(samplesRoot) {
		if types := manifestBuildTypes(filepath.Join(samplesRoot, name, "sample.yaml")); types != nil {
			builds[name] = types
		}
	}
	for _, name := range applicationNames {
		path := filepath.Join(ctx.TreeRoot, "applications", name, "sample.yaml")
		if types := manifestBuildTypes(path); types != nil {
			builds[name] = types
		}
	}
	return builds
}

func manifestBuildTypes(path string) map[string]bool {
	m, err := sample.LoadManifest(path)
	if err != nil {
		return nil
	}
	types := make(map[string]bool)
	for name := range m.Tests {
		if t := buildTypeFromTestName(name); t != "" {
			types[t] = true
		}
	}
	return types
}

// buildTypeFromTestName classifies a manifest test name into a build type.
func buildTypeFromTestName(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "thread_wifi_switched") || strings.Contains(lower, "wifi_thread_switched"):
		return "wifi_thread_switched"
	case strings.Contains(lower, ".release"):
		if strings.Contains(lower, "internal") {
			return "internal"
		}
		return "release"
	case strings.Contains(lower, ".debug"):
		return "debug"
	}
	return ""
}

func (d *DocRequirements) validateBuildConfigurations(ctx *check.Context, builds map[string]map[string]bool) {
	names := make([]string, 0, len(builds))
	for name := range builds {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		available := builds[name]

		if name == "template" && !available["internal"] {
			ctx.Collector.Issuef("Template sample missing 'internal' build type")
		}
		if name == "lock" && !available["wifi_thread_switched"] {
			ctx.Collector.Warningf("Lock sample should support 'wifi_thread_switched'")
		}
		if name == "manufacturer_specific" {
			continue
		}
		for _, basic := range []string{"debug", "release"} {
			if !available[basic] {
				ctx.Collector.Warningf("Sample '%s' missing '%s' build", name, basic)
			}
		}
	}
}

// validateDiagnosticLogs reads the diagnostic-logs overlay snippets and
// reconciles their retention partitions with the documentation tables.
func (d *DocRequirements) validateDiagnosticLogs(ctx *check.Context) {
	snippetDir := filepath.Join(ctx.TreeRoot, "snippets", "matter-diagnostic-logs", "boards")
	if _, err := os.Stat(snippetDir); err != nil {
		ctx.Collector.Issuef("Diagnostic logs snippet directory not found")
		return
	}

	if !strings.Contains(d.content, diagnosticSection) {
		ctx.Collector.Warningf("Diagnostic logs section not found in documentation")
	}

	overlays, err := filepath.Glob(filepath.Join(snippetDir, "*.overlay"))
	if err != nil {
		ctx.Collector.Issuef("Error listing overlay snippets: %v", err)
		return
	}
	sort.Strings(overlays)
	ctx.Collector.Debugf("Analyzing %d DTS overlay files for retention partitions", len(overlays))

	for _, overlay := range overlays {
		board := strings.TrimSuffix(filepath.Base(overlay), ".overlay")
		ctx.Collector.Debugf("Analyzing %s for board %s", filepath.Base(overlay), board)

		content, err := os.ReadFile(overlay)
		if err != nil {
			ctx.Collector.Issuef("Error reading DTS overlay %s: %v", filepath.Base(overlay), err)
			continue
		}
		partitions := memlayout.ParseRetentionPartitions(string(content))

		for key, display := range memlayout.RetentionNames {
			p, ok := partitions[key]
			if !ok {
				ctx.Collector.Warningf("Board %s: Missing %s partition in overlay", board, display)
				continue
			}
			ctx.Collector.Debugf("Found %s: offset=0x%x, size=0x%x (%d bytes)",
				display, p.Offset, p.Size, p.Size)
		}

		d.compareRetentionWithDocs(ctx, board, partitions)
	}
}

// compareRetentionWithDocs reconciles a board's overlay retention partitions
// with the documentation table for the same board.
func (d *DocRequirements) compareRetentionWithDocs(ctx *check.Context, board string, partitions map[string]memlayout.OverlayPartition) {
	docTables := d.diagnosticTables(ctx)
	docBoard := docTables[sample.DisplayName(board)]
	if docBoard == nil {
		ctx.Collector.Warningf("Board %s: No partition requirements found in documentation", board)
		return
	}

	keys := make([]string, 0, len(docBoard))
	for key := range docBoard {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		doc := docBoard[key]
		overlay, ok := partitions[key]
		if !ok {
			ctx.Collector.Warningf("Board %s: Required partition '%s' not found in DTS file", board, doc.Name)
			continue
		}
		if doc.Size.Present && doc.Size.Bytes != overlay.Size {
			ctx.Collector.Issuef("%s: %s SIZE MISMATCH - Table: %s vs dts: %s",
				board, doc.Name,
				memlayout.FormatBytes(doc.Size.Bytes, false),
				memlayout.FormatBytes(overlay.Size, false))
		}
		if doc.Offset.Present && doc.Offset.Bytes != overlay.Offset {
			ctx.Collector.Issuef("%s: %s OFFSET MISMATCH - Table: %s vs dts: %s",
				board, doc.Name,
				memlayout.FormatBytes(doc.Offset.Bytes, false),
				memlayout.FormatBytes(overlay.Offset, false))
		}
	}
}

// diagnosticTables parses the per-board retention tables from the diagnostic
// logs documentation section. Parsed once and cached; dec/hex inconsistencies
// in the tables are reported during the first parse.
func (d *DocRequirements) diagnosticTables(ctx *check.Context) map[string]map[string]docPartition {
	if d.diagTables != nil {
		return d.diagTables
	}
	d.diagTables = make(map[string]map[string]docPartition)

	section := memlayout.ExtractSection(d.content, diagnosticSection)
	if section == "" {
		return d.diagTables
	}

	for board, tab := range memlayout.ParseTabs(section) {
		partitions := make(map[string]docPartition)
		rows := memlayout.ParseGridRows(strings.Split(tab, "\n"))
		for _, row := range rows {
			name := row.Cell(0)
			if !strings.Contains(strings.ToLower(name), "retention") {
				continue
			}
			size := memlayout.ParseValue(row.Cell(2))
			offset := memlayout.ParseValue(row.Cell(1))

			if !size.Consistent {
				ctx.Collector.Issuef("%s: %s SIZE DEC/HEX MISMATCH - Table decimal: %v %s vs hex: %s",
					board, name, size.Unit, size.UnitText, memlayout.FormatBytes(size.Hex, false))
			}
			if !offset.Consistent {
				ctx.Collector.Issuef("%s: %s OFFSET DEC/HEX MISMATCH - Table decimal: %v %s vs hex: %s",
					board, name, offset.Unit, offset.UnitText, memlayout.FormatBytes(offset.Hex, false))
			}
			if size.Present {
				partitions[memlayout.RetentionKeyForName(name)] = docPartition{
					Name:   name,
					Size:   size,
					Offset: offset,
				}
			}
		}
		if len(partitions) > 0 {
			d.diagTables[board] = partitions
		}
	}
	return d.diagTables
}

// validateMemoryLayouts reconciles the reference memory layout tables with
// the template sample's partition maps, board tab by board tab.
func (d *DocRequirements) validateMemoryLayouts(ctx *check.Context, builds map[string]map[string]bool) {
	if _, ok := builds["template"]; !ok {
		ctx.Collector.Warningf("Template sample not found for memory validation")
		return
	}
	if !strings.Contains(d.content, memorySection) {
		ctx.Collector.Issuef("Memory layouts section not found in documentation")
		return
	}

	section := memlayout.ExtractSection(d.content, memorySection)
	if section == "" {
		ctx.Collector.Issuef("Could not extract %s section", memorySection)
		return
	}
	tabs := memlayout.ParseTabs(section)
	if len(tabs) == 0 {
		ctx.Collector.Issuef("No tabs found in %s section", memorySection)
		return
	}

	names := make([]string, 0, len(tabs))
	for name := range tabs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		// Thingy:53 layouts come from a different application's partition
		// map and are not validated here.
		if strings.Contains(strings.ToUpper(name), "THINGY:53") {
			ctx.Collector.Debugf("Skipping %s (uses weather station partition map)", name)
			continue
		}
		ctx.Collector.Debugf("Validating tab: %s", name)

		boardID := sample.BoardID(name)
		pmPath := filepath.Join(ctx.TreeRoot, "samples", "matter", "template",
			"pm_static_"+boardID+".yml")
		if _, err := os.Stat(pmPath); err != nil {
			ctx.Collector.Warningf("No pm_static file found for %s", name)
			continue
		}

		tables := parseMemoryTables(tabs[name])
		if len(tables) == 0 {
			ctx.Collector.Warningf("No memory tables found in %s tab", name)
			continue
		}

		pm, err := memlayout.LoadMap(pmPath)
		if err != nil || len(pm) == 0 {
			ctx.Collector.Issuef("Failed to parse pm_static file: %s", pmPath)
			continue
		}

		d.compareMemoryTables(ctx, name, tables, pm)
	}
}

// memoryTable is one named table of a memory layout tab.
type memoryTable struct {
	Name string
	Rows []memlayout.Row
}

// parseMemoryTables splits a tab body into its memory tables. A table starts
// at a "Flash/SRAM/OTP ... size:" header line and runs until the next
// non-table line.
func parseMemoryTables(tab string) []memoryTable {
	var tables []memoryTable
	lines := strings.Split(tab, "\n")

	var current *memoryTable
	var tableLines []string
	flush := func() {
		if current != nil {
			current.Rows = memlayout.ParseGridRows(tableLines)
			if len(current.Rows) > 0 {
				tables = append(tables, *current)
			}
		}
		current = nil
		tableLines = nil
	}

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if isMemoryTableHeader(line) {
			flush()
			name := strings.TrimSpace(strings.SplitN(line, "(", 2)[0])
			current = &memoryTable{Name: name}
			continue
		}
		if current == nil {
			continue
		}
		if line == "" || strings.HasPrefix(line, "+") || strings.HasPrefix(line, "|") {
			tableLines = append(tableLines, line)
			continue
		}
		flush()
	}
	flush()
	return tables
}

func isMemoryTableHeader(line string) bool {
	lower := strings.ToLower(line)
	if !strings.Contains(lower, "size:") {
		return false
	}
	for _, mem := range []string{"flash", "sram", "otp"} {
		if strings.Contains(lower, mem) {
			return true
		}
	}
	return false
}

// compareMemoryTables validates every key partition and element of a board's
// documentation tables against its partition map.
func (d *DocRequirements) compareMemoryTables(ctx *check.Context, board string, tables []memoryTable, pm memlayout.Map) {
	ctx.Collector.Debugf("Processing %d memory tables for %s:", len(tables), board)

	for _, table := range tables {
		ctx.Collector.Debugf("Table: %s (%d rows)", table.Name, len(table.Rows))
		seen := make(map[string]bool)

		for _, row := range table.Rows {
			partition := strings.TrimSpace(row.Cell(0))
			element := strings.TrimSpace(row.Cell(3))

			if partition != "" && !strings.HasPrefix(partition, "Partition") &&
				!strings.HasPrefix(partition, "=") {
				clean := memlayout.CleanName(partition)
				if !seen[clean] && memlayout.IsKeyPartition(clean) {
					if part, ok := pm[clean]; ok {
						seen[clean] = true
						d.validateEntry(ctx, board, clean, clean, row.Cell(2), row.Cell(1), part, false)
					}
				}
			}

			if element != "" && element != "Elements" && element != "-" {
				mapped, ok := memlayout.MapKey(element)
				if ok && memlayout.IsKeyPartition(element) {
					if part, ok := pm[mapped]; ok {
						d.validateEntry(ctx, board, element, mapped, row.Cell(5), row.Cell(4), part, true)
					}
				}
			}
		}
	}
}

// validateEntry compares one documented size/offset pair against the
// partition map. Internal dec/hex inconsistencies in the documentation cell
// are reported separately from value mismatches against the map.
func (d *DocRequirements) validateEntry(ctx *check.Context, board, display, pmName, sizeStr, offsetStr string, part memlayout.Partition, isElement bool) {
	kind := "Partition"
	if isElement {
		kind = "Element"
	}
	suffix := ""
	if isElement && pmName != display {
		suffix = fmt.Sprintf(" (%s)", pmName)
	}

	size := memlayout.ParseValue(sizeStr)
	if !size.Consistent {
		ctx.Collector.Issuef("%s: %s %s SIZE DEC/HEX MISMATCH - Table decimal: %v %s vs hex: %s",
			board, display, kind, size.Unit, size.UnitText, memlayout.FormatBytes(size.Hex, false))
	}
	if size.Present && size.Bytes != 0 && part.HasSize && part.Size != 0 {
		if size.Bytes != part.Size {
			ctx.Collector.Issuef("%s: %s%s %s SIZE HEX VALUE MISMATCH - Table: 0x%X | pm_static: 0x%X",
				board, display, suffix, kind, size.Bytes, part.Size)
		} else {
			ctx.Collector.Debugf("%s %s size: %s - MATCH",
				display, strings.ToLower(kind), memlayout.FormatBytes(size.Bytes, true))
		}
	}

	offset := memlayout.ParseValue(offsetStr)
	if !offset.Consistent {
		ctx.Collector.Issuef("%s: %s %s OFFSET DEC/HEX MISMATCH - Table decimal: %v %s vs hex: %s",
			board, display, kind, offset.Unit, offset.UnitText, memlayout.FormatBytes(offset.Hex, false))
	}
	if offset.Present && part.HasAddress {
		if offset.Bytes != part.Address {
			ctx.Collector.Issuef("%s: %s%s %s OFFSET HEX VALUE MISMATCH - Table: 0x%X | pm_static: 0x%X",
				board, display, suffix, kind, offset.Bytes, part.Address)
		} else {
			ctx.Collector.Debugf("%s %s offset: %s - MATCH",
				display, strings.ToLower(kind), memlayout.FormatBytes(offset.Bytes, false))
		}
	}
}
