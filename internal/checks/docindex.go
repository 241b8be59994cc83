package checks

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"

	"samplecheck/internal/check"
	"samplecheck/internal/memlayout"
)

var (
	refVersionRe   = regexp.MustCompile(":ref:`([0-9.]+)\\s*<[^>]+>`")
	plainVersionRe = regexp.MustCompile(`[0-9]+\.[0-9]+\.[0-9]+`)
	// Matter SDK versions carry four components, one more than semver allows.
	sdkVersionRe = regexp.MustCompile(`^[0-9]+(\.[0-9]+){1,3}$`)
)

// DocIndex validates the protocol version information in the documentation
// index: the version line must parse, both versions must be valid semver, and
// the version table's |release| and (latest) rows must agree with the line.
type DocIndex struct {
	content   string
	versionRe *regexp.Regexp
}

func (*DocIndex) Name() string { return "Matter SDK version and table coherence in index" }

func (d *DocIndex) Prepare(ctx *check.Context) error {
	cfg := ctx.Rules.Documentation.Index

	re, err := regexp.Compile(cfg.MatterPattern)
	if err != nil {
		return fmt.Errorf("invalid version pattern: %w", err)
	}
	d.versionRe = re

	content, err := os.ReadFile(filepath.Join(ctx.TreeRoot, cfg.Path))
	if err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}
	d.content = string(content)
	return nil
}

func (d *DocIndex) Check(ctx *check.Context) {
	spec, sdk := d.checkVersionLine(ctx)
	d.checkVersionTable(ctx, spec, sdk)
}

// checkVersionLine locates the configured version line and extracts the
// specification and SDK versions from it.
func (d *DocIndex) checkVersionLine(ctx *check.Context) (spec, sdk string) {
	linePattern := ctx.Rules.Documentation.Index.LinePattern

	var target string
	lineNumber := 0
	for i, line := range strings.Split(d.content, "\n") {
		if strings.Contains(line, linePattern) {
			target = line
			lineNumber = i + 1
			break
		}
	}
	if lineNumber == 0 {
		ctx.Collector.Issuef("Could not find line containing '%s' pattern", linePattern)
		return "", ""
	}
	ctx.Collector.Debugf("Found pattern at line %d: %s", lineNumber, target)

	m := d.versionRe.FindStringSubmatch(target)
	if m == nil || len(m) < 3 {
		ctx.Collector.Issuef("Could not parse versions from line %d", lineNumber)
		return "", ""
	}
	// The captures may pick up the period that ends the sentence.
	spec, sdk = strings.Trim(m[1], "."), strings.Trim(m[2], ".")
	ctx.Collector.Infof("Matter specification version: %s", spec)
	ctx.Collector.Infof("Matter SDK version: %s", sdk)

	if _, err := semver.NewVersion(spec); err != nil {
		ctx.Collector.Issuef("Version %q is not a valid semantic version: %v", spec, err)
	}
	if !sdkVersionRe.MatchString(sdk) {
		ctx.Collector.Issuef("Version %q is not a valid SDK version", sdk)
	}
	return spec, sdk
}

// checkVersionTable parses the version table under the toggle directive and
// validates the |release| and (latest) rows against the line versions.
func (d *DocIndex) checkVersionTable(ctx *check.Context, lineSpec, lineSDK string) {
	ctx.Collector.Debugf("Parsing version table...")

	section := d.tableSection()
	if section == "" {
		ctx.Collector.Issuef("Version table not found")
		return
	}

	var rows []memlayout.Row
	var tableLines []string
	for _, line := range strings.Split(section, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, ".. note::") {
			break
		}
		tableLines = append(tableLines, trimmed)
	}
	rows = memlayout.ParseGridRows(tableLines)

	var release, latest memlayout.Row
	for _, row := range rows {
		ncs := row.Cell(0)
		if strings.Contains(ncs, "nRF Connect SDK version") {
			continue
		}
		if strings.Contains(ncs, "|release|") && release == nil {
			release = row
		}
		if strings.Contains(ncs, "(latest)") && latest == nil {
			latest = row
		}
	}

	issues := 0
	issues += d.checkTableEntry(ctx, "|release|", release, lineSpec, lineSDK, true)
	issues += d.checkTableEntry(ctx, "(latest)", latest, lineSpec, lineSDK, false)
	if issues == 0 {
		ctx.Collector.Infof("Version table entries look good")
	}
}

func (d *DocIndex) checkTableEntry(ctx *check.Context, label string, row memlayout.Row, lineSpec, lineSDK string, sdkRequired bool) int {
	if row == nil {
		ctx.Collector.Issuef("Could not find %s entry in table", label)
		return 1
	}

	ctx.Collector.Infof("Found %s entry", label)
	ctx.Collector.Infof("    NCS Version: %s", row.Cell(0))
	ctx.Collector.Infof("    Matter Spec: %s", row.Cell(1))
	ctx.Collector.Infof("    Matter SDK: %s", row.Cell(2))

	if lineSpec == "" || lineSDK == "" {
		return 0
	}

	issues := 0
	tableSpec := extractVersion(row.Cell(1))
	if tableSpec != lineSpec {
		ctx.Collector.Issuef("Matter specification version mismatch for %s: line %s != table %s",
			label, lineSpec, tableSpec)
		issues++
	}
	tableSDK := strings.TrimSpace(row.Cell(2))
	if (sdkRequired || tableSDK != "") && tableSDK != lineSDK {
		ctx.Collector.Issuef("Matter SDK version mismatch for %s: line %s != table %s",
			label, lineSDK, tableSDK)
		issues++
	}
	return issues
}

// tableSection returns the content from the version-table toggle directive to
// the end of the document.
func (d *DocIndex) tableSection() string {
	for _, line := range strings.Split(d.content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, ".. toggle::") && strings.Contains(trimmed, "version") {
			if i := strings.Index(d.content, line); i >= 0 {
				return d.content[i:]
			}
		}
	}
	return ""
}

// extractVersion pulls a bare version number out of a table cell that may
// wrap it in an RST reference.
func extractVersion(text string) string {
	if m := refVersionRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := plainVersionRe.FindString(text); m != "" {
		return m
	}
	return strings.TrimSpace(text)
}
