package checks

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"samplecheck/internal/check"
	"samplecheck/internal/memlayout"
	"samplecheck/internal/rules"
)

// PMStatic validates the static partition-map files of a sample: every file
// must carry the base required partitions, variant-specific partitions keyed
// by filename patterns, and internal-memory variants must not reference the
// forbidden partitions.
type PMStatic struct {
	files []string
}

func (*PMStatic) Name() string { return "PM Static" }

func (p *PMStatic) Prepare(ctx *check.Context) error {
	files, err := filepath.Glob(filepath.Join(ctx.SamplePath, "pm_static_*.yml"))
	if err != nil {
		return err
	}
	sort.Strings(files)
	p.files = files
	return nil
}

func (p *PMStatic) Check(ctx *check.Context) {
	if len(p.files) == 0 {
		ctx.Collector.Issuef("No pm_static_*.yml files found")
		return
	}

	cfg := ctx.Rules.PMStatic
	for _, path := range p.files {
		name := filepath.Base(path)
		ctx.Collector.Debugf("Found PM static config: %s", name)

		content, err := os.ReadFile(path)
		if err != nil {
			ctx.Collector.Warningf("Could not read PM static file %s: %v", name, err)
			continue
		}
		if strings.TrimSpace(string(content)) == "" {
			ctx.Collector.Issuef("PM static file is empty: %s", name)
			continue
		}

		m, err := memlayout.LoadMap(path)
		if err != nil {
			ctx.Collector.Issuef("PM static file %s has invalid YAML format: %v", name, err)
			continue
		}
		if len(m) == 0 {
			ctx.Collector.Issuef("PM static file has no valid YAML content: %s", name)
			continue
		}

		partitions := make(map[string]bool, len(m))
		for _, pname := range m.Names() {
			partitions[pname] = true
		}

		p.checkBase(ctx, cfg, name, partitions)
		p.checkVariant(ctx, name, partitions, cfg.FilePatterns.WifiPatterns,
			cfg.WifiRequiredEntries, "WiFi-specific")
		p.checkVariant(ctx, name, partitions, cfg.FilePatterns.NetCorePatterns,
			cfg.NetCoreRequiredEntries, "network-core")
		p.checkVariant(ctx, name, partitions, cfg.FilePatterns.NSPatterns,
			cfg.NSRequiredEntries, "non-secure (_ns)")
		p.checkInternalExclude(ctx, cfg, name, partitions)
	}
}

func (p *PMStatic) checkBase(ctx *check.Context, cfg rules.PMStatic, name string, partitions map[string]bool) {
	skip := make(map[string]bool)
	if matchesPattern(name, cfg.FilePatterns.InternalPatterns) {
		for _, e := range cfg.ExclusionRules.InternalExclude {
			skip[e] = true
		}
	}

	var missing []string
	for _, req := range cfg.BaseRequiredEntries {
		if !skip[req] && !partitions[req] {
			missing = append(missing, req)
		}
	}
	sort.Strings(missing)
	for _, entry := range missing {
		ctx.Collector.Issuef("PM static file %s missing required entry: %s", name, entry)
	}
}

func (p *PMStatic) checkVariant(ctx *check.Context, name string, partitions map[string]bool, patterns, required []string, label string) {
	if !matchesPattern(name, patterns) {
		return
	}
	var missing []string
	for _, req := range required {
		if !partitions[req] {
			missing = append(missing, req)
		}
	}
	if len(missing) == 0 {
		ctx.Collector.Debugf("%s entries present in %s", label, name)
		return
	}
	sort.Strings(missing)
	for _, entry := range missing {
		ctx.Collector.Issuef("PM static file %s missing %s entry: %s", name, label, entry)
	}
}

func (p *PMStatic) checkInternalExclude(ctx *check.Context, cfg rules.PMStatic, name string, partitions map[string]bool) {
	if !matchesPattern(name, cfg.FilePatterns.InternalPatterns) {
		return
	}
	var present []string
	for _, forbidden := range cfg.ExclusionRules.InternalExclude {
		if partitions[forbidden] {
			present = append(present, forbidden)
		}
	}
	if len(present) == 0 {
		ctx.Collector.Debugf("Internal variant correctly excludes %s in %s",
			strings.Join(cfg.ExclusionRules.InternalExclude, ", "), name)
		return
	}
	sort.Strings(present)
	for _, entry := range present {
		ctx.Collector.Issuef("PM static file %s should not contain '%s' entry (internal flash variant)", name, entry)
	}
}

// matchesPattern reports whether any pattern occurs as a substring of name.
func matchesPattern(name string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(name, p) {
			return true
		}
	}
	return false
}
