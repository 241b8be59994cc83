package checks

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"samplecheck/internal/check"
	"samplecheck/internal/sample"
)

// CopyPaste detects stale references to sibling samples, the usual leftovers
// of copying another sample as a starting point. Sibling sample names (and
// their space-separated spellings) are forbidden words; hits in README.rst
// are warnings since cross-references there can be legitimate.
type CopyPaste struct {
	forbidden []string
}

func (*CopyPaste) Name() string { return "Copy Paste Errors" }

func (c *CopyPaste) Prepare(ctx *check.Context) error {
	siblings := sample.DiscoverSamples(filepath.Dir(ctx.SamplePath))
	cfg := ctx.Rules.CopyPaste

	seen := make(map[string]bool)
	var words []string
	for _, name := range siblings {
		if name == ctx.SampleName || len(name) < cfg.MinWordLength || seen[name] {
			continue
		}
		seen[name] = true
		words = append(words, name)
	}
	for _, word := range words {
		if strings.Contains(word, "_") {
			words = append(words, strings.ReplaceAll(word, "_", " "))
		}
	}

	allowed := make(map[string]bool, len(ctx.AllowedNames))
	for _, name := range ctx.AllowedNames {
		allowed[strings.ToLower(name)] = true
	}
	filtered := words[:0]
	for _, word := range words {
		if !allowed[strings.ToLower(word)] {
			filtered = append(filtered, word)
		}
	}
	if removed := len(words) - len(filtered); removed > 0 {
		names := append([]string(nil), ctx.AllowedNames...)
		sort.Strings(names)
		ctx.Collector.Debugf("Filtered out %d allowed name(s): %s", removed, strings.Join(names, ", "))
	}
	c.forbidden = filtered
	return nil
}

func (c *CopyPaste) Check(ctx *check.Context) {
	ctx.Collector.Debugf("Checking for references to other samples: %s", strings.Join(c.forbidden, ", "))

	cfg := ctx.Rules.CopyPaste
	for _, rel := range cfg.FilesToCheck {
		path := filepath.Join(ctx.SamplePath, rel)
		content, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				ctx.Collector.Warningf("Could not check %s for copy-paste errors: %v", rel, err)
			}
			continue
		}

		lines := strings.Split(string(content), "\n")
		for _, word := range c.forbidden {
			pattern := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
			for i, line := range lines {
				if !pattern.MatchString(line) {
					continue
				}
				if skipLine(line, cfg.SkipPatterns) {
					continue
				}
				preview := strings.TrimSpace(line)
				if len(preview) > 100 {
					preview = preview[:100]
				}
				if rel == "README.rst" {
					ctx.Collector.Warningf("Possible copy-paste error in %s:%d - found '%s' in: %s",
						rel, i+1, word, preview)
				} else {
					ctx.Collector.Issuef("Possible copy-paste error in %s:%d - found '%s' in: %s",
						rel, i+1, word, preview)
				}
			}
		}
	}
}

// skipLine reports whether a matching line is a known legitimate reference.
func skipLine(line string, patterns []string) bool {
	lower := strings.ToLower(strings.TrimSpace(line))
	for _, p := range patterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
