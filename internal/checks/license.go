package checks

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"samplecheck/internal/check"
)

// License validates the copyright year in source file headers against the
// expected years. Files carrying a disallowed (third-party) copyright are
// skipped silently; the check is skipped entirely when no years are given.
type License struct {
	files        []string
	copyrightRe  *regexp.Regexp
	disallowedRe []*regexp.Regexp
}

func (*License) Name() string { return "License Year Check" }

func (l *License) Prepare(ctx *check.Context) error {
	cfg := ctx.Rules.License

	pat, err := regexp.Compile(cfg.CopyrightPattern)
	if err != nil {
		return fmt.Errorf("invalid copyright pattern: %w", err)
	}
	l.copyrightRe = pat

	l.disallowedRe = l.disallowedRe[:0]
	for _, p := range cfg.DisallowedPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return fmt.Errorf("invalid disallowed pattern %q: %w", p, err)
		}
		l.disallowedRe = append(l.disallowedRe, re)
	}

	excl := ctx.Rules.Exclusions
	l.files = nil
	err = filepath.WalkDir(ctx.SamplePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != ctx.SamplePath && dirNameMatches(d.Name(), excl.ExcludeDirs) {
				return filepath.SkipDir
			}
			return nil
		}
		for _, p := range excl.LicenseExclude {
			if strings.Contains(path, p) {
				return nil
			}
		}
		for _, ext := range cfg.SourceExtensions {
			if strings.HasSuffix(d.Name(), ext) {
				l.files = append(l.files, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	sort.Strings(l.files)
	return nil
}

func (l *License) Check(ctx *check.Context) {
	if len(ctx.ExpectedYears) == 0 {
		ctx.Collector.Infof("License year checking skipped (no years specified)")
		return
	}

	expected := make(map[int]bool, len(ctx.ExpectedYears))
	years := append([]int(nil), ctx.ExpectedYears...)
	sort.Ints(years)
	var yearTexts []string
	for _, y := range years {
		expected[y] = true
		yearTexts = append(yearTexts, strconv.Itoa(y))
	}
	yearsStr := strings.Join(yearTexts, ", ")

	type outdated struct {
		rel  string
		year int
	}
	var current, missing []string
	var wrong []outdated

	for _, path := range l.files {
		rel, _ := filepath.Rel(ctx.SamplePath, path)
		header, err := readHeader(path, 100)
		if err != nil {
			ctx.Collector.Warningf("Could not read %s: %v", rel, err)
			continue
		}

		if l.disallowed(header) {
			continue
		}

		m := l.copyrightRe.FindStringSubmatch(header)
		if m == nil {
			missing = append(missing, rel)
			continue
		}
		year, err := strconv.Atoi(m[1])
		if err != nil || !expected[year] {
			wrong = append(wrong, outdated{rel: rel, year: year})
		} else {
			current = append(current, rel)
		}
	}

	for _, rel := range current {
		ctx.Collector.Debugf("Expected year(s) (%s) license: %s", yearsStr, rel)
	}
	for _, rel := range missing {
		ctx.Collector.Warningf("No copyright found in: %s", rel)
	}
	for _, o := range wrong {
		ctx.Collector.Issuef("Incorrect copyright year in %s: %d (expected one of: %s)",
			o.rel, o.year, yearsStr)
	}
}

func (l *License) disallowed(header string) bool {
	for _, re := range l.disallowedRe {
		if re.MatchString(header) {
			return true
		}
	}
	return false
}

// readHeader reads up to n bytes from the start of a file. Copyright headers
// always sit at the top.
func readHeader(path string, n int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := make([]byte, n)
	read, err := f.Read(buf)
	if read == 0 && err != nil {
		return "", err
	}
	return string(buf[:read]), nil
}

func dirNameMatches(name string, patterns []string) bool {
	for _, p := range patterns {
		if ok, err := filepath.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}
