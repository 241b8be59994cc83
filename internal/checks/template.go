package checks

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"samplecheck/internal/check"
	"samplecheck/internal/report"
	"samplecheck/internal/sample"
)

// addonPatterns name optional shields and add-ons whose files a sample may
// legitimately omit.
var addonPatterns = []string{"nrf21540dk", "nrf21540ek", "shield"}

// Template compares the sample against the template sample it was copied
// from. Template content is required; sample additions are free. Files owned
// by boards the sample does not declare are excused.
type Template struct {
	templateDir string
	copyrightRe *regexp.Regexp

	currentFiles  map[string]string
	templateFiles map[string]string

	unsupportedBoards map[string]bool
	hasInternal       bool

	reportedBoards    map[string]bool
	internalPlatforms map[string]bool
}

func (*Template) Name() string { return "Compare with template sample" }

func (t *Template) Prepare(ctx *check.Context) error {
	t.templateDir = sample.FindTemplateDir(ctx.SamplePath)
	t.reportedBoards = make(map[string]bool)
	t.internalPlatforms = make(map[string]bool)

	pat, err := regexp.Compile("(?i)" + ctx.Rules.License.CopyrightPattern)
	if err != nil {
		return fmt.Errorf("invalid copyright pattern: %w", err)
	}
	t.copyrightRe = pat

	if t.templateDir == "" {
		return nil
	}

	warn := ctx.Collector.Warningf
	currentBoards := sample.BoardsFromManifest(filepath.Join(ctx.SamplePath, "sample.yaml"), warn)
	templateBoards := sample.BoardsFromManifest(filepath.Join(t.templateDir, "sample.yaml"), warn)

	t.unsupportedBoards = make(map[string]bool)
	for board := range templateBoards {
		if !currentBoards[board] {
			t.unsupportedBoards[board] = true
		}
	}

	t.hasInternal = false
	if m, err := sample.LoadManifest(filepath.Join(ctx.SamplePath, "sample.yaml")); err == nil {
		t.hasInternal = m.HasInternalBuild()
	}

	currentFiles, err := sample.FindConfigFiles(ctx.SamplePath, ctx.Rules.Exclusions)
	if err != nil {
		return fmt.Errorf("scanning sample: %w", err)
	}
	templateFiles, err := sample.FindConfigFiles(t.templateDir, ctx.Rules.Exclusions)
	if err != nil {
		return fmt.Errorf("scanning template: %w", err)
	}
	t.currentFiles = sample.FileMap(ctx.SamplePath, currentFiles)
	t.templateFiles = sample.FileMap(t.templateDir, templateFiles)
	return nil
}

func (t *Template) Check(ctx *check.Context) {
	if t.templateDir == "" {
		ctx.Collector.Issuef("Could not find template directory for comparison")
		return
	}
	ctx.Collector.Debugf("Comparing with template at: %s", t.templateDir)

	if ctx.SampleName == "template" {
		ctx.Collector.Infof("Skipping template comparison for template sample itself")
		return
	}

	t.compareShared(ctx)
	t.reportOnlyInCurrent(ctx)
	t.reportOnlyInTemplate(ctx)
	t.reportSkippedInternalPlatforms(ctx)
}

func (t *Template) compareShared(ctx *check.Context) {
	for _, rel := range sortedKeys(t.currentFiles) {
		templatePath, shared := t.templateFiles[rel]
		if !shared {
			continue
		}
		if sample.IsBoardSpecific(rel, t.unsupportedBoards) {
			continue
		}
		diff := compareConfigFiles(t.currentFiles[rel], templatePath, t.copyrightRe)
		if len(diff) > 0 {
			ctx.Collector.Warningf("Configuration file differs from template: %s\n%s",
				rel, report.RenderDiff(diff))
		} else {
			ctx.Collector.Debugf("%s matches template", rel)
		}
	}
}

func (t *Template) reportOnlyInCurrent(ctx *check.Context) {
	ctx.Collector.Debugf("\nAdditional files in current sample that are not in template sample:")
	for _, rel := range sortedKeys(t.currentFiles) {
		if _, shared := t.templateFiles[rel]; shared {
			continue
		}
		if !sample.IsBoardSpecific(rel, t.unsupportedBoards) {
			ctx.Collector.Debugf("--- %s", rel)
		}
	}
}

func (t *Template) reportOnlyInTemplate(ctx *check.Context) {
	ctx.Collector.Debugf("\nAdditional files in template sample that are not in current sample:")
	for _, rel := range sortedKeys(t.templateFiles) {
		if _, shared := t.currentFiles[rel]; shared {
			continue
		}

		if sample.IsBoardSpecific(rel, t.unsupportedBoards) {
			for board := range t.unsupportedBoards {
				if strings.Contains(rel, board) && !t.reportedBoards[board] {
					ctx.Collector.Debugf("--- %s", board)
					t.reportedBoards[board] = true
					break
				}
			}
			continue
		}
		if t.isUnusedInternalFile(rel) {
			continue
		}
		if addon, ok := matchAddon(rel); ok {
			ctx.Collector.Debugf("Optional add-on/shield '%s' is not used in this sample - skipping file: %s", addon, rel)
			continue
		}
		ctx.Collector.Warningf("File missing compared to template: %s", rel)
	}
}

func (t *Template) reportSkippedInternalPlatforms(ctx *check.Context) {
	var platforms []string
	for p := range t.internalPlatforms {
		platforms = append(platforms, p)
	}
	sort.Strings(platforms)
	for _, p := range platforms {
		ctx.Collector.Debugf("Internal build variant is not supported for platform '%s' - skipping internal files", p)
	}
}

// isUnusedInternalFile excuses internal-build files when the sample declares
// no internal build variant, remembering the platform for a single trailing
// note per platform.
func (t *Template) isUnusedInternalFile(rel string) bool {
	if !strings.Contains(rel, "_internal") || t.hasInternal {
		return false
	}
	name := filepath.Base(rel)
	if i := strings.Index(name, "_internal"); i >= 0 {
		platform := strings.TrimPrefix(name[:i], "pm_static_")
		t.internalPlatforms[platform] = true
	}
	return true
}

func matchAddon(rel string) (string, bool) {
	lower := strings.ToLower(rel)
	for _, pattern := range addonPatterns {
		if strings.Contains(lower, pattern) {
			return pattern, true
		}
	}
	return "", false
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
