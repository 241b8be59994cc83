package checks

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"samplecheck/internal/check"
)

// Configuration verifies that the required Kconfig-style entries are present
// in the project and sysbuild configuration files. Missing optional files are
// skipped silently.
type Configuration struct{}

func (Configuration) Name() string { return "Configuration consistency" }

func (Configuration) Prepare(ctx *check.Context) error { return nil }

func (Configuration) Check(ctx *check.Context) {
	prjFiles := []string{"prj.conf", "prj_release.conf"}
	checkConfigFiles(ctx, prjFiles, ctx.Rules.Validation.RequiredPrjConfigs, "prj.conf")

	sysbuildFiles := []string{"sysbuild.conf", "sysbuild_internal.conf"}
	checkConfigFiles(ctx, sysbuildFiles, ctx.Rules.Validation.RequiredSysbuildConfigs, "sysbuild.conf")
}

func checkConfigFiles(ctx *check.Context, files, required []string, label string) {
	for _, name := range files {
		path := filepath.Join(ctx.SamplePath, name)
		content, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		for _, req := range required {
			if !configPresent(string(content), req) {
				ctx.Collector.Issuef("Missing configuration in %s: %s", label, req)
			} else {
				ctx.Collector.Debugf("Found config: %s", req)
			}
		}
	}
}

// configPresent reports whether a requirement is satisfied by Kconfig-style
// content. Comment lines are ignored. A requirement with an explicit value
// (KEY=y) needs an exact full-line match; a bare key matches the key alone or
// with any value.
func configPresent(content, requirement string) bool {
	var pattern *regexp.Regexp
	if strings.Contains(requirement, "=") {
		pattern = regexp.MustCompile(`^\s*` + regexp.QuoteMeta(requirement) + `\s*$`)
	} else {
		pattern = regexp.MustCompile(`^\s*` + regexp.QuoteMeta(requirement) + `(\s*=.*)?\s*$`)
	}

	for _, line := range strings.Split(content, "\n") {
		stripped := strings.TrimLeft(line, " \t")
		if stripped == "" || strings.HasPrefix(stripped, "#") {
			continue
		}
		if pattern.MatchString(line) {
			return true
		}
	}
	return false
}
