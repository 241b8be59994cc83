// Package checks holds the concrete validations that run against a sample
// directory or the documentation tree. Each check is self-contained; the
// runner in internal/check executes them in registration order.
package checks

import (
	"os"
	"path/filepath"

	"samplecheck/internal/check"
)

// Structure verifies that the sample contains every required file and
// directory from the rule set. Existence only; content is other checks' job.
type Structure struct{}

func (Structure) Name() string { return "File structure" }

func (Structure) Prepare(ctx *check.Context) error { return nil }

func (Structure) Check(ctx *check.Context) {
	for _, rel := range ctx.Rules.FileStructure.RequiredFiles {
		full := filepath.Join(ctx.SamplePath, rel)
		if _, err := os.Stat(full); err != nil {
			ctx.Collector.Issuef("Missing required file: %s", rel)
		} else {
			ctx.Collector.Debugf("Found: %s", rel)
		}
	}

	for _, rel := range ctx.Rules.FileStructure.RequiredDirectories {
		full := filepath.Join(ctx.SamplePath, rel)
		if info, err := os.Stat(full); err != nil || !info.IsDir() {
			ctx.Collector.Issuef("Missing required directory: %s", rel)
		} else {
			ctx.Collector.Debugf("Found directory: %s", rel)
		}
	}
}
