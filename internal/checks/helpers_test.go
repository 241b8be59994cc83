package checks

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"samplecheck/internal/check"
	"samplecheck/internal/report"
	"samplecheck/internal/rules"
)

// writeTree materializes a file tree for a test. Keys are slash-separated
// relative paths.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func newTestContext(r *rules.Rules, treeRoot, samplePath string) *check.Context {
	return check.NewContext(r, treeRoot, samplePath, nil)
}

// runCheck prepares and executes a single check, failing the test on an
// unexpected Prepare error. It returns true when the check ran.
func runCheck(t *testing.T, c check.Check, ctx *check.Context) bool {
	t.Helper()
	if err := c.Prepare(ctx); err != nil {
		if err == check.ErrSkip {
			return false
		}
		t.Fatalf("prepare %s: %v", c.Name(), err)
	}
	c.Check(ctx)
	return true
}

func findingsBySeverity(ctx *check.Context, sev report.Severity) []string {
	var out []string
	for _, f := range ctx.Collector.Findings() {
		if f.Severity == sev {
			out = append(out, f.Message)
		}
	}
	return out
}

func issues(ctx *check.Context) []string   { return findingsBySeverity(ctx, report.SeverityIssue) }
func warnings(ctx *check.Context) []string { return findingsBySeverity(ctx, report.SeverityWarning) }
func debugs(ctx *check.Context) []string   { return findingsBySeverity(ctx, report.SeverityDebug) }

func containsSubstring(list []string, sub string) bool {
	for _, s := range list {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
