package checks

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"samplecheck/internal/rules"
)

func copyPasteRules() *rules.Rules {
	return &rules.Rules{
		CopyPaste: rules.CopyPaste{
			MinWordLength: 4,
			FilesToCheck:  []string{"README.rst", "CMakeLists.txt", "prj.conf"},
			SkipPatterns:  []string{"see also", ":ref:", "based on"},
		},
	}
}

// copyPasteFamily creates a family with lock, light_bulb and window_covering
// samples and returns the lock path.
func copyPasteFamily(t *testing.T, lockFiles map[string]string) string {
	t.Helper()
	root := t.TempDir()
	writeTree(t, filepath.Join(root, "lock"), lockFiles)
	writeTree(t, filepath.Join(root, "light_bulb"), map[string]string{"sample.yaml": ""})
	writeTree(t, filepath.Join(root, "window_covering"), map[string]string{"sample.yaml": ""})
	return filepath.Join(root, "lock")
}

func TestCopyPasteDetectsSiblingNames(t *testing.T) {
	lock := copyPasteFamily(t, map[string]string{
		"sample.yaml":    "",
		"CMakeLists.txt": "project(light_bulb)\n",
		"README.rst":     "This sample is a window covering device.\n",
	})

	ctx := newTestContext(copyPasteRules(), filepath.Dir(lock), lock)
	require.True(t, runCheck(t, &CopyPaste{}, ctx))

	// The CMakeLists hit is an issue; the README hit (via the underscore-to-
	// space spelling) only a warning.
	assert.True(t, containsSubstring(issues(ctx), "found 'light_bulb'"))
	assert.True(t, containsSubstring(warnings(ctx), "found 'window covering'"))
}

func TestCopyPasteSkipPatterns(t *testing.T) {
	lock := copyPasteFamily(t, map[string]string{
		"sample.yaml": "",
		"README.rst":  "See also the :ref:`light_bulb` sample.\n",
	})

	ctx := newTestContext(copyPasteRules(), filepath.Dir(lock), lock)
	runCheck(t, &CopyPaste{}, ctx)
	assert.Empty(t, issues(ctx))
	assert.Empty(t, warnings(ctx))
}

func TestCopyPasteWordBoundary(t *testing.T) {
	lock := copyPasteFamily(t, map[string]string{
		"sample.yaml": "",
		// Substring inside a longer identifier is not a hit.
		"prj.conf": "CONFIG_MY_LIGHT_BULBS_EXTENDED=y\n",
	})

	ctx := newTestContext(copyPasteRules(), filepath.Dir(lock), lock)
	runCheck(t, &CopyPaste{}, ctx)
	assert.Empty(t, issues(ctx))
}

func TestCopyPasteAllowedNames(t *testing.T) {
	lock := copyPasteFamily(t, map[string]string{
		"sample.yaml":    "",
		"CMakeLists.txt": "project(light_bulb)\n",
	})

	ctx := newTestContext(copyPasteRules(), filepath.Dir(lock), lock)
	ctx.AllowedNames = []string{"light_bulb"}
	runCheck(t, &CopyPaste{}, ctx)

	assert.Empty(t, issues(ctx))
	assert.True(t, containsSubstring(debugs(ctx), "Filtered out 1 allowed name(s)"))
}

func TestCopyPasteIgnoresOwnName(t *testing.T) {
	lock := copyPasteFamily(t, map[string]string{
		"sample.yaml": "",
		"README.rst":  "The lock sample locks things.\n",
	})

	ctx := newTestContext(copyPasteRules(), filepath.Dir(lock), lock)
	runCheck(t, &CopyPaste{}, ctx)
	assert.Empty(t, issues(ctx))
	assert.Empty(t, warnings(ctx))
}
