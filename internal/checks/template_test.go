package checks

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"samplecheck/internal/rules"
)

func templateRules() *rules.Rules {
	return &rules.Rules{
		Exclusions: rules.Exclusions{
			ExcludeDirs:        []string{"build*"},
			ConfigFilePatterns: []string{"*.conf", "*.overlay", "*.yml"},
		},
		License: rules.License{CopyrightPattern: `Copyright \(c\) (\d{4})`},
	}
}

const templateManifest = `
common:
  tags: ci_build
tests:
  sample.matter.template.debug:
    platform_allow:
      - nrf52840dk/nrf52840
      - nrf7002dk/nrf5340/cpuapp
  sample.matter.template.internal:
    platform_allow: nrf54l15dk/nrf54l15/cpuapp
    extra_args:
      - FILE_SUFFIX=internal
`

const lockOnlyManifest = `
common:
  tags: ci_build
tests:
  sample.matter.lock.debug:
    platform_allow: nrf52840dk/nrf52840
`

// family builds a samples family with a template and a lock sample and
// returns the lock path.
func family(t *testing.T, lockFiles, templateFiles map[string]string) string {
	t.Helper()
	root := t.TempDir()
	writeTree(t, filepath.Join(root, "lock"), lockFiles)
	writeTree(t, filepath.Join(root, "template"), templateFiles)
	return filepath.Join(root, "lock")
}

func TestTemplateNoTemplateDir(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, filepath.Join(dir, "lock"), map[string]string{"prj.conf": ""})

	ctx := newTestContext(templateRules(), dir, filepath.Join(dir, "lock"))
	runCheck(t, &Template{}, ctx)
	assert.Equal(t, []string{"Could not find template directory for comparison"}, issues(ctx))
}

func TestTemplateSkipsItself(t *testing.T) {
	root := t.TempDir()
	writeTree(t, filepath.Join(root, "template"), map[string]string{"prj.conf": ""})

	ctx := newTestContext(templateRules(), root, filepath.Join(root, "template"))
	runCheck(t, &Template{}, ctx)
	assert.Empty(t, issues(ctx))
	assert.Empty(t, warnings(ctx))
}

func TestTemplateMatchingFiles(t *testing.T) {
	lock := family(t,
		map[string]string{
			"sample.yaml": lockOnlyManifest,
			"prj.conf":    "CONFIG_CHIP=y\n",
		},
		map[string]string{
			"sample.yaml": templateManifest,
			"prj.conf":    "# Copyright (c) 2025 Nordic Semiconductor ASA\nCONFIG_CHIP=y\n",
		})

	ctx := newTestContext(templateRules(), filepath.Dir(lock), lock)
	runCheck(t, &Template{}, ctx)

	assert.Empty(t, issues(ctx))
	assert.True(t, containsSubstring(debugs(ctx), "prj.conf matches template"))
}

func TestTemplateContentDrift(t *testing.T) {
	lock := family(t,
		map[string]string{
			"sample.yaml": lockOnlyManifest,
			"prj.conf":    "CONFIG_CHIP=n\n",
		},
		map[string]string{
			"sample.yaml": templateManifest,
			"prj.conf":    "CONFIG_CHIP=y\n",
		})

	ctx := newTestContext(templateRules(), filepath.Dir(lock), lock)
	runCheck(t, &Template{}, ctx)

	got := warnings(ctx)
	require.Len(t, got, 1)
	assert.Contains(t, got[0], "Configuration file differs from template: prj.conf")
	assert.Contains(t, got[0], "CONFIG_CHIP=y")
	assert.Contains(t, got[0], "CONFIG_CHIP=n")
}

func TestTemplateMissingFileWarns(t *testing.T) {
	lock := family(t,
		map[string]string{
			"sample.yaml": lockOnlyManifest,
			"prj.conf":    "CONFIG_CHIP=y\n",
		},
		map[string]string{
			"sample.yaml":      templateManifest,
			"prj.conf":         "CONFIG_CHIP=y\n",
			"prj_release.conf": "CONFIG_CHIP=y\n",
		})

	ctx := newTestContext(templateRules(), filepath.Dir(lock), lock)
	runCheck(t, &Template{}, ctx)

	assert.True(t, containsSubstring(warnings(ctx), "File missing compared to template: prj_release.conf"))
}

func TestTemplateExcusesUnsupportedBoards(t *testing.T) {
	lock := family(t,
		map[string]string{
			"sample.yaml": lockOnlyManifest,
			"prj.conf":    "CONFIG_CHIP=y\n",
		},
		map[string]string{
			"sample.yaml": templateManifest,
			"prj.conf":    "CONFIG_CHIP=y\n",
			// Owned by the WiFi board the lock sample does not declare.
			"boards/nrf7002dk_nrf5340_cpuapp.overlay": "x = <1>;\n",
			"pm_static_nrf7002dk_nrf5340_cpuapp.yml":  "mcuboot:\n  size: 0xC000\n",
		})

	ctx := newTestContext(templateRules(), filepath.Dir(lock), lock)
	runCheck(t, &Template{}, ctx)

	assert.Empty(t, warnings(ctx))
	// The excused board is noted once, not once per file.
	count := 0
	for _, msg := range debugs(ctx) {
		if msg == "--- nrf7002dk" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestTemplateExcusesInternalFiles(t *testing.T) {
	// The lock sample declares the board but no internal build variant, so the
	// internal-file excuse applies rather than the unsupported-board one.
	lockManifest := `
common:
  tags: ci_build
tests:
  sample.matter.lock.debug:
    platform_allow:
      - nrf52840dk/nrf52840
      - nrf54l15dk/nrf54l15/cpuapp
`
	lock := family(t,
		map[string]string{
			"sample.yaml": lockManifest,
			"prj.conf":    "CONFIG_CHIP=y\n",
		},
		map[string]string{
			"sample.yaml": templateManifest,
			"prj.conf":    "CONFIG_CHIP=y\n",
			"pm_static_nrf54l15dk_nrf54l15_cpuapp_internal.yml": "mcuboot:\n  size: 0xC000\n",
		})

	ctx := newTestContext(templateRules(), filepath.Dir(lock), lock)
	runCheck(t, &Template{}, ctx)

	assert.Empty(t, warnings(ctx))
	assert.True(t, containsSubstring(debugs(ctx),
		"Internal build variant is not supported for platform 'nrf54l15dk_nrf54l15_cpuapp'"))
}

func TestTemplateExcusesAddons(t *testing.T) {
	lock := family(t,
		map[string]string{
			"sample.yaml": lockOnlyManifest,
			"prj.conf":    "CONFIG_CHIP=y\n",
		},
		map[string]string{
			"sample.yaml": templateManifest,
			"prj.conf":    "CONFIG_CHIP=y\n",
			"boards/nrf21540ek.overlay": "x = <1>;\n",
		})

	ctx := newTestContext(templateRules(), filepath.Dir(lock), lock)
	runCheck(t, &Template{}, ctx)

	assert.Empty(t, warnings(ctx))
	assert.True(t, containsSubstring(debugs(ctx), "Optional add-on/shield 'nrf21540ek'"))
}
