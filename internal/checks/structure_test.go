package checks

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"samplecheck/internal/rules"
)

func structureRules() *rules.Rules {
	return &rules.Rules{
		FileStructure: rules.FileStructure{
			RequiredFiles:       []string{"README.rst", "sample.yaml", "prj.conf"},
			RequiredDirectories: []string{"src"},
		},
	}
}

func TestStructureComplete(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"README.rst":   "doc",
		"sample.yaml":  "tests: {}",
		"prj.conf":     "",
		"src/main.cpp": "",
	})

	ctx := newTestContext(structureRules(), dir, dir)
	runCheck(t, Structure{}, ctx)

	assert.Empty(t, issues(ctx))
	assert.True(t, containsSubstring(debugs(ctx), "Found: README.rst"))
	assert.True(t, containsSubstring(debugs(ctx), "Found directory: src"))
}

func TestStructureMissingPieces(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"README.rst": "doc",
		// src exists as a file, which does not count as a directory.
		"src": "not a dir",
	})

	ctx := newTestContext(structureRules(), dir, dir)
	runCheck(t, Structure{}, ctx)

	got := issues(ctx)
	assert.Contains(t, got, "Missing required file: sample.yaml")
	assert.Contains(t, got, "Missing required file: prj.conf")
	assert.Contains(t, got, "Missing required directory: src")
	assert.Len(t, got, 3)
}
