package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDeriveTreeRoot(t *testing.T) {
	sep := string(filepath.Separator)
	assert.Equal(t, sep+filepath.Join("repo"),
		deriveTreeRoot(sep+filepath.Join("repo", "samples", "matter", "lock")))
	assert.Equal(t, "", deriveTreeRoot(sep+filepath.Join("tmp", "elsewhere")))
}

func TestResolveSamplesArgs(t *testing.T) {
	dir := t.TempDir()
	log := zap.NewNop().Sugar()

	samples, err := resolveSamples(options{}, []string{dir, dir}, log)
	require.NoError(t, err)
	require.Len(t, samples, 1)

	abs, err := filepath.Abs(dir)
	require.NoError(t, err)
	assert.Equal(t, abs, samples[0])
}

func TestResolveSamplesRejectsFiles(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	_, err := resolveSamples(options{}, []string{file}, zap.NewNop().Sugar())
	assert.Error(t, err)
}

func TestResolveSamplesRunList(t *testing.T) {
	base := t.TempDir()
	sampleDir := filepath.Join(base, "samples", "matter", "lock")
	require.NoError(t, os.MkdirAll(filepath.Join(sampleDir, "src"), 0o755))

	list := filepath.Join(t.TempDir(), "zap_files.yaml")
	require.NoError(t, os.WriteFile(list,
		[]byte("- zap_file: samples/matter/lock/src/lock.zap\n"), 0o644))

	opts := options{runList: list, baseDir: base}
	samples, err := resolveSamples(opts, nil, zap.NewNop().Sugar())
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, sampleDir, samples[0])
}

func TestRunMissingRules(t *testing.T) {
	code := run([]string{"--rules", filepath.Join(t.TempDir(), "absent.yaml"), t.TempDir()})
	assert.Equal(t, 1, code)
}

func TestRunNoSamples(t *testing.T) {
	code := run([]string{"--rules", rulesPath(t)})
	assert.Equal(t, 1, code)
}

// An empty sample directory cannot be consistent; the exit code counts the
// issues found.
func TestRunFindsIssues(t *testing.T) {
	root := t.TempDir()
	sampleDir := filepath.Join(root, "samples", "matter", "lock")
	require.NoError(t, os.MkdirAll(sampleDir, 0o755))

	code := run([]string{"--rules", rulesPath(t), "--base", root, sampleDir})
	assert.Greater(t, code, 0)
}

func rulesPath(t *testing.T) string {
	t.Helper()
	path, err := filepath.Abs(filepath.Join("..", "..", "samplecheck.yaml"))
	require.NoError(t, err)
	return path
}
