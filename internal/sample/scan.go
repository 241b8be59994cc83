package sample

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"samplecheck/internal/rules"
)

// FindConfigFiles returns all config-bearing files under dir, recursively,
// honoring the rule set's exclusion patterns. Directory names are matched
// against exclude_dirs with shell-style wildcards; file base names against the
// config_file_patterns and exclude_files lists. The result is sorted.
func FindConfigFiles(dir string, excl rules.Exclusions) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && matchesAny(d.Name(), excl.ExcludeDirs) {
				return filepath.SkipDir
			}
			return nil
		}
		name := d.Name()
		for _, f := range excl.ExcludeFiles {
			if name == f {
				return nil
			}
		}
		if matchesAny(name, excl.ConfigFilePatterns) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// FileMap keys the given files by their path relative to root, for
// set-reconciliation against another tree.
func FileMap(root string, files []string) map[string]string {
	m := make(map[string]string, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		if err != nil {
			continue
		}
		m[rel] = f
	}
	return m
}

// DiscoverSamples lists the sample directory names under the family root
// (siblings of the given sample), skipping the shared "common" directory and
// anything that does not look like a sample.
func DiscoverSamples(familyRoot string) []string {
	entries, err := os.ReadDir(familyRoot)
	if err != nil {
		return nil
	}
	var samples []string
	for _, e := range entries {
		if !e.IsDir() || e.Name() == "common" || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		dir := filepath.Join(familyRoot, e.Name())
		if fileExists(filepath.Join(dir, "sample.yaml")) || fileExists(filepath.Join(dir, "CMakeLists.txt")) {
			samples = append(samples, e.Name())
		}
	}
	sort.Strings(samples)
	return samples
}

// FindTemplateDir locates the template sample that siblings are compared
// against: the "template" directory in the sample's family root.
func FindTemplateDir(samplePath string) string {
	dir := filepath.Join(filepath.Dir(samplePath), "template")
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return dir
	}
	return ""
}

func matchesAny(name string, patterns []string) bool {
	for _, p := range patterns {
		if ok, err := filepath.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
