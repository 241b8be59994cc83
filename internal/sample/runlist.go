package sample

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// runEntry is one item of a run-list document. Entries either set the base
// directory or point at a data file inside a sample's src tree.
type runEntry struct {
	BaseDir string `yaml:"base_dir"`
	ZapFile string `yaml:"zap_file"`
}

// ParseRunList reads a YAML run-list and resolves the sample directories it
// references. Each zap_file path names a file under <sample>/src/...; the
// sample directory is everything before the src segment. Entries under a
// "common" directory are skipped. Paths resolve against baseDir when given,
// else against the document's base_dir entry relative to the document itself.
// Missing directories are reported through warn and dropped.
func ParseRunList(path, baseDir string, warn func(format string, args ...any)) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read run list: %w", err)
	}
	var entries []runEntry
	if err := yaml.Unmarshal(content, &entries); err != nil {
		return nil, fmt.Errorf("run list %s: %w", path, err)
	}

	docBase := ""
	for _, e := range entries {
		if e.BaseDir != "" {
			docBase = e.BaseDir
			break
		}
	}

	seen := make(map[string]bool)
	var samples []string
	for _, e := range entries {
		if e.ZapFile == "" {
			continue
		}
		parts := strings.Split(filepath.ToSlash(e.ZapFile), "/")
		srcIdx := -1
		for i, p := range parts {
			if p == "src" {
				srcIdx = i
				break
			}
		}
		if srcIdx <= 0 {
			continue
		}
		rel := filepath.Join(parts[:srcIdx]...)
		if strings.Contains(filepath.ToSlash(rel), "common/") || filepath.Base(rel) == "common" {
			continue
		}

		var dir string
		switch {
		case baseDir != "":
			dir = filepath.Join(baseDir, rel)
		case docBase != "":
			dir = filepath.Join(filepath.Dir(path), docBase, rel)
		default:
			dir = rel
		}
		abs, err := filepath.Abs(dir)
		if err != nil {
			continue
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true

		if info, err := os.Stat(abs); err != nil || !info.IsDir() {
			if warn != nil {
				warn("Sample path does not exist or is not a directory: %s", abs)
			}
			continue
		}
		samples = append(samples, abs)
	}
	return samples, nil
}
