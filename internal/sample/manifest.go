// Package sample reads sample manifests and scans sample directories.
package sample

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest is the parsed sample.yaml.
type Manifest struct {
	Common Common          `yaml:"common"`
	Tests  map[string]Test `yaml:"tests"`
}

// Common holds metadata shared by all test variants.
type Common struct {
	Tags string `yaml:"tags"`
}

// Test is one build/test variant declaration.
type Test struct {
	PlatformAllow        StringList `yaml:"platform_allow"`
	IntegrationPlatforms StringList `yaml:"integration_platforms"`
	ExtraArgs            StringList `yaml:"extra_args"`
}

// StringList accepts either a YAML scalar or a sequence of scalars; manifests
// use both spellings interchangeably.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		// Scalars may also be a space-separated list.
		*l = strings.Fields(node.Value)
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		*l = items
		return nil
	default:
		return fmt.Errorf("expected scalar or sequence, got %v", node.Kind)
	}
}

// LoadManifest reads and parses a sample.yaml.
func LoadManifest(path string) (*Manifest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(content, &m); err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}
	return &m, nil
}

// Tags returns the tag list from the common section.
func (m *Manifest) TagList() []string {
	return strings.Fields(m.Common.Tags)
}

// Boards returns the set of board name bases declared by the manifest, in the
// underscore form used by board-specific file names. For each declared board
// the flattened identifier and the base board name are both included, so
// nrf5340dk/nrf5340/cpuapp yields nrf5340dk_nrf5340_cpuapp and nrf5340dk.
func (m *Manifest) Boards() map[string]bool {
	boards := make(map[string]bool)
	for _, test := range m.Tests {
		for _, b := range test.PlatformAllow {
			boards[b] = true
		}
		for _, b := range test.IntegrationPlatforms {
			boards[b] = true
		}
	}

	bases := make(map[string]bool)
	for board := range boards {
		bases[strings.ReplaceAll(board, "/", "_")] = true
		if i := strings.Index(board, "/"); i > 0 {
			bases[board[:i]] = true
		} else {
			bases[board] = true
		}
	}
	return bases
}

// HasInternalBuild reports whether any test variant builds with the internal
// file suffix, which is what generates *_internal configuration files.
func (m *Manifest) HasInternalBuild() bool {
	for _, test := range m.Tests {
		for _, arg := range test.ExtraArgs {
			if strings.Contains(arg, "FILE_SUFFIX=internal") {
				return true
			}
		}
	}
	return false
}

// BoardsFromManifest is a convenience wrapper that returns an empty set when
// the manifest is missing and reports parse failures through warn.
func BoardsFromManifest(path string, warn func(format string, args ...any)) map[string]bool {
	if _, err := os.Stat(path); err != nil {
		return map[string]bool{}
	}
	m, err := LoadManifest(path)
	if err != nil {
		if warn != nil {
			warn("Could not parse sample manifest at %s: %v", path, err)
		}
		return map[string]bool{}
	}
	return m.Boards()
}
