// Package rules loads the declarative rule-set document that drives the
// checks: required files and config keys, exclusion patterns, partition
// requirements, and documentation locations. Sections are typed structs so a
// missing or misspelled section fails at load time, not at first use.
package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rules is the full rule-set document.
type Rules struct {
	Exclusions    Exclusions    `yaml:"exclusions"`
	FileStructure FileStructure `yaml:"file_structure"`
	Validation    Validation    `yaml:"validation"`
	SampleYAML    SampleYAML    `yaml:"sample_yaml"`
	PMStatic      PMStatic      `yaml:"pm_static"`
	CopyPaste     CopyPaste     `yaml:"copy_paste_detection"`
	CommentStyle  CommentStyle  `yaml:"comment_style"`
	License       License       `yaml:"license"`
	Documentation Documentation `yaml:"documentation"`
}

// Exclusions apply to every directory scan.
type Exclusions struct {
	ExcludeDirs        []string `yaml:"exclude_dirs"`
	ExcludeFiles       []string `yaml:"exclude_files"`
	ConfigFilePatterns []string `yaml:"config_file_patterns"`
	LicenseExclude     []string `yaml:"license_exclude_patterns"`
}

// FileStructure lists what every sample must contain.
type FileStructure struct {
	RequiredFiles       []string `yaml:"required_files"`
	RequiredDirectories []string `yaml:"required_directories"`
}

// Validation lists required Kconfig-style entries. An entry containing '='
// requires an exact full-line match; a bare key matches `key` or `key=...`.
type Validation struct {
	RequiredPrjConfigs      []string `yaml:"required_prj_configs"`
	RequiredSysbuildConfigs []string `yaml:"required_sysbuild_configs"`
}

// SampleYAML validates the sample manifest.
type SampleYAML struct {
	RequiredTags      []string `yaml:"required_tags"`
	SampleNamePattern string   `yaml:"sample_name_pattern"`
}

// PMStatic validates partition-map files.
type PMStatic struct {
	BaseRequiredEntries    []string     `yaml:"base_required_entries"`
	WifiRequiredEntries    []string     `yaml:"wifi_required_entries"`
	NetCoreRequiredEntries []string     `yaml:"netcore_required_entries"`
	NSRequiredEntries      []string     `yaml:"ns_required_entries"`
	FilePatterns           FilePatterns `yaml:"file_patterns"`
	ExclusionRules         Forbidden    `yaml:"exclusion_rules"`
}

// FilePatterns classify partition-map files by board variant via substring
// match on the filename.
type FilePatterns struct {
	WifiPatterns     []string `yaml:"wifi_patterns"`
	NetCorePatterns  []string `yaml:"netcore_patterns"`
	NSPatterns       []string `yaml:"ns_patterns"`
	InternalPatterns []string `yaml:"internal_patterns"`
}

// Forbidden lists partitions that must not appear in certain variants.
type Forbidden struct {
	InternalExclude []string `yaml:"internal_exclude"`
}

// CopyPaste configures the stale-sample-name detector.
type CopyPaste struct {
	MinWordLength int      `yaml:"min_word_length"`
	FilesToCheck  []string `yaml:"files_to_check"`
	SkipPatterns  []string `yaml:"skip_patterns"`
}

// CommentStyle configures the line-comment scanner. The whole section is
// optional; an empty one skips the check.
type CommentStyle struct {
	FileExtensions []string `yaml:"file_extensions"`
	ExcludeDirs    []string `yaml:"exclude_dirs"`
	RequiredStyle  string   `yaml:"required_style"`
}

// License configures the copyright-header check.
type License struct {
	SourceExtensions   []string `yaml:"source_extensions"`
	CopyrightPattern   string   `yaml:"copyright_pattern"`
	DisallowedPatterns []string `yaml:"disallowed_copyright_patterns"`
	CopyrightKeywords  []string `yaml:"copyright_keywords"`
}

// Documentation points at the documentation files validated once per run.
type Documentation struct {
	Index        DocIndex `yaml:"index"`
	Requirements DocFile  `yaml:"requirements"`
}

// DocIndex locates the version line and table in the index document.
type DocIndex struct {
	Path          string `yaml:"path"`
	LinePattern   string `yaml:"line_pattern"`
	MatterPattern string `yaml:"matter_pattern"`
}

// DocFile is a documentation file referenced by path.
type DocFile struct {
	Path string `yaml:"path"`
}

// Parse parses YAML content into Rules and validates required sections.
func Parse(content []byte) (*Rules, error) {
	var r Rules
	if err := yaml.Unmarshal(content, &r); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Load reads and parses a rule-set document from the given path.
func Load(path string) (*Rules, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules: %w", err)
	}
	r, err := Parse(content)
	if err != nil {
		return nil, fmt.Errorf("rules %s: %w", path, err)
	}
	return r, nil
}

// validate rejects documents missing a section a registered check depends on.
// comment_style is the one optional section: an empty one skips that check.
func (r *Rules) validate() error {
	if len(r.Exclusions.ConfigFilePatterns) == 0 {
		return fmt.Errorf("missing rule section: exclusions.config_file_patterns")
	}
	if len(r.FileStructure.RequiredFiles) == 0 {
		return fmt.Errorf("missing rule section: file_structure.required_files")
	}
	if len(r.Validation.RequiredPrjConfigs) == 0 {
		return fmt.Errorf("missing rule section: validation.required_prj_configs")
	}
	if len(r.SampleYAML.RequiredTags) == 0 || r.SampleYAML.SampleNamePattern == "" {
		return fmt.Errorf("missing rule section: sample_yaml")
	}
	if len(r.PMStatic.BaseRequiredEntries) == 0 {
		return fmt.Errorf("missing rule section: pm_static.base_required_entries")
	}
	if len(r.CopyPaste.FilesToCheck) == 0 {
		return fmt.Errorf("missing rule section: copy_paste_detection.files_to_check")
	}
	if r.License.CopyrightPattern == "" {
		return fmt.Errorf("missing rule section: license.copyright_pattern")
	}
	if r.Documentation.Index.Path == "" || r.Documentation.Requirements.Path == "" {
		return fmt.Errorf("missing rule section: documentation")
	}
	return nil
}
