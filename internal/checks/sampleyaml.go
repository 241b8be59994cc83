package checks

import (
	"os"
	"path/filepath"
	"regexp"

	"samplecheck/internal/check"
	"samplecheck/internal/sample"
)

// SampleYAML validates the sample manifest: test names must follow the
// configured naming pattern and at least one required tag must be present.
type SampleYAML struct {
	manifest *sample.Manifest
	namePat  *regexp.Regexp
}

func (*SampleYAML) Name() string { return "Sample YAML consistency" }

func (s *SampleYAML) Prepare(ctx *check.Context) error {
	pat, err := regexp.Compile(ctx.Rules.SampleYAML.SampleNamePattern)
	if err != nil {
		return err
	}
	s.namePat = pat
	s.manifest = nil

	path := filepath.Join(ctx.SamplePath, "sample.yaml")
	if _, err := os.Stat(path); err != nil {
		return check.ErrSkip
	}
	m, err := sample.LoadManifest(path)
	if err != nil {
		ctx.Collector.Issuef("Invalid sample.yaml format: %v", err)
		return nil
	}
	s.manifest = m
	return nil
}

func (s *SampleYAML) Check(ctx *check.Context) {
	if s.manifest == nil {
		return
	}

	for name := range s.manifest.Tests {
		if !s.namePat.MatchString(name) {
			ctx.Collector.Issuef("Sample name in sample.yaml does not match directory name: %s", name)
		}
	}

	tags := s.manifest.TagList()
	present := make(map[string]bool, len(tags))
	for _, t := range tags {
		present[t] = true
	}
	found := false
	for _, req := range ctx.Rules.SampleYAML.RequiredTags {
		if present[req] {
			found = true
			break
		}
	}
	if !found {
		ctx.Collector.Issuef("Missing required tag in sample.yaml: at least one of %v must be present in %v",
			ctx.Rules.SampleYAML.RequiredTags, tags)
	}
}
