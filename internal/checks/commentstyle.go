package checks

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"samplecheck/internal/check"
)

// CommentStyle enforces block comments over line comments in source files.
// The whole check is skipped when the rule section is absent.
type CommentStyle struct {
	files []string
}

func (*CommentStyle) Name() string { return "Comment style" }

func (c *CommentStyle) Prepare(ctx *check.Context) error {
	cfg := ctx.Rules.CommentStyle
	if len(cfg.FileExtensions) == 0 {
		return check.ErrSkip
	}

	c.files = nil
	err := filepath.WalkDir(ctx.SamplePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != ctx.SamplePath && excludedDir(path, d.Name(), cfg.ExcludeDirs) {
				return filepath.SkipDir
			}
			return nil
		}
		for _, ext := range cfg.FileExtensions {
			if strings.HasSuffix(d.Name(), ext) {
				c.files = append(c.files, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	sort.Strings(c.files)
	return nil
}

func (c *CommentStyle) Check(ctx *check.Context) {
	if len(c.files) == 0 {
		ctx.Collector.Infof("No files found to check for comment style")
		return
	}

	checked := 0
	for _, path := range c.files {
		rel, _ := filepath.Rel(ctx.SamplePath, path)
		content, err := os.ReadFile(path)
		if err != nil {
			ctx.Collector.Warningf("Could not check comment style in %s: %v", rel, err)
			continue
		}
		checked++

		hits := lineCommentPositions(string(content))
		if len(hits) == 0 {
			ctx.Collector.Debugf("Good comment style: %s", rel)
			continue
		}
		for _, hit := range hits {
			preview := strings.TrimSpace(hit.Line)
			if len(preview) > 80 {
				preview = preview[:80]
			}
			ctx.Collector.Issuef("Line comment found in %s:%d - use /* */ instead: %s",
				rel, hit.Number, preview)
		}
	}
	ctx.Collector.Debugf("Checked %d files for comment style", checked)
}

// commentHit is one line containing a line comment.
type commentHit struct {
	Number int
	Line   string
}

// lineCommentPositions scans content for // comments outside string literals
// and block comments. Strings do not span lines; block comments do.
func lineCommentPositions(content string) []commentHit {
	var hits []commentHit
	inBlock := false

	for num, line := range strings.Split(content, "\n") {
		inString := false
		var quote byte

		for i := 0; i < len(line); i++ {
			ch := line[i]

			if !inBlock {
				if !inString && (ch == '"' || ch == '\'') {
					inString = true
					quote = ch
				} else if inString && ch == quote {
					if i == 0 || line[i-1] != '\\' {
						inString = false
					}
				}
			}
			if inString {
				continue
			}

			if !inBlock && i+1 < len(line) && line[i] == '/' && line[i+1] == '*' {
				inBlock = true
				i++
				continue
			}
			if inBlock && i+1 < len(line) && line[i] == '*' && line[i+1] == '/' {
				inBlock = false
				i++
				continue
			}

			if !inBlock && i+1 < len(line) && line[i] == '/' && line[i+1] == '/' {
				hits = append(hits, commentHit{Number: num + 1, Line: line})
				break
			}
		}
	}
	return hits
}

// excludedDir applies the comment-style exclusion patterns to a directory.
// Patterns may be exact names, prefix wildcards (build*) or nested globs
// (**/generated/**).
func excludedDir(path, name string, patterns []string) bool {
	for _, pattern := range patterns {
		switch {
		case strings.HasSuffix(pattern, "/**"):
			p := strings.TrimSuffix(pattern, "/**")
			p = strings.TrimPrefix(p, "**/")
			if strings.Contains(path, p) {
				return true
			}
		case strings.HasSuffix(pattern, "*"):
			if strings.HasPrefix(name, strings.TrimSuffix(pattern, "*")) {
				return true
			}
		default:
			if name == pattern {
				return true
			}
		}
	}
	return false
}
