// Package check defines the check contract and the sequential runner.
// Checks are registered in an explicit ordered list, run one at a time, and
// append findings to a shared collector; a failing check never aborts the run.
package check

import (
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"samplecheck/internal/report"
	"samplecheck/internal/rules"
)

// ErrSkip can be returned from Prepare to skip a check without failing it
// (for example when its rule section is absent).
var ErrSkip = errors.New("check skipped")

// Context carries everything a check needs. SamplePath is empty for
// documentation checks, which run once per invocation rather than per sample.
type Context struct {
	Rules      *rules.Rules
	TreeRoot   string // repository root the samples and docs live under
	SamplePath string
	SampleName string

	Verbose       bool
	ExpectedYears []int
	AllowedNames  []string

	Log       *zap.SugaredLogger
	Collector *report.Collector
}

// NewContext builds a context for one run. A nil logger is replaced with a
// no-op logger so checks can log unconditionally.
func NewContext(r *rules.Rules, treeRoot, samplePath string, log *zap.SugaredLogger) *Context {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Context{
		Rules:      r,
		TreeRoot:   treeRoot,
		SamplePath: samplePath,
		SampleName: filepath.Base(samplePath),
		Log:        log,
		Collector:  report.NewCollector(),
	}
}

// Check is one validation. Prepare gathers inputs (and may return ErrSkip);
// Check records findings on the context's collector.
type Check interface {
	Name() string
	Prepare(ctx *Context) error
	Check(ctx *Context)
}

// Runner executes checks strictly in registration order.
type Runner struct {
	Checks []Check
}

// Run executes every check against the context. Each check gets a banner in
// the finding stream and a trailing summary of what it added. A Prepare error
// or a panic inside Check is converted to an issue finding for that check and
// the run continues with the next one.
func (r Runner) Run(ctx *Context) {
	for _, c := range r.Checks {
		r.runOne(ctx, c)
	}
}

func (r Runner) runOne(ctx *Context, c Check) {
	ctx.Collector.Infof("\n=== %s check ===", c.Name())
	before := ctx.Collector.Summarize()

	if err := c.Prepare(ctx); err != nil {
		if errors.Is(err, ErrSkip) {
			ctx.Collector.Infof("Check skipped")
			return
		}
		ctx.Collector.Issuef("%v", err)
		r.summarize(ctx, before)
		return
	}

	func() {
		defer func() {
			if rec := recover(); rec != nil {
				ctx.Log.Errorw("check panicked", "check", c.Name(), "panic", rec)
				ctx.Collector.Issuef("check %q failed: %v", c.Name(), rec)
			}
		}()
		c.Check(ctx)
	}()

	r.summarize(ctx, before)
}

func (r Runner) summarize(ctx *Context, before report.Summary) {
	after := ctx.Collector.Summarize()
	issues := after.Issues - before.Issues
	warnings := after.Warnings - before.Warnings
	if issues == 0 && warnings == 0 {
		ctx.Collector.Infof("No issues found")
		return
	}
	if issues > 0 {
		ctx.Collector.Record(report.SeverityInfo, fmt.Sprintf("%d issue(s) found", issues))
	}
	if warnings > 0 {
		ctx.Collector.Record(report.SeverityInfo, fmt.Sprintf("%d warning(s) found", warnings))
	}
}
