package check

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"samplecheck/internal/report"
	"samplecheck/internal/rules"
)

type fakeCheck struct {
	name       string
	prepareErr error
	check      func(ctx *Context)
}

func (f fakeCheck) Name() string               { return f.name }
func (f fakeCheck) Prepare(ctx *Context) error { return f.prepareErr }
func (f fakeCheck) Check(ctx *Context) {
	if f.check != nil {
		f.check(ctx)
	}
}

func messages(c *report.Collector) []string {
	var out []string
	for _, f := range c.Findings() {
		out = append(out, f.Message)
	}
	return out
}

func TestNewContextDefaults(t *testing.T) {
	ctx := NewContext(&rules.Rules{}, "/repo", "/repo/samples/matter/lock", nil)
	assert.Equal(t, "lock", ctx.SampleName)
	require.NotNil(t, ctx.Log)
	require.NotNil(t, ctx.Collector)
}

func TestRunnerBannerAndSummary(t *testing.T) {
	ctx := NewContext(&rules.Rules{}, ".", "sample", nil)
	Runner{Checks: []Check{
		fakeCheck{name: "File structure", check: func(ctx *Context) {
			ctx.Collector.Issuef("missing src")
			ctx.Collector.Warningf("odd name")
		}},
	}}.Run(ctx)

	msgs := messages(ctx.Collector)
	assert.Contains(t, msgs, "\n=== File structure check ===")
	assert.Contains(t, msgs, "1 issue(s) found")
	assert.Contains(t, msgs, "1 warning(s) found")
}

func TestRunnerCleanCheck(t *testing.T) {
	ctx := NewContext(&rules.Rules{}, ".", "sample", nil)
	Runner{Checks: []Check{fakeCheck{name: "Configuration"}}}.Run(ctx)

	msgs := messages(ctx.Collector)
	assert.Contains(t, msgs, "No issues found")
	assert.Equal(t, 0, ctx.Collector.Summarize().Issues)
}

func TestRunnerSkip(t *testing.T) {
	ctx := NewContext(&rules.Rules{}, ".", "sample", nil)
	Runner{Checks: []Check{fakeCheck{name: "Comment style", prepareErr: ErrSkip}}}.Run(ctx)

	msgs := messages(ctx.Collector)
	assert.Contains(t, msgs, "Check skipped")
	assert.Equal(t, 0, ctx.Collector.Summarize().Issues)
	// A skipped check reports neither a summary nor findings of its own.
	assert.NotContains(t, msgs, "No issues found")
}

func TestRunnerPrepareError(t *testing.T) {
	ctx := NewContext(&rules.Rules{}, ".", "sample", nil)
	Runner{Checks: []Check{
		fakeCheck{name: "Partition map", prepareErr: errors.New("unreadable pm_static")},
	}}.Run(ctx)

	s := ctx.Collector.Summarize()
	assert.Equal(t, 1, s.Issues)
	assert.Contains(t, messages(ctx.Collector), "unreadable pm_static")
}

func TestRunnerPanicRecovery(t *testing.T) {
	ctx := NewContext(&rules.Rules{}, ".", "sample", nil)
	Runner{Checks: []Check{
		fakeCheck{name: "Template", check: func(ctx *Context) { panic("boom") }},
		fakeCheck{name: "License", check: func(ctx *Context) { ctx.Collector.Warningf("late") }},
	}}.Run(ctx)

	msgs := messages(ctx.Collector)
	assert.Contains(t, msgs, `check "Template" failed: boom`)
	// The run continues past a panicking check.
	assert.Contains(t, msgs, "late")
}

func TestRunnerOrder(t *testing.T) {
	ctx := NewContext(&rules.Rules{}, ".", "sample", nil)
	var order []string
	mk := func(name string) Check {
		return fakeCheck{name: name, check: func(ctx *Context) { order = append(order, name) }}
	}
	Runner{Checks: []Check{mk("first"), mk("second"), mk("third")}}.Run(ctx)
	assert.Equal(t, []string{"first", "second", "third"}, order)
}
