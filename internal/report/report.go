package report

import "fmt"

// Severity classifies a single finding.
type Severity string

const (
	SeverityIssue   Severity = "issue"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	SeverityDebug   Severity = "debug"
)

// Finding is one categorized result line. Findings are never mutated or
// retracted after they are recorded.
type Finding struct {
	Severity Severity
	Message  string
}

// Summary holds aggregate counts per severity.
type Summary struct {
	Issues   int
	Warnings int
	Infos    int
	Debugs   int
}

// Collector accumulates findings for a check run. It is an append-only log:
// Record adds, Summarize counts, nothing removes.
type Collector struct {
	findings []Finding
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Record appends a finding with the given severity.
func (c *Collector) Record(sev Severity, message string) {
	c.findings = append(c.findings, Finding{Severity: sev, Message: message})
}

// Issuef records an issue finding.
func (c *Collector) Issuef(format string, args ...any) {
	c.Record(SeverityIssue, fmt.Sprintf(format, args...))
}

// Warningf records a warning finding.
func (c *Collector) Warningf(format string, args ...any) {
	c.Record(SeverityWarning, fmt.Sprintf(format, args...))
}

// Infof records an info finding.
func (c *Collector) Infof(format string, args ...any) {
	c.Record(SeverityInfo, fmt.Sprintf(format, args...))
}

// Debugf records a debug finding.
func (c *Collector) Debugf(format string, args ...any) {
	c.Record(SeverityDebug, fmt.Sprintf(format, args...))
}

// Findings returns all recorded findings in order.
func (c *Collector) Findings() []Finding {
	return c.findings
}

// Len returns the number of recorded findings.
func (c *Collector) Len() int {
	return len(c.findings)
}

// Summarize returns aggregate counts per severity.
func (c *Collector) Summarize() Summary {
	var s Summary
	for _, f := range c.findings {
		switch f.Severity {
		case SeverityIssue:
			s.Issues++
		case SeverityWarning:
			s.Warnings++
		case SeverityInfo:
			s.Infos++
		case SeverityDebug:
			s.Debugs++
		}
	}
	return s
}
