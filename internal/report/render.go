package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	issueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// Renderer formats a finding log into the final text report.
type Renderer struct {
	// Verbose includes debug findings in the information section.
	Verbose bool
	// Now lets tests pin the report timestamp. Defaults to time.Now.
	Now func() time.Time
}

// Render produces the report for a single run. Title names the run
// ("Sample Consistency Check Report" or the documentation variant); subject is
// the sample path, empty for documentation-only runs.
func (r Renderer) Render(title, subject string, findings []Finding) string {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}

	rule := strings.Repeat("=", 60)
	var b strings.Builder
	b.WriteString(rule + "\n")
	b.WriteString(title + "\n")
	if subject != "" {
		b.WriteString(fmt.Sprintf("Sample: %s\n", subject))
	}
	b.WriteString(fmt.Sprintf("Check time: %s\n", now().Format("2006-01-02 15:04:05")))
	b.WriteString(rule + "\n")

	b.WriteString("\nINFORMATION:\n")
	for _, f := range findings {
		switch f.Severity {
		case SeverityInfo:
			b.WriteString("  " + f.Message + "\n")
		case SeverityDebug:
			if r.Verbose {
				b.WriteString("  " + f.Message + "\n")
			}
		}
	}

	warnings := filter(findings, SeverityWarning)
	if len(warnings) > 0 {
		b.WriteString(fmt.Sprintf("\n%s\n", warningStyle.Render(fmt.Sprintf("WARNINGS (%d):", len(warnings)))))
		for i, f := range warnings {
			b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, f.Message))
		}
	}

	issues := filter(findings, SeverityIssue)
	if len(issues) > 0 {
		b.WriteString(fmt.Sprintf("\n%s\n", issueStyle.Render(fmt.Sprintf("ISSUES FOUND (%d):", len(issues)))))
		for i, f := range issues {
			b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, f.Message))
		}
	}

	b.WriteString("\n" + rule + "\n")
	if len(issues) == 0 {
		b.WriteString(okStyle.Render("RESULT: Sample appears to be consistent!") + "\n")
	} else {
		b.WriteString(issueStyle.Render("RESULT: Issues found that need to be addressed.") + "\n")
	}
	b.WriteString(rule + "\n")
	return b.String()
}

// RenderDiff colorizes a unified-diff style fragment for embedding in a
// finding message. Lines beyond the change limit are dropped to keep reports
// readable.
func RenderDiff(lines []string) string {
	const maxChanges = 10
	changes := 0
	var out []string
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "+"):
			changes++
			if changes <= maxChanges {
				out = append(out, "    "+addedStyle.Render(strings.TrimRight(line, " ")))
			}
		case strings.HasPrefix(line, "-"):
			changes++
			if changes <= maxChanges {
				out = append(out, "    "+removedStyle.Render(strings.TrimRight(line, " ")))
			}
		default:
			if changes <= maxChanges {
				out = append(out, "    "+strings.TrimRight(line, " "))
			}
		}
	}
	return strings.Join(out, "\n")
}

func filter(findings []Finding, sev Severity) []Finding {
	var out []Finding
	for _, f := range findings {
		if f.Severity == sev {
			out = append(out, f)
		}
	}
	return out
}
