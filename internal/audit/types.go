package audit

import (
	"fmt"
	"strings"
	"time"
)

// Severity grades a violation.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Impact describes how badly a violation affects visitors.
type Impact string

const (
	ImpactCritical Impact = "critical"
	ImpactSerious  Impact = "serious"
	ImpactModerate Impact = "moderate"
	ImpactMinor    Impact = "minor"
)

// Rule is one check applied to a page.
type Rule struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Impact      Impact `json:"impact"`
	HelpURL     string `json:"help_url,omitempty"`
}

// Severity maps the rule impact onto a severity.
func (r Rule) Severity() Severity {
	switch r.Impact {
	case ImpactCritical, ImpactSerious:
		return SeverityError
	default:
		return SeverityWarning
	}
}

// Violation is a single failed check.
type Violation struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Impact   Impact   `json:"impact"`
	Element  string   `json:"element,omitempty"`
	Selector string   `json:"selector,omitempty"`
	Message  string   `json:"message"`
	HelpURL  string   `json:"help_url,omitempty"`
}

func (v Violation) String() string {
	if v.Selector == "" {
		return fmt.Sprintf("[%s] %s: %s", v.Severity, v.Rule, v.Message)
	}
	return fmt.Sprintf("[%s] %s: %s (%s)", v.Severity, v.Rule, v.Message, v.Selector)
}

// Summary counts the outcome of an audit.
type Summary struct {
	TotalRules      int `json:"total_rules"`
	PassedRules     int `json:"passed_rules"`
	FailedRules     int `json:"failed_rules"`
	TotalViolations int `json:"total_violations"`
	Errors          int `json:"errors"`
	Warnings        int `json:"warnings"`
}

// Report is the result of auditing one page.
type Report struct {
	Target     string        `json:"target,omitempty"`
	Timestamp  time.Time     `json:"timestamp"`
	Duration   time.Duration `json:"duration"`
	Summary    Summary       `json:"summary"`
	Violations []Violation   `json:"violations"`
	Passed     []string      `json:"passed"`
}

// HasViolations reports whether any rule failed.
func (r *Report) HasViolations() bool {
	return len(r.Violations) > 0
}

// HasErrors reports whether any violation has error severity.
func (r *Report) HasErrors() bool {
	return r.Summary.Errors > 0
}

// String formats the report for terminal output.
func (r *Report) String() string {
	var b strings.Builder
	if r.Target != "" {
		fmt.Fprintf(&b, "Audit of %s\n", r.Target)
	}
	fmt.Fprintf(&b, "%d/%d rules passed", r.Summary.PassedRules, r.Summary.TotalRules)
	if !r.HasViolations() {
		b.WriteString("\n")
		return b.String()
	}
	fmt.Fprintf(&b, ", %d error(s), %d warning(s)\n", r.Summary.Errors, r.Summary.Warnings)
	for _, v := range r.Violations {
		b.WriteString("  ")
		b.WriteString(v.String())
		b.WriteString("\n")
	}
	return b.String()
}
