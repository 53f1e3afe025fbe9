// Package audit checks a rendered portfolio page for the accessibility and
// hygiene properties the generator promises.
package audit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/conneroisu/folio/internal/logging"
)

// Rule ids.
const (
	RuleHTMLLang         = "html-lang"
	RuleDocumentTitle    = "document-title"
	RuleSkipLinkTarget   = "skip-link-target"
	RuleExternalLinkRel  = "external-link-rel"
	RuleButtonLabel      = "button-label"
	RuleScriptCount      = "script-count"
	RuleMetaDescription  = "meta-description"
	defaultInlineScripts = 2
)

// Config tunes the checks.
type Config struct {
	// MaxInlineScripts is the number of inline scripts the page may carry.
	// Zero means the renderer's own two.
	MaxInlineScripts int

	// ScriptSources lists the src values external scripts may use.
	ScriptSources []string

	// Exclude skips rules by id.
	Exclude []string
}

// Auditor runs the rule set against HTML documents.
type Auditor struct {
	config Config
	rules  []Rule
	logger logging.Logger
	now    func() time.Time
}

// New creates an Auditor. A nil logger discards output.
func New(config Config, logger logging.Logger) *Auditor {
	if logger == nil {
		logger = logging.NewNop()
	}
	if config.MaxInlineScripts <= 0 {
		config.MaxInlineScripts = defaultInlineScripts
	}

	a := &Auditor{
		config: config,
		logger: logger.WithComponent("audit"),
		now:    time.Now,
	}
	for _, rule := range DefaultRules() {
		if !contains(config.Exclude, rule.ID) {
			a.rules = append(a.rules, rule)
		}
	}
	return a
}

// Rules returns the rules the auditor applies.
func (a *Auditor) Rules() []Rule {
	out := make([]Rule, len(a.rules))
	copy(out, a.rules)
	return out
}

// Audit parses htmlContent and applies every rule. target names the page in
// the report and may be empty.
func (a *Auditor) Audit(ctx context.Context, target, htmlContent string) (*Report, error) {
	start := a.now()

	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	page := newPage(doc)

	report := &Report{
		Target:     target,
		Timestamp:  start,
		Violations: []Violation{},
		Passed:     []string{},
	}

	for _, rule := range a.rules {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		found := a.check(rule, page)
		if len(found) == 0 {
			report.Passed = append(report.Passed, rule.ID)
			continue
		}
		report.Violations = append(report.Violations, found...)
	}

	report.Duration = time.Since(start)
	report.Summary = summarize(a.rules, report)

	a.logger.Info(ctx, "Audit completed",
		"target", target,
		"violations", len(report.Violations),
		"passed_rules", len(report.Passed),
		"duration", report.Duration)

	return report, nil
}

func summarize(rules []Rule, r *Report) Summary {
	s := Summary{
		TotalRules:      len(rules),
		PassedRules:     len(r.Passed),
		FailedRules:     len(rules) - len(r.Passed),
		TotalViolations: len(r.Violations),
	}
	for _, v := range r.Violations {
		switch v.Severity {
		case SeverityError:
			s.Errors++
		case SeverityWarning:
			s.Warnings++
		}
	}
	return s
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
