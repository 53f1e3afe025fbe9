package audit

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultRules returns the built-in rule set in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID:          RuleHTMLLang,
			Description: "HTML element must have a lang attribute",
			Impact:      ImpactSerious,
			HelpURL:     "https://dequeuniversity.com/rules/axe/4.4/html-has-lang",
		},
		{
			ID:          RuleDocumentTitle,
			Description: "Documents must contain a non-empty title element",
			Impact:      ImpactSerious,
			HelpURL:     "https://dequeuniversity.com/rules/axe/4.4/document-title",
		},
		{
			ID:          RuleSkipLinkTarget,
			Description: "Page must have a skip link and in-page links must resolve",
			Impact:      ImpactModerate,
			HelpURL:     "https://dequeuniversity.com/rules/axe/4.4/skip-link",
		},
		{
			ID:          RuleExternalLinkRel,
			Description: "Links opening a new tab must carry rel=noopener",
			Impact:      ImpactSerious,
		},
		{
			ID:          RuleButtonLabel,
			Description: "Buttons must have accessible names",
			Impact:      ImpactCritical,
			HelpURL:     "https://dequeuniversity.com/rules/axe/4.4/button-name",
		},
		{
			ID:          RuleScriptCount,
			Description: "Page may only carry the generator's own scripts",
			Impact:      ImpactSerious,
		},
		{
			ID:          RuleMetaDescription,
			Description: "Page should have a meta description",
			Impact:      ImpactMinor,
		},
	}
}

// page is a flattened view of the parsed document.
type page struct {
	elements []*html.Node
	ids      map[string]int
}

func newPage(doc *html.Node) *page {
	p := &page{ids: make(map[string]int)}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			p.elements = append(p.elements, n)
			if id, ok := attr(n, "id"); ok && id != "" {
				p.ids[id]++
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return p
}

func (p *page) byTag(a atom.Atom) []*html.Node {
	var out []*html.Node
	for _, n := range p.elements {
		if n.DataAtom == a {
			out = append(out, n)
		}
	}
	return out
}

func (a *Auditor) check(rule Rule, p *page) []Violation {
	var found []Violation
	fail := func(n *html.Node, format string, args ...interface{}) {
		v := Violation{
			Rule:     rule.ID,
			Severity: rule.Severity(),
			Impact:   rule.Impact,
			Message:  fmt.Sprintf(format, args...),
			HelpURL:  rule.HelpURL,
		}
		if n != nil {
			v.Element = n.Data
			v.Selector = selector(n)
		}
		found = append(found, v)
	}

	switch rule.ID {
	case RuleHTMLLang:
		for _, n := range p.byTag(atom.Html) {
			if lang, _ := attr(n, "lang"); strings.TrimSpace(lang) == "" {
				fail(n, "HTML element missing lang attribute")
			}
		}

	case RuleDocumentTitle:
		titles := p.byTag(atom.Title)
		if len(titles) == 0 {
			fail(nil, "Document has no title element")
		} else if strings.TrimSpace(textContent(titles[0])) == "" {
			fail(titles[0], "Title element is empty")
		}

	case RuleSkipLinkTarget:
		hasSkip := false
		for _, n := range p.byTag(atom.A) {
			href, _ := attr(n, "href")
			if !strings.HasPrefix(href, "#") || href == "#" {
				continue
			}
			if isSkipLink(n) {
				hasSkip = true
			}
			if p.ids[href[1:]] == 0 {
				fail(n, "Link target %s does not exist", href)
			}
		}
		if !hasSkip {
			fail(nil, "Page has no skip link")
		}

	case RuleExternalLinkRel:
		for _, n := range p.byTag(atom.A) {
			if target, _ := attr(n, "target"); target != "_blank" {
				continue
			}
			rel, _ := attr(n, "rel")
			if !contains(strings.Fields(strings.ToLower(rel)), "noopener") {
				href, _ := attr(n, "href")
				fail(n, "Link to %s opens a new tab without rel=noopener", href)
			}
		}

	case RuleButtonLabel:
		for _, n := range p.byTag(atom.Button) {
			if !hasAccessibleName(n) {
				fail(n, "Button missing accessible name")
			}
		}

	case RuleScriptCount:
		inline := 0
		for _, n := range p.byTag(atom.Script) {
			src, ok := attr(n, "src")
			if !ok {
				inline++
				continue
			}
			if !contains(a.config.ScriptSources, src) {
				fail(n, "Unexpected external script %s", src)
			}
		}
		if inline > a.config.MaxInlineScripts {
			fail(nil, "Page has %d inline scripts, expected at most %d", inline, a.config.MaxInlineScripts)
		}

	case RuleMetaDescription:
		ok := false
		for _, n := range p.byTag(atom.Meta) {
			if name, _ := attr(n, "name"); strings.EqualFold(name, "description") {
				content, _ := attr(n, "content")
				ok = strings.TrimSpace(content) != ""
				break
			}
		}
		if !ok {
			fail(nil, "Page has no meta description")
		}
	}

	return found
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func hasAccessibleName(n *html.Node) bool {
	if strings.TrimSpace(textContent(n)) != "" {
		return true
	}
	for _, key := range []string{"aria-label", "aria-labelledby", "title"} {
		if v, ok := attr(n, key); ok && strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

func isSkipLink(n *html.Node) bool {
	class, _ := attr(n, "class")
	if contains(strings.Fields(class), "skip-to-content") {
		return true
	}
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(textContent(n))), "skip")
}

// selector builds a short tag#id.class description of n.
func selector(n *html.Node) string {
	s := n.Data
	if id, ok := attr(n, "id"); ok && id != "" {
		s += "#" + id
	}
	if class, ok := attr(n, "class"); ok {
		for _, c := range strings.Fields(class) {
			s += "." + c
		}
	}
	return s
}
