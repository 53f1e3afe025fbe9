package render

import (
	"html/template"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/conneroisu/folio/internal/portfolio"
)

const descriptionLimit = 150

type view struct {
	portfolio.Data

	Preview       bool
	StorageKey    string
	Stylesheet    template.CSS
	LiveReloadURL string

	Initials    string
	Description string
	Year        string
	Contacts    []Contact
}

// Contact is one link in the hero contact row.
type Contact struct {
	Kind  string
	Value string
	Label string
}

func newView(d portfolio.Data, now time.Time, storageKey string, preview bool, css, reloadURL string) view {
	return view{
		Data:          d,
		Preview:       preview,
		StorageKey:    storageKey,
		Stylesheet:    template.CSS(css),
		LiveReloadURL: reloadURL,
		Initials:      portfolio.Initials(d.FullName),
		Description:   Description(d),
		Year:          strconv.Itoa(now.Year()),
		Contacts:      Contacts(d),
	}
}

// Description is the content of the page's description meta tag: role,
// name and the first 150 characters of the intro.
func Description(d portfolio.Data) string {
	intro := []rune(d.Intro)
	if len(intro) > descriptionLimit {
		intro = intro[:descriptionLimit]
	}
	return d.Role + " - " + d.FullName + ". " + string(intro)
}

// Contacts lists the contact links of a record in display order: email,
// phone, website, LinkedIn, GitHub. Empty fields are skipped.
func Contacts(d portfolio.Data) []Contact {
	var out []Contact
	if d.Email != "" {
		out = append(out, Contact{Kind: "email", Value: d.Email, Label: d.Email})
	}
	if d.Phone != "" {
		out = append(out, Contact{Kind: "phone", Value: stripSpace(d.Phone), Label: d.Phone})
	}
	if d.Website != "" {
		out = append(out, Contact{Kind: "website", Value: ExternalURL(d.Website), Label: DisplayURL(d.Website)})
	}
	if d.LinkedIn != "" {
		out = append(out, Contact{Kind: "linkedin", Value: ExternalURL(d.LinkedIn), Label: "LinkedIn"})
	}
	if d.GitHub != "" {
		out = append(out, Contact{Kind: "github", Value: ExternalURL(d.GitHub), Label: "GitHub"})
	}
	return out
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func hasHTTPScheme(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// ExternalURL prefixes s with https:// unless it already has an http or
// https scheme.
func ExternalURL(s string) string {
	if hasHTTPScheme(s) {
		return s
	}
	return "https://" + s
}

// DisplayURL strips an http or https scheme and one trailing slash.
func DisplayURL(s string) string {
	if hasHTTPScheme(s) {
		s = s[strings.Index(s, "://")+3:]
	}
	return strings.TrimSuffix(s, "/")
}
