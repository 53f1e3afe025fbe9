package portfolio

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/conneroisu/folio/internal/theme"
)

// Normalize applies the collection rules to a record: free text is trimmed,
// blank bullets and skills are dropped, education and certification entries
// with no identifying field are dropped, and a missing theme falls back to
// the default. Normalize is idempotent and never mutates its input.
func Normalize(d Data) Data {
	out := Data{
		FullName: strings.TrimSpace(d.FullName),
		Role:     strings.TrimSpace(d.Role),
		Location: strings.TrimSpace(d.Location),
		Intro:    strings.TrimSpace(d.Intro),
		Email:    strings.TrimSpace(d.Email),
		Phone:    strings.TrimSpace(d.Phone),
		Website:  strings.TrimSpace(d.Website),
		LinkedIn: strings.TrimSpace(d.LinkedIn),
		GitHub:   strings.TrimSpace(d.GitHub),
		Theme:    strings.TrimSpace(d.Theme),
	}
	if out.Theme == "" {
		out.Theme = theme.Default
	}

	for _, s := range d.Skills {
		if t := strings.TrimSpace(s); t != "" {
			out.Skills = append(out.Skills, t)
		}
	}

	for _, e := range d.Experiences {
		ne := Experience{
			Title:    strings.TrimSpace(e.Title),
			Company:  strings.TrimSpace(e.Company),
			Location: strings.TrimSpace(e.Location),
			Dates:    strings.TrimSpace(e.Dates),
		}
		for _, b := range e.Bullets {
			if t := strings.TrimSpace(b); t != "" {
				ne.Bullets = append(ne.Bullets, t)
			}
		}
		out.Experiences = append(out.Experiences, ne)
	}

	for _, e := range d.Education {
		ne := Education{
			Degree: strings.TrimSpace(e.Degree),
			School: strings.TrimSpace(e.School),
			Year:   strings.TrimSpace(e.Year),
		}
		if ne.Degree != "" || ne.School != "" {
			out.Education = append(out.Education, ne)
		}
	}

	for _, c := range d.Certifications {
		nc := Certification{
			Name:   strings.TrimSpace(c.Name),
			Issuer: strings.TrimSpace(c.Issuer),
			Year:   strings.TrimSpace(c.Year),
		}
		if nc.Name != "" || nc.Issuer != "" {
			out.Certifications = append(out.Certifications, nc)
		}
	}

	return out
}

// Initials returns the upper-cased first letter of each space-separated
// word of a name, limited to two letters.
func Initials(fullName string) string {
	var runes []rune
	for _, word := range strings.Split(fullName, " ") {
		if word == "" {
			continue
		}
		runes = append(runes, []rune(word)[0])
	}
	initials := []rune(cases.Upper(language.Und).String(string(runes)))
	if len(initials) > 2 {
		initials = initials[:2]
	}
	return string(initials)
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lower-cases s, collapses every run of characters outside [a-z0-9]
// into one hyphen and trims hyphens from both ends.
func Slug(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// ArchiveName is the download name of a record's exported bundle.
func ArchiveName(d Data) string {
	return Slug(d.FullName) + "-portfolio.zip"
}
