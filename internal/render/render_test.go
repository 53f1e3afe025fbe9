package render

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "github.com/conneroisu/folio/internal/errors"
	"github.com/conneroisu/folio/internal/portfolio"
	"github.com/conneroisu/folio/internal/theme"
)

var fixedNow = func() time.Time { return time.Date(2031, time.March, 4, 12, 0, 0, 0, time.UTC) }

func record() portfolio.Data {
	return portfolio.Data{
		FullName: "Ada Lovelace",
		Role:     "Engineer",
		Location: "London",
		Intro:    "I write programs.",
		Email:    "ada@example.com",
		Experiences: []portfolio.Experience{
			{Title: "Annotator", Company: "Engine Co", Dates: "1842", Bullets: portfolio.Lines{"Led X", "", "  ", "Improved Y"}},
		},
		Theme: "forest",
	}
}

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func renderHTML(t *testing.T, d portfolio.Data) *goquery.Document {
	t.Helper()
	b, err := Render(d, Options{Now: fixedNow})
	require.NoError(t, err)
	return parse(t, b.HTML)
}

func TestRenderHead(t *testing.T) {
	b, err := Render(record(), Options{Now: fixedNow})
	require.NoError(t, err)
	doc := parse(t, b.HTML)

	assert.True(t, strings.HasPrefix(b.HTML, "<!DOCTYPE html>\n<html lang=\"en\">"))
	assert.Equal(t, "Ada Lovelace - Engineer", doc.Find("title").Text())
	desc, _ := doc.Find(`meta[name="description"]`).Attr("content")
	assert.Equal(t, "Engineer - Ada Lovelace. I write programs.", desc)
	author, _ := doc.Find(`meta[name="author"]`).Attr("content")
	assert.Equal(t, "Ada Lovelace", author)
	href, _ := doc.Find(`link[rel="stylesheet"][href="css/style.css"]`).Attr("href")
	assert.Equal(t, "css/style.css", href)
	assert.Equal(t, 0, doc.Find("style").Length())
	assert.Equal(t, 0, doc.Find(".preview-banner").Length())
	assert.Contains(t, b.HTML, "localStorage.getItem('theme')")
	assert.Contains(t, b.HTML, "localStorage.setItem('theme', newTheme)")

	icon, _ := doc.Find(`link[rel="icon"]`).Attr("href")
	assert.True(t, strings.HasPrefix(icon, "data:image/svg+xml,"))
	assert.Contains(t, icon, ">AL</text>")
	assert.Equal(t, "AL", doc.Find(".brand-badge").Text())
}

func TestRenderBundle(t *testing.T) {
	b, err := Render(record(), Options{Now: fixedNow})
	require.NoError(t, err)

	assert.Equal(t, "forest", b.Theme)
	assert.Equal(t, "ada-lovelace-portfolio.zip", b.ArchiveName)
	assert.Equal(t, CSS("forest"), b.CSS)
	assert.True(t, strings.HasPrefix(b.Readme, "# Ada Lovelace's Portfolio\n"))
}

func TestDescriptionTruncation(t *testing.T) {
	d := record()
	d.Intro = strings.Repeat("é", 200)

	doc := renderHTML(t, d)
	desc, _ := doc.Find(`meta[name="description"]`).Attr("content")
	assert.Equal(t, "Engineer - Ada Lovelace. "+strings.Repeat("é", 150), desc)
	assert.Equal(t, strings.Repeat("é", 200), doc.Find(".hero__intro p").Text())
}

func TestBlankBulletsDropped(t *testing.T) {
	doc := renderHTML(t, record())
	items := doc.Find(".timeline-item__list li")
	require.Equal(t, 2, items.Length())
	assert.Equal(t, "Led X", items.Eq(0).Text())
	assert.Equal(t, "Improved Y", items.Eq(1).Text())
}

func TestOptionalSections(t *testing.T) {
	t.Run("empty lists render nothing", func(t *testing.T) {
		doc := renderHTML(t, record())
		assert.Equal(t, 0, doc.Find("#skills").Length())
		assert.Equal(t, 0, doc.Find("#education").Length())
		assert.Equal(t, 0, doc.Find("#certifications").Length())
		assert.Equal(t, 1, doc.Find("#experience").Length())
	})

	t.Run("skills keep order", func(t *testing.T) {
		d := record()
		d.Skills = portfolio.Skills{"Go", "Rust"}
		pills := renderHTML(t, d).Find("#skills .skill-pill")
		require.Equal(t, 2, pills.Length())
		assert.Equal(t, "Go", pills.Eq(0).Text())
		assert.Equal(t, "Rust", pills.Eq(1).Text())
	})

	t.Run("education and certifications", func(t *testing.T) {
		d := record()
		d.Education = []portfolio.Education{{Degree: "BSc"}, {Degree: "MSc", School: "UCL", Year: "2020"}, {}}
		d.Certifications = []portfolio.Certification{{Name: "CKA", Issuer: "CNCF", Year: "2022"}, {Issuer: "AWS"}}
		doc := renderHTML(t, d)

		edu := doc.Find(".education-item")
		require.Equal(t, 2, edu.Length())
		assert.Equal(t, 0, edu.Eq(0).Find(".education-item__subtitle").Length())
		assert.Equal(t, 0, edu.Eq(0).Find(".education-item__date").Length())
		assert.Equal(t, "UCL", edu.Eq(1).Find(".education-item__subtitle").Text())
		assert.Equal(t, "2020", edu.Eq(1).Find(".education-item__date").Text())

		metas := doc.Find(".certification-item__meta")
		require.Equal(t, 2, metas.Length())
		assert.Equal(t, "CNCF · 2022", metas.Eq(0).Text())
		assert.Equal(t, "AWS", metas.Eq(1).Text())
	})
}

func TestHeroAndFooter(t *testing.T) {
	doc := renderHTML(t, record())
	assert.Equal(t, "Engineer · London", doc.Find(".hero__role").Text())
	assert.Equal(t, "Engine Co", doc.Find(".timeline-item__subtitle").Text())
	assert.Equal(t, "© 2031 Ada Lovelace", doc.Find(".footer__text").Text())
	assert.Equal(t, 2, doc.Find("button.theme-toggle").Length())

	d := record()
	d.Location = ""
	assert.Equal(t, "Engineer", renderHTML(t, d).Find(".hero__role").Text())
}

func TestContactLinks(t *testing.T) {
	d := record()
	d.Phone = "+1 555 0100"
	d.Website = "example.com/"
	d.LinkedIn = "linkedin.com/in/ada"
	d.GitHub = "HTTPS://github.com/ada"

	links := renderHTML(t, d).Find(".hero__contact a.contact-item")
	require.Equal(t, 5, links.Length())

	expected := []struct {
		title, href, text string
	}{
		{"Email", "mailto:ada@example.com", "ada@example.com"},
		{"Phone", "tel:+15550100", "+1 555 0100"},
		{"Website", "https://example.com/", "example.com"},
		{"LinkedIn", "https://linkedin.com/in/ada", "LinkedIn"},
		{"GitHub", "HTTPS://github.com/ada", "GitHub"},
	}
	for i, want := range expected {
		link := links.Eq(i)
		title, _ := link.Attr("title")
		href, _ := link.Attr("href")
		assert.Equal(t, want.title, title)
		assert.Equal(t, want.href, href)
		assert.Equal(t, want.text, link.Find("span").Text())
	}

	for i := 2; i < 5; i++ {
		target, _ := links.Eq(i).Attr("target")
		rel, _ := links.Eq(i).Attr("rel")
		assert.Equal(t, "_blank", target)
		assert.Equal(t, "noopener noreferrer", rel)
	}
}

func TestWebsiteWithoutScheme(t *testing.T) {
	d := record()
	d.Website = "example.com"
	link := renderHTML(t, d).Find(`a[title="Website"]`)
	href, _ := link.Attr("href")
	assert.Equal(t, "https://example.com", href)
	assert.Equal(t, "example.com", link.Find("span").Text())
}

func TestNoContactsNoRow(t *testing.T) {
	d := record()
	d.Email = ""
	assert.Equal(t, 0, renderHTML(t, d).Find(".hero__contact").Length())
}

func TestEscaping(t *testing.T) {
	payload := `<script>alert(1)</script>`
	d := record()
	d.FullName = payload
	d.Role = `"quoted" & 'single'`
	d.Location = `Tom & Jerry's <b>`
	d.Intro = payload
	d.Skills = portfolio.Skills{payload}
	d.Experiences[0].Bullets = portfolio.Lines{payload}
	d.Education = []portfolio.Education{{Degree: payload}}
	d.Website = `example.com/"><script>alert(1)</script>`

	b, err := Render(d, Options{Now: fixedNow})
	require.NoError(t, err)

	assert.Contains(t, b.HTML, "&lt;script&gt;alert(1)&lt;/script&gt;")
	assert.NotContains(t, b.HTML, "<script>alert(1)")
	assert.NotContains(t, b.HTML, `"quoted"`)

	doc := parse(t, b.HTML)
	assert.Equal(t, 2, doc.Find("script").Length(), "only the theme scripts may be present")
	assert.Equal(t, payload, doc.Find(".hero__name").Text())
	assert.Equal(t, `"quoted" & 'single' · Tom & Jerry's <b>`, doc.Find(".hero__role").Text())
	assert.Equal(t, 0, doc.Find(".hero__role b").Length())
}

func TestEscape(t *testing.T) {
	assert.Equal(t, "&lt;a href=&#34;x&#34;&gt;Tom &amp; Jerry&#39;s&lt;/a&gt;", Escape(`<a href="x">Tom & Jerry's</a>`))
	assert.Equal(t, "plain", Escape("plain"))
}

func TestDeterministic(t *testing.T) {
	a, err := Render(record(), Options{Now: fixedNow})
	require.NoError(t, err)
	b, err := Render(record(), Options{Now: fixedNow})
	require.NoError(t, err)
	assert.Equal(t, a, b)

	p1, err := RenderPreview(record(), Options{Now: fixedNow})
	require.NoError(t, err)
	p2, err := RenderPreview(record(), Options{Now: fixedNow})
	require.NoError(t, err)
	assert.Equal(t, p1, p2)
}

func TestDefaultClockUsesCurrentYear(t *testing.T) {
	b, err := Render(record(), Options{})
	require.NoError(t, err)
	assert.Contains(t, b.HTML, "&copy; "+time.Now().Format("2006")+" Ada Lovelace")
}

func TestRenderPreview(t *testing.T) {
	html, err := RenderPreview(record(), Options{Now: fixedNow, LiveReloadURL: "/reload.js"})
	require.NoError(t, err)
	doc := parse(t, html)

	assert.Equal(t, "Ada Lovelace - Engineer (Preview)", doc.Find("title").Text())
	assert.Equal(t, "This is a preview of your portfolio", doc.Find(".preview-banner span").Text())
	assert.Equal(t, "Close Preview", doc.Find(".preview-banner button").Text())
	assert.Equal(t, 0, doc.Find(`link[href="css/style.css"]`).Length())

	style := doc.Find("style").Text()
	assert.Contains(t, style, theme.CSS("forest"))
	assert.Contains(t, style, ".preview-banner {")
	assert.Contains(t, style, "@media (max-width: 600px)")

	assert.Contains(t, html, "localStorage.getItem('portfolio-preview-theme')")
	assert.NotContains(t, html, "localStorage.getItem('theme')")
	src, _ := doc.Find(`script[src]`).Attr("src")
	assert.Equal(t, "/reload.js", src)
}

func TestPreviewMatchesExportBody(t *testing.T) {
	d := record()
	d.Skills = portfolio.Skills{"Go"}

	b, err := Render(d, Options{Now: fixedNow})
	require.NoError(t, err)
	p, err := RenderPreview(d, Options{Now: fixedNow})
	require.NoError(t, err)

	exportMain, err := parse(t, b.HTML).Find("main").Html()
	require.NoError(t, err)
	previewMain, err := parse(t, p).Find("main").Html()
	require.NoError(t, err)
	assert.Equal(t, exportMain, previewMain)
}

func TestRenderErrors(t *testing.T) {
	t.Run("empty name", func(t *testing.T) {
		d := record()
		d.FullName = "   "
		_, err := Render(d, Options{})
		assert.True(t, ferrors.HasCode(err, ferrors.ErrCodeFieldRequired))
	})

	t.Run("unknown theme", func(t *testing.T) {
		d := record()
		d.Theme = "forst"
		_, err := RenderPreview(d, Options{})
		require.Error(t, err)
		assert.True(t, ferrors.HasCode(err, ferrors.ErrCodeUnknownTheme))
		assert.Contains(t, err.Error(), "Did you mean 'forest'?")
	})

	t.Run("theme override", func(t *testing.T) {
		b, err := Render(record(), Options{Now: fixedNow, Theme: "cool"})
		require.NoError(t, err)
		assert.Equal(t, "cool", b.Theme)
	})

	t.Run("missing theme uses default", func(t *testing.T) {
		d := record()
		d.Theme = ""
		b, err := Render(d, Options{Now: fixedNow})
		require.NoError(t, err)
		assert.Equal(t, theme.Default, b.Theme)
	})
}
