package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/folio/internal/theme"
)

func TestCSS(t *testing.T) {
	for _, id := range theme.IDs() {
		t.Run(id, func(t *testing.T) {
			css := CSS(id)
			require.True(t, strings.HasPrefix(css, "/* ============================================"))
			assert.Contains(t, css, "*/\n\n"+theme.CSS(id)+"\n\n/* Typography */")
			assert.Equal(t, css, CSS(id))
		})
	}
}

func TestCSSRuleset(t *testing.T) {
	css := CSS(theme.Default)

	classes := []string{
		".skip-to-content", ".header", ".nav__brand", ".brand-badge", ".brand-name",
		".theme-toggle", ".theme-toggle--footer", ".hero__greeting", ".hero__name",
		".hero__role", ".hero__intro", ".hero__contact", ".contact-item__icon",
		".resume-content", ".resume-section__title", ".timeline-item__header",
		".timeline-item__list", ".skill-pill", ".education-item__subtitle",
		".certification-item__meta", ".footer__text",
	}
	for _, c := range classes {
		assert.Contains(t, css, c+" {", "missing rule for %s", c)
	}

	assert.Contains(t, css, "@media (max-width: 768px)")
	assert.Contains(t, css, "@keyframes fadeInUp")
	assert.Contains(t, css, ".hero__contact { animation-delay: 0.5s; }")
	assert.Contains(t, css, "@media (prefers-reduced-motion: reduce)")
	assert.NotContains(t, css, ".preview-banner")
	assert.True(t, strings.HasSuffix(css, "}\n"))
}

func TestPreviewCSS(t *testing.T) {
	css := PreviewCSS("warm")
	assert.True(t, strings.HasPrefix(css, CSS("warm")))
	assert.Contains(t, css, "}\n\n/* Preview banner */")
	assert.Contains(t, css, ".header { top: 44px !important; }")
	assert.Contains(t, css, "@media (max-width: 600px)")
}

func TestCSSUnknownTheme(t *testing.T) {
	assert.Contains(t, CSS("neon"), ":root {\n\n}")
}

func TestReadme(t *testing.T) {
	r := Readme(record())
	assert.True(t, strings.HasPrefix(r, "# Ada Lovelace's Portfolio"))
	assert.Contains(t, r, "## Quick Start")
	assert.Contains(t, r, "Settings > Pages")
	assert.Contains(t, r, "│   └── style.css <- Theme and styling")
}
