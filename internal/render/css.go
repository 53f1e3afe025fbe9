package render

import (
	"strings"

	"github.com/conneroisu/folio/internal/theme"
)

var (
	cssHeader    = mustAsset("assets/header.css")
	cssRules     = mustAsset("assets/style.css")
	previewRules = mustAsset("assets/preview.css")
)

func mustAsset(name string) string {
	b, err := assets.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return string(b)
}

// CSS returns the exported stylesheet: a banner comment, the theme's light
// and dark variable blocks, and the fixed ruleset shared by every theme.
// Unknown theme ids yield empty variable blocks.
func CSS(themeID string) string {
	var b strings.Builder
	b.WriteString(cssHeader)
	b.WriteString("\n")
	b.WriteString(theme.CSS(themeID))
	b.WriteString("\n\n")
	b.WriteString(cssRules)
	return b.String()
}

// PreviewCSS is CSS plus the rules for the preview banner and the narrow
// screen contact layout.
func PreviewCSS(themeID string) string {
	return CSS(themeID) + "\n" + previewRules
}
