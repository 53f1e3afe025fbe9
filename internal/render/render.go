// Package render turns a portfolio record into the files of a static site.
//
// The package is pure: it performs no I/O and holds no mutable state, so
// every function is safe for concurrent use. Rendering goes through a single
// html/template document that serves both the exported index.html and the
// self-contained preview page; the Preview flag of the view decides whether
// the stylesheet is linked or inlined and whether the preview banner is
// shown. html/template's contextual escaping is the only escaper applied to
// user text, in element bodies and attribute values alike.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	texttemplate "text/template"
	"time"

	ferrors "github.com/conneroisu/folio/internal/errors"
	"github.com/conneroisu/folio/internal/portfolio"
	"github.com/conneroisu/folio/internal/theme"
)

// Storage keys the generated pages use to remember the visitor's light or
// dark choice.
const (
	ExportStorageKey  = "theme"
	PreviewStorageKey = "portfolio-preview-theme"
)

//go:embed assets/*
var assets embed.FS

var (
	documentTemplate = template.Must(template.ParseFS(assets,
		"assets/document.html.tmpl", "assets/contact.html.tmpl"))
	readmeTemplate = texttemplate.Must(texttemplate.ParseFS(assets, "assets/readme.md.tmpl"))
)

// Options adjusts a render.
type Options struct {
	// Now supplies the footer year. Defaults to time.Now.
	Now func() time.Time

	// Theme overrides the record's theme when non-empty.
	Theme string

	// StorageKey overrides the localStorage key of the generated page.
	StorageKey string

	// LiveReloadURL adds a script tag before </body>. Only the preview
	// server sets it.
	LiveReloadURL string
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// Bundle holds the three exported files of a rendered portfolio.
type Bundle struct {
	HTML   string
	CSS    string
	Readme string

	// Theme is the theme id the bundle was rendered with.
	Theme string
	// ArchiveName is the download name of the zipped bundle.
	ArchiveName string
}

// Render produces the exported index.html, css/style.css and README.md for
// a record. The record is normalized first.
func Render(d portfolio.Data, opts Options) (*Bundle, error) {
	d, err := prepare(d, opts)
	if err != nil {
		return nil, err
	}

	key := opts.StorageKey
	if key == "" {
		key = ExportStorageKey
	}

	html, err := execute(newView(d, opts.now(), key, false, "", opts.LiveReloadURL))
	if err != nil {
		return nil, err
	}

	return &Bundle{
		HTML:        html,
		CSS:         CSS(d.Theme),
		Readme:      Readme(d),
		Theme:       d.Theme,
		ArchiveName: portfolio.ArchiveName(d),
	}, nil
}

// RenderPreview produces the single-file preview page: the same document
// with the stylesheet inlined, a banner, and a preview-scoped storage key.
func RenderPreview(d portfolio.Data, opts Options) (string, error) {
	d, err := prepare(d, opts)
	if err != nil {
		return "", err
	}

	key := opts.StorageKey
	if key == "" {
		key = PreviewStorageKey
	}

	return execute(newView(d, opts.now(), key, true, PreviewCSS(d.Theme), opts.LiveReloadURL))
}

// prepare normalizes the record and rejects what cannot be rendered.
func prepare(d portfolio.Data, opts Options) (portfolio.Data, error) {
	if opts.Theme != "" {
		d.Theme = opts.Theme
	}
	d = portfolio.Normalize(d)

	if d.FullName == "" {
		return d, ferrors.NewValidationError(ferrors.ErrCodeFieldRequired, "Full name is required").
			WithField("fullName")
	}

	if err := CheckTheme(d.Theme); err != nil {
		return d, err
	}

	return d, nil
}

// CheckTheme returns a configuration error with suggestions when id is not
// a catalogue theme.
func CheckTheme(id string) error {
	if theme.Exists(id) {
		return nil
	}
	cause := ferrors.NewConfigError(ferrors.ErrCodeUnknownTheme,
		fmt.Sprintf("unknown theme %q", id)).WithField("theme")
	return ferrors.NewEnhancedError(cause.Error(), cause, ferrors.UnknownThemeError(id, theme.IDs()))
}

func execute(v view) (string, error) {
	var buf bytes.Buffer
	if err := documentTemplate.ExecuteTemplate(&buf, "document.html.tmpl", v); err != nil {
		return "", ferrors.NewRenderError(ferrors.ErrCodeRenderFailed, "cannot render document", err)
	}
	return buf.String(), nil
}

// Readme renders the hosting instructions shipped with the bundle.
func Readme(d portfolio.Data) string {
	var buf bytes.Buffer
	// The template only reads FullName, so execution cannot fail.
	_ = readmeTemplate.Execute(&buf, struct{ FullName string }{d.FullName})
	return buf.String()
}

// Escape replaces the characters & ' < > " with HTML entities, the same set
// the document template neutralises in text and attribute contexts.
func Escape(s string) string {
	return template.HTMLEscapeString(s)
}
