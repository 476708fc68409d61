// Package codewindow renders source code as a framed panel with line numbers,
// highlighted lines and a pointer-tracking glow overlay.
//
// Styles and the glow script are scoped under the "cw-" class prefix and are
// written at most once per render context. Initialise the context with
// templ.InitializeContext when several windows share one page.
package codewindow

import (
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"github.com/patrickward/codepane/internal/highlight"
)

//go:embed assets
var assetsFS embed.FS

// AssetsFS holds codewindow.css and glow.js for pages that link them.
var AssetsFS = mustSub(assetsFS, "assets")

var (
	stylesheet = mustRead("assets/codewindow.css")
	script     = mustRead("assets/glow.js")
	templates  = template.Must(template.ParseFS(assetsFS, "assets/codewindow.html"))
	assetsOnce = templ.NewOnceHandle(templ.WithComponent(templ.ComponentFunc(renderAssets)))
)

// Source is the text shown in a window plus its display label.
type Source struct {
	Code     string
	Filename string
}

// Window is a renderable code window.
type Window struct {
	source  Source
	lang    *highlight.Language
	classes highlight.Classes
	glow    *Glow
}

// Option configures a Window.
type Option func(*Window)

// WithLanguage sets the language used for highlighting.
func WithLanguage(lang *highlight.Language) Option {
	return func(w *Window) {
		if lang != nil {
			w.lang = lang
		}
	}
}

// WithClasses sets the marker classes used for highlighting.
func WithClasses(classes highlight.Classes) Option {
	return func(w *Window) {
		if classes != nil {
			w.classes = classes
		}
	}
}

// WithGlow replaces the window's glow state.
func WithGlow(g *Glow) Option {
	return func(w *Window) {
		if g != nil {
			w.glow = g
		}
	}
}

// New creates a Window. The language defaults to the one matching the
// filename's extension.
func New(src Source, opts ...Option) *Window {
	w := &Window{
		source:  src,
		lang:    highlight.LanguageFor(src.Filename),
		classes: highlight.DefaultClasses,
		glow:    NewGlow(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Language returns the language used for highlighting.
func (w *Window) Language() *highlight.Language {
	return w.lang
}

// Rows returns the unhighlighted rows.
func (w *Window) Rows() []Row {
	return Split(w.source.Code)
}

// Lines returns one highlighted line per row, in order.
func (w *Window) Lines() []Line {
	h := highlight.New(w.lang, w.classes)
	rows := w.Rows()
	lines := make([]Line, len(rows))
	for i, row := range rows {
		lines[i] = Line{
			Number: row.Number,
			HTML:   template.HTML(h.Line(row.Text)),
		}
	}
	return lines
}

type windowView struct {
	Filename  string
	Lines     []Line
	Glow      *Glow
	GlowStyle template.CSS
}

// Fragment renders the panel without the shared styles and script.
func (w *Window) Fragment() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		return templates.ExecuteTemplate(out, "window", windowView{
			Filename:  w.source.Filename,
			Lines:     w.Lines(),
			Glow:      w.glow,
			GlowStyle: template.CSS("background: " + w.glow.Gradient()),
		})
	})
}

// Component renders the shared assets, once per context, followed by the panel.
func (w *Window) Component() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		if err := Assets().Render(ctx, out); err != nil {
			return err
		}
		return w.Fragment().Render(ctx, out)
	})
}

// Assets renders the scoped stylesheet and glow script once per context.
func Assets() templ.Component {
	return assetsOnce.Once()
}

type assetsView struct {
	CSS   template.CSS
	JS    template.JS
	Nonce string
}

func renderAssets(ctx context.Context, out io.Writer) error {
	return templates.ExecuteTemplate(out, "assets", assetsView{
		CSS:   template.CSS(stylesheet),
		JS:    template.JS(script),
		Nonce: templ.GetNonce(ctx),
	})
}
