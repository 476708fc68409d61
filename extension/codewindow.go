package extension

import (
	"context"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"github.com/patrickward/codepane/internal/codewindow"
	"github.com/patrickward/codepane/internal/highlight"
)

var titleAttrRegexp = regexp.MustCompile(`title="([^"]*)"`)

// FenceInfo is the parsed info string of a fenced code block.
type FenceInfo struct {
	Language string
	Label    string
}

// ParseFenceInfo splits an info string such as `jsx App.jsx` or
// `go title="main.go"` into a language and a label.
func ParseFenceInfo(info string) FenceInfo {
	info = strings.TrimSpace(info)
	if info == "" {
		return FenceInfo{}
	}

	var fi FenceInfo
	if m := titleAttrRegexp.FindStringSubmatch(info); m != nil {
		fi.Label = m[1]
		info = strings.TrimSpace(strings.Replace(info, m[0], "", 1))
	}

	fields := strings.Fields(info)
	if len(fields) > 0 {
		fi.Language = fields[0]
	}
	if fi.Label == "" && len(fields) > 1 {
		fi.Label = fields[1]
	}
	return fi
}

// CodeWindowHTMLRenderer renders fenced code blocks as code windows.
type CodeWindowHTMLRenderer struct {
	classes highlight.Classes
}

// NewCodeWindowHTMLRenderer returns a renderer using the given marker classes.
// A nil map selects the defaults.
func NewCodeWindowHTMLRenderer(classes highlight.Classes) renderer.NodeRenderer {
	return &CodeWindowHTMLRenderer{classes: classes}
}

// RegisterFuncs implements renderer.NodeRenderer.RegisterFuncs.
func (r *CodeWindowHTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(gast.KindFencedCodeBlock, r.renderFencedCodeBlock)
}

func (r *CodeWindowHTMLRenderer) renderFencedCodeBlock(
	w util.BufWriter, source []byte, node gast.Node, entering bool) (gast.WalkStatus, error) {
	if !entering {
		return gast.WalkContinue, nil
	}
	n := node.(*gast.FencedCodeBlock)

	var fi FenceInfo
	if n.Info != nil {
		fi = ParseFenceInfo(string(n.Info.Segment.Value(source)))
	}

	var code strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		code.Write(segment.Value(source))
	}

	lang, ok := highlight.Lookup(fi.Language)
	if !ok {
		lang = highlight.LanguageFor(fi.Label)
	}

	window := codewindow.New(
		codewindow.Source{
			Code:     strings.TrimSuffix(code.String(), "\n"),
			Filename: fi.Label,
		},
		codewindow.WithLanguage(lang),
		codewindow.WithClasses(r.classes),
	)

	if err := window.Fragment().Render(context.Background(), w); err != nil {
		return gast.WalkStop, err
	}

	return gast.WalkSkipChildren, nil
}

type codeWindowExtension struct {
	classes highlight.Classes
}

// CodeWindow renders fenced code blocks as code windows with the default classes.
var CodeWindow = &codeWindowExtension{}

// NewCodeWindow returns the extension with custom marker classes.
func NewCodeWindow(classes highlight.Classes) goldmark.Extender {
	return &codeWindowExtension{classes: classes}
}

func (e *codeWindowExtension) Extend(m goldmark.Markdown) {
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(NewCodeWindowHTMLRenderer(e.classes), 100),
	))
}
