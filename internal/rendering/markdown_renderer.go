package rendering

import (
	"bytes"
	"fmt"
	"html/template"
	"slices"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	cextension "github.com/patrickward/codepane/extension"
	"github.com/patrickward/codepane/internal/highlight"
)

// MarkdownRenderer converts Markdown snippets to sanitised HTML with fenced
// code blocks rendered as code windows.
type MarkdownRenderer struct {
	md        goldmark.Markdown
	sanitizer *bluemonday.Policy
}

// RenderedContent is the result of rendering a Markdown document.
type RenderedContent struct {
	Title          string         // front matter title, else the first H1
	HTML           template.HTML  // sanitised HTML
	SectionHeaders []string       // H2 headings, in order
	CodeWindows    int            // number of fenced code blocks rendered as windows
	Metadata       map[string]any // front matter
}

// Property is a front matter field shown alongside a document.
type Property struct {
	Name  string
	Value string
}

// Properties returns the front matter fields other than title, sorted by name.
func (rc RenderedContent) Properties() []Property {
	props := make([]Property, 0, len(rc.Metadata))
	for name, value := range rc.Metadata {
		if name == "title" {
			continue
		}
		props = append(props, Property{Name: name, Value: formatProperty(value)})
	}
	slices.SortFunc(props, func(a, b Property) int {
		return strings.Compare(a.Name, b.Name)
	})
	return props
}

func formatProperty(v any) string {
	list, ok := v.([]any)
	if !ok {
		return fmt.Sprint(v)
	}
	parts := make([]string, 0, len(list))
	for _, item := range list {
		parts = append(parts, formatProperty(item))
	}
	return strings.Join(parts, ", ")
}

// NewMarkdownRenderer creates a renderer. A nil classes map selects the default
// highlight classes.
func NewMarkdownRenderer(classes highlight.Classes) *MarkdownRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.Linkify,
			extension.Table,
			extension.Strikethrough,
			extension.Typographer,
			extension.DefinitionList,
			cextension.NewCodeWindow(classes),
			meta.Meta,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
			html.WithUnsafe(), // raw HTML is sanitised afterwards
		),
	)

	return &MarkdownRenderer{
		md:        md,
		sanitizer: createSanitizerPolicy(),
	}
}

// Render renders content. Conversion errors are reported inline rather than returned.
func (mr *MarkdownRenderer) Render(content string) RenderedContent {
	source := []byte(content)
	ctx := parser.NewContext()
	doc := mr.md.Parser().Parse(text.NewReader(source), parser.WithContext(ctx))
	metadata := meta.Get(ctx)

	outline := collectOutline(doc, source)

	var buf bytes.Buffer
	if err := mr.md.Renderer().Render(&buf, source, doc); err != nil {
		return mr.renderError(content, metadata, outline, err)
	}

	return RenderedContent{
		Title:          renderedTitle(outline.title, metadata),
		HTML:           template.HTML(mr.sanitizer.Sanitize(buf.String())),
		SectionHeaders: outline.sections,
		CodeWindows:    outline.codeBlocks,
		Metadata:       metadata,
	}
}

// renderError shows the error above the escaped source.
func (mr *MarkdownRenderer) renderError(content string, metadata map[string]any, outline outline, err error) RenderedContent {
	body := fmt.Sprintf(`<div class="callout danger">%s</div><pre>%s</pre>`,
		template.HTMLEscapeString(err.Error()), template.HTMLEscapeString(content))

	return RenderedContent{
		Title:          renderedTitle(outline.title, metadata),
		HTML:           template.HTML(body),
		SectionHeaders: outline.sections,
		Metadata:       metadata,
	}
}

type outline struct {
	title      string
	sections   []string
	codeBlocks int
}

func collectOutline(doc ast.Node, source []byte) outline {
	var o outline
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			heading := nodeText(node, source)
			if node.Level == 1 && o.title == "" {
				o.title = heading
			} else if node.Level == 2 {
				o.sections = append(o.sections, heading)
			}
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock:
			o.codeBlocks++
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return o
}

// nodeText concatenates the text segments below n.
func nodeText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}

// createSanitizerPolicy allows the classes and data attributes code windows rely on.
func createSanitizerPolicy() *bluemonday.Policy {
	sanitizer := bluemonday.UGCPolicy()
	sanitizer.AllowAttrs("class", "id").OnElements("span", "div", "i", "code", "pre", "p", "h1", "h2", "h3", "h4", "h5", "h6")
	sanitizer.AllowDataAttributes()

	sanitizer.AllowElements("svg")
	sanitizer.AllowAttrs("xmlns", "viewbox", "width", "height", "fill", "stroke", "stroke-width", "stroke-linecap", "stroke-linejoin").OnElements("svg", "path", "circle", "rect", "line", "polyline", "polygon")
	sanitizer.AllowAttrs("d", "cx", "cy", "r", "x", "y", "x1", "y1", "x2", "y2", "points").OnElements("path", "circle", "rect", "line", "polyline", "polygon")
	return sanitizer
}

// renderedTitle prefers a non-empty front matter title over the first heading.
// An empty result means the caller should fall back to the file label.
func renderedTitle(heading string, metadata map[string]any) string {
	if metaTitle, ok := metadata["title"].(string); ok && strings.TrimSpace(metaTitle) != "" {
		return metaTitle
	}
	return strings.TrimSpace(heading)
}
