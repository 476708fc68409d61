package extension_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/yuin/goldmark"

	"github.com/patrickward/codepane/extension"
	"github.com/patrickward/codepane/internal/assert"
	"github.com/patrickward/codepane/internal/highlight"
)

func convert(t *testing.T, md goldmark.Markdown, src string) string {
	t.Helper()

	var buf bytes.Buffer
	assert.Nil(t, md.Convert([]byte(src), &buf))
	return buf.String()
}

func TestParseFenceInfo(t *testing.T) {
	tests := []struct {
		info string
		want extension.FenceInfo
	}{
		{"", extension.FenceInfo{}},
		{"jsx", extension.FenceInfo{Language: "jsx"}},
		{"jsx App.jsx", extension.FenceInfo{Language: "jsx", Label: "App.jsx"}},
		{`go title="main.go"`, extension.FenceInfo{Language: "go", Label: "main.go"}},
		{`title="x.js" js`, extension.FenceInfo{Language: "js", Label: "x.js"}},
		{"  ts   util.ts  extra ", extension.FenceInfo{Language: "ts", Label: "util.ts"}},
	}

	for _, tt := range tests {
		t.Run(tt.info, func(t *testing.T) {
			assert.Equal(t, extension.ParseFenceInfo(tt.info), tt.want)
		})
	}
}

func TestCodeWindow_FencedBlock(t *testing.T) {
	md := goldmark.New(goldmark.WithExtensions(extension.CodeWindow))

	out := convert(t, md, "```jsx App.jsx\nconst x = 5;\nreturn <div>;\n```\n")

	assert.Contains(t, out, `class="cw-window"`)
	assert.Contains(t, out, `<span class="cw-filename">App.jsx</span>`)
	assert.Contains(t, out, `<span class="text-purple-400">const</span>`)
	assert.Contains(t, out, `<span class="text-blue-300">&lt;div&gt;</span>`)
	assert.Equal(t, strings.Count(out, `class="cw-row"`), 2)
	assert.NotContains(t, out, "<pre><code")
	assert.NotContains(t, out, "<style")
}

func TestCodeWindow_GoLanguage(t *testing.T) {
	md := goldmark.New(goldmark.WithExtensions(extension.CodeWindow))

	out := convert(t, md, "```go\nfunc main() {}\n```\n")
	assert.Contains(t, out, `<span class="text-purple-400">func</span>`)
}

func TestCodeWindow_EmptyBlock(t *testing.T) {
	md := goldmark.New(goldmark.WithExtensions(extension.CodeWindow))

	out := convert(t, md, "```\n```\n")
	assert.Equal(t, strings.Count(out, `class="cw-row"`), 1)
}

func TestCodeWindow_CustomClasses(t *testing.T) {
	classes := highlight.Classes{highlight.Keyword: "kw"}
	md := goldmark.New(goldmark.WithExtensions(extension.NewCodeWindow(classes)))

	out := convert(t, md, "```js\nlet a = 1;\n```\n")
	assert.Contains(t, out, `<span class="kw">let</span>`)
	assert.NotContains(t, out, "text-orange-400")
}

func TestCodeWindow_IndentedBlockUntouched(t *testing.T) {
	md := goldmark.New(goldmark.WithExtensions(extension.CodeWindow))

	out := convert(t, md, "    const x = 1;\n")
	assert.Contains(t, out, "<pre><code>")
	assert.NotContains(t, out, "cw-window")
}
