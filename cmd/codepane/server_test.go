package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/patrickward/codepane/internal/assert"
	"github.com/patrickward/codepane/internal/config"
	"github.com/patrickward/codepane/internal/livereload"
)

func setupServer(t *testing.T, opts ...ServerOption) (*Server, string) {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		"App.jsx":         "import React from 'react';\nconst x = 5;\n",
		"notes/plain.md":  "# Plain\n\nNo code here.\n",
		"notes/readme.md": "---\ntitle: Notes\nowner: docs\n---\n# Heading\n\n## Part\n\n```go main.go\nfunc main() {}\n```\n",
	}
	for name, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(name))
		assert.Nil(t, os.MkdirAll(filepath.Dir(full), 0755))
		assert.Nil(t, os.WriteFile(full, []byte(content), 0644))
	}

	cfg := &config.Config{
		Addr:            "localhost",
		Port:            0,
		DataDir:         dir,
		RefreshInterval: time.Hour,
	}

	s, err := NewServer(context.Background(), cfg, opts...)
	assert.Nil(t, err)
	t.Cleanup(s.worker.Shutdown)
	return s, dir
}

func doRequest(t *testing.T, s *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	s.setupRoutes().ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	return doRequest(t, s, httptest.NewRequest(http.MethodGet, path, nil))
}

func TestHandleIndex(t *testing.T) {
	s, _ := setupServer(t)

	rec := get(t, s, "/")
	assert.Equal(t, rec.Code, http.StatusOK)

	body := rec.Body.String()
	assert.Contains(t, body, `<a href="/s/App.jsx">App.jsx</a>`)
	assert.Contains(t, body, `href="/s/notes/readme.md"`)
	assert.Contains(t, body, `action="/snippets"`)
	assert.NotContains(t, body, "livereload.js")
}

func TestHandleIndex_DirectoryFilter(t *testing.T) {
	s, _ := setupServer(t)

	rec := get(t, s, "/?dir=notes")
	assert.Equal(t, rec.Code, http.StatusOK)
	assert.Contains(t, rec.Body.String(), "readme.md")
	assert.NotContains(t, rec.Body.String(), `href="/s/App.jsx"`)

	rec = get(t, s, "/?dir=missing")
	assert.Equal(t, rec.Code, http.StatusNotFound)
}

func TestHandleSnippet_Code(t *testing.T) {
	s, _ := setupServer(t)

	rec := get(t, s, "/s/App.jsx")
	assert.Equal(t, rec.Code, http.StatusOK)

	body := rec.Body.String()
	assert.Contains(t, body, `<span class="cw-filename">App.jsx</span>`)
	assert.Contains(t, body, `<span class="text-purple-400">import</span>`)
	assert.Contains(t, body, `<span class="cw-line-number">3</span>`)
	assert.Equal(t, strings.Count(body, "<style"), 1)
	assert.Equal(t, strings.Count(body, "<script"), 1)
}

func TestHandleSnippet_Markdown(t *testing.T) {
	s, _ := setupServer(t)

	rec := get(t, s, "/s/notes/readme.md")
	assert.Equal(t, rec.Code, http.StatusOK)

	body := rec.Body.String()
	assert.Contains(t, body, "<title>Notes · codepane</title>")
	assert.Contains(t, body, `<article class="document">`)
	assert.Contains(t, body, `<span class="cw-filename">main.go</span>`)
	assert.Contains(t, body, `<span class="text-purple-400">func</span>`)
	assert.Contains(t, body, `<nav class="toc">Part</nav>`)
	assert.Contains(t, body, `<dl class="properties"><dt>owner</dt><dd>docs</dd></dl>`)
	assert.NotContains(t, body, "<dt>title</dt>")
	assert.Equal(t, strings.Count(body, "<style"), 1)
}

func TestHandleSnippet_MarkdownWithoutCodeSkipsAssets(t *testing.T) {
	s, _ := setupServer(t)

	rec := get(t, s, "/s/notes/plain.md")
	assert.Equal(t, rec.Code, http.StatusOK)
	assert.Contains(t, rec.Body.String(), "No code here.")
	assert.NotContains(t, rec.Body.String(), "<style")
	assert.NotContains(t, rec.Body.String(), "<script")
	assert.NotContains(t, rec.Body.String(), `class="properties"`)

	rec = get(t, s, "/embed/notes/plain.md")
	assert.Equal(t, rec.Code, http.StatusOK)
	assert.True(t, strings.HasPrefix(rec.Body.String(), `<article class="document">`))
}

func TestHandleSnippet_NotFound(t *testing.T) {
	s, _ := setupServer(t)

	for _, path := range []string{"/s/missing.js", "/embed/missing.js", "/no/such/route"} {
		t.Run(path, func(t *testing.T) {
			rec := get(t, s, path)
			assert.Equal(t, rec.Code, http.StatusNotFound)
			assert.Contains(t, rec.Body.String(), "<h1>404 Page Not Found</h1>")
			assert.Contains(t, rec.Body.String(), "Did you forget to add the page to the router?")
		})
	}
}

func TestHandleEmbed(t *testing.T) {
	s, _ := setupServer(t)

	rec := get(t, s, "/embed/App.jsx")
	assert.Equal(t, rec.Code, http.StatusOK)

	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "<style"))
	assert.NotContains(t, body, "<html")
	assert.Contains(t, body, `class="cw-window"`)

	rec = get(t, s, "/embed/notes/readme.md")
	assert.Equal(t, rec.Code, http.StatusOK)
	assert.Contains(t, rec.Body.String(), `<article class="document">`)
}

func TestHandleRenderAPI(t *testing.T) {
	s, _ := setupServer(t)

	body := `{"filename":"<App>.jsx","code":"const a = 1;\nlet b = 'x';\n","language":"js"}`
	req := httptest.NewRequest(http.MethodPost, "/api/render", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := doRequest(t, s, req)

	assert.Equal(t, rec.Code, http.StatusOK)
	assert.Equal(t, rec.Header().Get("Content-Type"), "application/json")

	var resp renderResponse
	assert.Nil(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, resp.Lines, 3)
	assert.Equal(t, resp.Language, "javascript")
	assert.Contains(t, resp.HTML, `<span class="cw-filename">&lt;App&gt;.jsx</span>`)
	assert.Contains(t, resp.HTML, `<span class="text-green-300">&#39;x&#39;</span>`)
	assert.NotContains(t, resp.HTML, "<style")
}

func TestHandleRenderAPI_Errors(t *testing.T) {
	s, _ := setupServer(t)

	tests := []struct {
		name string
		body string
		code int
	}{
		{"invalid json", `{"code":`, http.StatusBadRequest},
		{"unknown field", `{"code":"x","extra":1}`, http.StatusBadRequest},
		{"unknown language", `{"code":"x","language":"cobol"}`, http.StatusBadRequest},
		{"too large", `{"code":"` + strings.Repeat("a", maxBodyBytes) + `"}`, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/render", strings.NewReader(tt.body))
			rec := doRequest(t, s, req)
			assert.Equal(t, rec.Code, tt.code)

			var resp errorResponse
			assert.Nil(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.True(t, resp.Error != "")
		})
	}
}

func postForm(t *testing.T, s *Server, values url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/snippets", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return doRequest(t, s, req)
}

func TestHandleCreateSnippet(t *testing.T) {
	hub := livereload.NewHub()
	t.Cleanup(hub.Shutdown)
	s, dir := setupServer(t, WithLiveReload(hub))

	rec := postForm(t, s, url.Values{"filename": {"new/Widget.tsx"}, "code": {"export default Widget;"}})
	assert.Equal(t, rec.Code, http.StatusSeeOther)
	assert.Equal(t, rec.Header().Get("Location"), "/s/new/Widget.tsx")

	content, err := os.ReadFile(filepath.Join(dir, "new", "Widget.tsx"))
	assert.Nil(t, err)
	assert.Equal(t, string(content), "export default Widget;")

	// Follow the redirect with the flash cookie.
	req := httptest.NewRequest(http.MethodGet, "/s/new/Widget.tsx", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	page := doRequest(t, s, req)
	assert.Equal(t, page.Code, http.StatusOK)
	assert.Contains(t, page.Body.String(), "Saved new/Widget.tsx")
	assert.Contains(t, page.Body.String(), "livereload.js")
}

func TestHandleCreateSnippet_Errors(t *testing.T) {
	s, _ := setupServer(t)

	tests := []struct {
		name     string
		filename string
		message  string
	}{
		{"empty", "", "File name cannot be empty"},
		{"traversal", "../evil.js", "File name must use only"},
		{"exists", "App.jsx", "App.jsx already exists"},
		{"no keys", "secret.js.age", "Encryption keys are not configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postForm(t, s, url.Values{"filename": {tt.filename}, "code": {"x"}})
			assert.Equal(t, rec.Code, http.StatusSeeOther)
			assert.Equal(t, rec.Header().Get("Location"), "/")

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for _, c := range rec.Result().Cookies() {
				req.AddCookie(c)
			}
			index := doRequest(t, s, req)
			assert.Contains(t, index.Body.String(), `class="flash flash-danger"`)
			assert.Contains(t, index.Body.String(), tt.message)
		})
	}
}

func TestStaticFiles(t *testing.T) {
	s, _ := setupServer(t)

	for _, path := range []string{"/static/css/app.css", "/static/js/livereload.js", "/static/codewindow/codewindow.css", "/static/codewindow/glow.js"} {
		t.Run(path, func(t *testing.T) {
			rec := get(t, s, path)
			assert.Equal(t, rec.Code, http.StatusOK)
		})
	}
}

func TestRunRender(t *testing.T) {
	var out bytes.Buffer
	err := runRender(context.Background(), strings.NewReader("let a = 1;\nlet b = 2;"), &out, "-", renderOptions{filename: "a.js"})
	assert.Nil(t, err)

	html := out.String()
	assert.Equal(t, strings.Count(html, "<style"), 1)
	assert.Equal(t, strings.Count(html, `class="cw-row"`), 2)
	assert.Contains(t, html, `<span class="cw-filename">a.js</span>`)

	out.Reset()
	err = runRender(context.Background(), strings.NewReader("x"), &out, "-", renderOptions{fragment: true})
	assert.Nil(t, err)
	assert.NotContains(t, out.String(), "<style")

	err = runRender(context.Background(), strings.NewReader("x"), io.Discard, "-", renderOptions{language: "cobol"})
	assert.NotNil(t, err)
}

func TestRunRender_Markdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.md")
	assert.Nil(t, os.WriteFile(path, []byte("# Doc\n\n```js\nconst x = 1;\n```\n"), 0644))

	var out bytes.Buffer
	assert.Nil(t, runRender(context.Background(), nil, &out, path, renderOptions{}))
	assert.Contains(t, out.String(), `<article class="document">`)
	assert.Contains(t, out.String(), `class="cw-window"`)
	assert.Equal(t, strings.Count(out.String(), "<style"), 1)

	plain := filepath.Join(t.TempDir(), "plain.md")
	assert.Nil(t, os.WriteFile(plain, []byte("# Plain\n"), 0644))

	out.Reset()
	assert.Nil(t, runRender(context.Background(), nil, &out, plain, renderOptions{}))
	assert.NotContains(t, out.String(), "<style")
}

func TestVersionCommand(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	assert.Nil(t, cmd.Execute())
	assert.Equal(t, out.String(), "codepane version 0.1.0\n")
}

func TestKeysGenerateCommand(t *testing.T) {
	t.Setenv("CODEPANE_CONFIG", "")
	keysDir := filepath.Join(t.TempDir(), "keys")

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"keys", "generate", "--keys-dir", keysDir, "--data", t.TempDir()})

	assert.Nil(t, cmd.Execute())
	assert.Contains(t, out.String(), "Public key: age1")

	entries, err := os.ReadDir(keysDir)
	assert.Nil(t, err)
	assert.Equal(t, len(entries), 2)
}
