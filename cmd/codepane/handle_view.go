package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/patrickward/codepane"
	"github.com/patrickward/codepane/internal/codewindow"
	"github.com/patrickward/codepane/internal/rendering"
)

// handleIndex lists snippets, optionally filtered to one directory.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.repo.ReloadIfStale(s.cfg.RefreshInterval)

	tree := s.repo.Tree()
	dir := strings.Trim(r.URL.Query().Get("dir"), "/")
	if dir != "" {
		node := tree.FindDirectory(dir)
		if node == nil {
			s.showPageNotFound(w, r)
			return
		}
		tree = node
	}

	data := PageData{
		Title:     "Snippets",
		Tree:      tree,
		Directory: dir,
		Flash:     s.flash.Get(w, r),
	}

	if err := s.executePage(w, "index.html", data); err != nil {
		s.showServerError(w, r, err)
	}
}

// handleSnippet shows a snippet as a code window, or a Markdown snippet as a document.
func (s *Server) handleSnippet(w http.ResponseWriter, r *http.Request) {
	snippet, ok := s.loadSnippet(w, r)
	if !ok {
		return
	}

	ctx := templ.InitializeContext(r.Context())

	data := PageData{
		Title:   snippet.Info.Label,
		Current: snippet.Info,
		Flash:   s.flash.Get(w, r),
	}

	page := "snippet.html"
	if snippet.Info.IsMarkdown() {
		rendered := s.renderer.Render(snippet.Content)
		if rendered.Title != "" {
			data.Title = rendered.Title
		}
		data.Content = rendered.HTML
		data.SectionHeaders = rendered.SectionHeaders
		data.Properties = rendered.Properties()
		page = "document.html"

		// Documents without fenced code need no window styles.
		if rendered.CodeWindows > 0 {
			assets, err := templ.ToGoHTML(ctx, codewindow.Assets())
			if err != nil {
				s.showServerError(w, r, err)
				return
			}
			data.Assets = assets
		}
	} else {
		assets, err := templ.ToGoHTML(ctx, codewindow.Assets())
		if err != nil {
			s.showServerError(w, r, err)
			return
		}
		data.Assets = assets

		// Assets were already written for ctx, so Component adds only the panel.
		content, err := templ.ToGoHTML(ctx, windowFor(snippet).Component())
		if err != nil {
			s.showServerError(w, r, err)
			return
		}
		data.Content = content
	}

	if err := s.executePage(w, page, data); err != nil {
		s.showServerError(w, r, err)
	}
}

// handleEmbed serves a bare fragment for iframes: assets plus the window or document.
func (s *Server) handleEmbed(w http.ResponseWriter, r *http.Request) {
	snippet, ok := s.loadSnippet(w, r)
	if !ok {
		return
	}

	var component templ.Component
	if snippet.Info.IsMarkdown() {
		component = documentComponent(s.renderer.Render(snippet.Content))
	} else {
		component = windowFor(snippet).Component()
	}

	templ.Handler(component).ServeHTTP(w, r.WithContext(templ.InitializeContext(r.Context())))
}

// loadSnippet resolves the {id...} path value. It writes the 404 or 500
// response itself and reports false when the caller should stop.
func (s *Server) loadSnippet(w http.ResponseWriter, r *http.Request) (codepane.Snippet, bool) {
	id := strings.Trim(r.PathValue("id"), "/")
	snippet, err := s.repo.Get(id)
	if err != nil {
		if errors.Is(err, codepane.ErrSnippetNotFound) {
			s.showPageNotFound(w, r)
		} else {
			s.showServerError(w, r, err)
		}
		return codepane.Snippet{}, false
	}
	return snippet, true
}

func windowFor(snippet codepane.Snippet) *codewindow.Window {
	return codewindow.New(codewindow.Source{
		Code:     snippet.Content,
		Filename: snippet.Info.Label,
	})
}

// documentComponent writes the sanitised document HTML, preceded by the
// code-window assets when the document contains code windows.
func documentComponent(rendered rendering.RenderedContent) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if rendered.CodeWindows > 0 {
			if err := codewindow.Assets().Render(ctx, w); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `<article class="document">`); err != nil {
			return err
		}
		if _, err := io.WriteString(w, string(rendered.HTML)); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</article>`)
		return err
	})
}
