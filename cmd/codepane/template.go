package main

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/patrickward/codepane"
)

func customFuncs() template.FuncMap {
	return template.FuncMap{
		"title":     codepane.TitleCase,
		"hasSuffix": strings.HasSuffix,
		"toLower":   strings.ToLower,
	}
}

func parseTemplates() (*template.Template, error) {
	return template.New("").Funcs(customFuncs()).ParseFS(codepane.TemplateFS,
		"templates/layouts/*.html",
		"templates/partials/*.html",
	)
}

// executePage renders a page from templates/pages inside the base layout.
func (s *Server) executePage(w http.ResponseWriter, page string, data PageData) error {
	// Clone so each page can define its own "content" block.
	tmpl, err := s.baseTempl.Clone()
	if err != nil {
		return err
	}

	if !strings.HasSuffix(page, ".html") {
		page = page + ".html"
	}

	tmpl, err = tmpl.ParseFS(codepane.TemplateFS, fmt.Sprintf("templates/pages/%s", page))
	if err != nil {
		return err
	}

	data.LiveReload = s.hub != nil
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return tmpl.ExecuteTemplate(w, page, data)
}
