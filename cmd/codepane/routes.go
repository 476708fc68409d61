package main

import (
	"net/http"

	"github.com/patrickward/codepane"
	"github.com/patrickward/codepane/internal/codewindow"
)

func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /static/codewindow/", http.StripPrefix("/static/codewindow/", http.FileServer(http.FS(codewindow.AssetsFS))))
	mux.Handle("GET /static/", http.FileServer(http.FS(codepane.StaticFS)))

	if s.hub != nil {
		mux.Handle("GET /livereload", s.hub)
	}

	mux.HandleFunc("POST /api/render", s.handleRenderAPI)
	mux.HandleFunc("POST /snippets", s.handleCreateSnippet)
	mux.HandleFunc("GET /s/{id...}", s.handleSnippet)
	mux.HandleFunc("GET /embed/{id...}", s.handleEmbed)
	mux.HandleFunc("GET /{$}", s.handleIndex)

	// Everything else gets the 404 card.
	mux.HandleFunc("/", s.showPageNotFound)

	return mux
}
