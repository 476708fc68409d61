package main

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/a-h/templ"

	"github.com/patrickward/codepane/internal/pages"
)

// showPageNotFound renders the 404 card inside the layout.
func (s *Server) showPageNotFound(w http.ResponseWriter, r *http.Request) {
	content, err := templ.ToGoHTML(r.Context(), pages.NotFound())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	if err := s.executePage(w, "404.html", PageData{
		Title:   pages.NotFoundTitle,
		Content: content,
	}); err != nil {
		log.Printf("Error rendering 404 page: %v", err)
	}
}

// showServerError logs err and renders the 500 page.
func (s *Server) showServerError(w http.ResponseWriter, r *http.Request, err error) {
	log.Printf("Server error on %s %s: %v", r.Method, r.URL.Path, err)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	if err := s.executePage(w, "500.html", PageData{
		Title:        "Server Error",
		ErrorMessage: err.Error(),
	}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) respondWithJSON(w http.ResponseWriter, payload any, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) respondWithJSONError(w http.ResponseWriter, message string, code int) {
	s.respondWithJSON(w, errorResponse{Error: message}, code)
}
