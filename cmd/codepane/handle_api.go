package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/a-h/templ"

	"github.com/patrickward/codepane/internal/codewindow"
	"github.com/patrickward/codepane/internal/highlight"
)

const maxBodyBytes = 1 << 20

// handleRenderAPI renders posted code as a code-window fragment.
func (s *Server) handleRenderAPI(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req renderRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.respondWithJSONError(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		s.respondWithJSONError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	var opts []codewindow.Option
	if req.Language != "" {
		lang, ok := highlight.Lookup(req.Language)
		if !ok {
			s.respondWithJSONError(w, fmt.Sprintf("unknown language %q", req.Language), http.StatusBadRequest)
			return
		}
		opts = append(opts, codewindow.WithLanguage(lang))
	}

	window := codewindow.New(codewindow.Source{Code: req.Code, Filename: req.Filename}, opts...)
	html, err := templ.ToGoHTML(r.Context(), window.Fragment())
	if err != nil {
		s.respondWithJSONError(w, "render failed", http.StatusInternalServerError)
		return
	}

	s.respondWithJSON(w, renderResponse{
		HTML:     string(html),
		Lines:    len(window.Rows()),
		Language: window.Language().Name,
	}, http.StatusOK)
}
